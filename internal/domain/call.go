package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// EntityKind identifica o tipo de entidade que o normalizador deve
// produzir a partir do payload bruto do Graph.
type EntityKind string

const (
	EntityAccount      EntityKind = "account"
	EntityAccountList  EntityKind = "account_list"
	EntityCampaign     EntityKind = "campaign"
	EntityCampaignList EntityKind = "campaign_list"
	EntityAdSetList    EntityKind = "adset_list"
	EntityAdList       EntityKind = "ad_list"
	EntityInsights     EntityKind = "insights"
	EntityCreativeList EntityKind = "creative_list"
	EntityRaw          EntityKind = "raw"
)

// CallRequest descreve uma chamada vinda da camada de invocação de
// ferramentas. Parameters são parâmetros nomeados (ordem irrelevante);
// Fields é a única lista explicitamente ordenada.
type CallRequest struct {
	Endpoint       string            `json:"endpoint"`
	ObjectID       string            `json:"object_id"`
	Kind           EntityKind        `json:"kind"`
	Parameters     map[string]string `json:"parameters"`
	Fields         []string          `json:"fields"`
	RequiredScopes []string          `json:"required_scopes"`
}

var (
	accountIDPattern = regexp.MustCompile(`^(act_\d+|\d{15,18})$`)
	objectIDPattern  = regexp.MustCompile(`^\d{15,18}$`)
)

// Validate valida a forma da requisição antes de qualquer uso de
// credencial ou chamada remota
func (r *CallRequest) Validate() error {
	if r.Endpoint == "" {
		return NewError(KindInvalidRequest, "endpoint is required")
	}
	if !strings.HasPrefix(r.Endpoint, "/") {
		return NewError(KindInvalidRequest, "endpoint must start with '/'")
	}

	if r.ObjectID != "" {
		if strings.HasPrefix(r.ObjectID, "act_") || r.Kind == EntityAccount {
			if !accountIDPattern.MatchString(r.ObjectID) {
				return NewError(KindInvalidRequest,
					fmt.Sprintf("account id %q must be act_<digits> or 15-18 digits", r.ObjectID))
			}
		} else if !objectIDPattern.MatchString(r.ObjectID) {
			return NewError(KindInvalidRequest,
				fmt.Sprintf("object id %q must be 15-18 digits", r.ObjectID))
		}
	}

	switch r.Kind {
	case EntityAccount, EntityAccountList, EntityCampaign, EntityCampaignList,
		EntityAdSetList, EntityAdList, EntityInsights, EntityCreativeList, EntityRaw, "":
	default:
		return NewError(KindInvalidRequest, fmt.Sprintf("unknown entity kind %q", r.Kind))
	}

	return nil
}

// NormalizeAccountID garante o prefixo act_ quando o id é numérico
func NormalizeAccountID(accountID string) string {
	accountID = strings.TrimSpace(accountID)
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	if accountID != "" && strings.IndexFunc(accountID, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		return "act_" + accountID
	}
	return accountID
}

// CallResult é a resposta normalizada devolvida ao chamador. Os
// valores armazenados no cache são imutáveis: quem recebe trata como
// somente leitura.
type CallResult struct {
	Kind      EntityKind   `json:"kind"`
	Account   *Account     `json:"account,omitempty"`
	Accounts  []Account    `json:"accounts,omitempty"`
	Campaign  *Campaign    `json:"campaign,omitempty"`
	Campaigns []Campaign   `json:"campaigns,omitempty"`
	AdSets    []AdSet      `json:"adsets,omitempty"`
	Ads       []Ad         `json:"ads,omitempty"`
	Insights  []InsightRow `json:"insights,omitempty"`
	Creatives []Creative   `json:"creatives,omitempty"`
	Raw       []byte       `json:"raw,omitempty"`
}
