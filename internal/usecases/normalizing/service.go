// Package normalizing converte os payloads brutos do Graph para as
// entidades canônicas do domínio. A conversão é uma função pura dos
// bytes de entrada: mesma resposta bruta, mesmo resultado.
package normalizing

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	metadomain "github.com/vfg2006/meta-ads-gateway/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-gateway/internal/domain"
	"github.com/vfg2006/meta-ads-gateway/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Normalizer transforma uma resposta bruta do remoto na representação
// canônica do tipo de entidade pedido
type Normalizer interface {
	Normalize(kind domain.EntityKind, raw []byte) (*domain.CallResult, error)
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Normalize despacha o payload para o conversor do tipo pedido.
// Qualquer payload que não tenha a forma esperada vira erro de
// resposta malformada, nunca um resultado parcial.
func (s *Service) Normalize(kind domain.EntityKind, raw []byte) (*domain.CallResult, error) {
	result, err := s.normalize(kind, raw)
	if err != nil {
		return nil, domain.WrapError(domain.KindMalformedResponse,
			fmt.Sprintf("resposta do remoto não tem a forma esperada para %q", kind), err)
	}

	return result, nil
}

func (s *Service) normalize(kind domain.EntityKind, raw []byte) (*domain.CallResult, error) {
	switch kind {
	case domain.EntityAccount:
		account, err := normalizeAccount(raw)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Account: account}, nil

	case domain.EntityAccountList:
		accounts, err := normalizeList(raw, normalizeAccount)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Accounts: deref(accounts)}, nil

	case domain.EntityCampaign:
		campaign, err := normalizeCampaign(raw)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Campaign: campaign}, nil

	case domain.EntityCampaignList:
		campaigns, err := normalizeList(raw, normalizeCampaign)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Campaigns: deref(campaigns)}, nil

	case domain.EntityAdSetList:
		adsets, err := normalizeList(raw, normalizeAdSet)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, AdSets: deref(adsets)}, nil

	case domain.EntityAdList:
		ads, err := normalizeList(raw, normalizeAd)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Ads: deref(ads)}, nil

	case domain.EntityCreativeList:
		creatives, err := normalizeList(raw, normalizeCreative)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Creatives: deref(creatives)}, nil

	case domain.EntityInsights:
		insights, err := normalizeList(raw, normalizeInsight)
		if err != nil {
			return nil, err
		}
		return &domain.CallResult{Kind: kind, Insights: deref(insights)}, nil

	case domain.EntityRaw, "":
		// passthrough deliberado para endpoints sem conversor
		return &domain.CallResult{Kind: domain.EntityRaw, Raw: raw}, nil

	default:
		return nil, errors.Errorf("tipo de entidade desconhecido: %q", kind)
	}
}

// normalizeList aplica o conversor de item a cada elemento do
// envelope de listagem. Um item malformado invalida a lista inteira.
func normalizeList[T any](raw []byte, item func([]byte) (*T, error)) ([]*T, error) {
	var envelope metadomain.ListEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "decodificando envelope de listagem")
	}

	out := make([]*T, 0, len(envelope.Data))
	for i, rawItem := range envelope.Data {
		converted, err := item(rawItem)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		out = append(out, converted)
	}

	return out, nil
}

func deref[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out
}

func normalizeAccount(raw []byte) (*domain.Account, error) {
	var acc metadomain.RawAccount
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, errors.Wrap(err, "decodificando conta")
	}

	if acc.ID == "" {
		return nil, errors.New("conta sem id")
	}
	if acc.AccountStatus == nil {
		return nil, errors.New("conta sem account_status")
	}

	// balance e spend_cap já chegam em centavos
	balance, err := parseCentsString(acc.Balance)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	spendCap, err := parseCentsString(acc.SpendCap)
	if err != nil {
		return nil, errors.Wrap(err, "spend_cap")
	}

	return &domain.Account{
		ID:            domain.NormalizeAccountID(acc.ID),
		ExternalID:    acc.AccountID,
		Name:          acc.Name,
		Currency:      acc.Currency,
		Status:        domain.AccountStatus(*acc.AccountStatus),
		BalanceCents:  balance,
		SpendCapCents: spendCap,
		Timezone:      acc.TimezoneName,
	}, nil
}

func normalizeCampaign(raw []byte) (*domain.Campaign, error) {
	var c metadomain.RawCampaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "decodificando campanha")
	}

	if c.ID == "" {
		return nil, errors.New("campanha sem id")
	}

	daily, err := parseCentsString(c.DailyBudget)
	if err != nil {
		return nil, errors.Wrap(err, "daily_budget")
	}
	lifetime, err := parseCentsString(c.LifetimeBudget)
	if err != nil {
		return nil, errors.Wrap(err, "lifetime_budget")
	}

	return &domain.Campaign{
		ID:                  c.ID,
		AccountID:           domain.NormalizeAccountID(c.AccountID),
		Name:                c.Name,
		Status:              c.Status,
		Objective:           c.Objective,
		DailyBudgetCents:    daily,
		LifetimeBudgetCents: lifetime,
		CreatedTime:         c.CreatedTime,
		UpdatedTime:         c.UpdatedTime,
	}, nil
}

func normalizeAdSet(raw []byte) (*domain.AdSet, error) {
	var a metadomain.RawAdSet
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.Wrap(err, "decodificando conjunto de anúncios")
	}

	if a.ID == "" {
		return nil, errors.New("conjunto sem id")
	}

	daily, err := parseCentsString(a.DailyBudget)
	if err != nil {
		return nil, errors.Wrap(err, "daily_budget")
	}
	lifetime, err := parseCentsString(a.LifetimeBudget)
	if err != nil {
		return nil, errors.Wrap(err, "lifetime_budget")
	}

	return &domain.AdSet{
		ID:                  a.ID,
		CampaignID:          a.CampaignID,
		AccountID:           domain.NormalizeAccountID(a.AccountID),
		Name:                a.Name,
		Status:              a.Status,
		OptimizationGoal:    a.OptimizationGoal,
		BillingEvent:        a.BillingEvent,
		DailyBudgetCents:    daily,
		LifetimeBudgetCents: lifetime,
	}, nil
}

func normalizeAd(raw []byte) (*domain.Ad, error) {
	var a metadomain.RawAd
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.Wrap(err, "decodificando anúncio")
	}

	if a.ID == "" {
		return nil, errors.New("anúncio sem id")
	}

	ad := &domain.Ad{
		ID:         a.ID,
		AdSetID:    a.AdSetID,
		CampaignID: a.CampaignID,
		AccountID:  domain.NormalizeAccountID(a.AccountID),
		Name:       a.Name,
		Status:     a.Status,
	}
	if a.Creative != nil {
		ad.CreativeID = a.Creative.ID
	}

	return ad, nil
}

func normalizeCreative(raw []byte) (*domain.Creative, error) {
	var c metadomain.RawCreative
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "decodificando criativo")
	}

	if c.ID == "" {
		return nil, errors.New("criativo sem id")
	}

	creative := &domain.Creative{
		ID:       c.ID,
		Name:     c.Name,
		Title:    c.Title,
		Body:     c.Body,
		ImageURL: c.ImageURL,
		LinkURL:  c.LinkURL,
	}
	if c.CallToAction != nil {
		creative.CallToAction = c.CallToAction.Type
	}

	return creative, nil
}

// normalizeInsight converte uma linha de métricas. spend/impressions/
// clicks são obrigatórios; uma linha sem eles é malformada, não uma
// linha zerada. As métricas derivadas são sempre recalculadas a
// partir dos valores base, ignorando as razões que o Graph manda.
func normalizeInsight(raw []byte) (*domain.InsightRow, error) {
	var r metadomain.RawInsight
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, errors.Wrap(err, "decodificando linha de insights")
	}

	if r.Spend == nil {
		return nil, errors.New("linha de insights sem spend")
	}
	if r.Impressions == nil {
		return nil, errors.New("linha de insights sem impressions")
	}
	if r.Clicks == nil {
		return nil, errors.New("linha de insights sem clicks")
	}

	// spend chega em unidades da moeda ("12.34"), não em centavos
	spendCents, err := parseMoneyToCents(*r.Spend)
	if err != nil {
		return nil, errors.Wrap(err, "spend")
	}
	impressions, err := parseCount(*r.Impressions)
	if err != nil {
		return nil, errors.Wrap(err, "impressions")
	}
	clicks, err := parseCount(*r.Clicks)
	if err != nil {
		return nil, errors.Wrap(err, "clicks")
	}
	reach, err := parseOptionalCount(r.Reach)
	if err != nil {
		return nil, errors.Wrap(err, "reach")
	}
	frequency, err := parseOptionalRatio(r.Frequency)
	if err != nil {
		return nil, errors.Wrap(err, "frequency")
	}

	row := &domain.InsightRow{
		SubjectID:   subjectID(&r),
		SubjectName: subjectName(&r),
		DateStart:   r.DateStart,
		DateStop:    r.DateStop,
		SpendCents:  spendCents,
		Impressions: impressions,
		Clicks:      clicks,
		Reach:       reach,
		Frequency:   frequency,
		Objective:   r.Objective,
	}

	conversions, valueCents, err := principalResult(&r)
	if err != nil {
		return nil, err
	}
	row.Conversions = conversions
	row.ConversionValueCents = valueCents

	deriveMetrics(row)

	return row, nil
}

// deriveMetrics recalcula CTR, CPC, CPM, custo por resultado e ROAS a
// partir dos valores base. Toda razão com denominador zero vale zero;
// em particular ROAS é zero quando o gasto é zero, mesmo com valor de
// conversão positivo.
func deriveMetrics(row *domain.InsightRow) {
	if row.Impressions > 0 {
		row.CTR = utils.RoundWithTwoDecimalPlace(float64(row.Clicks) / float64(row.Impressions) * 100)
		row.CPMCents = row.SpendCents * 1000 / row.Impressions
	} else {
		row.CTR = 0
		row.CPMCents = 0
	}

	if row.Clicks > 0 {
		row.CPCCents = row.SpendCents / row.Clicks
	} else {
		row.CPCCents = 0
	}

	if row.Conversions > 0 {
		row.CostPerResultCents = row.SpendCents / row.Conversions
	} else {
		row.CostPerResultCents = 0
	}

	if row.SpendCents > 0 {
		row.ROAS = utils.RoundWithTwoDecimalPlace(float64(row.ConversionValueCents) / float64(row.SpendCents))
	} else {
		row.ROAS = 0
	}
}

// principalResult extrai conversões e valor de conversão da lista de
// actions, usando o action_type associado ao objetivo da campanha
func principalResult(r *metadomain.RawInsight) (int64, int64, error) {
	actionType, ok := domain.MetaObjectiveToActionType[r.Objective]
	if !ok {
		return 0, 0, nil
	}

	var conversions, valueCents int64

	for _, action := range r.Actions {
		if action.ActionType == actionType {
			count, err := parseCount(action.Value)
			if err != nil {
				return 0, 0, errors.Wrapf(err, "action %s", action.ActionType)
			}
			conversions = count
			break
		}
	}

	for _, action := range r.ActionValues {
		if action.ActionType == actionType {
			cents, err := parseMoneyToCents(action.Value)
			if err != nil {
				return 0, 0, errors.Wrapf(err, "action_value %s", action.ActionType)
			}
			valueCents = cents
			break
		}
	}

	return conversions, valueCents, nil
}

func subjectID(r *metadomain.RawInsight) string {
	switch {
	case r.AdID != "":
		return r.AdID
	case r.AdSetID != "":
		return r.AdSetID
	case r.CampaignID != "":
		return r.CampaignID
	default:
		return domain.NormalizeAccountID(r.AccountID)
	}
}

func subjectName(r *metadomain.RawInsight) string {
	switch {
	case r.AdName != "":
		return r.AdName
	case r.CampaignName != "":
		return r.CampaignName
	default:
		return r.AccountName
	}
}

// parseMoneyToCents converte um valor em unidades da moeda ("12.34")
// para centavos, com arredondamento bancário via decimal para não
// acumular erro de float
func parseMoneyToCents(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Wrapf(err, "valor monetário inválido %q", value)
	}

	return d.Shift(2).Round(0).IntPart(), nil
}

// parseCentsString converte um valor que o Graph já manda em centavos
func parseCentsString(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Wrapf(err, "valor em centavos inválido %q", value)
	}

	return d.Round(0).IntPart(), nil
}

func parseCount(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Wrapf(err, "contagem inválida %q", value)
	}

	return d.Round(0).IntPart(), nil
}

func parseOptionalCount(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	return parseCount(value)
}

func parseOptionalRatio(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, errors.Wrapf(err, "razão inválida %q", value)
	}

	f, _ := d.Float64()

	return f, nil
}
