package metadomain

import "encoding/json"

// ListEnvelope é o envelope de listagem do Graph: {"data": [...], "paging": {...}}
type ListEnvelope struct {
	Data   []json.RawMessage `json:"data"`
	Paging *Paging           `json:"paging,omitempty"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// Action é o par action_type/value das listas de ações do Graph.
// Os valores chegam como strings.
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// RawAccount é a conta de anúncios como o Graph a devolve.
// balance e spend_cap já vêm em centavos, como strings.
type RawAccount struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	AccountStatus *int  `json:"account_status"`
	Balance      string `json:"balance"`
	SpendCap     string `json:"spend_cap"`
	TimezoneName string `json:"timezone_name"`
}

// RawCampaign é a campanha como o Graph a devolve. Orçamentos em
// centavos, como strings.
type RawCampaign struct {
	ID             string `json:"id"`
	AccountID      string `json:"account_id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Objective      string `json:"objective"`
	DailyBudget    string `json:"daily_budget"`
	LifetimeBudget string `json:"lifetime_budget"`
	CreatedTime    string `json:"created_time"`
	UpdatedTime    string `json:"updated_time"`
}

// RawAdSet é o conjunto de anúncios como o Graph o devolve
type RawAdSet struct {
	ID               string `json:"id"`
	CampaignID       string `json:"campaign_id"`
	AccountID        string `json:"account_id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	OptimizationGoal string `json:"optimization_goal"`
	BillingEvent     string `json:"billing_event"`
	DailyBudget      string `json:"daily_budget"`
	LifetimeBudget   string `json:"lifetime_budget"`
}

// RawAd é o anúncio como o Graph o devolve
type RawAd struct {
	ID         string `json:"id"`
	AdSetID    string `json:"adset_id"`
	CampaignID string `json:"campaign_id"`
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Creative   *struct {
		ID string `json:"id"`
	} `json:"creative"`
}

// RawCreative é o criativo como o Graph o devolve
type RawCreative struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	ImageURL     string `json:"image_url"`
	LinkURL      string `json:"link_url"`
	CallToAction *struct {
		Type string `json:"type"`
	} `json:"call_to_action"`
}

// RawInsight é a linha de insights como o Graph a devolve. Quase tudo
// chega codificado como string, inclusive números.
type RawInsight struct {
	AccountID    string   `json:"account_id"`
	AccountName  string   `json:"account_name"`
	CampaignID   string   `json:"campaign_id"`
	CampaignName string   `json:"campaign_name"`
	AdSetID      string   `json:"adset_id"`
	AdID         string   `json:"ad_id"`
	AdName       string   `json:"ad_name"`
	Objective    string   `json:"objective"`
	Spend        *string  `json:"spend"`
	Impressions  *string  `json:"impressions"`
	Clicks       *string  `json:"clicks"`
	Reach        string   `json:"reach"`
	CTR          string   `json:"ctr"`
	CPC          string   `json:"cpc"`
	CPM          string   `json:"cpm"`
	Frequency    string   `json:"frequency"`
	Actions      []Action `json:"actions"`
	ActionValues []Action `json:"action_values"`
	CostPerActionType []Action `json:"cost_per_action_type"`
	DateStart    string   `json:"date_start"`
	DateStop     string   `json:"date_stop"`
}
