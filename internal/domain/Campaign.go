package domain

// Campaign é a representação canônica de uma campanha. Uma campanha
// pertence a exatamente uma conta (AccountID).
type Campaign struct {
	ID                  string `json:"id"`
	AccountID           string `json:"account_id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	Objective           string `json:"objective"`
	DailyBudgetCents    int64  `json:"daily_budget_cents"`
	LifetimeBudgetCents int64  `json:"lifetime_budget_cents"`
	CreatedTime         string `json:"created_time,omitempty"`
	UpdatedTime         string `json:"updated_time,omitempty"`
}

// AdSet é a representação canônica de um conjunto de anúncios
type AdSet struct {
	ID                  string `json:"id"`
	CampaignID          string `json:"campaign_id"`
	AccountID           string `json:"account_id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	OptimizationGoal    string `json:"optimization_goal,omitempty"`
	BillingEvent        string `json:"billing_event,omitempty"`
	DailyBudgetCents    int64  `json:"daily_budget_cents"`
	LifetimeBudgetCents int64  `json:"lifetime_budget_cents"`
}

// Ad é a representação canônica de um anúncio
type Ad struct {
	ID         string `json:"id"`
	AdSetID    string `json:"adset_id"`
	CampaignID string `json:"campaign_id"`
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CreativeID string `json:"creative_id,omitempty"`
}

// Creative é a representação canônica de um criativo
type Creative struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Body         string `json:"body,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	LinkURL      string `json:"link_url,omitempty"`
	CallToAction string `json:"call_to_action,omitempty"`
}
