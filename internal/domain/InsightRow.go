package domain

// InsightRow é a linha canônica de métricas de desempenho. Cada linha
// referencia exatamente uma entidade (conta, campanha, conjunto ou
// anúncio) e um intervalo de datas. Valores monetários em centavos;
// razões em float64 com duas casas decimais.
type InsightRow struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	DateStart   string `json:"date_start"`
	DateStop    string `json:"date_stop"`

	SpendCents  int64 `json:"spend_cents"`
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Reach       int64 `json:"reach"`

	CTR       float64 `json:"ctr"`
	Frequency float64 `json:"frequency"`
	CPCCents  int64   `json:"cpc_cents"`
	CPMCents  int64   `json:"cpm_cents"`

	Conversions          int64   `json:"conversions"`
	ConversionValueCents int64   `json:"conversion_value_cents"`
	CostPerResultCents   int64   `json:"cost_per_result_cents"`
	ROAS                 float64 `json:"roas"`

	Objective string `json:"objective,omitempty"`
}

// MetaObjectiveToActionType mapeia "objective" -> "action_type" para
// extrair o resultado principal da lista de actions do Graph
var MetaObjectiveToActionType = map[string]string{
	"LINK_CLICKS":           "link_click",
	"POST_ENGAGEMENT":       "post_engagement",
	"PAGE_LIKES":            "like",
	"VIDEO_VIEWS":           "video_view",
	"LEAD_GENERATION":       "lead",
	"CONVERSIONS":           "offsite_conversion",
	"APP_INSTALLS":          "app_install",
	"PRODUCT_CATALOG_SALES": "offsite_conversion.fb_pixel_purchase",
	"MESSAGES":              "onsite_conversion.messaging_first_reply",
	"OUTCOME_SALES":         "offsite_conversion.fb_pixel_purchase",
	"OUTCOME_LEADS":         "lead",
	"OUTCOME_TRAFFIC":       "link_click",
	"OUTCOME_ENGAGEMENT":    "onsite_conversion.messaging_conversation_started_7d",
	"PURCHASE":              "offsite_conversion.fb_pixel_purchase",
	"REACH":                 "reach",
}
