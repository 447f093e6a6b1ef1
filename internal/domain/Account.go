package domain

// AccountStatus é o status da conta de anúncios no Meta
type AccountStatus int

const (
	AccountStatusActive   AccountStatus = 1
	AccountStatusDisabled AccountStatus = 2
	AccountStatusUnsettled AccountStatus = 3
)

// Account é a representação canônica de uma conta de anúncios.
// Valores monetários sempre em centavos da moeda da conta.
type Account struct {
	ID           string        `json:"id"`
	ExternalID   string        `json:"account_id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Status       AccountStatus `json:"account_status"`
	BalanceCents int64         `json:"balance_cents"`
	SpendCapCents int64        `json:"spend_cap_cents"`
	Timezone     string        `json:"timezone,omitempty"`
}
