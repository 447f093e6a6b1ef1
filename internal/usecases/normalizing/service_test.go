package normalizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/meta-ads-gateway/internal/domain"
)

func TestService_Normalize_Account(t *testing.T) {
	service := NewService()

	raw := []byte(`{
		"id": "act_123456789012345",
		"account_id": "123456789012345",
		"name": "Loja Exemplo",
		"currency": "BRL",
		"account_status": 1,
		"balance": "12345",
		"spend_cap": "500000",
		"timezone_name": "America/Sao_Paulo"
	}`)

	result, err := service.Normalize(domain.EntityAccount, raw)
	require.NoError(t, err)
	require.NotNil(t, result.Account)

	assert.Equal(t, "act_123456789012345", result.Account.ID)
	assert.Equal(t, domain.AccountStatusActive, result.Account.Status)
	assert.Equal(t, int64(12345), result.Account.BalanceCents)
	assert.Equal(t, int64(500000), result.Account.SpendCapCents)
	assert.Equal(t, "BRL", result.Account.Currency)
}

func TestService_Normalize_AccountMissingStatus(t *testing.T) {
	service := NewService()

	raw := []byte(`{"id": "act_123456789012345", "name": "Loja"}`)

	_, err := service.Normalize(domain.EntityAccount, raw)

	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedResponse, domain.KindOf(err))
}

func TestService_Normalize_CampaignList(t *testing.T) {
	service := NewService()

	raw := []byte(`{
		"data": [
			{
				"id": "120210000000000001",
				"account_id": "123456789012345",
				"name": "Campanha Verão",
				"status": "ACTIVE",
				"objective": "LINK_CLICKS",
				"daily_budget": "5000",
				"lifetime_budget": ""
			},
			{
				"id": "120210000000000002",
				"account_id": "123456789012345",
				"name": "Campanha Inverno",
				"status": "PAUSED",
				"objective": "CONVERSIONS",
				"daily_budget": "",
				"lifetime_budget": "250000"
			}
		],
		"paging": {"cursors": {"before": "a", "after": "b"}}
	}`)

	result, err := service.Normalize(domain.EntityCampaignList, raw)
	require.NoError(t, err)
	require.Len(t, result.Campaigns, 2)

	assert.Equal(t, "act_123456789012345", result.Campaigns[0].AccountID)
	assert.Equal(t, int64(5000), result.Campaigns[0].DailyBudgetCents)
	assert.Equal(t, int64(0), result.Campaigns[0].LifetimeBudgetCents)
	assert.Equal(t, int64(250000), result.Campaigns[1].LifetimeBudgetCents)
}

func TestService_Normalize_Insights(t *testing.T) {
	service := NewService()

	raw := []byte(`{
		"data": [{
			"campaign_id": "120210000000000001",
			"campaign_name": "Campanha Verão",
			"objective": "CONVERSIONS",
			"spend": "100.50",
			"impressions": "20000",
			"clicks": "400",
			"reach": "15000",
			"frequency": "1.33",
			"actions": [
				{"action_type": "offsite_conversion", "value": "25"},
				{"action_type": "link_click", "value": "400"}
			],
			"action_values": [
				{"action_type": "offsite_conversion", "value": "402.00"}
			],
			"date_start": "2024-01-01",
			"date_stop": "2024-01-31"
		}]
	}`)

	result, err := service.Normalize(domain.EntityInsights, raw)
	require.NoError(t, err)
	require.Len(t, result.Insights, 1)

	row := result.Insights[0]
	assert.Equal(t, "120210000000000001", row.SubjectID)
	assert.Equal(t, "Campanha Verão", row.SubjectName)
	assert.Equal(t, int64(10050), row.SpendCents)
	assert.Equal(t, int64(20000), row.Impressions)
	assert.Equal(t, int64(400), row.Clicks)
	assert.Equal(t, int64(25), row.Conversions)
	assert.Equal(t, int64(40200), row.ConversionValueCents)

	// derivadas recalculadas a partir dos valores base
	assert.Equal(t, 2.0, row.CTR)
	assert.Equal(t, int64(25), row.CPCCents)       // 10050/400
	assert.Equal(t, int64(502), row.CPMCents)      // 10050*1000/20000
	assert.Equal(t, int64(402), row.CostPerResultCents)
	assert.Equal(t, 4.0, row.ROAS)
}

func TestService_Normalize_InsightsMissingSpend(t *testing.T) {
	service := NewService()

	raw := []byte(`{"data": [{"impressions": "100", "clicks": "10"}]}`)

	_, err := service.Normalize(domain.EntityInsights, raw)

	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedResponse, domain.KindOf(err))
}

func TestService_Normalize_InsightsZeroDenominators(t *testing.T) {
	service := NewService()

	raw := []byte(`{
		"data": [{
			"account_id": "123456789012345",
			"objective": "CONVERSIONS",
			"spend": "0",
			"impressions": "0",
			"clicks": "0",
			"action_values": [
				{"action_type": "offsite_conversion", "value": "50.00"}
			],
			"date_start": "2024-01-01",
			"date_stop": "2024-01-01"
		}]
	}`)

	result, err := service.Normalize(domain.EntityInsights, raw)
	require.NoError(t, err)
	require.Len(t, result.Insights, 1)

	row := result.Insights[0]
	assert.Zero(t, row.CTR)
	assert.Zero(t, row.CPCCents)
	assert.Zero(t, row.CPMCents)
	assert.Zero(t, row.CostPerResultCents)
	// gasto zero força ROAS zero mesmo com valor de conversão positivo
	assert.Zero(t, row.ROAS)
}

func TestService_Normalize_IsDeterministic(t *testing.T) {
	service := NewService()

	raw := []byte(`{
		"data": [{
			"campaign_id": "120210000000000001",
			"objective": "LINK_CLICKS",
			"spend": "10.00",
			"impressions": "1000",
			"clicks": "30",
			"actions": [{"action_type": "link_click", "value": "30"}],
			"date_start": "2024-01-01",
			"date_stop": "2024-01-07"
		}]
	}`)

	first, err := service.Normalize(domain.EntityInsights, raw)
	require.NoError(t, err)

	second, err := service.Normalize(domain.EntityInsights, raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_Normalize_AdListWithCreative(t *testing.T) {
	service := NewService()

	raw := []byte(`{
		"data": [{
			"id": "120210000000000009",
			"adset_id": "120210000000000005",
			"campaign_id": "120210000000000001",
			"account_id": "123456789012345",
			"name": "Anúncio A",
			"status": "ACTIVE",
			"creative": {"id": "120210000000000099"}
		}]
	}`)

	result, err := service.Normalize(domain.EntityAdList, raw)
	require.NoError(t, err)
	require.Len(t, result.Ads, 1)

	assert.Equal(t, "120210000000000099", result.Ads[0].CreativeID)
	assert.Equal(t, "act_123456789012345", result.Ads[0].AccountID)
}

func TestService_Normalize_RawPassthrough(t *testing.T) {
	service := NewService()

	raw := []byte(`{"anything": true}`)

	result, err := service.Normalize(domain.EntityRaw, raw)
	require.NoError(t, err)

	assert.Equal(t, domain.EntityRaw, result.Kind)
	assert.JSONEq(t, `{"anything": true}`, string(result.Raw))
}

func TestService_Normalize_InvalidJSON(t *testing.T) {
	service := NewService()

	_, err := service.Normalize(domain.EntityCampaignList, []byte(`<html>erro</html>`))

	require.Error(t, err)
	assert.Equal(t, domain.KindMalformedResponse, domain.KindOf(err))
}
