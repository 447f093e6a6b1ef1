package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeRange(t *testing.T) {
	now := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)

	t.Run("Preset tem precedência", func(t *testing.T) {
		params, err := BuildTimeRange("last_30d", "7 days ago", "today", now)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"date_preset": "last_30d"}, params)
	})

	t.Run("Since relativo com until implícito", func(t *testing.T) {
		params, err := BuildTimeRange("", "7 days ago", "", now)
		require.NoError(t, err)

		assert.JSONEq(t, `{"since":"2024-01-08","until":"2024-01-15"}`, params["time_range"])
	})

	t.Run("Datas ISO explícitas", func(t *testing.T) {
		params, err := BuildTimeRange("", "2024-01-01", "2024-01-31", now)
		require.NoError(t, err)

		assert.JSONEq(t, `{"since":"2024-01-01","until":"2024-01-31"}`, params["time_range"])
	})

	t.Run("Until literal today", func(t *testing.T) {
		params, err := BuildTimeRange("", "2024-01-01", "today", now)
		require.NoError(t, err)

		assert.JSONEq(t, `{"since":"2024-01-01","until":"2024-01-15"}`, params["time_range"])
	})

	t.Run("Since ilegível é rejeitado", func(t *testing.T) {
		_, err := BuildTimeRange("", "ontem", "today", now)
		assert.Error(t, err)
	})

	t.Run("Sem preset e sem since é rejeitado", func(t *testing.T) {
		_, err := BuildTimeRange("", "", "today", now)
		assert.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("Data ISO válida", func(t *testing.T) {
		parsed, err := ParseDate("2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("Formato inválido", func(t *testing.T) {
		_, err := ParseDate("15/01/2024")
		assert.Error(t, err)
	})
}
