package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate interpreta uma data ISO (YYYY-MM-DD). Vazio vale hoje.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}

	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q, esperado YYYY-MM-DD: %w", value, err)
	}

	return parsed, nil
}

// BuildTimeRange converte preset/since/until nos parâmetros de
// intervalo que o Graph aceita. Com preset, devolve date_preset; caso
// contrário monta um time_range JSON a partir de since/until, onde
// since aceita a forma relativa "N days ago" e until aceita "today".
func BuildTimeRange(preset, since, until string, now time.Time) (map[string]string, error) {
	if preset != "" {
		return map[string]string{"date_preset": preset}, nil
	}

	today := now.UTC().Truncate(24 * time.Hour)

	var sinceDate string
	switch {
	case strings.HasSuffix(since, " days ago"):
		days, err := strconv.Atoi(strings.Fields(since)[0])
		if err != nil {
			return nil, fmt.Errorf("intervalo relativo inválido %q", since)
		}
		sinceDate = today.AddDate(0, 0, -days).Format(time.DateOnly)
	case isoDatePattern.MatchString(since):
		sinceDate = since
	}

	var untilDate string
	switch {
	case until == "today" || until == "":
		untilDate = today.Format(time.DateOnly)
	case isoDatePattern.MatchString(until):
		untilDate = until
	}

	if sinceDate == "" || untilDate == "" {
		return nil, fmt.Errorf("time_range exige date_preset ou since/until em YYYY-MM-DD")
	}

	timeRange, err := json.Marshal(map[string]string{"since": sinceDate, "until": untilDate})
	if err != nil {
		return nil, err
	}

	return map[string]string{"time_range": string(timeRange)}, nil
}
