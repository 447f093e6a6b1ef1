package handler

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var startedAt = time.Now()

type healthcheckResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_seconds"`
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		now := time.Now()
		resp := healthcheckResponse{
			Status:    "ok",
			Timestamp: now.UTC().Format(time.RFC3339),
			UptimeSec: int64(now.Sub(startedAt).Seconds()),
		}

		if err := jsoniter.NewEncoder(w).Encode(resp); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
