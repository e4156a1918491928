package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	telemetryTimeout = 5 * time.Second

	trackedAppName = "check-in"
)

// Tracker forwards usage events to a Home Assistant webhook. Delivery is
// best effort: failures are logged at debug level and dropped, and the
// caller is never blocked or failed.
type Tracker struct {
	webhookURL string
	appVersion string
	client     *http.Client
}

func newTracker(cfg *Config) *Tracker {
	return &Tracker{
		webhookURL: cfg.WebhookURL,
		appVersion: cfg.AppVersion,
		client:     &http.Client{Timeout: telemetryTimeout},
	}
}

// track dispatches an event without blocking the caller
func (t *Tracker) track(eventName string, metadata map[string]any) {
	payload := map[string]any{
		"event_name":  eventName,
		"app_name":    trackedAppName,
		"app_version": t.appVersion,
	}
	for key, value := range metadata {
		payload[key] = value
	}
	payload["timestamp"] = time.Now().Format(time.RFC3339)

	// Send in a separate goroutine to avoid slowing down the response
	go t.deliver(payload)
}

func (t *Tracker) deliver(payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		zapLogger.Debug("telemetry payload not serializable", zap.Error(err))
		return
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := sendRequest(t.client, http.MethodPost, t.webhookURL, nil, headers, strings.NewReader(string(body)))
	if err != nil {
		zapLogger.Debug("telemetry delivery failed", zap.Error(err))
		return
	}
	resp.Body.Close()
}
