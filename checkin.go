package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.elastic.co/apm"
	"go.uber.org/zap"
)

const checkInPath = "/yard-management/api/yard-management/transaction/trailer/checkIn"

// Fallback strings when the upstream omits its own wording
const (
	checkInSuccessFallback = "Check-in successful"
	unknownErrorFallback   = "Unknown error"
)

// buildCheckInRequest derives the outbound check-in payload from a client
// supplied appointment record. ConditionCodeId rides along only when the
// record carries a usable value; it is never sent as null or empty.
func buildCheckInRequest(appt AppointmentRecord) CheckInRequest {
	apptType := appt["AppointmentTypeId"]

	trailerInfo := TrailerInfo{
		CarrierId:       appt["CarrierId"],
		TrailerId:       appt["TrailerId"],
		EquipmentTypeId: appt["EquipmentTypeId"],
	}
	if conditionCode := appt["ConditionCodeId"]; hasValue(conditionCode) {
		trailerInfo.ConditionCodeId = conditionCode
	}

	return CheckInRequest{
		AppointmentInfo: AppointmentInfo{
			AppointmentId:     appt["AppointmentId"],
			AppointmentTypeId: apptType,
		},
		VisitType:   apptType,
		TrailerInfo: trailerInfo,
	}
}

func hasValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case bool:
		return value
	case float64:
		return value != 0
	}
	return true
}

// checkInTrailer submits a trailer check-in and normalizes the upstream
// response. Every request and response is logged for audit; logging never
// changes the returned result.
func (a *API) checkInTrailer(ctx context.Context, org, token string, appt AppointmentRecord) Result {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Trailer Check-In", "YardAPI")
	defer span.End()

	payload, err := json.Marshal(buildCheckInRequest(appt))
	if err != nil {
		logger(ctx, err)
		return Result{Success: false, Error: "Request failed: " + err.Error()}
	}

	checkInURL := a.apiURL(checkInPath)
	zapLogger.Info("check-in request",
		zap.String("url", checkInURL),
		zap.String("org", org),
		zap.Any("appointmentId", appt["AppointmentId"]),
		zap.ByteString("payload", payload))

	headers := apiHeaders(token, org)
	resp, err := sendRequest(a.client, http.MethodPost, checkInURL, nil, headers, bytes.NewReader(payload))
	if err != nil {
		logger(ctx, err)
		return Result{Success: false, Error: "Request failed: " + err.Error()}
	}

	respBody, err := readBody(resp)
	if err != nil {
		logger(ctx, err)
		return Result{Success: false, Error: "Request failed: " + err.Error()}
	}

	zapLogger.Info("check-in response",
		zap.Int("status", resp.StatusCode),
		zap.Any("headers", resp.Header),
		zap.ByteString("body", truncateBody(respBody, 5000)))

	result := normalizeUpstreamResult(resp.StatusCode < 400, respBody)
	if result.Success {
		zapLogger.Info("check-in succeeded", zap.String("message", result.Message))
	} else {
		zapLogger.Warn("check-in rejected", zap.String("error", result.Error))
	}

	return result
}

// normalizeUpstreamResult collapses the upstream's inconsistent response
// shapes into one success/failure contract:
//   - unparseable bodies are treated as empty objects, which routes them to
//     the failure branch
//   - HTTP success plus a true success flag extracts the first non-empty
//     message description, falling back to a fixed string
//   - anything else takes the first message from "errors", then
//     "exceptions", then a fixed unknown-error string
func normalizeUpstreamResult(statusOK bool, body []byte) Result {
	var parsed upstreamResult
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = upstreamResult{}
	}

	if statusOK && parsed.Success != nil && *parsed.Success {
		for _, message := range parsed.Messages.Message {
			if message.Description != "" {
				return Result{Success: true, Message: message.Description}
			}
		}
		return Result{Success: true, Message: checkInSuccessFallback}
	}

	errList := parsed.Errors
	if len(errList) == 0 {
		errList = parsed.Exceptions
	}
	if len(errList) > 0 {
		return Result{Success: false, Error: errList[0].Message}
	}
	return Result{Success: false, Error: unknownErrorFallback}
}
