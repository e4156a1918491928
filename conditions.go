package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.elastic.co/apm"
)

const conditionCodePath = "/yard-management/api/yard-management/trailerConditionCode/search"

// conditionCodes fetches the trailer condition-code reference list. The list
// is small and static, so a single oversized page covers it.
func (a *API) conditionCodes(ctx context.Context, org, token string) ([]map[string]any, error) {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Fetch Condition Codes", "YardAPI")
	defer span.End()

	query := SearchQuery{
		Query:          "",
		Size:           9999,
		NeedTotalCount: true,
		Template: map[string]any{
			"ConditionCodeId":       nil,
			"Description":           nil,
			"RemoveCurrentLocation": nil,
		},
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	headers := apiHeaders(token, org)
	resp, err := sendRequest(a.client, http.MethodPost, a.apiURL(conditionCodePath), nil, headers, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	respBody, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	// Verify status code
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("condition code search failed (%d): %s", resp.StatusCode, string(truncateBody(respBody, 2000)))
	}

	var result conditionCodeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error parsing condition code response: %s", err)
	}

	return result.Data.TrailerConditionCode, nil
}
