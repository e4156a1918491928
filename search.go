package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.elastic.co/apm"
)

const (
	appointmentSearchPath = "/appointment/api/appointment/appointment/search"

	// Upstream page size for both search modes
	searchPageSize = 1000
)

// Criteria text is split on runs of commas, semicolons, and whitespace
var criteriaSeparator = regexp.MustCompile(`[,;\s]+`)

// The fields a free-text criterion is matched against
var criterionFields = []string{
	"AppointmentId",
	"CarrierId",
	"TrailerId",
	"BillOfLadingNumber",
}

// tokenizeCriteria splits free-text search input into individual criteria.
// Tokens are trimmed, surrounding quotes are stripped, and empties are
// dropped.
func tokenizeCriteria(text string) []string {
	var tokens []string
	for _, raw := range criteriaSeparator.Split(text, -1) {
		token := strings.Trim(strings.TrimSpace(raw), `'"`)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// criterionPredicate builds the upstream query for one criterion: an OR
// across every matchable field, each compared by exact match.
func criterionPredicate(criterion string) string {
	clauses := make([]string, 0, len(criterionFields))
	for _, field := range criterionFields {
		clauses = append(clauses, fmt.Sprintf("%s = '%s'", field, criterion))
	}
	return strings.Join(clauses, " OR ")
}

// searchPage runs a single upstream search call and returns the raw rows.
func (a *API) searchPage(ctx context.Context, org, token string, query SearchQuery) ([]AppointmentRecord, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	headers := apiHeaders(token, org)
	resp, err := sendRequest(a.client, http.MethodPost, a.apiURL(appointmentSearchPath), nil, headers, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	respBody, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	// Verify status code
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("appointment search failed (%d): %s", resp.StatusCode, string(truncateBody(respBody, 2000)))
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error parsing appointment search response: %s", err)
	}

	return result.Data, nil
}

// searchAllPages pages through an upstream search until a short page signals
// the end of the result set.
func (a *API) searchAllPages(ctx context.Context, org, token, query string, template map[string]any) ([]AppointmentRecord, error) {
	var all []AppointmentRecord
	for page := 0; ; page++ {
		data, err := a.searchPage(ctx, org, token, SearchQuery{
			Query:    query,
			Template: template,
			Size:     searchPageSize,
			Page:     page,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, data...)

		// If fewer results than page size, we've got them all
		if len(data) < searchPageSize {
			break
		}
	}
	return all, nil
}

// searchByID looks up appointments matching a single exact id, paginating
// through the full result set.
func (a *API) searchByID(ctx context.Context, org, token, appointmentID string) ([]AppointmentRecord, error) {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Search Appointment by Id", "YardAPI")
	defer span.End()

	query := fmt.Sprintf("AppointmentId = '%s'", appointmentID)
	return a.searchAllPages(ctx, org, token, query, nil)
}

// searchByCriteria fans one upstream search out per criterion, merges the
// result sets by AppointmentId (first occurrence wins, criterion order
// preserved), and reports the raw pre-merge match count per criterion. A
// failing criterion contributes zero results and a zero count rather than
// aborting the search.
func (a *API) searchByCriteria(ctx context.Context, org, token string, criteria []string) ([]AppointmentRecord, map[string]int) {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Search Appointments by Criteria", "YardAPI")
	defer span.End()

	// The per-criterion searches are independent reads, so send them in
	// parallel. Results are keyed by criterion index to keep the merge
	// deterministic.
	perCriterion := make([][]AppointmentRecord, len(criteria))
	var wg sync.WaitGroup
	for i, criterion := range criteria {
		wg.Add(1)
		go func(i int, criterion string) {
			defer wg.Done()
			data, err := a.searchPage(ctx, org, token, SearchQuery{
				Query: criterionPredicate(criterion),
				Size:  searchPageSize,
				Page:  0,
			})
			if err != nil {
				logger(ctx, fmt.Errorf("criterion %q: %v", criterion, err))
				return
			}
			perCriterion[i] = data
		}(i, criterion)
	}
	wg.Wait()

	counts := make(map[string]int, len(criteria))
	var flattened []AppointmentRecord
	for i, criterion := range criteria {
		counts[criterion] = len(perCriterion[i])
		flattened = append(flattened, perCriterion[i]...)
	}

	merged := removeDuplicates(flattened, func(r AppointmentRecord) any {
		return r["AppointmentId"]
	})

	return merged, counts
}

// scheduledAppointments fetches every appointment still in the scheduled
// state, paginating through the full set.
func (a *API) scheduledAppointments(ctx context.Context, org, token string) ([]AppointmentRecord, error) {
	// Create span
	span, ctx := apm.StartSpan(ctx, "Fetch Scheduled Appointments", "YardAPI")
	defer span.End()

	template := map[string]any{
		"AppointmentId":   nil,
		"ArrivalDateTime": nil,
	}
	return a.searchAllPages(ctx, org, token, "AppointmentStatusId= 3000", template)
}

// annotateRecords adds the display fields the kiosk renders directly
func annotateRecords(records []AppointmentRecord) {
	for _, record := range records {
		record["ScheduledDate"] = formatDate(stringField(record, "PreferredDateTime"))
		record["StatusText"] = formatStatus(stringField(record, "AppointmentStatusId"))
	}
}

// stringField reads a record field as a string; upstream sends some ids as
// numbers.
func stringField(record AppointmentRecord, key string) string {
	switch value := record[key].(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return ""
}

// Define a generic function to remove duplicates based on a field.
func removeDuplicates[T any](slice []T, keyFunc func(T) any) []T {
	seen := make(map[interface{}]bool)
	var result []T

	// Iterate through the slice and use the keyFunc to get the key for deduplication.
	for _, item := range slice {
		key := keyFunc(item)
		if !seen[key] {
			seen[key] = true
			result = append(result, item)
		}
	}

	return result
}
