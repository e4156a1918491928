package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiHost string) *Config {
	return &Config{
		AuthHost:     apiHost,
		APIHost:      apiHost,
		UsernameBase: "sdtadmin@",
		Password:     "pw",
		ClientID:     "client",
		ClientSecret: "secret",
		Timeout:      5,
	}
}

func TestTokenizeCriteria(t *testing.T) {
	assert.Equal(t, []string{"ABC123", "def-456", "ghi789"}, tokenizeCriteria("ABC123, def-456; ghi789"))
	assert.Equal(t, []string{"A1", "B2"}, tokenizeCriteria(`"A1" 'B2'`))
	assert.Equal(t, []string{"X"}, tokenizeCriteria("  X  "))
	assert.Nil(t, tokenizeCriteria(""))
	assert.Nil(t, tokenizeCriteria("  ,, ;  "))
}

func TestCriterionPredicate(t *testing.T) {
	predicate := criterionPredicate("ABC123")
	assert.Equal(t,
		"AppointmentId = 'ABC123' OR CarrierId = 'ABC123' OR TrailerId = 'ABC123' OR BillOfLadingNumber = 'ABC123'",
		predicate)
}

func TestSearchByCriteriaMergesAndCounts(t *testing.T) {
	// Both criteria match the same appointment; a third matches nothing
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "ORG1", r.Header.Get("selectedOrganization"))
		require.Equal(t, "ORG1-DM1", r.Header.Get("selectedLocation"))

		var query SearchQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		require.Equal(t, searchPageSize, query.Size)
		require.Equal(t, 0, query.Page)

		var rows []AppointmentRecord
		switch {
		case strings.Contains(query.Query, "'A1'"), strings.Contains(query.Query, "'TRL9'"):
			rows = []AppointmentRecord{{"AppointmentId": "A1", "TrailerId": "TRL9"}}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": rows})
	}))
	defer server.Close()

	api := newAPI(testConfig(server.URL))
	results, counts := api.searchByCriteria(context.Background(), "ORG1", "tok", []string{"A1", "TRL9", "NOPE"})

	require.Len(t, results, 1)
	assert.Equal(t, "A1", results[0]["AppointmentId"])

	// Counts are pre-dedup raw match counts
	assert.Equal(t, map[string]int{"A1": 1, "TRL9": 1, "NOPE": 0}, counts)
}

func TestSearchByCriteriaUniqueIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []AppointmentRecord{
			{"AppointmentId": "A1"},
			{"AppointmentId": "A2"},
		}})
	}))
	defer server.Close()

	api := newAPI(testConfig(server.URL))
	results, counts := api.searchByCriteria(context.Background(), "ORG1", "tok", []string{"c1", "c2"})

	seen := map[any]int{}
	for _, record := range results {
		seen[record["AppointmentId"]]++
	}
	require.Len(t, results, 2)
	for id, n := range seen {
		assert.Equal(t, 1, n, "duplicate AppointmentId %v", id)
	}
	assert.Equal(t, 2, counts["c1"])
	assert.Equal(t, 2, counts["c2"])
}

func TestSearchByCriteriaFailedCriterionDegrades(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var query SearchQuery
		json.NewDecoder(r.Body).Decode(&query)
		if strings.Contains(query.Query, "'BAD'") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []AppointmentRecord{{"AppointmentId": "A1"}}})
	}))
	defer server.Close()

	api := newAPI(testConfig(server.URL))
	results, counts := api.searchByCriteria(context.Background(), "ORG1", "tok", []string{"GOOD", "BAD"})

	assert.EqualValues(t, 2, calls.Load())
	require.Len(t, results, 1)
	assert.Equal(t, map[string]int{"GOOD": 1, "BAD": 0}, counts)
}

func TestSearchAllPagesStopsOnShortPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var query SearchQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))

		var rows []AppointmentRecord
		if query.Page == 0 {
			for i := 0; i < searchPageSize; i++ {
				rows = append(rows, AppointmentRecord{"AppointmentId": fmt.Sprintf("A%d", i)})
			}
		} else {
			rows = []AppointmentRecord{{"AppointmentId": "LAST"}}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": rows})
	}))
	defer server.Close()

	api := newAPI(testConfig(server.URL))
	all, err := api.searchAllPages(context.Background(), "ORG1", "tok", "AppointmentId = 'x'", nil)
	require.NoError(t, err)
	assert.Len(t, all, searchPageSize+1)
	assert.Equal(t, "LAST", all[searchPageSize]["AppointmentId"])
}

func TestSearchAllPagesFailsOnBadPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	api := newAPI(testConfig(server.URL))
	_, err := api.searchAllPages(context.Background(), "ORG1", "tok", "AppointmentStatusId= 3000", nil)
	assert.Error(t, err)
}

func TestScheduledAppointmentsQueryShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var query SearchQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		assert.Equal(t, "AppointmentStatusId= 3000", query.Query)
		require.Contains(t, query.Template, "AppointmentId")
		require.Contains(t, query.Template, "ArrivalDateTime")
		json.NewEncoder(w).Encode(map[string]any{"data": []AppointmentRecord{{"AppointmentId": "A1"}}})
	}))
	defer server.Close()

	api := newAPI(testConfig(server.URL))
	appointments, err := api.scheduledAppointments(context.Background(), "ORG1", "tok")
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
}

func TestAnnotateRecords(t *testing.T) {
	records := []AppointmentRecord{
		{"AppointmentId": "A1", "PreferredDateTime": "2024-03-05T14:30:00Z", "AppointmentStatusId": "3000"},
		{"AppointmentId": "A2"},
		{"AppointmentId": "A3", "PreferredDateTime": "garbage", "AppointmentStatusId": float64(4000)},
	}
	annotateRecords(records)

	assert.Equal(t, "3/05 2:30 PM", records[0]["ScheduledDate"])
	assert.Equal(t, "Scheduled", records[0]["StatusText"])
	assert.Equal(t, "—", records[1]["ScheduledDate"])
	assert.Equal(t, "Unknown", records[1]["StatusText"])
	assert.Equal(t, "—", records[2]["ScheduledDate"])
	assert.Equal(t, "Checked In", records[2]["StatusText"])
}

func TestRemoveDuplicatesKeepsFirstOccurrence(t *testing.T) {
	records := []AppointmentRecord{
		{"AppointmentId": "A1", "TrailerId": "first"},
		{"AppointmentId": "A2"},
		{"AppointmentId": "A1", "TrailerId": "second"},
	}
	deduped := removeDuplicates(records, func(r AppointmentRecord) any {
		return r["AppointmentId"]
	})

	require.Len(t, deduped, 2)
	assert.Equal(t, "first", deduped[0]["TrailerId"])
	assert.Equal(t, "A2", deduped[1]["AppointmentId"])
}
