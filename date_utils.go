package main

import (
	"fmt"
	"time"
)

// Placeholder rendered when an appointment has no usable date
const datePlaceholder = "—"

var statusText = map[string]string{
	"1000": "Requested",
	"2000": "Countered",
	"3000": "Scheduled",
	"4000": "Checked In",
	"8000": "Complete",
	"9000": "Cancelled",
}

func parseDate(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	var t time.Time
	var err error
	for _, layout := range layouts {
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// formatDate renders a scheduled date for kiosk display as month/day
// hour:minute, no leading zero on the month or hour.
func formatDate(s string) string {
	if s == "" {
		return datePlaceholder
	}
	t, err := parseDate(s)
	if err != nil {
		return datePlaceholder
	}
	return t.Format("1/02 3:04 PM")
}

func formatStatus(statusID string) string {
	if text, ok := statusText[statusID]; ok {
		return text
	}
	return "Unknown"
}
