package models

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()

	if !strings.HasPrefix(first, "req_") {
		t.Errorf("Expected req_ prefix, got %s", first)
	}

	if len(first) != len("req_")+12 {
		t.Errorf("Expected 16 character ID, got %d (%s)", len(first), first)
	}

	if first == second {
		t.Errorf("Expected unique IDs, got %s twice", first)
	}
}

func TestFormatFetchedAt(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	fetched := time.Date(2026, 3, 14, 8, 30, 15, 123456789, loc)

	got := FormatFetchedAt(fetched)
	want := "2026-03-14T13:30:15.123Z"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestGenerateSnapshotKey(t *testing.T) {
	fetched := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prefix   string
		mode     string
		expected string
	}{
		{"static page", "snapshots", "scored", "snapshots/2026-01-15T10-30-00Z-req_abc.html"},
		{"rendered text", "snapshots", "rendered", "snapshots/2026-01-15T10-30-00Z-req_abc.txt"},
		{"slashes trimmed", "/snapshots/", "largest", "snapshots/2026-01-15T10-30-00Z-req_abc.html"},
		{"no prefix", "", "scored", "2026-01-15T10-30-00Z-req_abc.html"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key := GenerateSnapshotKey(test.prefix, Snapshot{
				RequestID: "req_abc",
				Mode:      test.mode,
				FetchedAt: fetched,
			})
			if key != test.expected {
				t.Errorf("Expected %s, got %s", test.expected, key)
			}
		})
	}
}

func TestTopCandidates(t *testing.T) {
	ranked := []Candidate{{Value: 3}, {Value: 2}, {Value: 1}}

	if got := TopCandidates(ranked, 2); len(got) != 2 || got[0].Value != 3 {
		t.Errorf("Expected first two candidates, got %+v", got)
	}

	if got := TopCandidates(ranked, 5); len(got) != 3 {
		t.Errorf("Expected all 3 candidates, got %d", len(got))
	}

	if got := TopCandidates(nil, 5); len(got) != 0 {
		t.Errorf("Expected empty result, got %d", len(got))
	}
}
