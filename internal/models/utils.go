package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FetchedAtLayout matches the millisecond ISO8601 form browsers produce
const FetchedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// GenerateRequestID creates a unique ID for one invocation
func GenerateRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// FormatFetchedAt renders a fetch time in UTC
func FormatFetchedAt(t time.Time) string {
	return t.UTC().Format(FetchedAtLayout)
}

// GenerateSnapshotKey builds the object key a snapshot is stored under
func GenerateSnapshotKey(prefix string, snapshot Snapshot) string {
	prefix = strings.Trim(prefix, "/")
	timestamp := snapshot.FetchedAt.UTC().Format("2006-01-02T15-04-05Z")

	// Rendered text has no markup left in it
	ext := "html"
	if snapshot.Mode == ModeRendered {
		ext = "txt"
	}

	key := fmt.Sprintf("%s-%s.%s", timestamp, snapshot.RequestID, ext)
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// TopCandidates returns at most n candidates from the head of a ranked list
func TopCandidates(ranked []Candidate, n int) []Candidate {
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
