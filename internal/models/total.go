package models

import "time"

// Campaign and source defaults for the Score For Cancer fundraising page
const (
	DefaultCampaign  = "Score For Cancer"
	DefaultTargetURL = "https://fundraisemyway.cancer.ca/campaigns/scoreforcancer"
)

// Extraction modes, one per deployment
const (
	ModeLargest  = "largest"  // static markup, largest amount wins
	ModeScored   = "scored"   // static markup, context-scored ranking
	ModeRendered = "rendered" // headless browser text, largest realistic amount
)

// Selection tiers, recorded on every successful pick
const (
	TierScored          = "scored"           // top of the context-scored ranking
	TierJSONAttribute   = "json_attribute"   // amount found under a known JSON/attribute key
	TierLargestFallback = "largest_fallback" // largest candidate >= 1000 after scoring failed
	TierLargest         = "largest"          // largest candidate on the page
	TierRendered        = "rendered"         // largest realistic candidate in rendered text
)

// Candidate is a currency-looking substring found in page text
type Candidate struct {
	Raw     string  `json:"raw"`
	Value   float64 `json:"value"`
	Index   int     `json:"index"`             // byte offset of the match in the source text
	Context string  `json:"context,omitempty"` // lower-cased window around the match
	Score   int     `json:"score"`
}

// Selection is the candidate picked for a page and how it was found
type Selection struct {
	Candidate Candidate   `json:"candidate"`
	Tier      string      `json:"tier"`
	Ranked    []Candidate `json:"ranked,omitempty"`
}

// TotalResponse is the JSON envelope returned to callers
type TotalResponse struct {
	OK        bool       `json:"ok"`
	Campaign  string     `json:"campaign,omitempty"`
	Amount    float64    `json:"amount,omitempty"`
	Formatted string     `json:"formatted,omitempty"`
	Source    string     `json:"source,omitempty"`
	FetchedAt string     `json:"fetchedAt,omitempty"` // ISO8601, UTC, millisecond precision
	Error     string     `json:"error,omitempty"`
	Debug     *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo explains how an amount was (or was not) chosen
type DebugInfo struct {
	RequestID      string      `json:"requestId"`
	Mode           string      `json:"mode"`
	Tier           string      `json:"tier,omitempty"`
	CandidateCount int         `json:"candidateCount"`
	TopCandidates  []Candidate `json:"topCandidates,omitempty"`
	ContentLength  int         `json:"contentLength"`
	SnapshotKey    string      `json:"snapshotKey,omitempty"`
}

// Snapshot is the raw page text kept for diagnosis when extraction fails
type Snapshot struct {
	RequestID string    `json:"requestId"`
	Mode      string    `json:"mode"`
	SourceURL string    `json:"sourceUrl"`
	Content   string    `json:"content"`
	FetchedAt time.Time `json:"fetchedAt"`
}
