package services

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"score-for-cancer-total/internal/models"
)

// ErrNoAmount means the page was read but no candidate qualified as the amount raised
var ErrNoAmount = errors.New("could not locate raised amount in page markup")

const (
	// MinAcceptedAmount is the smallest value any tier will report
	MinAcceptedAmount = 100
	// MinRealisticAmount is the floor for the largest-value fallbacks
	MinRealisticAmount = 1000
	// attributeScore marks a JSON attribute hit so it sorts above any scored candidate
	attributeScore = 999
)

// Selector picks the amount raised out of page text
type Selector interface {
	Select(text string) (*models.Selection, error)
}

// attributePattern looks for a numeric value stored under a known key
type attributePattern struct {
	key     string
	pattern *regexp.Regexp
}

func jsonKeyPattern(key string) attributePattern {
	return attributePattern{
		key:     key,
		pattern: regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(key) + `"\s*:\s*"?([\d.,]+)"?`),
	}
}

// scoredAttributePatterns are tried in order once the ranked candidates fail
var scoredAttributePatterns = []attributePattern{
	jsonKeyPattern("amountRaised"),
	jsonKeyPattern("totalRaised"),
	jsonKeyPattern("raisedAmount"),
	jsonKeyPattern("raised"),
}

// largestAttributePatterns cover the markup the page used before the scored mode existed
var largestAttributePatterns = []attributePattern{
	jsonKeyPattern("total_raised"),
	jsonKeyPattern("raised"),
	{key: "data-total-raised", pattern: regexp.MustCompile(`(?i)data-total-raised\s*=\s*"([\d.,]+)"`)},
}

// findAttributeAmount checks the first match of each pattern in order and returns the first accepted value.
// Values are rounded to cents so the reported amount matches its formatted form.
func findAttributeAmount(text string, patterns []attributePattern, accept func(float64) bool) (*models.Candidate, bool) {
	for _, p := range patterns {
		match := p.pattern.FindStringSubmatchIndex(text)
		if match == nil {
			continue
		}

		value, ok := ParseAmount(text[match[2]:match[3]])
		if !ok {
			continue
		}
		value = roundToCents(value)
		if !accept(value) {
			continue
		}

		return &models.Candidate{
			Raw:     FormatAmount(value),
			Value:   value,
			Index:   match[0],
			Context: p.key,
			Score:   attributeScore,
		}, true
	}
	return nil, false
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func positive(v float64) bool { return v > 0 }

// largestAtLeast returns the biggest candidate whose value is at least min
func largestAtLeast(candidates []models.Candidate, min float64) (*models.Candidate, bool) {
	var best *models.Candidate
	for i := range candidates {
		if candidates[i].Value < min {
			continue
		}
		if best == nil || candidates[i].Value > best.Value {
			best = &candidates[i]
		}
	}
	return best, best != nil
}

// ScoredSelector ranks candidates by context keywords and magnitude,
// then falls back to known JSON keys and finally to the largest realistic amount
type ScoredSelector struct {
	weights ScoringWeights
}

// NewScoredSelector creates a selector using the given weights
func NewScoredSelector(weights ScoringWeights) *ScoredSelector {
	return &ScoredSelector{weights: weights}
}

// Select implements Selector
func (s *ScoredSelector) Select(text string) (*models.Selection, error) {
	ranked := RankCandidates(ExtractCandidates(text), s.weights)

	// Tier 1: best scored candidate, as long as it is a plausible total
	if len(ranked) > 0 && ranked[0].Value >= MinAcceptedAmount {
		return &models.Selection{Candidate: ranked[0], Tier: models.TierScored, Ranked: ranked}, nil
	}

	// Tier 2: structured data embedded in the page
	atLeastMin := func(v float64) bool { return v >= MinAcceptedAmount }
	if candidate, ok := findAttributeAmount(text, scoredAttributePatterns, atLeastMin); ok {
		return &models.Selection{Candidate: *candidate, Tier: models.TierJSONAttribute, Ranked: ranked}, nil
	}

	// Tier 3: ignore the scores, take the largest realistic amount
	if candidate, ok := largestAtLeast(ranked, MinRealisticAmount); ok {
		return &models.Selection{Candidate: *candidate, Tier: models.TierLargestFallback, Ranked: ranked}, nil
	}

	return &models.Selection{Ranked: ranked}, ErrNoAmount
}

// LargestSelector picks the largest amount on the page, then tries known attributes
type LargestSelector struct{}

// Select implements Selector
func (LargestSelector) Select(text string) (*models.Selection, error) {
	sorted := SortByValue(ExtractCandidates(text))

	if len(sorted) > 0 && sorted[0].Value > 0 {
		return &models.Selection{Candidate: sorted[0], Tier: models.TierLargest, Ranked: sorted}, nil
	}

	if candidate, ok := findAttributeAmount(text, largestAttributePatterns, positive); ok {
		return &models.Selection{Candidate: *candidate, Tier: models.TierJSONAttribute, Ranked: sorted}, nil
	}

	return &models.Selection{Ranked: sorted}, ErrNoAmount
}

// RenderedSelector picks the largest realistic amount from rendered, visible page text
type RenderedSelector struct{}

// Select implements Selector
func (RenderedSelector) Select(text string) (*models.Selection, error) {
	sorted := SortByValue(ExtractCandidates(text))

	if candidate, ok := largestAtLeast(sorted, MinRealisticAmount); ok {
		return &models.Selection{Candidate: *candidate, Tier: models.TierRendered, Ranked: sorted}, nil
	}

	return &models.Selection{Ranked: sorted}, ErrNoAmount
}

// NewSelector returns the selector for an extraction mode
func NewSelector(mode string) (Selector, error) {
	switch mode {
	case models.ModeScored:
		return NewScoredSelector(DefaultScoringWeights), nil
	case models.ModeLargest:
		return LargestSelector{}, nil
	case models.ModeRendered:
		return RenderedSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction mode %q", mode)
	}
}
