package services

import (
	"regexp"
	"sort"

	"score-for-cancer-total/internal/models"
)

// KeywordWeight adds Weight to a candidate whose context matches Pattern
type KeywordWeight struct {
	Name    string
	Pattern *regexp.Regexp
	Weight  int
}

// MagnitudeRule adjusts a score for values in [Min, Max). A zero Max means unbounded.
type MagnitudeRule struct {
	Min    float64
	Max    float64
	Weight int
}

// ScoringWeights is the full table the scorer works from.
// Markup drift on the campaign page should only ever need edits here.
type ScoringWeights struct {
	Keywords  []KeywordWeight
	Magnitude []MagnitudeRule
}

// DefaultScoringWeights ranks "amount raised" figures above goals, prices and counts
var DefaultScoringWeights = ScoringWeights{
	Keywords: []KeywordWeight{
		{Name: "raised", Pattern: regexp.MustCompile(`\braised\b`), Weight: 8},
		{Name: "donate", Pattern: regexp.MustCompile(`\bdonated?\b`), Weight: 6},
		{Name: "total", Pattern: regexp.MustCompile(`total`), Weight: 4},
		{Name: "goal", Pattern: regexp.MustCompile(`goal`), Weight: 2},
		{Name: "progress", Pattern: regexp.MustCompile(`progress`), Weight: 2},
		{Name: "campaign", Pattern: regexp.MustCompile(`campaign`), Weight: 2},
	},
	Magnitude: []MagnitudeRule{
		{Min: 0, Max: 100, Weight: -12},
		{Min: 100, Max: 1000, Weight: -4},
		{Min: 10000, Weight: 5},
		{Min: 50000, Weight: 3}, // stacks on top of the 10k bonus
	},
}

// Score rates how likely a value with the given context is the amount raised.
// context is expected to be lower-cased already.
func (w ScoringWeights) Score(value float64, context string) int {
	score := 0

	for _, keyword := range w.Keywords {
		if keyword.Pattern.MatchString(context) {
			score += keyword.Weight
		}
	}

	for _, rule := range w.Magnitude {
		if value < rule.Min {
			continue
		}
		if rule.Max > 0 && value >= rule.Max {
			continue
		}
		score += rule.Weight
	}

	return score
}

// ScoreCandidate scores with DefaultScoringWeights
func ScoreCandidate(value float64, context string) int {
	return DefaultScoringWeights.Score(value, context)
}

// RankCandidates scores every candidate and sorts them best first.
// Ties go to the larger value. The input slice is not modified.
func RankCandidates(candidates []models.Candidate, weights ScoringWeights) []models.Candidate {
	ranked := make([]models.Candidate, len(candidates))
	for i, candidate := range candidates {
		candidate.Score = weights.Score(candidate.Value, candidate.Context)
		ranked[i] = candidate
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Value > ranked[j].Value
	})

	return ranked
}

// SortByValue returns candidates ordered largest value first
func SortByValue(candidates []models.Candidate) []models.Candidate {
	sorted := make([]models.Candidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	return sorted
}
