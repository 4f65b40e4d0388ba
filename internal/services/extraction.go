package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"score-for-cancer-total/internal/models"
)

// ContextRadius is how many characters of text on each side of a match are kept for scoring
const ContextRadius = 140

// currencyPattern matches amounts like "$186,000", "$ 1,234.56" or "$42".
// The gap after the sign may be a non-breaking space, which innerText produces for &nbsp;.
var currencyPattern = regexp.MustCompile(`\$[\s\p{Zs}]?\d{1,3}(?:,\d{3})*(?:\.\d{2})?`)

// nonNumeric strips everything except digits and the decimal point
var nonNumeric = regexp.MustCompile(`[^\d.]`)

// ExtractCandidates finds every currency-looking substring in text.
// Matches that do not parse to a finite number are dropped.
func ExtractCandidates(text string) []models.Candidate {
	matches := currencyPattern.FindAllStringIndex(text, -1)
	candidates := make([]models.Candidate, 0, len(matches))

	for _, loc := range matches {
		raw := text[loc[0]:loc[1]]
		value, ok := ParseAmount(raw)
		if !ok {
			continue
		}

		candidates = append(candidates, models.Candidate{
			Raw:     raw,
			Value:   value,
			Index:   loc[0],
			Context: contextWindow(text, loc[0], loc[1], ContextRadius),
		})
	}

	return candidates
}

// ParseAmount converts "$186,000.00" to 186000.
// It reports false for empty, malformed or non-finite input.
func ParseAmount(raw string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) || value < 0 {
		return 0, false
	}

	return value, true
}

// contextWindow returns the lower-cased text within radius characters of [start, end)
func contextWindow(text string, start, end, radius int) string {
	from := start
	for i := 0; i < radius && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}

	to := end
	for i := 0; i < radius && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	return strings.ToLower(text[from:to])
}
