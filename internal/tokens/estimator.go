// Package tokens provides a heuristic, locale-aware token estimator. It is
// deliberately offline: estimates feed local budget checks and cost
// estimation, never billing.
package tokens

import "unicode"

// DefaultReservedTokens is the budget margin kept free for the model's own
// output within the same token ceiling.
const DefaultReservedTokens = 2000

// denseScripts are writing systems where tokenizers pack fewer characters
// per token: roughly 1 token per 2.5 runes versus 1 per 4 elsewhere.
var denseScripts = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
}

// Estimate returns the estimated token count for text. Empty text estimates
// to 0; any non-empty text estimates to at least 1. The arithmetic is pure
// integer math so results are identical across platforms.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	var dense, other int
	for _, r := range text {
		if isDense(r) {
			dense++
		} else {
			other++
		}
	}

	// ceil(dense/2.5 + other/4), expressed over a common denominator of 20.
	estimate := (dense*8 + other*5 + 19) / 20
	if estimate < 1 {
		estimate = 1
	}

	return estimate
}

// ValidateLimit reports whether inputTokens fits the ceiling after reserving
// room for output.
func ValidateLimit(inputTokens, maxTokens, reservedTokens int) bool {
	return inputTokens <= maxTokens-reservedTokens
}

func isDense(r rune) bool {
	for _, table := range denseScripts {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}
