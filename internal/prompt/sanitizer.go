// Package prompt normalizes raw prompt text and fits it into a token budget
// before anything is sent over the wire.
package prompt

import (
	"errors"
	"strings"

	"github.com/mkarlin/wick/internal/tokens"
)

// MaxPromptRunes is the hard ceiling on sanitized prompt length.
const MaxPromptRunes = 100000

// TruncationMarker is appended when a prompt is cut to fit its budget.
const TruncationMarker = "\n\n[truncated]"

// ErrNoBudget indicates the token budget leaves no room for any prompt text.
var ErrNoBudget = errors.New("no token budget available for prompt")

// Sanitize normalizes arbitrary prompt text. It trims outer whitespace,
// normalizes line endings to \n, expands tabs to two spaces, strips trailing
// whitespace before newlines, collapses runs of 3+ newlines to 2, and
// truncates to MaxPromptRunes. Total and idempotent.
func Sanitize(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", "  ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")

	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}

	s = strings.TrimSpace(s)

	if runes := []rune(s); len(runes) > MaxPromptRunes {
		s = strings.TrimRight(string(runes[:MaxPromptRunes]), " \n")
	}

	return s
}

// FitToBudget returns text adjusted to fit maxTokens minus the reserved
// output margin, its token estimate, and whether it was truncated. Text
// already within budget passes through unchanged. Over-budget text is cut
// proportionally (target = len * allowed / estimated), marked, and
// re-estimated; the shrink loop guarantees the adjusted estimate never
// exceeds the allowance even for mixed-density text. ErrNoBudget is
// returned when no truncation can fit.
func FitToBudget(text string, maxTokens, reservedTokens int) (string, int, bool, error) {
	allowed := maxTokens - reservedTokens
	estimated := tokens.Estimate(text)

	if estimated <= allowed {
		return text, estimated, false, nil
	}
	if allowed <= 0 {
		return "", 0, false, ErrNoBudget
	}

	runes := []rune(text)
	target := len(runes) * allowed / estimated

	for target > 0 {
		adjusted := strings.TrimRight(string(runes[:target]), " \n") + TruncationMarker
		if est := tokens.Estimate(adjusted); est <= allowed {
			return adjusted, est, true, nil
		}
		target = target * 9 / 10
	}

	return "", 0, false, ErrNoBudget
}
