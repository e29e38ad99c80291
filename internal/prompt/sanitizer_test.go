package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarlin/wick/internal/prompt"
	"github.com/mkarlin/wick/internal/tokens"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "trims outer whitespace",
			input:    "  hello  ",
			expected: "hello",
		},
		{
			name:     "normalizes crlf and cr line endings",
			input:    "a\r\nb\rc",
			expected: "a\nb\nc",
		},
		{
			name:     "expands tabs to two spaces",
			input:    "a\tb",
			expected: "a  b",
		},
		{
			name:     "strips trailing whitespace before newlines",
			input:    "a   \nb",
			expected: "a\nb",
		},
		{
			name:     "collapses three or more newlines to two",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "combined example",
			input:    "a\r\nb\t\tc\n\n\n\nd",
			expected: "a\nb    c\n\nd",
		},
		{
			name:     "whitespace only input",
			input:    " \t\r\n \n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, prompt.Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"a\r\nb\t\tc\n\n\n\nd",
		"  mixed \t text \r\n\r\n\r\n with everything \n\n\n ",
		"안녕하세요\r\n세계",
		strings.Repeat("x", prompt.MaxPromptRunes+500),
		strings.Repeat("line\t \n\n\n", 200),
	}

	for _, input := range inputs {
		once := prompt.Sanitize(input)
		require.Equal(t, once, prompt.Sanitize(once))
	}
}

func TestSanitize_TruncatesToCeiling(t *testing.T) {
	input := strings.Repeat("a", prompt.MaxPromptRunes+1000)
	out := prompt.Sanitize(input)
	require.Len(t, []rune(out), prompt.MaxPromptRunes)
}

func TestFitToBudget(t *testing.T) {
	t.Run("text within budget passes through unchanged", func(t *testing.T) {
		text := "short prompt"
		adjusted, estimate, truncated, err := prompt.FitToBudget(text, 8192, tokens.DefaultReservedTokens)
		require.NoError(t, err)
		require.False(t, truncated)
		require.Equal(t, text, adjusted)
		require.Equal(t, tokens.Estimate(text), estimate)
	})

	t.Run("over-budget text is truncated and marked", func(t *testing.T) {
		text := strings.Repeat("some words here ", 2000) // ~8000 tokens
		adjusted, estimate, truncated, err := prompt.FitToBudget(text, 4000, tokens.DefaultReservedTokens)
		require.NoError(t, err)
		require.True(t, truncated)
		require.True(t, strings.HasSuffix(adjusted, prompt.TruncationMarker))
		require.LessOrEqual(t, estimate, 4000-tokens.DefaultReservedTokens)
	})

	t.Run("adjusted estimate honors the budget for dense prefixes", func(t *testing.T) {
		// A dense head and cheap tail defeats a purely proportional cut.
		text := strings.Repeat("统", 4000) + strings.Repeat("a", 12000)
		maxTokens := 2500
		adjusted, estimate, truncated, err := prompt.FitToBudget(text, maxTokens, tokens.DefaultReservedTokens)
		require.NoError(t, err)
		require.True(t, truncated)
		require.LessOrEqual(t, estimate, maxTokens-tokens.DefaultReservedTokens)
		require.Equal(t, tokens.Estimate(adjusted), estimate)
	})

	t.Run("zero budget cannot be truncated into", func(t *testing.T) {
		_, _, _, err := prompt.FitToBudget(strings.Repeat("a", 100000), 2000, tokens.DefaultReservedTokens)
		require.ErrorIs(t, err, prompt.ErrNoBudget)
	})

	t.Run("negative allowance fails", func(t *testing.T) {
		_, _, _, err := prompt.FitToBudget(strings.Repeat("a", 100000), 1000, tokens.DefaultReservedTokens)
		require.ErrorIs(t, err, prompt.ErrNoBudget)
	})
}
