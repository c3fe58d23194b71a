package tracking_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ergy12/inspection-du-travail/internal/tracking"
)

func TestGenerateCode_Format(t *testing.T) {
	code, err := tracking.GenerateCode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, tracking.Prefix))
	assert.Len(t, code, len(tracking.Prefix)+8, "codes are fixed length")
}

// The suffix alphabet deliberately excludes 0/O, 1/I/L — the code has to
// survive being read over the phone.
func TestGenerateCode_NoAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := tracking.GenerateCode()
		require.NoError(t, err)

		suffix := strings.TrimPrefix(code, tracking.Prefix)
		for _, c := range suffix {
			assert.NotContains(t, "0O1IL", string(c), "code %s contains ambiguous character", code)
			assert.True(t, (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '9'),
				"code %s contains unexpected character %q", code, c)
		}
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		code, err := tracking.GenerateCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s after %d draws", code, i)
		seen[code] = true
	}
}

// Every letter of the alphabet must be drawn with equal probability; a
// naive byte-modulo draw over 31 letters skews the first 256%31 of them
// measurably high.
func TestGenerateCode_UniformDistribution(t *testing.T) {
	const draws = 20000
	counts := map[rune]int{}
	for i := 0; i < draws; i++ {
		code, err := tracking.GenerateCode()
		require.NoError(t, err)
		for _, c := range strings.TrimPrefix(code, tracking.Prefix) {
			counts[c]++
		}
	}

	assert.Len(t, counts, 31, "every alphabet letter should appear")

	expected := float64(draws*8) / 31
	for c, n := range counts {
		assert.InDelta(t, expected, float64(n), expected*0.07,
			"letter %q drawn %d times, expected ~%.0f", c, n, expected)
	}
}

// The code shown to the complainant is the code stored — no separators
// or whitespace that could be lost when copying.
func TestGenerateCode_CopiesCleanly(t *testing.T) {
	code, err := tracking.GenerateCode()
	require.NoError(t, err)

	assert.Equal(t, code, strings.TrimSpace(code))
	assert.NotContains(t, code, " ")
}
