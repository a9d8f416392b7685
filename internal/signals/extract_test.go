package signals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCitations(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		domains []string
	}{
		{
			name:    "no urls",
			text:    "Acme is a well known vendor in this space.",
			domains: nil,
		},
		{
			name:    "absolute url with trailing punctuation",
			text:    "See https://www.Example.com/pricing.",
			domains: []string{"example.com"},
		},
		{
			name:    "bare www host",
			text:    "More details at www.acme.io and nowhere else.",
			domains: []string{"acme.io"},
		},
		{
			name:    "deduplicated by domain",
			text:    "https://example.com/a then https://www.example.com/b then https://other.org",
			domains: []string{"example.com", "other.org"},
		},
		{
			name:    "bare www token is not a citation",
			text:    "Their site is listed as www., which tells us nothing.",
			domains: nil,
		},
		{
			name:    "host without a tld is not a citation",
			text:    "The staging box at https://intranet has the docs.",
			domains: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			citations := ExtractCitations(tt.text)

			var domains []string
			for _, c := range citations {
				domains = append(domains, c.Domain)
			}
			assert.Equal(t, tt.domains, domains)
		})
	}
}

func TestDetectMention(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		brand    string
		domain   string
		expected bool
	}{
		{"case-insensitive brand", "I would recommend ACME for this.", "Acme", "", true},
		{"domain match", "Check acme.io for details.", "SomethingElse", "acme.io", true},
		{"www-stripped domain match", "Check acme.io for details.", "", "www.acme.io", true},
		{"no mention", "There are many vendors to consider.", "Acme", "acme.io", false},
		{"empty brand and domain", "Acme is great.", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectMention(tt.text, tt.brand, tt.domain))
		})
	}
}

func TestSentimentScore(t *testing.T) {
	t.Run("empty input is nil", func(t *testing.T) {
		assert.Nil(t, SentimentScore(""))
	})

	t.Run("neutral text is zero, not nil", func(t *testing.T) {
		score := SentimentScore("This paragraph names no opinion whatsoever.")
		require.NotNil(t, score)
		assert.Equal(t, 0.0, *score)
	})

	t.Run("positive text", func(t *testing.T) {
		score := SentimentScore("A great and reliable option, highly recommended.")
		require.NotNil(t, score)
		assert.Equal(t, 1.0, *score)
	})

	t.Run("negative text", func(t *testing.T) {
		score := SentimentScore("The worst choice, poor support, avoid it.")
		require.NotNil(t, score)
		assert.Equal(t, -1.0, *score)
	})

	t.Run("clamped to one", func(t *testing.T) {
		score := SentimentScore(strings.Repeat("great excellent recommended ", 10))
		require.NotNil(t, score)
		assert.Equal(t, 1.0, *score)
	})
}

func TestProminenceScore(t *testing.T) {
	t.Run("empty input is nil", func(t *testing.T) {
		assert.Nil(t, ProminenceScore("", "Acme", ""))
	})

	t.Run("absent brand is zero, not nil", func(t *testing.T) {
		score := ProminenceScore("Plenty of vendors exist in this market today.", "Acme", "")
		require.NotNil(t, score)
		assert.Equal(t, 0.0, *score)
	})

	t.Run("earlier mention scores at least as high", func(t *testing.T) {
		filler := strings.Repeat("Other vendors are also worth a look here. ", 20)
		early := ProminenceScore("Acme leads the field. "+filler, "Acme", "")
		late := ProminenceScore(filler+" Finally there is Acme.", "Acme", "")
		require.NotNil(t, early)
		require.NotNil(t, late)
		assert.GreaterOrEqual(t, *early, *late)
	})

	t.Run("list marker and url bonuses", func(t *testing.T) {
		plain := ProminenceScore("Acme is one vendor among several in the market.", "Acme", "")
		listed := ProminenceScore("1. Acme (https://acme.io) is the first pick.", "Acme", "")
		require.NotNil(t, plain)
		require.NotNil(t, listed)
		assert.Greater(t, *listed, *plain)
	})

	t.Run("never exceeds one", func(t *testing.T) {
		score := ProminenceScore("1. Acme https://acme.io", "Acme", "acme.io")
		require.NotNil(t, score)
		assert.LessOrEqual(t, *score, 1.0)
	})
}

func TestBrandPositions(t *testing.T) {
	text := "For this need, Bravo is the usual pick, though Acme and Charlie also compete."

	positions := BrandPositions(text, []string{"Acme", "Bravo", "Charlie", "Absent"})
	require.Len(t, positions, 3)

	assert.Equal(t, "Bravo", positions[0].Brand)
	assert.Equal(t, 1, positions[0].Position)
	assert.Equal(t, "Acme", positions[1].Brand)
	assert.Equal(t, 2, positions[1].Position)
	assert.Equal(t, "Charlie", positions[2].Brand)
	assert.Equal(t, 3, positions[2].Position)
}

func TestBrandPositionsIgnoresDuplicatesAndEmpty(t *testing.T) {
	positions := BrandPositions("Acme then acme again.", []string{"Acme", "acme", ""})
	require.Len(t, positions, 1)
	assert.Equal(t, 1, positions[0].Position)
}
