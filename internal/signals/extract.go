// Package signals derives deterministic measurement signals from raw LLM
// response text. Everything here is pure string analysis with no I/O.
//
// The sentiment and prominence scores are lexicon/position heuristics, not
// semantic NLP. They are cheap, deterministic proxies; see the composite
// scorer weights before substituting a smarter signal.
package signals

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/brandlens/brandlens/internal/models"
)

// Matches absolute http(s) URLs and bare www.-prefixed hosts.
var urlPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"')\]]+|\bwww\.[^\s<>"')\]]+`)

// Lexicons for the sentiment heuristic. Occurrence counts are netted and
// scaled; this intentionally ignores negation and context.
var (
	positiveWords = []string{
		"best", "great", "excellent", "leading", "top-rated", "trusted",
		"reliable", "popular", "recommended", "innovative", "outstanding",
		"impressive", "favorite", "love",
	}
	negativeWords = []string{
		"worst", "bad", "poor", "unreliable", "avoid", "scam",
		"disappointing", "overpriced", "complaint", "outdated", "slow",
		"frustrating", "hate",
	}
)

// ExtractCitations scans text for URLs and bare www hosts and returns the
// referenced sources, de-duplicated by domain. Domains are lowercased with
// any leading "www." stripped. Malformed URLs are silently dropped.
func ExtractCitations(text string) []models.CitationRef {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var citations []models.CitationRef

	for _, match := range matches {
		raw := strings.TrimRight(match, ".,;:!?")

		candidate := raw
		if !strings.HasPrefix(strings.ToLower(candidate), "http") {
			candidate = "https://" + candidate
		}

		parsed, err := url.Parse(candidate)
		if err != nil || parsed.Hostname() == "" {
			continue
		}

		domain := strings.ToLower(parsed.Hostname())
		domain = strings.TrimPrefix(domain, "www.")
		// A host without a dot left after stripping (a bare "www" token,
		// a scheme with no TLD) is not a citable source.
		if domain == "" || !strings.Contains(domain, ".") || seen[domain] {
			continue
		}

		seen[domain] = true
		citations = append(citations, models.CitationRef{
			Domain: domain,
			URL:    raw,
		})
	}

	return citations
}

// DetectMention reports whether the brand name or its domain occurs in the
// text, case-insensitively. Returns false when neither brand nor domain is
// supplied.
func DetectMention(text, brandName, domain string) bool {
	if brandName == "" && domain == "" {
		return false
	}

	lower := strings.ToLower(text)

	if brandName != "" && strings.Contains(lower, strings.ToLower(brandName)) {
		return true
	}

	if domain != "" {
		d := strings.ToLower(domain)
		if strings.Contains(lower, d) {
			return true
		}
		if bare := strings.TrimPrefix(d, "www."); bare != d && strings.Contains(lower, bare) {
			return true
		}
	}

	return false
}

// SentimentScore nets positive against negative lexicon hits, scaled by 1/3
// and clamped to [-1, 1]. Returns 0 for text with no lexicon hits and nil
// only for empty input.
func SentimentScore(text string) *float64 {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)

	net := 0
	for _, word := range positiveWords {
		net += strings.Count(lower, word)
	}
	for _, word := range negativeWords {
		net -= strings.Count(lower, word)
	}

	score := float64(net) / 3.0
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	return &score
}

// ProminenceScore rates how early and how emphasized the first brand mention
// is within the text. Earlier mentions score higher; a mention inside an
// ordered list or next to a URL gets a bonus. Returns 0 when the brand does
// not occur and nil only for empty input.
func ProminenceScore(text, brandName, domain string) *float64 {
	if text == "" {
		return nil
	}

	idx := firstOccurrence(text, brandName, domain)
	if idx < 0 {
		zero := 0.0
		return &zero
	}

	relative := float64(idx) / float64(len(text))

	var score float64
	switch {
	case relative <= 0.15:
		score = 0.6
	case relative <= 0.4:
		score = 0.35
	default:
		score = 0.15
	}

	start := idx - 80
	if start < 0 {
		start = 0
	}
	end := idx + 120
	if end > len(text) {
		end = len(text)
	}
	window := text[start:end]

	if hasListMarker(window) {
		score += 0.15
	}
	if urlPattern.MatchString(window) {
		score += 0.15
	}

	if score > 1 {
		score = 1
	}

	return &score
}

// BrandPositions returns the 1-based mention rank of every listed brand that
// occurs in the text, ordered by first occurrence. The rank of the earliest
// mentioned brand is 1.
func BrandPositions(text string, brands []string) []models.BrandPosition {
	lower := strings.ToLower(text)

	type hit struct {
		brand string
		index int
	}
	var hits []hit

	seen := make(map[string]bool)
	for _, brand := range brands {
		if brand == "" {
			continue
		}
		key := strings.ToLower(brand)
		if seen[key] {
			continue
		}
		seen[key] = true

		if idx := strings.Index(lower, key); idx >= 0 {
			hits = append(hits, hit{brand: brand, index: idx})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].index < hits[j].index })

	positions := make([]models.BrandPosition, 0, len(hits))
	for rank, h := range hits {
		positions = append(positions, models.BrandPosition{
			Brand:    h.brand,
			Position: rank + 1,
		})
	}

	return positions
}

// firstOccurrence returns the byte index of the earliest case-insensitive
// occurrence of brandName or domain (with or without "www.") in text, or -1.
func firstOccurrence(text, brandName, domain string) int {
	lower := strings.ToLower(text)

	best := -1
	consider := func(needle string) {
		if needle == "" {
			return
		}
		if idx := strings.Index(lower, strings.ToLower(needle)); idx >= 0 {
			if best < 0 || idx < best {
				best = idx
			}
		}
	}

	consider(brandName)
	consider(domain)
	if bare := strings.TrimPrefix(strings.ToLower(domain), "www."); domain != "" && bare != strings.ToLower(domain) {
		consider(bare)
	}

	return best
}

// hasListMarker reports whether the window looks like part of an ordered or
// dashed list.
func hasListMarker(window string) bool {
	for _, marker := range []string{"1.", "2.", "3."} {
		if strings.Contains(window, marker) {
			return true
		}
	}
	for _, line := range strings.Split(window, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			return true
		}
	}
	return false
}
