// Package tokens approximates token counts against the context limits of a
// fixed registry of model families. Estimates are informational only and
// never block a merge.
package tokens

import "strings"

// Family describes one model family in the registry.
type Family struct {
	Name  string // display name
	Limit int    // published context-window size in tokens
	Icon  string // display attribute for UIs
}

// Registry is the fixed set of model families estimates are reported for.
var Registry = []Family{
	{Name: "GPT-4o", Limit: 128000, Icon: "🟢"},
	{Name: "GPT-4 Turbo", Limit: 128000, Icon: "🔵"},
	{Name: "Claude 3.5 Sonnet", Limit: 200000, Icon: "🟠"},
	{Name: "Gemini 1.5 Pro", Limit: 1000000, Icon: "🔴"},
	{Name: "Llama 3.3 70B", Limit: 128000, Icon: "🟣"},
}

// Estimate is a token approximation for one family.
type Estimate struct {
	Family  Family
	Tokens  int
	Percent float64 // of the family's context limit, clamped to 100
}

// Count approximates the token count of content. The heuristic takes the
// larger of the whitespace-separated word count and one token per four
// characters, which keeps the count stable across calls and monotonic under
// appending: neither measure can shrink when content grows.
func Count(content string) int {
	words := len(strings.Fields(content))
	chars := len(content)
	perChar := (chars + 3) / 4
	if perChar > words {
		return perChar
	}
	return words
}

// EstimateAll returns one estimate per registry family for content.
func EstimateAll(content string) []Estimate {
	count := Count(content)
	estimates := make([]Estimate, len(Registry))
	for i, fam := range Registry {
		pct := 0.0
		if fam.Limit > 0 {
			pct = float64(count) / float64(fam.Limit) * 100
			if pct > 100 {
				pct = 100
			}
		}
		estimates[i] = Estimate{Family: fam, Tokens: count, Percent: pct}
	}
	return estimates
}

// ByFamily returns the estimates keyed by family name.
func ByFamily(content string) map[string]Estimate {
	all := EstimateAll(content)
	m := make(map[string]Estimate, len(all))
	for _, e := range all {
		m[e.Family.Name] = e
	}
	return m
}
