package tokens

import (
	"strings"
	"testing"
)

func TestCountStable(t *testing.T) {
	content := "the quick brown fox jumps over the lazy dog"
	first := Count(content)
	for i := 0; i < 10; i++ {
		if Count(content) != first {
			t.Fatal("Count is not stable across repeated calls")
		}
	}
	if first <= 0 {
		t.Fatalf("Count(%q) = %d, want > 0", content, first)
	}
}

func TestCountMonotonicOverPrefixes(t *testing.T) {
	content := "import os\n# secret\nAKIAABCDEFGHIJKLMNOP def main():\n    pass\n"
	prev := 0
	for i := 0; i <= len(content); i++ {
		got := Count(content[:i])
		if got < prev {
			t.Fatalf("Count not monotonic: prefix %d -> %d, prefix %d -> %d", i-1, prev, i, got)
		}
		prev = got
	}
}

func TestCountEmpty(t *testing.T) {
	if Count("") != 0 {
		t.Errorf("Count(\"\") = %d, want 0", Count(""))
	}
}

func TestRegistry(t *testing.T) {
	if len(Registry) != 5 {
		t.Fatalf("registry has %d families, want 5", len(Registry))
	}
	limits := map[string]int{
		"GPT-4o":            128000,
		"GPT-4 Turbo":       128000,
		"Claude 3.5 Sonnet": 200000,
		"Gemini 1.5 Pro":    1000000,
		"Llama 3.3 70B":     128000,
	}
	for _, fam := range Registry {
		want, ok := limits[fam.Name]
		if !ok {
			t.Errorf("unexpected family %q", fam.Name)
			continue
		}
		if fam.Limit != want {
			t.Errorf("family %q limit = %d, want %d", fam.Name, fam.Limit, want)
		}
		if fam.Icon == "" {
			t.Errorf("family %q has no icon", fam.Name)
		}
	}
}

func TestEstimateAll(t *testing.T) {
	estimates := EstimateAll("hello world")
	if len(estimates) != len(Registry) {
		t.Fatalf("got %d estimates, want %d", len(estimates), len(Registry))
	}
	for _, e := range estimates {
		if e.Tokens <= 0 {
			t.Errorf("family %q: tokens = %d, want > 0", e.Family.Name, e.Tokens)
		}
		if e.Percent < 0 || e.Percent > 100 {
			t.Errorf("family %q: percent = %f out of range", e.Family.Name, e.Percent)
		}
	}
}

func TestPercentClamped(t *testing.T) {
	huge := strings.Repeat("word ", 2_000_000)
	for _, e := range EstimateAll(huge) {
		if e.Percent > 100 {
			t.Errorf("family %q: percent %f not clamped", e.Family.Name, e.Percent)
		}
	}
}

func TestByFamily(t *testing.T) {
	m := ByFamily("some text here")
	if len(m) != len(Registry) {
		t.Fatalf("got %d entries, want %d", len(m), len(Registry))
	}
	if _, ok := m["GPT-4o"]; !ok {
		t.Error("missing GPT-4o entry")
	}
}
