// Package ignore implements gitignore-style pattern matching for queue
// collection. Patterns come from .docustreamignore files or command-line
// flags and decide which files are excluded when a directory is expanded
// into the merge queue.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern is a single compiled ignore rule.
type Pattern struct {
	Regexp *regexp.Regexp // compiled form of the rule
	Negate bool           // true when the rule starts with '!'
	Line   string         // original pattern line
	LineNo int            // 1-based line number in the source
}

// RuleSet holds an ordered list of ignore rules. Later rules win, so a
// negated rule can re-include a path excluded by an earlier one.
type RuleSet struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// NewRuleSet returns an empty RuleSet. A nil logger is replaced with a no-op.
func NewRuleSet(logger *zap.Logger) *RuleSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleSet{logger: logger}
}

// Load builds a RuleSet from an optional global ignore file and an optional
// local .docustreamignore file. Missing files are not an error.
func Load(localPath, globalPath string, logger *zap.Logger) (*RuleSet, error) {
	rs := NewRuleSet(logger)
	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		if err := rs.AddFile(path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return rs, nil
}

// AddFile reads an ignore file and compiles its lines into the set.
func (rs *RuleSet) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for i, line := range strings.Split(string(content), "\n") {
		rs.addLine(line, i+1)
	}
	rs.logger.Debug("Loaded ignore file",
		zap.String("path", path),
		zap.Int("totalPatterns", len(rs.patterns)))
	return nil
}

// AddLines compiles ad-hoc pattern lines, e.g. from --exclude flags.
func (rs *RuleSet) AddLines(lines ...string) {
	for i, line := range lines {
		rs.addLine(line, len(rs.patterns)+i+1)
	}
}

func (rs *RuleSet) addLine(line string, lineNo int) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	compiled, err := regexp.Compile("^" + patternToRegex(trimmed))
	if err != nil {
		rs.logger.Warn("Skipping invalid ignore pattern",
			zap.String("pattern", trimmed),
			zap.Int("lineNo", lineNo),
			zap.Error(err))
		return
	}

	rs.patterns = append(rs.patterns, &Pattern{
		Regexp: compiled,
		Negate: negate,
		Line:   line,
		LineNo: lineNo,
	})
}

// Matches reports whether path is excluded by the rule set.
func (rs *RuleSet) Matches(path string) bool {
	matched, _ := rs.MatchesPattern(path)
	return matched
}

// MatchesPattern reports whether path is excluded and which rule decided it.
func (rs *RuleSet) MatchesPattern(path string) (bool, *Pattern) {
	normalized := filepath.ToSlash(path)

	matched := false
	var last *Pattern
	for _, p := range rs.patterns {
		if p.Regexp.MatchString(normalized) {
			matched = !p.Negate
			last = p
		}
	}
	return matched, last
}

// Len returns the number of compiled rules.
func (rs *RuleSet) Len() int { return len(rs.patterns) }

// Precompiled fragments used while translating gitignore wildcards.
var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
	singleStar         = regexp.MustCompile(`\*`)
)

// patternToRegex translates one gitignore-style pattern into an anchored
// regular expression over slash-separated relative paths.
func patternToRegex(pattern string) string {
	rooted := strings.HasPrefix(pattern, "/")
	out := strings.TrimPrefix(pattern, "/")

	// Escape regex metacharacters, keeping '*', '?' and '/' for wildcards.
	for _, char := range `.+()|^$[]{}` {
		out = strings.ReplaceAll(out, string(char), `\`+string(char))
	}

	out = doubleStarMiddle.ReplaceAllString(out, `(/|/.+/)`)
	out = doubleStarTrailing.ReplaceAllString(out, `(/.*)?`)
	out = doubleStarLeading.ReplaceAllString(out, `(.*/)?`)
	out = singleStar.ReplaceAllString(out, `[^/]*`)
	out = strings.ReplaceAll(out, "?", ".")

	if strings.HasSuffix(pattern, "/") {
		out = strings.TrimSuffix(out, "/") + "(/.*)?$"
	} else {
		out += "(|/.*)?$"
	}

	if rooted {
		return out
	}
	return "(|.*/)" + out
}
