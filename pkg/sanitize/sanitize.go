// Package sanitize applies content-preserving transformations to text files
// before merging: credential redaction and heuristic comment stripping.
// Sanitization is diagnostic-friendly but never fatal; on any internal error
// the original content is returned with a zero report.
package sanitize

import "regexp"

// Options selects which transformations run.
type Options struct {
	StripAPIKeys   bool
	RemoveComments bool
}

// Report counts what a sanitize pass did to one file. Purely diagnostic.
type Report struct {
	Redactions   int // credential matches replaced
	CommentLines int // lines a comment was stripped from
}

// Credential shapes. Matching is shape-based only; no attempt is made to
// verify a match is a live credential, so false positives are expected.
var redactions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	// OpenAI-style secret keys.
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`), "[REDACTED_API_KEY]"},
	// AWS access key IDs.
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "[REDACTED_AWS_KEY]"},
	// Google API keys.
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), "[REDACTED_GOOGLE_KEY]"},
	// Generic api_key= / apikey: / api-key = assignments.
	{regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*["']?)([a-zA-Z0-9_\-]{20,})(["']?)`), "${1}[REDACTED_KEY]${3}"},
}

// Sanitize applies the enabled transformations to content. Redaction always
// runs before comment removal so a secret inside a comment is redacted even
// when the comment heuristic leaves that line alone. Sanitize is idempotent:
// running it on its own output is a no-op.
func Sanitize(content string, opts Options) (out string, report Report) {
	// Sanitization must never fail the pipeline.
	defer func() {
		if recover() != nil {
			out = content
			report = Report{}
		}
	}()

	out = content
	if opts.StripAPIKeys {
		for _, r := range redactions {
			matches := r.pattern.FindAllStringIndex(out, -1)
			if len(matches) == 0 {
				continue
			}
			report.Redactions += len(matches)
			out = r.pattern.ReplaceAllString(out, r.replacement)
		}
	}
	if opts.RemoveComments {
		var removed int
		out, removed = stripComments(out)
		report.CommentLines = removed
	}
	return out, report
}
