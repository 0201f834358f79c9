// Package queue models the ordered list of files handed to the merge
// pipeline. Entries are immutable once added; editing a file means removing
// it and adding it again.
package queue

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Source identifies where a queued file came from.
type Source int

const (
	SourceUpload Source = iota
	SourcePaste
	SourceGist
	SourceRepo
)

func (s Source) String() string {
	switch s {
	case SourceUpload:
		return "upload"
	case SourcePaste:
		return "paste"
	case SourceGist:
		return "gist"
	case SourceRepo:
		return "repo"
	default:
		return "unknown"
	}
}

// Format is the coarse file format inferred from the extension. Anything
// that is not a PDF or a word-processor document is treated as text.
type Format int

const (
	FormatText Format = iota
	FormatPDF
	FormatDOCX
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "text"
	}
}

// QueuedFile is one entry in the merge queue. Content is owned by the queue
// once added and must not be mutated by callers.
type QueuedFile struct {
	Name    string
	Content []byte
	Source  Source
}

// Format infers the coarse format from the file extension.
func (f QueuedFile) Format() Format {
	switch strings.ToLower(path.Ext(f.Name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatText
	}
}

// Ext returns the lowercased file extension including the dot.
func (f QueuedFile) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// ErrInvalidName is wrapped by every filename validation failure.
var ErrInvalidName = errors.New("invalid filename")

var invalidNameChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)

// Windows device names are rejected so artifacts stay portable.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// New validates name and constructs a QueuedFile. The content slice is used
// as-is; callers that retain their own copy must pass a clone.
func New(name string, content []byte, source Source) (QueuedFile, error) {
	if err := ValidateFilename(name); err != nil {
		return QueuedFile{}, err
	}
	return QueuedFile{Name: name, Content: content, Source: source}, nil
}

// ValidateFilename checks a queue entry name for traversal sequences,
// control characters and reserved names. Interior forward slashes are
// allowed so repository-relative paths survive as display names.
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > 255 {
		return fmt.Errorf("%w: %q exceeds 255 characters", ErrInvalidName, name[:32]+"...")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q contains a traversal sequence", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return fmt.Errorf("%w: %q is not a relative slash path", ErrInvalidName, name)
	}
	if invalidNameChars.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidName, name)
	}
	base := path.Base(name)
	stem := strings.ToUpper(strings.TrimSuffix(base, path.Ext(base)))
	if _, ok := reservedNames[stem]; ok {
		return fmt.Errorf("%w: %q is a reserved system name", ErrInvalidName, name)
	}
	return nil
}

// SanitizeFilename repairs an untrusted name instead of rejecting it:
// path components are stripped, invalid characters replaced, and the result
// truncated to 255 characters. An empty result becomes "unnamed_file".
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	if name == "" {
		return "unnamed_file"
	}
	if len(name) > 255 {
		ext := path.Ext(name)
		if len(ext) >= 255 {
			ext = ""
		}
		name = name[:255-len(ext)] + ext
	}
	return name
}

// FormatSet collects the distinct coarse formats present in a queue.
func FormatSet(files []QueuedFile) map[Format]struct{} {
	set := make(map[Format]struct{}, 3)
	for _, f := range files {
		set[f.Format()] = struct{}{}
	}
	return set
}

// FormatSize renders a byte count in human-readable form for diagnostics.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
	}
}
