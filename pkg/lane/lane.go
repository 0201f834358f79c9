// Package lane selects the merge strategy for a run from the queue's input
// formats and the requested output format. The whole routing decision lives
// in one table so its total/partial behavior stays auditable.
package lane

import (
	"errors"
	"fmt"
	"strings"

	"docustream/pkg/queue"
)

// OutputFormat is the artifact format requested by the caller.
type OutputFormat int

const (
	OutputTXT OutputFormat = iota
	OutputPDF
	OutputDOCX
)

func (o OutputFormat) String() string {
	switch o {
	case OutputPDF:
		return "pdf"
	case OutputDOCX:
		return "docx"
	default:
		return "txt"
	}
}

// MIMEType returns the MIME type artifacts of this format carry.
func (o OutputFormat) MIMEType() string {
	switch o {
	case OutputPDF:
		return "application/pdf"
	case OutputDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}

// ParseOutputFormat converts a user-supplied format name, case-insensitive.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text":
		return OutputTXT, nil
	case "pdf":
		return OutputPDF, nil
	case "docx", "word":
		return OutputDOCX, nil
	default:
		return OutputTXT, fmt.Errorf("unknown output format %q (want txt, pdf or docx)", s)
	}
}

// Lane is a named merge strategy.
type Lane int

const (
	// Text concatenates decoded text with per-file headers.
	Text Lane = iota
	// NativePDF concatenates already-PDF inputs page for page.
	NativePDF
	// ConvertMerge converts non-PDF inputs to PDF first, then merges.
	ConvertMerge
	// Word composes DOCX inputs into one document.
	Word
)

func (l Lane) String() string {
	switch l {
	case NativePDF:
		return "native-pdf"
	case ConvertMerge:
		return "convert-merge"
	case Word:
		return "word"
	default:
		return "text"
	}
}

// ErrUnsupportedMix is returned when no lane can serve the format
// combination. The only undefined cell in the table is DOCX output with
// non-DOCX inputs, since no conversion path to DOCX exists.
var ErrUnsupportedMix = errors.New("unsupported input format combination")

// Select routes a run to its merge lane.
//
//	txt  | any queue              -> Text
//	pdf  | all inputs PDF         -> NativePDF
//	pdf  | any non-PDF input      -> ConvertMerge
//	docx | all inputs DOCX        -> Word
//	docx | any non-DOCX input     -> ErrUnsupportedMix
func Select(formats map[queue.Format]struct{}, output OutputFormat) (Lane, error) {
	switch output {
	case OutputTXT:
		return Text, nil
	case OutputPDF:
		if onlyFormat(formats, queue.FormatPDF) {
			return NativePDF, nil
		}
		return ConvertMerge, nil
	case OutputDOCX:
		if onlyFormat(formats, queue.FormatDOCX) {
			return Word, nil
		}
		return 0, fmt.Errorf("%w: docx output requires all inputs to be docx", ErrUnsupportedMix)
	default:
		return 0, fmt.Errorf("%w: unknown output format %d", ErrUnsupportedMix, output)
	}
}

func onlyFormat(formats map[queue.Format]struct{}, want queue.Format) bool {
	if len(formats) != 1 {
		return false
	}
	_, ok := formats[want]
	return ok
}
