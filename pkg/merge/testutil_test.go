package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	docx "github.com/fumiama/go-docx"
)

// buildPDF produces a minimal but structurally valid PDF with the given
// number of empty pages, computing the xref offsets as it writes.
func buildPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")

	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	var kids bytes.Buffer
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", 3+i)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids.String(), pages))
	for i := 0; i < pages; i++ {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n", 3+i))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)
	return buf.Bytes()
}

// buildDOCX produces a valid single-paragraph word document.
func buildDOCX(t *testing.T, text string) []byte {
	t.Helper()
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText(text)

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("failed to build test docx: %v", err)
	}
	return buf.Bytes()
}

// stubConverter is a Converter test double. Files listed in fail error out;
// everything else becomes a PDF with the configured page count.
type stubConverter struct {
	fail  map[string]bool
	pages int

	mu    sync.Mutex
	calls []string
}

func (s *stubConverter) ConvertToPDF(_ context.Context, name string, _ []byte) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()

	if s.fail[name] {
		return nil, errors.New("converter unavailable")
	}
	pages := s.pages
	if pages <= 0 {
		pages = 1
	}
	return buildPDF(pages), nil
}
