package queue

import (
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	valid := []string{
		"main.go",
		"notes.txt",
		"docs/readme.md",
		"a",
		strings.Repeat("x", 250) + ".txt",
	}
	for _, name := range valid {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("ValidateFilename(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"../etc/passwd",
		"a/../b.txt",
		"/etc/passwd",
		`windows\path.txt`,
		"inva|id.txt",
		"bad<name>.txt",
		"CON.txt",
		"lpt1.md",
		strings.Repeat("x", 256),
	}
	for _, name := range invalid {
		if err := ValidateFilename(name); err == nil {
			t.Errorf("ValidateFilename(%q) = nil, want error", name)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\temp\file.txt`, "file.txt"},
		{"inva|id?.txt", "inva_id_.txt"},
		{"  .hidden. ", "hidden"},
		{"", "unnamed_file"},
		{"///", "unnamed_file"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatInference(t *testing.T) {
	cases := []struct {
		name string
		want Format
	}{
		{"doc.pdf", FormatPDF},
		{"DOC.PDF", FormatPDF},
		{"report.docx", FormatDOCX},
		{"main.py", FormatText},
		{"README", FormatText},
		{"archive.tar.gz", FormatText},
	}
	for _, c := range cases {
		f := QueuedFile{Name: c.name}
		if got := f.Format(); got != c.want {
			t.Errorf("Format of %q = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDecodeText(t *testing.T) {
	if s, err := DecodeText([]byte("plain utf-8 text\n")); err != nil || s != "plain utf-8 text\n" {
		t.Fatalf("DecodeText utf-8 = %q, %v", s, err)
	}

	// Latin-1 fallback: 0xE9 is é.
	s, err := DecodeText([]byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("DecodeText latin-1 failed: %v", err)
	}
	if s != "café" {
		t.Errorf("DecodeText latin-1 = %q, want %q", s, "café")
	}

	if _, err := DecodeText([]byte{'a', 0x00, 'b'}); err == nil {
		t.Error("DecodeText accepted content with a null byte")
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("package main\n")) {
		t.Error("text flagged as binary")
	}
	if !IsBinary([]byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02}) {
		t.Error("ELF header not flagged as binary")
	}
	if IsBinary(nil) {
		t.Error("empty content flagged as binary")
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, c := range cases {
		if got := FormatSize(c.n); got != c.want {
			t.Errorf("FormatSize(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
