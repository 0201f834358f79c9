package merge

import (
	"errors"
	"strings"
	"testing"

	"docustream/pkg/queue"

	"go.uber.org/zap"
)

func TestMergeTextHeadersAndOrder(t *testing.T) {
	files := []queue.QueuedFile{
		{Name: "first.txt", Content: []byte("alpha")},
		{Name: "second.md", Content: []byte("beta")},
	}

	out, err := mergeText(files, zap.NewNop())
	if err != nil {
		t.Fatalf("mergeText failed: %v", err)
	}
	text := string(out)

	firstAt := strings.Index(text, "# File: first.txt")
	secondAt := strings.Index(text, "# File: second.md")
	if firstAt < 0 || secondAt < 0 {
		t.Fatalf("missing file headers in output:\n%s", text)
	}
	if firstAt > secondAt {
		t.Error("files merged out of queue order")
	}
	if !strings.Contains(text, "alpha") || !strings.Contains(text, "beta") {
		t.Error("file contents missing from output")
	}
	if !strings.Contains(text, textSeparator) {
		t.Error("separator lines missing")
	}
}

func TestMergeTextCodeFencing(t *testing.T) {
	files := []queue.QueuedFile{
		{Name: "script.py", Content: []byte("print('hi')")},
		{Name: "notes.txt", Content: []byte("plain notes")},
	}

	out, err := mergeText(files, zap.NewNop())
	if err != nil {
		t.Fatalf("mergeText failed: %v", err)
	}
	text := string(out)

	if !strings.Contains(text, "```python\nprint('hi')\n```") {
		t.Error("python file not fenced")
	}
	if strings.Contains(text, "```\nplain notes") || strings.Contains(text, "plain notes\n```") {
		t.Error("plain text file should not be fenced")
	}
}

func TestMergeTextLatin1Fallback(t *testing.T) {
	files := []queue.QueuedFile{
		{Name: "legacy.txt", Content: []byte{'c', 'a', 'f', 0xE9}},
	}
	out, err := mergeText(files, zap.NewNop())
	if err != nil {
		t.Fatalf("mergeText failed: %v", err)
	}
	if !strings.Contains(string(out), "café") {
		t.Error("latin-1 content not decoded")
	}
}

func TestMergeTextRejectsBinary(t *testing.T) {
	files := []queue.QueuedFile{
		{Name: "good.txt", Content: []byte("fine")},
		{Name: "blob.txt", Content: []byte{0x00, 0x01, 0x02}},
	}
	_, err := mergeText(files, zap.NewNop())
	if err == nil {
		t.Fatal("expected decode error for binary content")
	}
	if !errors.Is(err, ErrMerge) {
		t.Errorf("error %v does not wrap ErrMerge", err)
	}
	if !strings.Contains(err.Error(), "blob.txt") {
		t.Errorf("error %v does not name the offending file", err)
	}
}
