package merge

import (
	"bytes"
	"errors"
	"testing"

	"docustream/pkg/queue"

	docx "github.com/fumiama/go-docx"
	"go.uber.org/zap"
)

func TestMergeDOCX(t *testing.T) {
	first := buildDOCX(t, "first document")
	second := buildDOCX(t, "second document")

	files := []queue.QueuedFile{
		{Name: "a.docx", Content: first},
		{Name: "b.docx", Content: second},
	}

	out, err := mergeDOCX(files, zap.NewNop())
	if err != nil {
		t.Fatalf("mergeDOCX failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("merged document is empty")
	}

	merged, err := docx.Parse(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("merged output does not parse as docx: %v", err)
	}

	single, err := docx.Parse(bytes.NewReader(first), int64(len(first)))
	if err != nil {
		t.Fatal(err)
	}
	if len(merged.Document.Body.Items) <= len(single.Document.Body.Items) {
		t.Errorf("merged body has %d items, want more than a single input's %d",
			len(merged.Document.Body.Items), len(single.Document.Body.Items))
	}
}

func TestMergeDOCXRejectsInvalidInput(t *testing.T) {
	files := []queue.QueuedFile{
		{Name: "a.docx", Content: buildDOCX(t, "valid")},
		{Name: "broken.docx", Content: []byte("not a zip archive")},
	}
	_, err := mergeDOCX(files, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for invalid docx input")
	}
	if !errors.Is(err, ErrMerge) {
		t.Errorf("error %v does not wrap ErrMerge", err)
	}
}

func TestMergeDOCXEmptyInput(t *testing.T) {
	if _, err := mergeDOCX(nil, zap.NewNop()); !errors.Is(err, ErrNoOutput) {
		t.Errorf("expected ErrNoOutput, got %v", err)
	}
}

func TestArtifactNaming(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "consolidated.txt"},
		{"bundle", "bundle.txt"},
		{"bundle.txt", "bundle.txt"},
		{"../sneaky", "sneaky.txt"},
	}
	for _, c := range cases {
		a := newArtifact([]byte("x"), 0, c.name)
		if a.Filename != c.want {
			t.Errorf("newArtifact(%q) filename = %q, want %q", c.name, a.Filename, c.want)
		}
	}
}
