package queue

import (
	"os"
	"path/filepath"
	"testing"

	"docustream/pkg/ignore"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", []byte("import os\n"))
	writeFile(t, dir, "sub/b.txt", []byte("hello\n"))
	writeFile(t, dir, "skip.log", []byte("noise\n"))
	writeFile(t, dir, "image.png", []byte{0x89, 'P', 'N', 'G'})
	writeFile(t, dir, "blob.dat", []byte{0x00, 0x01, 0x02, 0x03})

	rules := ignore.NewRuleSet(zap.NewNop())
	rules.AddLines("*.log")

	files, skipped, err := Collect([]string{dir}, CollectOptions{Rules: rules, MaxFileSizeKB: 64}, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range files {
		names[f.Name] = true
		if f.Source != SourceUpload {
			t.Errorf("file %s has source %v, want upload", f.Name, f.Source)
		}
	}
	if !names["a.py"] || !names["sub/b.txt"] {
		t.Errorf("expected a.py and sub/b.txt in queue, got %v", names)
	}
	if names["skip.log"] {
		t.Error("ignored file skip.log was collected")
	}
	if names["image.png"] {
		t.Error("binary-extension file was collected")
	}

	// The null-byte blob is sniffed and skipped with a reason.
	foundBlob := false
	for _, s := range skipped {
		if filepath.Base(s.Path) == "blob.dat" {
			foundBlob = true
		}
	}
	if !foundBlob {
		t.Errorf("expected blob.dat in skipped list, got %v", skipped)
	}
}

func TestCollectSizeLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.txt", make([]byte, 4096))

	_, skipped, err := Collect([]string{filepath.Join(dir, "big.txt")}, CollectOptions{MaxFileSizeKB: 1}, zap.NewNop())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped file, got %d", len(skipped))
	}
}

func TestCollectMissingPath(t *testing.T) {
	if _, _, err := Collect([]string{"/does/not/exist"}, CollectOptions{}, zap.NewNop()); err == nil {
		t.Error("expected error for missing explicit path")
	}
}
