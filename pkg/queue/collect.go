package queue

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"docustream/pkg/ignore"

	"go.uber.org/zap"
)

// CollectOptions tunes how file and directory arguments are expanded into
// queue entries.
type CollectOptions struct {
	Rules         *ignore.RuleSet // exclusion rules, may be nil
	MaxFileSizeKB int             // files above this size are skipped
	Verbose       bool            // log every skipped file at debug level
}

// Skipped records a file excluded during collection, for diagnostics.
type Skipped struct {
	Path   string
	Reason string
}

// Collect expands file and directory paths into QueuedFiles in walk order.
// Binary files, oversized files and files matching the ignore rules are
// skipped and reported, never fatal; only an unreadable explicit argument
// aborts collection.
func Collect(paths []string, opts CollectOptions, logger *zap.Logger) ([]QueuedFile, []Skipped, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rules := opts.Rules
	if rules == nil {
		rules = ignore.NewRuleSet(logger)
	}

	var files []QueuedFile
	var skipped []Skipped

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot access %s: %w", p, err)
		}

		if info.IsDir() {
			dirFiles, dirSkipped, err := collectDir(absPath, rules, opts, logger)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, dirFiles...)
			skipped = append(skipped, dirSkipped...)
			continue
		}

		qf, reason := loadFile(absPath, filepath.Base(absPath), info.Size(), opts)
		if reason != "" {
			skipped = append(skipped, Skipped{Path: absPath, Reason: reason})
			if opts.Verbose {
				logger.Debug("Skipping file", zap.String("path", absPath), zap.String("reason", reason))
			}
			continue
		}
		files = append(files, qf)
	}

	logger.Debug("Collection complete",
		zap.Int("queued", len(files)),
		zap.Int("skipped", len(skipped)))
	return files, skipped, nil
}

func collectDir(root string, rules *ignore.RuleSet, opts CollectOptions, logger *zap.Logger) ([]QueuedFile, []Skipped, error) {
	var files []QueuedFile
	var skipped []Skipped

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if rules.Matches(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if rules.Matches(relPath) {
			if opts.Verbose {
				logger.Debug("File matches ignore pattern", zap.String("path", path))
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("Failed to stat file during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		qf, reason := loadFile(path, relPath, info.Size(), opts)
		if reason != "" {
			skipped = append(skipped, Skipped{Path: path, Reason: reason})
			if opts.Verbose {
				logger.Debug("Skipping file",
					zap.String("path", path),
					zap.String("size", FormatSize(info.Size())),
					zap.String("reason", reason))
			}
			return nil
		}
		files = append(files, qf)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to traverse %s: %w", root, err)
	}
	return files, skipped, nil
}

// loadFile reads a file from disk and wraps it as a queue entry. A non-empty
// reason means the file was skipped.
func loadFile(path, name string, size int64, opts CollectOptions) (QueuedFile, string) {
	if opts.MaxFileSizeKB > 0 && size > int64(opts.MaxFileSizeKB)*1024 {
		return QueuedFile{}, fmt.Sprintf("exceeds size limit (%s)", FormatSize(size))
	}
	if IsCommonBinaryExtension(path) {
		return QueuedFile{}, "binary extension"
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return QueuedFile{}, fmt.Sprintf("read error: %v", err)
	}

	qf, err := New(name, content, SourceUpload)
	if err != nil {
		return QueuedFile{}, fmt.Sprintf("invalid name: %v", err)
	}
	// PDFs and DOCX are binary by nature; sniff everything else.
	if qf.Format() == FormatText && IsBinary(content) {
		return QueuedFile{}, "binary content"
	}
	return qf, ""
}
