package merge

import (
	"fmt"
	"strings"

	"docustream/pkg/queue"

	"go.uber.org/zap"
)

// codeFences maps extensions to markdown fence language tags. Files with a
// known code extension are fenced in the text lane so the combined output
// stays navigable when pasted into an LLM chat.
var codeFences = map[string]string{
	".py": "python", ".js": "javascript", ".jsx": "javascript",
	".ts": "typescript", ".tsx": "typescript", ".html": "html",
	".css": "css", ".json": "json", ".sql": "sql", ".java": "java",
	".c": "c", ".cpp": "cpp", ".sh": "bash", ".yml": "yaml", ".yaml": "yaml",
}

const textSeparator = "========================================"

// mergeText concatenates decoded file contents in queue order with a header
// before each file. Fails on the first file that does not decode as text.
func mergeText(files []queue.QueuedFile, logger *zap.Logger) ([]byte, error) {
	var b strings.Builder

	for _, f := range files {
		content, err := queue.DecodeText(f.Content)
		if err != nil {
			logger.Error("File is not decodable text",
				zap.String("file", f.Name),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %v", ErrMerge, f.Name, err)
		}

		if lang, ok := codeFences[f.Ext()]; ok {
			content = "```" + lang + "\n" + content + "\n```"
		}

		fmt.Fprintf(&b, "\n\n%s\n# File: %s\n%s\n\n", textSeparator, f.Name, textSeparator)
		b.WriteString(content)
		logger.Debug("Appended file to text artifact",
			zap.String("file", f.Name),
			zap.String("size", queue.FormatSize(int64(len(f.Content)))))
	}

	return []byte(b.String()), nil
}
