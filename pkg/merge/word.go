package merge

import (
	"bytes"
	"fmt"

	"docustream/pkg/queue"

	docx "github.com/fumiama/go-docx"
	"go.uber.org/zap"
)

// mergeDOCX composes DOCX inputs in queue order. The first document serves
// as the master so its styles carry into the output; the body items of every
// following document are appended to it. Any input that does not parse as a
// word-processor document fails the lane.
func mergeDOCX(files []queue.QueuedFile, logger *zap.Logger) ([]byte, error) {
	if len(files) == 0 {
		return nil, ErrNoOutput
	}

	master, err := parseDOCX(files[0])
	if err != nil {
		return nil, err
	}

	for _, f := range files[1:] {
		sub, err := parseDOCX(f)
		if err != nil {
			return nil, err
		}
		master.Document.Body.Items = append(master.Document.Body.Items, sub.Document.Body.Items...)
		logger.Debug("Appended document body",
			zap.String("file", f.Name),
			zap.Int("items", len(sub.Document.Body.Items)))
	}

	var buf bytes.Buffer
	if _, err := master.WriteTo(&buf); err != nil {
		logger.Error("Failed to serialize merged document", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMerge, err)
	}
	return buf.Bytes(), nil
}

func parseDOCX(f queue.QueuedFile) (*docx.Docx, error) {
	doc, err := docx.Parse(bytes.NewReader(f.Content), int64(len(f.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid word document: %v", ErrMerge, f.Name, err)
	}
	return doc, nil
}
