package merge

import (
	"bytes"
	"fmt"
	"io"

	"docustream/pkg/queue"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// mergePDF concatenates the page streams of already-PDF inputs in queue
// order. Any structurally invalid input fails the whole lane.
func mergePDF(files []queue.QueuedFile, logger *zap.Logger) ([]byte, error) {
	named := make([]namedPDF, len(files))
	for i, f := range files {
		named[i] = namedPDF{name: f.Name, data: f.Content}
	}
	return mergePDFBytes(named, logger)
}

type namedPDF struct {
	name string
	data []byte
}

func mergePDFBytes(inputs []namedPDF, logger *zap.Logger) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, ErrNoOutput
	}

	readers := make([]io.ReadSeeker, len(inputs))
	for i, in := range inputs {
		if !bytes.HasPrefix(in.data, []byte("%PDF-")) {
			return nil, fmt.Errorf("%w: %s is not a valid PDF", ErrMerge, in.name)
		}
		readers[i] = bytes.NewReader(in.data)
	}

	// A lone survivor is passed through unchanged, validated.
	if len(inputs) == 1 {
		if _, err := PageCount(inputs[0].data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMerge, inputs[0].name, err)
		}
		return inputs[0].data, nil
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, pdfConfig()); err != nil {
		logger.Error("PDF merge failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrMerge, err)
	}

	logger.Debug("Merged PDF inputs",
		zap.Int("inputCount", len(inputs)),
		zap.String("size", queue.FormatSize(int64(buf.Len()))))
	return buf.Bytes(), nil
}

// PageCount reports the number of pages in a PDF, for diagnostics and tests.
func PageCount(data []byte) (int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to validate PDF: %w", err)
	}
	return ctx.PageCount, nil
}
