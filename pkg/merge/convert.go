package merge

import (
	"context"
	"runtime"
	"sync"

	"docustream/pkg/queue"

	"go.uber.org/zap"
)

// Converter turns a non-PDF file into an equivalent PDF. Implementations are
// black boxes that may fail per call; blocking calls must respect ctx.
type Converter interface {
	ConvertToPDF(ctx context.Context, name string, content []byte) ([]byte, error)
}

// ConversionFailure records one file the convert-merge lane had to skip.
type ConversionFailure struct {
	Name   string
	Reason string
}

// convertAndMerge runs the convert-merge lane: every non-PDF input is
// converted concurrently, failed conversions are skipped with a diagnostic,
// and the surviving PDFs are concatenated in original queue order. The run
// fails only when nothing converts.
func convertAndMerge(ctx context.Context, files []queue.QueuedFile, conv Converter, maxWorkers int, logger *zap.Logger) ([]byte, []ConversionFailure, error) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if maxWorkers > len(files) {
		maxWorkers = len(files)
	}

	// Results are indexed by queue position so reassembly restores the
	// original order regardless of conversion completion order.
	converted := make([][]byte, len(files))
	failures := make([]*ConversionFailure, len(files))

	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go func() {
			defer wg.Done()
			for idx := range jobs {
				f := files[idx]
				if f.Format() == queue.FormatPDF {
					converted[idx] = f.Content
					continue
				}

				workerLogger.Debug("Converting file to PDF", zap.String("file", f.Name))
				pdf, err := conv.ConvertToPDF(ctx, f.Name, f.Content)
				if err != nil {
					workerLogger.Warn("Conversion failed, skipping file",
						zap.String("file", f.Name),
						zap.Error(err))
					failures[idx] = &ConversionFailure{Name: f.Name, Reason: err.Error()}
					continue
				}
				converted[idx] = pdf
			}
		}()
	}

	for idx := range files {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var inputs []namedPDF
	var failed []ConversionFailure
	for idx, f := range files {
		if failures[idx] != nil {
			failed = append(failed, *failures[idx])
			continue
		}
		inputs = append(inputs, namedPDF{name: f.Name, data: converted[idx]})
	}

	if len(inputs) == 0 {
		return nil, failed, ErrNoOutput
	}

	out, err := mergePDFBytes(inputs, logger)
	if err != nil {
		return nil, failed, err
	}
	return out, failed, nil
}
