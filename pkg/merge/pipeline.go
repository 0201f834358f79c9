// Package merge implements the consolidation pipeline: deduplication,
// sanitization, token accounting, lane routing and the four merge engines.
// One run takes an ordered queue snapshot and produces one artifact; no
// state crosses runs.
package merge

import (
	"context"
	"fmt"
	"time"

	"docustream/pkg/fingerprint"
	"docustream/pkg/lane"
	"docustream/pkg/queue"
	"docustream/pkg/sanitize"
	"docustream/pkg/tokens"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config is the per-run configuration handed to the pipeline.
type Config struct {
	Output         lane.OutputFormat
	OutputName     string // suggested artifact name, extension added per format
	StripAPIKeys   bool
	RemoveComments bool
	MaxWorkers     int // convert-merge conversion workers, 0 = NumCPU
}

// Diagnostics accumulates across stages so the fate of every queued file is
// accountable. It is returned both with the artifact and with a failure.
type Diagnostics struct {
	RunID              string
	Lane               lane.Lane
	DroppedDuplicates  []string
	Sanitization       map[string]sanitize.Report
	TokenEstimates     []tokens.Estimate
	ConversionFailures []ConversionFailure
	Elapsed            time.Duration
}

// TotalRedactions sums redaction counts across all sanitized files.
func (d *Diagnostics) TotalRedactions() int {
	n := 0
	for _, r := range d.Sanitization {
		n += r.Redactions
	}
	return n
}

// Pipeline runs the consolidation stages in order. A Pipeline is stateless
// between runs and safe to reuse.
type Pipeline struct {
	converter Converter
	logger    *zap.Logger
}

// New builds a pipeline. conv may be nil when the convert-merge lane is
// never routed to; it defaults to the LibreOffice converter otherwise.
func New(conv Converter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{converter: conv, logger: logger}
}

// Run executes one merge: validate -> dedup -> sanitize -> token estimate ->
// route -> merge. Given the same queue and configuration the stages are
// deterministic. On failure no partial artifact is returned; the error is a
// *PipelineError carrying the failed stage.
func (p *Pipeline) Run(ctx context.Context, files []queue.QueuedFile, cfg Config) (Artifact, *Diagnostics, error) {
	start := time.Now()
	diags := &Diagnostics{
		RunID:        uuid.NewString(),
		Sanitization: make(map[string]sanitize.Report),
	}
	logger := p.logger.With(zap.String("runID", diags.RunID))
	logger.Info("Starting merge run",
		zap.Int("queuedFiles", len(files)),
		zap.String("outputFormat", cfg.Output.String()))

	// Names feed headers and scratch paths downstream, so every queued
	// name is re-validated here regardless of source.
	if len(files) == 0 {
		return Artifact{}, diags, failAt(StageValidate, fmt.Errorf("%w: queue is empty", ErrValidation))
	}
	for _, f := range files {
		if err := queue.ValidateFilename(f.Name); err != nil {
			return Artifact{}, diags, failAt(StageValidate, fmt.Errorf("%w: %v", ErrValidation, err))
		}
	}

	// Dedup: first occurrence of each content digest wins.
	kept, dropped := fingerprint.Dedup(files, logger)
	diags.DroppedDuplicates = dropped
	if len(dropped) > 0 {
		logger.Info("Dropped duplicate files", zap.Strings("files", dropped))
	}

	// Sanitize text-format entries. Never fatal: a file that does not
	// decode is passed through untouched and left to its merge lane.
	kept = p.sanitizeStage(kept, cfg, diags, logger)

	// Token estimate, informational only.
	diags.TokenEstimates = tokens.EstimateAll(textOf(kept))

	// Route.
	selected, err := lane.Select(queue.FormatSet(kept), cfg.Output)
	if err != nil {
		logger.Error("No lane serves this format combination", zap.Error(err))
		return Artifact{}, diags, failAt(StageRoute, err)
	}
	diags.Lane = selected
	logger.Info("Selected merge lane", zap.String("lane", selected.String()))

	// Merge.
	data, err := p.mergeStage(ctx, selected, kept, cfg, diags, logger)
	if err != nil {
		return Artifact{}, diags, failAt(StageMerge, err)
	}

	diags.Elapsed = time.Since(start)
	artifact := newArtifact(data, cfg.Output, cfg.OutputName)
	logger.Info("Merge run complete",
		zap.String("artifact", artifact.Filename),
		zap.String("size", queue.FormatSize(int64(len(artifact.Bytes)))),
		zap.Duration("elapsed", diags.Elapsed))
	return artifact, diags, nil
}

func (p *Pipeline) sanitizeStage(files []queue.QueuedFile, cfg Config, diags *Diagnostics, logger *zap.Logger) []queue.QueuedFile {
	if !cfg.StripAPIKeys && !cfg.RemoveComments {
		return files
	}
	opts := sanitize.Options{StripAPIKeys: cfg.StripAPIKeys, RemoveComments: cfg.RemoveComments}

	out := make([]queue.QueuedFile, len(files))
	for i, f := range files {
		out[i] = f
		if f.Format() != queue.FormatText {
			continue
		}
		text, err := queue.DecodeText(f.Content)
		if err != nil {
			logger.Warn("Skipping sanitization of undecodable file",
				zap.String("file", f.Name),
				zap.Error(err))
			continue
		}
		cleaned, report := sanitize.Sanitize(text, opts)
		diags.Sanitization[f.Name] = report
		if report != (sanitize.Report{}) {
			out[i].Content = []byte(cleaned)
			logger.Debug("Sanitized file",
				zap.String("file", f.Name),
				zap.Int("redactions", report.Redactions),
				zap.Int("commentLines", report.CommentLines))
		}
	}
	return out
}

func (p *Pipeline) mergeStage(ctx context.Context, selected lane.Lane, files []queue.QueuedFile, cfg Config, diags *Diagnostics, logger *zap.Logger) ([]byte, error) {
	switch selected {
	case lane.Text:
		return mergeText(files, logger)
	case lane.NativePDF:
		return mergePDF(files, logger)
	case lane.ConvertMerge:
		conv := p.converter
		if conv == nil {
			conv = NewLibreOfficeConverter("", logger)
		}
		data, failed, err := convertAndMerge(ctx, files, conv, cfg.MaxWorkers, logger)
		diags.ConversionFailures = failed
		return data, err
	case lane.Word:
		return mergeDOCX(files, logger)
	default:
		return nil, fmt.Errorf("%w: no engine for lane %v", ErrMerge, selected)
	}
}

// textOf concatenates the decoded text-format content of the queue for the
// token estimator. Undecodable files contribute nothing.
func textOf(files []queue.QueuedFile) string {
	var parts []byte
	for _, f := range files {
		if f.Format() != queue.FormatText {
			continue
		}
		if text, err := queue.DecodeText(f.Content); err == nil {
			parts = append(parts, text...)
			parts = append(parts, '\n')
		}
	}
	return string(parts)
}
