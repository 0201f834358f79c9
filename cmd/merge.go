package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"docustream/pkg/config"
	"docustream/pkg/ignore"
	"docustream/pkg/lane"
	"docustream/pkg/logging"
	"docustream/pkg/merge"
	"docustream/pkg/queue"
	"docustream/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mergeFlags struct {
	format         string
	output         string
	destDir        string
	configPath     string
	globalIgnore   string
	exclude        []string
	stripAPIKeys   bool
	removeComments bool
	maxFileSizeKB  int
	maxWorkers     int
	soffice        string
	timeout        time.Duration
	pasteName      string
	debug          bool
	verbose        bool
}

var mergeCmd = &cobra.Command{
	Use:   "merge [files or directories...]",
	Short: "Merge files into a single txt, pdf or docx artifact",
	Long: `Merge consolidates the given files and directories into one artifact.
Directories are walked with .docustreamignore rules applied; duplicate
content is dropped, optional sanitization redacts credential shapes and
strips comments, and the result is written next to the inputs.`,
	Args: cobra.ArbitraryArgs,
	RunE: runMerge,
}

func init() {
	f := mergeCmd.Flags()
	f.StringVarP(&mergeFlags.format, "format", "f", "", "Output format: txt, pdf or docx")
	f.StringVarP(&mergeFlags.output, "output", "o", "", "Suggested output filename (extension added per format)")
	f.StringVar(&mergeFlags.destDir, "dest", ".", "Directory the artifact is written to")
	f.StringVar(&mergeFlags.configPath, "config", "", "Path to a .docustream.yaml config file")
	f.StringVar(&mergeFlags.globalIgnore, "global-ignore", "", "Path to a global ignore file")
	f.StringSliceVar(&mergeFlags.exclude, "exclude", nil, "Additional ignore patterns")
	f.BoolVar(&mergeFlags.stripAPIKeys, "strip-api-keys", false, "Redact credential-shaped strings before merging")
	f.BoolVar(&mergeFlags.removeComments, "remove-comments", false, "Strip #- and //-style comments (heuristic)")
	f.IntVar(&mergeFlags.maxFileSizeKB, "max-file-size", 0, "Maximum input file size in KB (0 = config default)")
	f.IntVar(&mergeFlags.maxWorkers, "workers", 0, "Conversion workers for the convert-merge lane (0 = NumCPU)")
	f.StringVar(&mergeFlags.soffice, "soffice", "", "LibreOffice binary used for PDF conversion")
	f.DurationVar(&mergeFlags.timeout, "timeout", 2*time.Minute, "Overall deadline for document conversions")
	f.StringVar(&mergeFlags.pasteName, "paste", "", "Read stdin as an additional pasted file with this name")
	f.BoolVar(&mergeFlags.debug, "debug", false, "Enable debug logging")
	f.BoolVarP(&mergeFlags.verbose, "verbose", "v", false, "Log every skipped file")

	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	log := logger
	if mergeFlags.debug {
		var err error
		log, err = logging.Setup(true, "DocuStream", version.Get().Version)
		if err != nil {
			return fmt.Errorf("failed to initialize debug logger: %w", err)
		}
	}

	cfg, err := config.Load(mergeFlags.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)

	output, err := lane.ParseOutputFormat(cfg.Format)
	if err != nil {
		return err
	}

	files, err := buildQueue(args, cfg, log)
	if err != nil {
		return err
	}

	converter := merge.NewLibreOfficeConverter(cfg.SofficeBinary, log)
	pipeline := merge.New(converter, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), mergeFlags.timeout)
	defer cancel()

	artifact, diags, err := pipeline.Run(ctx, files, merge.Config{
		Output:         output,
		OutputName:     cfg.OutputName,
		StripAPIKeys:   cfg.StripAPIKeys,
		RemoveComments: cfg.RemoveComments,
		MaxWorkers:     cfg.MaxWorkers,
	})
	reportDiagnostics(cmd.OutOrStdout(), diags)
	if err != nil {
		var perr *merge.PipelineError
		if errors.As(err, &perr) {
			return fmt.Errorf("merge failed at stage %s: %w", perr.Stage, perr.Err)
		}
		return err
	}

	dest := filepath.Join(mergeFlags.destDir, artifact.Filename)
	if err := os.WriteFile(dest, artifact.Bytes, 0o644); err != nil {
		log.Error("Failed to write artifact", zap.String("path", dest), zap.Error(err))
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n",
		dest, artifact.MIMEType, queue.FormatSize(int64(len(artifact.Bytes))))
	return nil
}

// applyFlagOverrides lets explicitly-set flags win over config file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("format") {
		cfg.Format = mergeFlags.format
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputName = mergeFlags.output
	}
	if cmd.Flags().Changed("strip-api-keys") {
		cfg.StripAPIKeys = mergeFlags.stripAPIKeys
	}
	if cmd.Flags().Changed("remove-comments") {
		cfg.RemoveComments = mergeFlags.removeComments
	}
	if cmd.Flags().Changed("max-file-size") {
		cfg.MaxFileSizeKB = mergeFlags.maxFileSizeKB
	}
	if cmd.Flags().Changed("workers") {
		cfg.MaxWorkers = mergeFlags.maxWorkers
	}
	if cmd.Flags().Changed("soffice") {
		cfg.SofficeBinary = mergeFlags.soffice
	}
	cfg.Exclude = append(cfg.Exclude, mergeFlags.exclude...)
}

// buildQueue expands path arguments and the optional stdin paste into the
// ordered merge queue.
func buildQueue(args []string, cfg config.Config, log *zap.Logger) ([]queue.QueuedFile, error) {
	rules, err := ignore.Load(".docustreamignore", mergeFlags.globalIgnore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	rules.AddLines(cfg.Exclude...)

	files, skipped, err := queue.Collect(args, queue.CollectOptions{
		Rules:         rules,
		MaxFileSizeKB: cfg.MaxFileSizeKB,
		Verbose:       mergeFlags.verbose,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	for _, s := range skipped {
		log.Info("Skipped input file",
			zap.String("path", s.Path),
			zap.String("reason", s.Reason))
	}

	if mergeFlags.pasteName != "" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read pasted content: %w", err)
		}
		pasted, err := queue.New(queue.SanitizeFilename(mergeFlags.pasteName), content, queue.SourcePaste)
		if err != nil {
			return nil, err
		}
		files = append(files, pasted)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no input files (pass files, directories or --paste)")
	}
	return files, nil
}

// reportDiagnostics prints the per-run accounting so the fate of every
// queued file is visible even when the run fails.
func reportDiagnostics(w io.Writer, diags *merge.Diagnostics) {
	if diags == nil {
		return
	}
	for _, name := range diags.DroppedDuplicates {
		fmt.Fprintf(w, "Dropped duplicate: %s\n", name)
	}
	if n := diags.TotalRedactions(); n > 0 {
		fmt.Fprintf(w, "Redacted %d credential match(es)\n", n)
	}
	for _, f := range diags.ConversionFailures {
		fmt.Fprintf(w, "Conversion failed, skipped: %s (%s)\n", f.Name, f.Reason)
	}
	for _, e := range diags.TokenEstimates {
		fmt.Fprintf(w, "%s %s: ~%d tokens (%.1f%% of %d)\n",
			e.Family.Icon, e.Family.Name, e.Tokens, e.Percent, e.Family.Limit)
	}
}
