package merge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"docustream/pkg/queue"

	"go.uber.org/zap"
)

// LibreOfficeConverter converts documents to PDF by shelling out to a
// headless LibreOffice. It is the default Converter; callers that cannot
// rely on a local soffice install supply their own implementation.
type LibreOfficeConverter struct {
	Binary string // soffice binary, defaults to "soffice" on PATH
	logger *zap.Logger
}

// NewLibreOfficeConverter returns a converter using the given soffice
// binary, or "soffice" from PATH when empty.
func NewLibreOfficeConverter(binary string, logger *zap.Logger) *LibreOfficeConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibreOfficeConverter{Binary: binary, logger: logger}
}

func (c *LibreOfficeConverter) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "soffice"
}

// ConvertToPDF writes content to a scratch directory, runs
// `soffice --headless --convert-to pdf` under ctx and returns the produced
// PDF bytes. Callers bound the call with a context timeout.
func (c *LibreOfficeConverter) ConvertToPDF(ctx context.Context, name string, content []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "docustream-convert-*")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create scratch dir: %v", ErrConversion, err)
	}
	defer os.RemoveAll(tmpDir)

	inName := queue.SanitizeFilename(name)
	inPath := filepath.Join(tmpDir, inName)
	if err := os.WriteFile(inPath, content, 0o600); err != nil {
		return nil, fmt.Errorf("%w: failed to stage %s: %v", ErrConversion, name, err)
	}

	cmd := exec.CommandContext(ctx, c.binary(), "--headless", "--convert-to", "pdf", "--outdir", tmpDir, inPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("Running LibreOffice conversion",
		zap.String("file", name),
		zap.String("binary", c.binary()))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConversion, name, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrConversion, name, err, strings.TrimSpace(stderr.String()))
	}

	stem := strings.TrimSuffix(inName, filepath.Ext(inName))
	outPath := filepath.Join(tmpDir, stem+".pdf")
	pdf, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: converter produced no PDF: %s", ErrConversion, name, strings.TrimSpace(stderr.String()))
	}
	return pdf, nil
}
