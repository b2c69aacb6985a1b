package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
)

// Converter turns markdown into a PDF file.
type Converter interface {
	// Convert writes markdown to a temp file and renders it to pdfPath.
	Convert(ctx context.Context, markdown, pdfPath string) error
	// TempPDFPath builds an output path for a PDF file.
	TempPDFPath(filename string) string
	// Available reports whether the converter can run on this host.
	Available() bool
}

// PandocConverter shells out to pandoc for markdown-to-PDF conversion.
type PandocConverter struct {
	binary  string
	timeout config.ReportConfig
	tempDir string
	logger  *zap.Logger
}

// NewPandocConverter creates a new pandoc-backed converter.
func NewPandocConverter(cfg *config.ReportConfig, logger *zap.Logger) *PandocConverter {
	binary := cfg.ConverterBinary
	if binary == "" {
		binary = "pandoc"
	}
	return &PandocConverter{
		binary:  binary,
		timeout: *cfg,
		tempDir: cfg.TempDir,
		logger:  logger,
	}
}

// Available reports whether the converter binary can be found on PATH.
func (c *PandocConverter) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Convert renders markdown to a PDF at pdfPath. The intermediate markdown
// file is removed afterwards regardless of outcome.
func (c *PandocConverter) Convert(ctx context.Context, markdown, pdfPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout.ConvertTimeoutDuration())
	defer cancel()

	mdFile, err := os.CreateTemp(c.tempDir, "report-*.md")
	if err != nil {
		return fmt.Errorf("failed to create markdown temp file: %w", err)
	}
	mdPath := mdFile.Name()
	defer os.Remove(mdPath)

	if _, err := mdFile.WriteString(markdown); err != nil {
		mdFile.Close()
		return fmt.Errorf("failed to write markdown temp file: %w", err)
	}
	if err := mdFile.Close(); err != nil {
		return fmt.Errorf("failed to close markdown temp file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	args := []string{
		mdPath,
		"-o", pdfPath,
		"--pdf-engine=xelatex",
		"-V", "geometry:margin=1in",
	}

	c.logger.Debug("Converting markdown to PDF",
		zap.String("binary", c.binary),
		zap.String("output", pdfPath),
		zap.Int("markdown_bytes", len(markdown)),
	)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("pdf conversion timed out after %s", c.timeout.ConvertTimeoutDuration())
		}
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 500 {
			detail = detail[:500] + "..."
		}
		return fmt.Errorf("pdf conversion failed: %w: %s", err, detail)
	}

	return nil
}

// TempPDFPath builds a path in the configured temp directory for a PDF file.
func (c *PandocConverter) TempPDFPath(filename string) string {
	dir := c.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filename)
}
