package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
	"github.com/ternarybob/screener/internal/services/screener"
)

// Writer saves batch reports to a directory in the configured formats.
type Writer struct {
	dir     string
	formats []string
	logger  arbor.ILogger
}

// NewWriter creates a report writer from the report configuration
func NewWriter(cfg common.ReportConfig, logger arbor.ILogger) *Writer {
	formats := cfg.Formats
	if len(formats) == 0 {
		formats = []string{"markdown"}
	}
	return &Writer{dir: cfg.Dir, formats: formats, logger: logger}
}

// Render produces one report in the given format.
func Render(md, title, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return []byte(md), ".md", nil
	case "html":
		b, err := HTML(md, title)
		return b, ".html", err
	case "pdf":
		b, err := PDF(md, title)
		return b, ".pdf", err
	default:
		return nil, "", fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteBatch renders the batch and returns the written file paths. It
// matches the scheduler's batch sink signature.
func (w *Writer) WriteBatch(ctx context.Context, batch *screener.Batch) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	md := BatchMarkdown(batch)
	title := "Screen " + batch.ID
	base := filepath.Join(w.dir, baseName(batch))

	var paths []string
	for _, format := range w.formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		data, ext, err := Render(md, title, format)
		if err != nil {
			return paths, err
		}
		path := base + ext
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write report %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	w.logger.Info().
		Str("batch_id", batch.ID).
		Strs("files", paths).
		Msg("Reports written")
	return paths, nil
}

// Sink adapts the writer for use as a scheduled job's batch sink.
func (w *Writer) Sink(ctx context.Context, batch *screener.Batch) error {
	_, err := w.WriteBatch(ctx, batch)
	return err
}

func baseName(batch *screener.Batch) string {
	date := batch.StartedAt.Format("20060102-150405")
	if !batch.AsOf.IsZero() {
		date = batch.AsOf.Format("20060102")
	}
	id := strings.TrimPrefix(batch.ID, "batch_")
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("screen_%s_%s", date, id)
}
