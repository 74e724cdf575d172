package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/slok/webgen/internal/log"
)

const (
	// DefaultFilename is the filename used when exporting without one.
	DefaultFilename = "generated-website.html"
	// MIMEType is the media type of the exported artifacts.
	MIMEType = "text/html"
)

// Exporter saves a generated artifact.
type Exporter interface {
	// Export saves the artifact and returns where it has been saved.
	Export(ctx context.Context, artifact, filename string) (location string, err error)
}

// FileExporterConfig is the configuration for the file exporter.
type FileExporterConfig struct {
	// Dir is the directory where files are exported, defaults to the working directory.
	Dir    string
	Logger log.Logger
}

func (c *FileExporterConfig) defaults() error {
	if c.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory: %w", err)
		}
		c.Dir = wd
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "export.File"})
	return nil
}

// FileExporter exports artifacts as HTML files. Files are replaced atomically,
// a failed export never leaves a partial file behind.
type FileExporter struct {
	dir    string
	logger log.Logger
}

// NewFileExporter creates a new file exporter.
func NewFileExporter(cfg FileExporterConfig) (*FileExporter, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &FileExporter{
		dir:    cfg.Dir,
		logger: cfg.Logger,
	}, nil
}

// Export writes the artifact to filename inside the exporter directory.
func (f *FileExporter) Export(ctx context.Context, artifact, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(f.dir, Filename(filename))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("could not create export directory: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return "", fmt.Errorf("could not create pending file: %w", err)
	}
	// Removes the temporary file if not committed, no-op otherwise.
	defer func() {
		if err := pending.Cleanup(); err != nil {
			f.logger.Debugf("could not cleanup pending file: %s", err)
		}
	}()

	if _, err := io.WriteString(pending, artifact); err != nil {
		return "", fmt.Errorf("could not write artifact: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("could not replace %s: %w", path, err)
	}

	f.logger.Infof("Exported %s (%d bytes) to %s", MIMEType, len(artifact), path)
	return path, nil
}

// WriterExporter exports artifacts to a writer (e.g. stdout).
type WriterExporter struct {
	w io.Writer
}

// NewWriterExporter creates a new writer exporter.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

// Export writes the artifact to the writer, the filename is ignored.
func (w *WriterExporter) Export(ctx context.Context, artifact, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := io.WriteString(w.w, artifact); err != nil {
		return "", fmt.Errorf("could not write artifact: %w", err)
	}
	return "-", nil
}

// Filename normalizes an export filename: it falls back to the default one,
// drops any directory and ensures an HTML extension.
func Filename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return DefaultFilename
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".html" && ext != ".htm" {
		name += ".html"
	}
	return name
}
