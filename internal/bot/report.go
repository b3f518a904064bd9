package bot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

const maxSlugLength = 30

// ReportWriter persists search reports under <baseDir>/report.
type ReportWriter struct {
	baseDir string
	now     func() time.Time
}

type reportMetadata struct {
	Query       string `yaml:"query"`
	RequestedAt string `yaml:"requested_at"`
}

func NewReportWriter(baseDir string) *ReportWriter {
	return &ReportWriter{
		baseDir: baseDir,
		now:     time.Now,
	}
}

// Write stores the report and returns the path of the created file.
func (w *ReportWriter) Write(query string, content string) (string, error) {
	dir := filepath.Join(w.baseDir, "report")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create report directory %q", dir)
	}

	now := w.now()

	name := fmt.Sprintf("report-%s-%s.txt", now.Format("15-04-05"), querySlug(query))
	path := filepath.Join(dir, name)

	var buff bytes.Buffer

	if _, err := io.WriteString(&buff, "---\n"); err != nil {
		return "", errors.WithStack(err)
	}

	encoder := yaml.NewEncoder(&buff)
	metadata := reportMetadata{
		Query:       query,
		RequestedAt: now.Format(time.RFC3339),
	}
	if err := encoder.Encode(metadata); err != nil {
		return "", errors.Wrapf(err, "failed to write report metadata")
	}

	if _, err := io.WriteString(&buff, "---\n\n"); err != nil {
		return "", errors.WithStack(err)
	}

	if _, err := io.WriteString(&buff, content); err != nil {
		return "", errors.WithStack(err)
	}

	if err := os.WriteFile(path, buff.Bytes(), 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write report")
	}

	return path, nil
}

func querySlug(query string) string {
	s := slug.Make(query)
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}

	return s
}
