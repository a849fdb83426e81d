// Package template loads report templates and renders their date placeholders.
package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/nippo/internal/domain"
)

//go:embed defaults/*.md
var defaults embed.FS

// Source returns the raw template text for a report type.
type Source interface {
	Load(reportType domain.ReportType) (string, error)
}

// DirSource reads <Dir>/<type>.md and falls back to the built-in template
// when Dir is empty or the file does not exist.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) Load(reportType domain.ReportType) (string, error) {
	name := fileName(reportType)
	if s.Dir != "" {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading template %s: %w", name, err)
		}
	}
	return Default(reportType)
}

// Path returns where a user override for reportType lives, or "" without a directory.
func (s *DirSource) Path(reportType domain.ReportType) string {
	if s.Dir == "" {
		return ""
	}
	return filepath.Join(s.Dir, fileName(reportType))
}

// Default returns the built-in template for reportType.
func Default(reportType domain.ReportType) (string, error) {
	data, err := defaults.ReadFile("defaults/" + fileName(reportType))
	if err != nil {
		return "", fmt.Errorf("loading default %s template: %w", reportType, err)
	}
	return string(data), nil
}

func fileName(reportType domain.ReportType) string {
	if reportType == domain.ReportMeeting {
		return "meeting.md"
	}
	return "daily.md"
}
