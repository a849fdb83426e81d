package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is written to every export and is the newest version accepted.
const SchemaVersion = 1

// Format selects the serialization of an export file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// WorkTimeFile is the top-level structure of a work-time export.
type WorkTimeFile struct {
	Version    int              `json:"version" yaml:"version"`
	ExportedAt string           `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Entries    []WorkTimeRecord `json:"entries" yaml:"entries"`
}

// WorkTimeRecord is one entry in an export file. Times are RFC3339.
type WorkTimeRecord struct {
	ID    string  `json:"id,omitempty" yaml:"id,omitempty"`
	Start string  `json:"start" yaml:"start"`
	End   *string `json:"end,omitempty" yaml:"end,omitempty"`
	Memo  string  `json:"memo,omitempty" yaml:"memo,omitempty"`
}

// Decode reads a WorkTimeFile in the given format.
func Decode(r io.Reader, format Format) (*WorkTimeFile, error) {
	var file WorkTimeFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("parsing yaml: empty document")
			}
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &file, nil
}

// Encode writes file in the given format.
func Encode(w io.Writer, format Format, file *WorkTimeFile) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(file); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}
