package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"paycycle/internal/core"
)

// Format is an import/export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown
// extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadEntries decodes a record list and validates every record. A bad
// record fails the whole read.
func ReadEntries(r io.Reader, format Format) ([]core.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var records []core.Record
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s records: %w", format, err)
	}
	return core.RecordsToEntries(records)
}

// WriteEntries encodes entries as records.
func WriteEntries(w io.Writer, entries []core.Entry, format Format) error {
	records := core.EntriesToRecords(entries)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode yaml records: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode json records: %w", err)
		}
		return nil
	}
}

// ImportFile reads entries from path, "-" meaning stdin.
func ImportFile(path string) ([]core.Entry, error) {
	if path == "-" {
		return ReadEntries(os.Stdin, FormatJSON)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEntries(f, FormatFromPath(path))
}

// ExportFile writes entries to path, "-" meaning stdout.
func ExportFile(path string, entries []core.Entry) error {
	if path == "-" {
		return WriteEntries(os.Stdout, entries, FormatJSON)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteEntries(f, entries, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
