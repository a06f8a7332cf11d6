// Package export writes a calendar's events to CSV or iCalendar files.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/ics"
	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatICal Format = "ical"
)

// Source is the read-only view of a calendar that an export needs.
type Source interface {
	Name() string
	Location() *time.Location
	AllEvents() []model.Event
}

// ParseFormat resolves a format token. "cal" picks the format from the
// file extension of filename.
func ParseFormat(name, filename string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "ical", "ics":
		return FormatICal, nil
	case "cal":
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".csv":
			return FormatCSV, nil
		case ".ics", ".ical":
			return FormatICal, nil
		}
		return "", fmt.Errorf("%w: cannot infer export format from %q (want .csv or .ics)", model.ErrInvalidFormat, filename)
	}
	return "", fmt.Errorf("%w: unknown export format %q (want csv, ical or cal)", model.ErrInvalidFormat, name)
}

// Encode renders every event of src in format f.
func Encode(f Format, src Source, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	events := src.AllEvents()
	switch f {
	case FormatCSV:
		if err := WriteCSV(&buf, events); err != nil {
			return nil, err
		}
	case FormatICal:
		meta := ics.Source{Name: src.Name(), Location: src.Location()}
		if err := ics.Write(&buf, meta, events, now); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", model.ErrInvalidFormat, f)
	}
	return buf.Bytes(), nil
}

// ToFile exports src to path and returns the absolute path written. A
// relative path is resolved against dir when dir is non-empty. The file is
// replaced atomically.
func ToFile(f Format, dir, path string, src Source, now time.Time) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: export file name is empty", model.ErrInvalidFormat)
	}
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	data, err := Encode(f, src, now)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(abs, data); err != nil {
		return "", fmt.Errorf("write export %s: %w", abs, err)
	}
	return abs, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calengine-export-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
