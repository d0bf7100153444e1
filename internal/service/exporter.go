package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/text/language"

	"measurement_collector/internal/export"
	"measurement_collector/internal/measurement"
)

// ErrInvalidFilename rejects export names that would escape the export
// directory.
var ErrInvalidFilename = errors.New("invalid export filename")

// ExportService renders the collector's completed series into files under a
// single configured directory.
type ExportService struct {
	collector *CollectorService
	dir       string
	locale    language.Tag
}

func NewExportService(collector *CollectorService, dir string, locale language.Tag) *ExportService {
	return &ExportService{collector: collector, dir: dir, locale: locale}
}

// ExportTabular writes the locale-formatted tabular export and returns the
// destination path.
func (s *ExportService) ExportTabular(filename string) (string, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return "", err
	}
	err = s.collector.WithCompleted(func(series []*measurement.Series) error {
		return export.TabularToFile(path, series, s.locale)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ExportScript writes the matplotlib script export and returns the
// destination path.
func (s *ExportService) ExportScript(filename string) (string, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return "", err
	}
	err = s.collector.WithCompleted(func(series []*measurement.Series) error {
		return export.ScriptToFile(path, series)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// resolve confines filename to the export directory: no separators, no
// traversal, no empty names.
func (s *ExportService) resolve(filename string) (string, error) {
	if filename == "" || filepath.Base(filename) != filename || filename == "." || filename == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(s.dir, filename), nil
}
