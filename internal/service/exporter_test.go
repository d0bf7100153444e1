package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func newExportFixture(t *testing.T) (*ExportService, string) {
	t.Helper()
	c := NewCollectorService(nil, nil)
	feedString(c, "*\n1.0 0.5\n2.0 1.0\n#\n")
	dir := t.TempDir()
	return NewExportService(c, dir, language.AmericanEnglish), dir
}

func TestExportService_Tabular(t *testing.T) {
	svc, dir := newExportFixture(t)

	path, err := svc.ExportTabular("run.csv")
	if err != nil {
		t.Fatalf("ExportTabular: %v", err)
	}
	if path != filepath.Join(dir, "run.csv") {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "Voltage (V);Current (mA)") {
		t.Fatalf("unexpected content: %q", string(data))
	}
}

func TestExportService_Script(t *testing.T) {
	svc, _ := newExportFixture(t)

	path, err := svc.ExportScript("plot.py")
	if err != nil {
		t.Fatalf("ExportScript: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "#!/usr/bin/env python3\n") {
		t.Fatalf("unexpected content: %q", string(data))
	}
	if !strings.Contains(string(data), "voltage_1 = [1.000000, 2.000000]") {
		t.Fatalf("script literals must use '.' decimals: %q", string(data))
	}
}

func TestExportService_RejectsEscapingFilenames(t *testing.T) {
	svc, _ := newExportFixture(t)

	for _, name := range []string{"", ".", "..", "../evil.csv", "sub/dir.csv", "/abs.csv"} {
		if _, err := svc.ExportTabular(name); !errors.Is(err, ErrInvalidFilename) {
			t.Fatalf("filename %q: expected ErrInvalidFilename, got %v", name, err)
		}
	}
}
