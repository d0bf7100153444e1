// Package export serializes completed measurement series to the two file
// formats the tool supports: a tabular text format for spreadsheets and a
// runnable matplotlib script. Both are pure, read-only renderings of the
// completed collection; the in-progress series is never exported.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"measurement_collector/internal/measurement"
)

// WriteTabular renders every series as a numbered block: header line, column
// header, then one "<voltage>;<current>" line per point with 6 decimal
// digits. Numbers follow the decimal and grouping conventions of the given
// locale, which is what spreadsheet imports on the same machine expect.
func WriteTabular(w io.Writer, series []*measurement.Series, locale language.Tag) error {
	p := message.NewPrinter(locale)
	for i, s := range series {
		if _, err := fmt.Fprintf(w, "Series %d\n", i+1); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "Voltage (V);Current (mA)\n"); err != nil {
			return err
		}
		for _, pt := range s.Points() {
			if _, err := p.Fprintf(w, "%.6f;%.6f\n", pt.VoltageVolt, pt.CurrentMilliAmp); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// TabularToFile writes the tabular export to path, overwriting any existing
// file. The content is rendered in memory first so a failing destination is
// not left with a truncated half of the data.
func TabularToFile(path string, series []*measurement.Series, locale language.Tag) error {
	var buf bytes.Buffer
	if err := WriteTabular(&buf, series, locale); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}
