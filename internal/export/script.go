package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"measurement_collector/internal/measurement"
)

// WriteScript renders a self-contained matplotlib script that plots every
// series. Numeric literals always use "." as the decimal point, independent
// of the exporting machine's locale: the script is consumed by a Python
// interpreter, not by the user's spreadsheet.
func WriteScript(w io.Writer, series []*measurement.Series) error {
	if _, err := io.WriteString(w, "#!/usr/bin/env python3\nimport matplotlib.pyplot as plt\n\nseries = []\n\n"); err != nil {
		return err
	}

	for i, s := range series {
		idx := i + 1
		if _, err := fmt.Fprintf(w, "# Series %d\n", idx); err != nil {
			return err
		}
		if err := writeList(w, fmt.Sprintf("voltage_%d", idx), s.Points(), func(p measurement.Point) float64 { return p.VoltageVolt }); err != nil {
			return err
		}
		if err := writeList(w, fmt.Sprintf("current_%d", idx), s.Points(), func(p measurement.Point) float64 { return p.CurrentMilliAmp }); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "series.append((voltage_%d, current_%d))\n\n", idx, idx); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w,
		"for i, (v, c) in enumerate(series):\n"+
			"    plt.plot(v, c, label=f'Series {i+1}')\n\n"+
			"plt.xlabel('Volt (V)')\n"+
			"plt.ylabel('Milliampere (mA)')\n"+
			"plt.legend()\n"+
			"plt.grid(True)\n"+
			"plt.show()\n")
	return err
}

// writeList emits a Python list literal of one coordinate, 6 decimal digits.
func writeList(w io.Writer, name string, points []measurement.Point, coord func(measurement.Point) float64) error {
	if _, err := io.WriteString(w, name+" = ["); err != nil {
		return err
	}
	for i, p := range points {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, strconv.FormatFloat(coord(p), 'f', 6, 64)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// ScriptToFile writes the plotting script to path, overwriting any existing
// file.
func ScriptToFile(path string, series []*measurement.Series) error {
	var buf bytes.Buffer
	if err := WriteScript(&buf, series); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}
