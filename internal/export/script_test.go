package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"measurement_collector/internal/measurement"
)

func scriptTestSeries() []*measurement.Series {
	return []*measurement.Series{
		sampleSeries([2]float64{1.0, 0.5}, [2]float64{2.0, 1.0}),
		sampleSeries([2]float64{3.25, 0.125}),
	}
}

func TestWriteScript_Format(t *testing.T) {
	series := scriptTestSeries()

	var buf bytes.Buffer
	if err := WriteScript(&buf, series); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	out := buf.String()

	want := "#!/usr/bin/env python3\n" +
		"import matplotlib.pyplot as plt\n" +
		"\n" +
		"series = []\n" +
		"\n" +
		"# Series 1\n" +
		"voltage_1 = [1.000000, 2.000000]\n" +
		"current_1 = [0.500000, 1.000000]\n" +
		"series.append((voltage_1, current_1))\n" +
		"\n" +
		"# Series 2\n" +
		"voltage_2 = [3.250000]\n" +
		"current_2 = [0.125000]\n" +
		"series.append((voltage_2, current_2))\n" +
		"\n" +
		"for i, (v, c) in enumerate(series):\n" +
		"    plt.plot(v, c, label=f'Series {i+1}')\n" +
		"\n" +
		"plt.xlabel('Volt (V)')\n" +
		"plt.ylabel('Milliampere (mA)')\n" +
		"plt.legend()\n" +
		"plt.grid(True)\n" +
		"plt.show()\n"
	if out != want {
		t.Fatalf("script output mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestWriteScript_NoSeriesStillRunnable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScript(&buf, nil); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "#!/usr/bin/env python3\n") || !strings.Contains(out, "plt.show()") {
		t.Fatalf("empty export must still be a runnable script:\n%s", out)
	}
}

func TestScriptToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.py")

	if err := ScriptToFile(path, scriptTestSeries()); err != nil {
		t.Fatalf("ScriptToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "voltage_1 = [") {
		t.Fatalf("unexpected file content: %q", string(data))
	}

	if err := ScriptToFile(filepath.Join(dir, "no", "such", "plot.py"), nil); err == nil {
		t.Fatalf("expected error for unwritable destination")
	}
}
