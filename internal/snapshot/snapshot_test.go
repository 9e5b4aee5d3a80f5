package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/galsim/internal/potential"
)

var sample = []Particle{
	{X: 1, Y: 2, Z: 3, VX: 0.1, VY: 0.2, VZ: 0.3, Mass: 0.5},
	{X: -1, Y: 0, Z: 0.25, Mass: 0.5},
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.txt")
	if err := Write(path, "text", sample); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "# x") {
		t.Errorf("header: %q", lines[0])
	}
	if fields := strings.Split(lines[1], "\t"); len(fields) != 7 {
		t.Errorf("row has %d columns: %q", len(fields), lines[1])
	}
	// Empty format string falls back to text.
	if err := Write(filepath.Join(t.TempDir(), "d.txt"), "", sample); err != nil {
		t.Errorf("default format: %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.csv")
	if err := Write(path, "csv", sample); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "mass") {
		t.Errorf("header: %q", lines[0])
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "x"), "hdf5", sample); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestWriteRotationCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotcurve.txt")
	pot := &potential.PlummerPot{Mass: 1, Scale: 1}
	if err := WriteRotationCurve(path, []float64{0.5, 1, 2}, pot); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines", len(lines))
	}
}
