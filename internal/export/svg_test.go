package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCurveSVG(t *testing.T) {
	curves := []Curve{
		{Label: "initial", Xs: []float64{0, 1, 2}, Ys: []float64{0, 1, 0.5}, Color: "#ff0000"},
		{Label: "final", Xs: []float64{0, 1, 2}, Ys: []float64{0, 1.2, 0.6}},
	}
	svg := CurveSVG(curves, 640, 480)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not a complete SVG document")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got %d", strings.Count(svg, "<path"))
	}
	for _, label := range []string{"initial", "final"} {
		if !strings.Contains(svg, label) {
			t.Errorf("label %q missing", label)
		}
	}
	if CurveSVG(nil, 640, 480) != "" {
		t.Error("empty curve list should render nothing")
	}
}

func TestCurveSVGFlatLine(t *testing.T) {
	svg := CurveSVG([]Curve{{Xs: []float64{0, 1}, Ys: []float64{2, 2}}}, 100, 100)
	if strings.Contains(svg, "NaN") {
		t.Error("degenerate range produced NaN coordinates")
	}
}

func TestWriteCurves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig.svg")
	err := WriteCurves(path, []Curve{{Xs: []float64{0, 1}, Ys: []float64{1, 2}}}, 320, 240)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("file is not SVG")
	}
}
