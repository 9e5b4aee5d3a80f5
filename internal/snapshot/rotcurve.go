package snapshot

import (
	"fmt"
	"os"

	"github.com/san-kum/galsim/internal/potential"
)

// WriteRotationCurve writes a two-column radius / circular-velocity table
// for the given potential.
func WriteRotationCurve(path string, radii []float64, pot potential.Potential) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, "# radius\tv_circ"); err != nil {
		return err
	}
	for _, r := range radii {
		if _, err := fmt.Fprintf(f, "%.6g\t%.6g\n", r, potential.Vcirc(pot, r)); err != nil {
			return err
		}
	}
	return nil
}
