// Package snapshot writes discrete mass-point samples of a model in one of
// several interchangeable container formats. The format choice is a plain
// string flag passed through from the caller.
package snapshot

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Particle is one mass point with position and (optionally zero) velocity.
type Particle struct {
	X    float64 `csv:"x"`
	Y    float64 `csv:"y"`
	Z    float64 `csv:"z"`
	VX   float64 `csv:"vx"`
	VY   float64 `csv:"vy"`
	VZ   float64 `csv:"vz"`
	Mass float64 `csv:"mass"`
}

// Write stores particles at path in the requested format: "text" is a
// whitespace-separated table with a header line, "csv" a comma-separated
// file with a header row.
func Write(path, format string, particles []Particle) error {
	switch strings.ToLower(format) {
	case "text", "":
		return writeText(path, particles)
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return gocsv.MarshalFile(&particles, f)
	default:
		return fmt.Errorf("snapshot: unknown format %q", format)
	}
}

func writeText(path string, particles []Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, "# x\ty\tz\tvx\tvy\tvz\tmass"); err != nil {
		return err
	}
	for _, p := range particles {
		_, err := fmt.Fprintf(f, "%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n",
			p.X, p.Y, p.Z, p.VX, p.VY, p.VZ, p.Mass)
		if err != nil {
			return err
		}
	}
	return nil
}
