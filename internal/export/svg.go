// Package export renders iteration diagnostics as standalone SVG figures.
package export

import (
	"fmt"
	"os"
	"strings"
)

// Curve is one named line of a figure.
type Curve struct {
	Label  string
	Xs, Ys []float64
	Color  string
}

// CurveSVG renders curves on a shared linear frame.
func CurveSVG(curves []Curve, width, height int) string {
	if len(curves) == 0 {
		return ""
	}

	// Shared bounds with 10% padding.
	minX, maxX := curves[0].Xs[0], curves[0].Xs[0]
	minY, maxY := curves[0].Ys[0], curves[0].Ys[0]
	for _, c := range curves {
		for i := range c.Xs {
			if c.Xs[i] < minX {
				minX = c.Xs[i]
			}
			if c.Xs[i] > maxX {
				maxX = c.Xs[i]
			}
			if c.Ys[i] < minY {
				minY = c.Ys[i]
			}
			if c.Ys[i] > maxY {
				maxY = c.Ys[i]
			}
		}
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for ci, c := range curves {
		color := c.Color
		if color == "" {
			color = "#00ff00"
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i := range c.Xs {
			x := (c.Xs[i] - minX) / rangeX * float64(width)
			y := float64(height) - (c.Ys[i]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		if c.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-size="12" font-family="monospace">%s</text>
`, 16+14*ci, color, c.Label))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteCurves writes a curve figure to path.
func WriteCurves(path string, curves []Curve, width, height int) error {
	return os.WriteFile(path, []byte(CurveSVG(curves, width, height)), 0644)
}
