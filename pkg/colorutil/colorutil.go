// Package colorutil provides shared color utilities for rendering shapes.
package colorutil

import (
	"image/color"
	"math"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray  = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

// HSVToRGB converts HSV (H 0-360, S and V 0-1) to an opaque RGBA color.
func HSVToRGB(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// ClassColor returns the color of class i out of n, spreading hues evenly.
func ClassColor(i, n int) color.RGBA {
	if n < 1 {
		n = 1
	}
	return HSVToRGB(float64(i)*360/float64(n), 0.8, 0.85)
}
