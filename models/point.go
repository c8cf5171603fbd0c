package models

import "math"

// DefaultScreenSize is the size of the demo render window.
var DefaultScreenSize = ScreenSize{
	Width:  680,
	Height: 460,
}

// Point is a position in screen pixels.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Report is a single reading of a physical contact. X and Y are normalized to
// [0, 1] with the origin at the top-left corner.
type Report struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// ScreenSize is the pixel size of the surface reports are mapped onto.
type ScreenSize struct {
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ToPixel converts normalized coordinates to pixels. The y axis is flipped to
// match the renderer's bottom-up convention. Out of range coordinates are
// clamped to the screen edges.
func (s ScreenSize) ToPixel(x, y float64) Point {
	x = clamp01(x)
	y = clamp01(y)

	w := float64(s.Width)
	h := float64(s.Height)

	return Point{
		X: int(math.Round(x * w)),
		Y: int(math.Round(h - y*h)),
	}
}

func (s ScreenSize) valid() bool {
	return s.Width > 0 && s.Height > 0
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
