package gesture

import (
	"github.com/aukilabs/medtouch/models"
	"github.com/chewxy/math32"
)

const (
	rotateScale = 10

	dollyBase  = 1.03
	dollyScale = 0.05
)

// RotateDelta returns the azimuth and elevation angles, in degrees, a single
// finger drag rotates the camera by.
func RotateDelta(c models.Cursor) (azimuth, elevation float32) {
	azimuth = float32(c.Previous.X-c.Current.X) / rotateScale
	elevation = float32(c.Previous.Y-c.Current.Y) / rotateScale
	return azimuth, elevation
}

// ZoomDistances returns the distance between the first finger and where the
// second finger started, and the distance between both fingers now.
func ZoomDistances(first, second models.Cursor) (start, current float32) {
	return distance(first.Current, second.Start), distance(first.Current, second.Current)
}

// ZoomMoved reports whether either zoom finger moved during the last update.
func ZoomMoved(first, second models.Cursor) bool {
	return first.Moved() || second.Moved()
}

// DollyFactor returns the camera dolly factor for a pinch. Values above 1 zoom
// in and values below 1 zoom out.
//
// Known issue: the factor is relative to where the pinch started, not to the
// previous cycle. After a reversal the camera keeps moving in the old direction
// until the factor crosses 1 again.
func DollyFactor(start, current float32) float32 {
	return math32.Pow(dollyBase, dollyScale*(current-start))
}

// PanDelta returns how far a finger moved during the last update.
func PanDelta(c models.Cursor) (dx, dy int) {
	return c.Current.X - c.Previous.X, c.Current.Y - c.Previous.Y
}

func distance(a, b models.Point) float32 {
	dx := float32(a.X - b.X)
	dy := float32(a.Y - b.Y)
	return math32.Sqrt(dx*dx + dy*dy)
}
