// Package viewer implements the 3D viewer screens. One finger rotates the
// camera, two fingers zoom, three fingers pan and four fingers leave.
package viewer

import (
	"github.com/aukilabs/medtouch/gesture"
	"github.com/aukilabs/medtouch/screens"
)

const (
	SliceName      = "slice"
	IsosurfaceName = "isosurface"

	maxCursors = 4
	maxMarkers = 3
)

// Config describes a viewer screen.
type Config struct {
	Name string

	// Whether vertical drags tilt the camera.
	Elevation bool

	// The screen to switch to when the viewer is left.
	Home string
}

// Viewer is a 3D viewer screen.
type Viewer struct {
	conf Config
}

// New creates a viewer screen.
func New(conf Config) *Viewer {
	return &Viewer{conf: conf}
}

// NewSlice creates the slice viewer. Its camera only rotates around the
// vertical axis.
func NewSlice(home string) *Viewer {
	return New(Config{
		Name: SliceName,
		Home: home,
	})
}

// NewIsosurface creates the isosurface viewer.
func NewIsosurface(home string) *Viewer {
	return New(Config{
		Name:      IsosurfaceName,
		Elevation: true,
		Home:      home,
	})
}

func (v *Viewer) Name() string {
	return v.conf.Name
}

func (v *Viewer) MaxCursors() int {
	return maxCursors
}

func (v *Viewer) Scheme() gesture.Scheme {
	return gesture.ViewerScheme()
}

func (v *Viewer) HandleGesture(g gesture.Gesture) screens.Action {
	action := screens.NewAction(v, g)

	switch g.Kind {
	case gesture.Rotate:
		action.Markers = screens.MarkersOf(g.Cursors, maxMarkers)
		action.Azimuth, action.Elevation = gesture.RotateDelta(g.Cursors[0])
		if !v.conf.Elevation {
			action.Elevation = 0
		}

	case gesture.Zoom:
		action.Markers = screens.MarkersOf(g.Cursors, maxMarkers)
		first, second := g.Cursors[0], g.Cursors[1]
		if gesture.ZoomMoved(first, second) {
			action.DollyFactor = gesture.DollyFactor(gesture.ZoomDistances(first, second))
		}

	case gesture.Pan:
		action.Markers = screens.MarkersOf(g.Cursors, maxMarkers)
		action.PanX, action.PanY = gesture.PanDelta(g.Cursors[2])

	case gesture.Terminate:
		action.Next = v.conf.Home
	}

	return action
}

func (v *Viewer) Reset() {
}
