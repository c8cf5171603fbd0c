// Package screens contains the demo screens of the suite. A screen turns the
// gesture of an update cycle into an action that clients render.
package screens

import (
	"github.com/aukilabs/medtouch/gesture"
	"github.com/aukilabs/medtouch/models"
)

// Screen is the interface that describes a demo screen.
type Screen interface {
	// Returns the screen name.
	Name() string

	// Returns the number of cursors tracked while the screen is shown.
	MaxCursors() int

	// Returns the scheme used to classify gestures.
	Scheme() gesture.Scheme

	// Handles the gesture of an update cycle.
	HandleGesture(gesture.Gesture) Action

	// Resets the screen state. Called when the screen is left.
	Reset()
}

// Marker is a finger marker displayed at a cursor position.
type Marker struct {
	Label    int          `json:"label"`
	Position models.Point `json:"position"`
}

// Action is what a screen asks clients to render after an update cycle.
type Action struct {
	Screen  string   `json:"screen"`
	Gesture string   `json:"gesture"`
	Fingers int      `json:"fingers"`
	Markers []Marker `json:"markers,omitempty"`

	// Camera rotation in degrees.
	Azimuth   float32 `json:"azimuth,omitempty"`
	Elevation float32 `json:"elevation,omitempty"`

	// Camera dolly factor. Zero means the camera does not move.
	DollyFactor float32 `json:"dolly_factor,omitempty"`

	// Camera pan in pixels.
	PanX int `json:"pan_x,omitempty"`
	PanY int `json:"pan_y,omitempty"`

	// The name of the picked target, if any.
	Picked   string `json:"picked,omitempty"`
	Revealed bool   `json:"revealed,omitempty"`

	// The name of the screen to switch to. Empty stays on the current screen.
	Next string `json:"next,omitempty"`
}

// NewAction returns an action for the given screen and gesture, with no camera
// change.
func NewAction(s Screen, g gesture.Gesture) Action {
	return Action{
		Screen:  s.Name(),
		Gesture: g.Kind.String(),
		Fingers: g.Fingers,
	}
}

// MarkersOf returns markers for the first max cursors. Markers are labelled
// with the cursor slot, starting at 1.
func MarkersOf(cursors []models.Cursor, max int) []Marker {
	if len(cursors) < max {
		max = len(cursors)
	}
	if max <= 0 {
		return nil
	}

	markers := make([]Marker, max)
	for i := range markers {
		markers[i] = Marker{
			Label:    cursors[i].Slot + 1,
			Position: cursors[i].Current,
		}
	}
	return markers
}
