// Package gesture classifies tracked cursors into gestures.
//
// Classification only looks at how many cursors are tracked. Which gesture a
// finger count stands for depends on the screen, so every screen carries its
// own Scheme.
package gesture

import (
	"github.com/aukilabs/medtouch/models"
)

// Kind is a gesture category.
type Kind int

const (
	None Kind = iota
	Rotate
	Zoom
	Pick
	Pan
	Markers
	Terminate

	// Ignored is returned for a finger count the scheme does not map.
	Ignored
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Rotate:
		return "rotate"
	case Zoom:
		return "zoom"
	case Pick:
		return "pick"
	case Pan:
		return "pan"
	case Markers:
		return "markers"
	case Terminate:
		return "terminate"
	default:
		return "ignored"
	}
}

// Gesture is the classification of one update cycle.
type Gesture struct {
	Kind    Kind
	Fingers int

	// The tracked cursors ordered by slot.
	Cursors []models.Cursor
}

// IDs returns the ids of the cursors involved in the gesture.
func (g Gesture) IDs() []string {
	ids := make([]string, len(g.Cursors))
	for i, c := range g.Cursors {
		ids[i] = c.ID
	}
	return ids
}

// Scheme maps finger counts to gesture kinds.
type Scheme struct {
	Name  string
	Kinds map[int]Kind
}

// Kind returns the gesture kind for the given number of fingers.
func (s Scheme) Kind(fingers int) Kind {
	if fingers == 0 {
		return None
	}

	k, ok := s.Kinds[fingers]
	if !ok {
		return Ignored
	}
	return k
}

// Classify returns the gesture made by the given cursors. Cursors must be
// ordered by slot.
func Classify(s Scheme, cursors []models.Cursor) Gesture {
	return Gesture{
		Kind:    s.Kind(len(cursors)),
		Fingers: len(cursors),
		Cursors: cursors,
	}
}

// ViewerScheme is used by the 3D viewers: one finger rotates, two zoom, three
// pan and four leave the viewer.
func ViewerScheme() Scheme {
	return Scheme{
		Name: "viewer",
		Kinds: map[int]Kind{
			1: Rotate,
			2: Zoom,
			3: Pan,
			4: Terminate,
		},
	}
}

// ChooserScheme is used by the demo chooser: one finger rotates, two pick.
func ChooserScheme() Scheme {
	return Scheme{
		Name: "chooser",
		Kinds: map[int]Kind{
			1: Rotate,
			2: Pick,
		},
	}
}

// TouchTestScheme is used by the touch test screen: up to five fingers are
// displayed and eight leave the screen.
func TouchTestScheme() Scheme {
	return Scheme{
		Name: "touchtest",
		Kinds: map[int]Kind{
			1: Markers,
			2: Markers,
			3: Markers,
			4: Markers,
			5: Markers,
			8: Terminate,
		},
	}
}
