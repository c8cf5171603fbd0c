// Package touchtest implements the touch test screen. It displays a marker
// under each of the first five fingers. Eight fingers leave the screen.
package touchtest

import (
	"github.com/aukilabs/medtouch/gesture"
	"github.com/aukilabs/medtouch/screens"
)

const (
	Name = "touchtest"

	maxCursors = 8
	maxMarkers = 5
)

// TouchTest is the touch test screen.
type TouchTest struct {
	home string
}

// New creates a touch test screen that switches to home when left.
func New(home string) *TouchTest {
	return &TouchTest{home: home}
}

func (s *TouchTest) Name() string {
	return Name
}

func (s *TouchTest) MaxCursors() int {
	return maxCursors
}

func (s *TouchTest) Scheme() gesture.Scheme {
	return gesture.TouchTestScheme()
}

func (s *TouchTest) HandleGesture(g gesture.Gesture) screens.Action {
	action := screens.NewAction(s, g)

	switch g.Kind {
	case gesture.Markers:
		action.Markers = screens.MarkersOf(g.Cursors, maxMarkers)

	case gesture.Terminate:
		action.Next = s.home
	}

	return action
}

func (s *TouchTest) Reset() {
}
