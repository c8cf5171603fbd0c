// Package suite runs the demo suite: it owns the current screen, feeds its
// cursor tracker and switches screens when a demo ends or is picked.
package suite

import (
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/medtouch/gesture"
	"github.com/aukilabs/medtouch/models"
	"github.com/aukilabs/medtouch/screens"
	"github.com/aukilabs/medtouch/screens/chooser"
	"github.com/aukilabs/medtouch/screens/touchtest"
	"github.com/aukilabs/medtouch/screens/viewer"
	"github.com/google/uuid"
)

// Cycle is the outcome of one update cycle.
type Cycle struct {
	Seq    uint64              `json:"seq"`
	Update models.UpdateResult `json:"update"`
	Action screens.Action      `json:"action"`

	// The screen shown before the cycle when the action switched screens.
	Previous string `json:"previous,omitempty"`
}

// Switched reports whether the cycle switched screens.
func (c Cycle) Switched() bool {
	return c.Previous != ""
}

// State is a snapshot of a navigator.
type State struct {
	ID         string          `json:"id"`
	Screen     string          `json:"screen"`
	Fingers    int             `json:"fingers"`
	MaxCursors int             `json:"max_cursors"`
	Cursors    []models.Cursor `json:"cursors,omitempty"`
	Cycles     uint64          `json:"cycles"`
	StartedAt  time.Time       `json:"started_at"`
}

// Navigator walks a client through the screens of the suite.
type Navigator struct {
	// The navigator unique identifier.
	ID string

	layout    Layout
	startedAt time.Time

	mutex   sync.RWMutex
	screens map[string]screens.Screen
	current screens.Screen
	tracker *models.CursorTracker
	cycles  uint64
}

// NewNavigator creates a navigator that starts on the layout home screen.
func NewNavigator(layout Layout) (*Navigator, error) {
	home := layout.Home

	n := &Navigator{
		ID:        uuid.NewString(),
		layout:    layout,
		startedAt: time.Now(),
		screens:   make(map[string]screens.Screen),
	}

	n.add(chooser.New(layout.Chooser))
	n.add(viewer.NewSlice(home))
	n.add(viewer.NewIsosurface(home))
	n.add(touchtest.New(home))

	if err := n.enter(home); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Navigator) add(s screens.Screen) {
	n.screens[s.Name()] = s
}

// Cycle runs an update cycle with the given reports: the current screen
// tracker is updated, the tracked cursors are classified and the resulting
// gesture is handled by the screen. When the screen action names a next
// screen, the navigator switches to it before returning.
func (n *Navigator) Cycle(reports []models.Report) (Cycle, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.cycles++
	c := Cycle{Seq: n.cycles}

	c.Update = n.tracker.Update(reports)
	g := gesture.Classify(n.current.Scheme(), n.tracker.Cursors())
	c.Action = n.current.HandleGesture(g)

	if g.Kind != gesture.None {
		instrumentGesture(n.current.Name(), g.Kind.String())
	}

	if next := c.Action.Next; next != "" {
		from := n.current.Name()
		if err := n.enter(next); err != nil {
			return c, errors.New("switching screen failed").
				WithTag("from", from).
				Wrap(err)
		}
		c.Previous = from
	}

	return c, nil
}

// enter leaves the current screen and shows the named one with a new tracker.
func (n *Navigator) enter(name string) error {
	s, ok := n.screens[name]
	if !ok {
		return errors.New("unknown screen").
			WithType(ErrTypeUnknownScreen).
			WithTag("screen", name)
	}

	tracker, err := models.NewCursorTracker(s.MaxCursors(), n.layout.Screen)
	if err != nil {
		return errors.New("creating cursor tracker failed").
			WithTag("screen", name).
			Wrap(err)
	}
	tracker.Name = s.Name()

	if n.current != nil {
		instrumentScreenSwitch(n.current.Name(), name)
		n.leave()
	}

	n.current = s
	n.tracker = tracker
	return nil
}

func (n *Navigator) leave() {
	n.current.Reset()
	n.tracker.Reset()
}

// Screen returns the name of the current screen.
func (n *Navigator) Screen() string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return n.current.Name()
}

// FingersDetected returns the number of cursors tracked by the current screen.
func (n *Navigator) FingersDetected() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return n.tracker.FingersDetected()
}

// State returns a snapshot of the navigator.
func (n *Navigator) State() State {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return State{
		ID:         n.ID,
		Screen:     n.current.Name(),
		Fingers:    n.tracker.FingersDetected(),
		MaxCursors: n.tracker.MaxCursors(),
		Cursors:    n.tracker.Cursors(),
		Cycles:     n.cycles,
		StartedAt:  n.startedAt,
	}
}

// Close leaves the current screen and releases its cursors.
func (n *Navigator) Close() {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.leave()
}
