// Package chooser implements the demo chooser screen.
//
// The chooser starts with a single reveal target. Picking it with a second
// finger reveals the demo targets, and picking a revealed demo target switches
// to its screen. One finger rotates the scene.
package chooser

import (
	"github.com/aukilabs/medtouch/gesture"
	"github.com/aukilabs/medtouch/screens"
)

const (
	Name = "chooser"

	maxCursors = 2
	maxMarkers = 2
)

// Config describes the chooser targets.
type Config struct {
	Reveal  Target   `json:"reveal"  yaml:"reveal"`
	Targets []Target `json:"targets" yaml:"targets"`
}

// Chooser is the demo chooser screen.
type Chooser struct {
	conf Config

	revealed bool
	picked   string
}

// New creates a chooser screen.
func New(conf Config) *Chooser {
	return &Chooser{conf: conf}
}

func (c *Chooser) Name() string {
	return Name
}

func (c *Chooser) MaxCursors() int {
	return maxCursors
}

func (c *Chooser) Scheme() gesture.Scheme {
	return gesture.ChooserScheme()
}

func (c *Chooser) HandleGesture(g gesture.Gesture) screens.Action {
	action := screens.NewAction(c, g)

	switch g.Kind {
	case gesture.Rotate:
		action.Markers = screens.MarkersOf(g.Cursors, maxMarkers)
		action.Azimuth, action.Elevation = gesture.RotateDelta(g.Cursors[0])

	case gesture.Pick:
		action.Markers = screens.MarkersOf(g.Cursors, maxMarkers)
		action.Next = c.pick(g)
	}

	action.Picked = c.picked
	action.Revealed = c.revealed
	return action
}

// pick hit tests the second finger and returns the screen to switch to.
func (c *Chooser) pick(g gesture.Gesture) string {
	p := g.Cursors[1].Current

	if c.conf.Reveal.Contains(p) {
		c.revealed = true
		c.picked = c.conf.Reveal.Name
		return ""
	}

	if c.revealed {
		for _, t := range c.conf.Targets {
			if t.Contains(p) {
				c.picked = t.Name
				return t.Screen
			}
		}
	}

	c.picked = ""
	return ""
}

func (c *Chooser) Reset() {
	c.revealed = false
	c.picked = ""
}

// Revealed reports whether the demo targets are visible.
func (c *Chooser) Revealed() bool {
	return c.revealed
}
