package chooser

import (
	"github.com/aukilabs/medtouch/models"
)

// Target is a circular pick area on the chooser screen.
type Target struct {
	Name   string       `json:"name"             yaml:"name"`
	Center models.Point `json:"center"           yaml:"center"`
	Radius int          `json:"radius"           yaml:"radius"`

	// The screen a pick switches to. Unused for the reveal target.
	Screen string `json:"screen,omitempty" yaml:"screen,omitempty"`
}

// Contains reports whether p lies inside or on the target.
func (t Target) Contains(p models.Point) bool {
	dx := p.X - t.Center.X
	dy := p.Y - t.Center.Y
	return dx*dx+dy*dy <= t.Radius*t.Radius
}
