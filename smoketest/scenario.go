package smoketest

import (
	"fmt"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/medtouch/models"
)

// Scenario is a scripted check run against a fresh cursor tracker.
type Scenario struct {
	Name       string
	MaxCursors int
	Run        func(*models.CursorTracker) error
}

// Scenarios returns the tracker scenarios run by the smoke test.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "creation", MaxCursors: 2, Run: checkCreation},
		{Name: "overflow", MaxCursors: 1, Run: checkOverflow},
		{Name: "burst", MaxCursors: 3, Run: checkBurst},
		{Name: "vanish_and_reacquire", MaxCursors: 1, Run: checkVanishAndReacquire},
		{Name: "same_cycle_reuse", MaxCursors: 1, Run: checkSameCycleReuse},
		{Name: "position_update_law", MaxCursors: 1, Run: checkPositionUpdateLaw},
		{Name: "coordinate_transform", MaxCursors: 1, Run: checkCoordinateTransform},
	}
}

func checkCreation(t *models.CursorTracker) error {
	t.Update([]models.Report{{ID: "A", X: 0.1, Y: 0.1}})
	if err := expectFingers(t, 1); err != nil {
		return err
	}

	c, ok := t.Cursor("A")
	if !ok {
		return errors.New("cursor is not tracked").WithTag("cursor_id", "A")
	}
	if c.Slot < 0 || c.Slot >= t.MaxCursors() {
		return errors.New("slot out of range").WithTag("slot", c.Slot)
	}
	if c.Start != c.Previous || c.Previous != c.Current {
		return errors.New("new cursor positions differ").
			WithTag("start", c.Start).
			WithTag("previous", c.Previous).
			WithTag("current", c.Current)
	}
	return nil
}

func checkOverflow(t *models.CursorTracker) error {
	t.Update([]models.Report{{ID: "A", X: 0.2, Y: 0.2}})
	res := t.Update([]models.Report{
		{ID: "A", X: 0.2, Y: 0.2},
		{ID: "B", X: 0.8, Y: 0.8},
	})

	if err := expectFingers(t, 1); err != nil {
		return err
	}
	if _, ok := t.Cursor("B"); ok {
		return errors.New("overflowing cursor is tracked").WithTag("cursor_id", "B")
	}
	if len(res.Dropped) != 1 {
		return errors.New("overflowing cursor is not reported as dropped").
			WithTag("dropped", res.Dropped)
	}
	return nil
}

func checkBurst(t *models.CursorTracker) error {
	reports := make([]models.Report, 10)
	for i := range reports {
		reports[i] = models.Report{ID: fmt.Sprint(i), X: 0.5, Y: 0.5}
	}

	t.Update(reports)
	if err := expectFingers(t, t.MaxCursors()); err != nil {
		return err
	}

	slots := make(map[int]string)
	for _, c := range t.Cursors() {
		if owner, ok := slots[c.Slot]; ok {
			return errors.New("slot is held twice").
				WithTag("slot", c.Slot).
				WithTag("first", owner).
				WithTag("second", c.ID)
		}
		slots[c.Slot] = c.ID
	}
	return nil
}

func checkVanishAndReacquire(t *models.CursorTracker) error {
	t.Update([]models.Report{{ID: "A", X: 0.2, Y: 0.2}})
	a, _ := t.Cursor("A")

	t.Update(nil)
	if err := expectFingers(t, 0); err != nil {
		return err
	}

	t.Update([]models.Report{{ID: "C", X: 0.3, Y: 0.3}})
	c, ok := t.Cursor("C")
	if !ok {
		return errors.New("cursor is not tracked").WithTag("cursor_id", "C")
	}
	if c.Slot != a.Slot {
		return errors.New("released slot is not reacquired").
			WithTag("expected", a.Slot).
			WithTag("slot", c.Slot)
	}
	return nil
}

func checkSameCycleReuse(t *models.CursorTracker) error {
	t.Update([]models.Report{{ID: "A", X: 0.2, Y: 0.2}})

	res := t.Update([]models.Report{{ID: "B", X: 0.4, Y: 0.4}})
	if _, ok := t.Cursor("B"); ok {
		return errors.New("slot released by a cycle is reused by the same cycle").
			WithTag("added", res.Added)
	}

	t.Update([]models.Report{{ID: "B", X: 0.4, Y: 0.4}})
	if _, ok := t.Cursor("B"); !ok {
		return errors.New("released slot is not reused by the next cycle")
	}
	return nil
}

func checkPositionUpdateLaw(t *models.CursorTracker) error {
	positions := []models.Report{
		{ID: "A", X: 0.1, Y: 0.1},
		{ID: "A", X: 0.5, Y: 0.5},
		{ID: "A", X: 0.5, Y: 0.5},
	}

	var before models.Point
	for i, r := range positions {
		t.Update([]models.Report{r})

		c, _ := t.Cursor("A")
		if i > 0 && c.Previous != before {
			return errors.New("previous position is not the prior current position").
				WithTag("cycle", i).
				WithTag("expected", before).
				WithTag("previous", c.Previous)
		}
		before = c.Current
	}
	return nil
}

func checkCoordinateTransform(t *models.CursorTracker) error {
	screen := t.Screen()
	center := models.Point{
		X: int(math.Round(float64(screen.Width) / 2)),
		Y: int(math.Round(float64(screen.Height) / 2)),
	}

	tests := []struct {
		x, y     float64
		expected models.Point
	}{
		{x: 0.5, y: 0.5, expected: center},
		{x: 0, y: 0, expected: models.Point{X: 0, Y: screen.Height}},
		{x: 1, y: 1, expected: models.Point{X: screen.Width, Y: 0}},
	}

	for _, test := range tests {
		if p := screen.ToPixel(test.x, test.y); p != test.expected {
			return errors.New("unexpected pixel position").
				WithTag("x", test.x).
				WithTag("y", test.y).
				WithTag("expected", test.expected).
				WithTag("position", p)
		}
	}
	return nil
}

func expectFingers(t *models.CursorTracker, n int) error {
	if fingers := t.FingersDetected(); fingers != n {
		return errors.New("unexpected number of fingers").
			WithTag("expected", n).
			WithTag("fingers", fingers)
	}
	return nil
}
