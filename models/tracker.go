package models

import (
	"sort"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Cursor is a touch point tracked across update cycles.
type Cursor struct {
	ID       string `json:"id"`
	Slot     int    `json:"slot"`
	Start    Point  `json:"start"`
	Previous Point  `json:"previous"`
	Current  Point  `json:"current"`
}

// Moved reports whether the cursor moved during the last update.
func (c Cursor) Moved() bool {
	return c.Current != c.Previous
}

// UpdateResult describes what an update cycle did to the tracked cursors.
type UpdateResult struct {
	Added    []string `json:"added,omitempty"`
	Updated  []string `json:"updated,omitempty"`
	Vanished []string `json:"vanished,omitempty"`

	// The ids of new reports that were rejected because every slot was
	// assigned.
	Dropped []string `json:"dropped,omitempty"`
}

// CursorTracker keeps a stable mapping from external touch ids to a bounded
// set of finger slots, along with the start, previous and current position of
// each tracked cursor.
type CursorTracker struct {
	// The name used to label tracker metrics. Unnamed trackers are not
	// instrumented.
	Name string

	screen ScreenSize

	mutex   sync.RWMutex
	slots   *SlotPool
	cursors map[string]*Cursor
}

// NewCursorTracker creates a tracker that follows at most maxCursors touch
// points on a screen of the given size.
func NewCursorTracker(maxCursors int, screen ScreenSize) (*CursorTracker, error) {
	if maxCursors <= 0 {
		return nil, errors.New("max cursors must be positive").
			WithType(ErrTypeInvalidCapacity).
			WithTag("max_cursors", maxCursors)
	}

	if !screen.valid() {
		return nil, errors.New("screen size must be positive").
			WithType(ErrTypeInvalidScreenSize).
			WithTag("width", screen.Width).
			WithTag("height", screen.Height)
	}

	return &CursorTracker{
		screen:  screen,
		slots:   NewSlotPool(maxCursors),
		cursors: make(map[string]*Cursor, maxCursors),
	}, nil
}

// Update applies the reports of one polling cycle.
//
// Reports for tracked ids shift the current position into the previous one,
// even when the position did not change. Reports for new ids take a free slot
// or are dropped when none is left. Tracked ids missing from reports are
// released last, so a slot freed by this cycle is only reusable by the next
// one.
func (t *CursorTracker) Update(reports []Report) UpdateResult {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var res UpdateResult

	present := make(map[string]struct{}, len(reports))
	for _, r := range reports {
		present[r.ID] = struct{}{}
	}

	var vanished []*Cursor
	for id, c := range t.cursors {
		if _, ok := present[id]; !ok {
			vanished = append(vanished, c)
		}
	}
	sortCursors(vanished)

	for _, r := range reports {
		pos := t.screen.ToPixel(r.X, r.Y)

		if c, ok := t.cursors[r.ID]; ok {
			c.Previous = c.Current
			c.Current = pos
			res.Updated = append(res.Updated, r.ID)
			continue
		}

		slot, ok := t.slots.Acquire()
		if !ok {
			res.Dropped = append(res.Dropped, r.ID)
			continue
		}

		t.cursors[r.ID] = &Cursor{
			ID:       r.ID,
			Slot:     slot,
			Start:    pos,
			Previous: pos,
			Current:  pos,
		}
		res.Added = append(res.Added, r.ID)
	}

	for _, c := range vanished {
		t.remove(c)
		res.Vanished = append(res.Vanished, c.ID)
	}

	instrumentCursorActive(t.Name, len(res.Added)-len(res.Vanished))
	instrumentCursorAdded(t.Name, len(res.Added))
	instrumentCursorDropped(t.Name, len(res.Dropped))
	return res
}

// Reset releases every tracked cursor.
func (t *CursorTracker) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	n := len(t.cursors)
	for _, c := range t.cursors {
		t.remove(c)
	}
	instrumentCursorActive(t.Name, -n)
}

func (t *CursorTracker) remove(c *Cursor) {
	if err := t.slots.Release(c.Slot); err != nil {
		logs.WithTag("tracker", t.Name).
			WithTag("cursor_id", c.ID).
			Warn(errors.New("releasing cursor slot failed").Wrap(err))
	}
	delete(t.cursors, c.ID)
}

// FingersDetected returns the number of tracked cursors.
func (t *CursorTracker) FingersDetected() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return len(t.cursors)
}

// MaxCursors returns the number of cursors the tracker can follow at once.
func (t *CursorTracker) MaxCursors() int {
	return t.slots.Capacity()
}

// Screen returns the size of the screen reports are mapped onto.
func (t *CursorTracker) Screen() ScreenSize {
	return t.screen
}

// Cursor returns a copy of the cursor tracked under the given id.
func (t *CursorTracker) Cursor(id string) (Cursor, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	c, ok := t.cursors[id]
	if !ok {
		return Cursor{}, false
	}
	return *c, true
}

// PositionOf returns the current position of a tracked cursor.
func (t *CursorTracker) PositionOf(id string) (Point, error) {
	c, ok := t.Cursor(id)
	if !ok {
		return Point{}, errors.New("cursor is not tracked").
			WithType(ErrTypeNotTracked).
			WithTag("cursor_id", id)
	}
	return c.Current, nil
}

// TrackedIDs returns the tracked ids ordered by slot.
func (t *CursorTracker) TrackedIDs() []string {
	cursors := t.Cursors()

	ids := make([]string, len(cursors))
	for i, c := range cursors {
		ids[i] = c.ID
	}
	return ids
}

// Cursors returns a copy of the tracked cursors ordered by slot.
func (t *CursorTracker) Cursors() []Cursor {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	tracked := make([]*Cursor, 0, len(t.cursors))
	for _, c := range t.cursors {
		tracked = append(tracked, c)
	}
	sortCursors(tracked)

	cursors := make([]Cursor, len(tracked))
	for i, c := range tracked {
		cursors[i] = *c
	}
	return cursors
}

func sortCursors(cursors []*Cursor) {
	sort.Slice(cursors, func(i, j int) bool {
		return cursors[i].Slot < cursors[j].Slot
	})
}
