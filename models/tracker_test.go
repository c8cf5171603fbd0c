package models

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, maxCursors int) *CursorTracker {
	tracker, err := NewCursorTracker(maxCursors, DefaultScreenSize)
	require.NoError(t, err)
	tracker.Name = "test"
	return tracker
}

func TestNewCursorTracker(t *testing.T) {
	t.Run("tracker is created empty", func(t *testing.T) {
		tracker := newTestTracker(t, 3)
		require.Zero(t, tracker.FingersDetected())
		require.Equal(t, 3, tracker.MaxCursors())
		require.Equal(t, 3, tracker.slots.Free())
		require.Equal(t, DefaultScreenSize, tracker.Screen())
	})

	t.Run("non positive capacity returns an error", func(t *testing.T) {
		tracker, err := NewCursorTracker(0, DefaultScreenSize)
		require.Error(t, err)
		require.Equal(t, ErrTypeInvalidCapacity, errors.Type(err))
		require.Nil(t, tracker)
	})

	t.Run("empty screen returns an error", func(t *testing.T) {
		tracker, err := NewCursorTracker(2, ScreenSize{Width: 680})
		require.Error(t, err)
		require.Equal(t, ErrTypeInvalidScreenSize, errors.Type(err))
		require.Nil(t, tracker)
	})
}

func TestCursorTrackerUpdate(t *testing.T) {
	t.Run("new cursor is created", func(t *testing.T) {
		tracker := newTestTracker(t, 2)

		res := tracker.Update([]Report{{ID: "A", X: 0.1, Y: 0.1}})
		require.Equal(t, []string{"A"}, res.Added)
		require.Empty(t, res.Dropped)
		require.Equal(t, 1, tracker.FingersDetected())

		c, ok := tracker.Cursor("A")
		require.True(t, ok)
		require.Contains(t, []int{0, 1}, c.Slot)
		require.Equal(t, Point{X: 68, Y: 414}, c.Current)
		require.Equal(t, c.Current, c.Previous)
		require.Equal(t, c.Current, c.Start)
	})

	t.Run("known cursor shifts current into previous", func(t *testing.T) {
		tracker := newTestTracker(t, 2)
		tracker.Update([]Report{{ID: "A", X: 0.1, Y: 0.1}})

		res := tracker.Update([]Report{{ID: "A", X: 0.5, Y: 0.5}})
		require.Equal(t, []string{"A"}, res.Updated)

		c, _ := tracker.Cursor("A")
		require.Equal(t, Point{X: 68, Y: 414}, c.Start)
		require.Equal(t, Point{X: 68, Y: 414}, c.Previous)
		require.Equal(t, Point{X: 340, Y: 230}, c.Current)
		require.True(t, c.Moved())
	})

	t.Run("unchanged position still refreshes previous", func(t *testing.T) {
		tracker := newTestTracker(t, 2)
		tracker.Update([]Report{{ID: "A", X: 0.1, Y: 0.1}})
		tracker.Update([]Report{{ID: "A", X: 0.5, Y: 0.5}})
		tracker.Update([]Report{{ID: "A", X: 0.5, Y: 0.5}})

		c, _ := tracker.Cursor("A")
		require.Equal(t, Point{X: 340, Y: 230}, c.Previous)
		require.Equal(t, Point{X: 340, Y: 230}, c.Current)
		require.False(t, c.Moved())
	})

	t.Run("cursor over capacity is dropped", func(t *testing.T) {
		tracker := newTestTracker(t, 1)
		tracker.Update([]Report{{ID: "A", X: 0.2, Y: 0.2}})

		res := tracker.Update([]Report{
			{ID: "A", X: 0.2, Y: 0.2},
			{ID: "B", X: 0.8, Y: 0.8},
		})
		require.Equal(t, []string{"B"}, res.Dropped)
		require.Equal(t, 1, tracker.FingersDetected())

		_, ok := tracker.Cursor("B")
		require.False(t, ok)
		require.Equal(t, []string{"A"}, tracker.TrackedIDs())
	})

	t.Run("burst over capacity tracks at most max cursors", func(t *testing.T) {
		tracker := newTestTracker(t, 3)

		reports := make([]Report, 10)
		for i := range reports {
			reports[i] = Report{ID: fmt.Sprint(i), X: 0.5, Y: 0.5}
		}

		res := tracker.Update(reports)
		require.Len(t, res.Added, 3)
		require.Len(t, res.Dropped, 7)
		require.Equal(t, 3, tracker.FingersDetected())
	})

	t.Run("vanished cursor is released", func(t *testing.T) {
		tracker := newTestTracker(t, 1)
		tracker.Update([]Report{{ID: "A", X: 0.2, Y: 0.2}})
		slotA := tracker.cursors["A"].Slot

		res := tracker.Update(nil)
		require.Equal(t, []string{"A"}, res.Vanished)
		require.Zero(t, tracker.FingersDetected())
		require.False(t, tracker.slots.Assigned(slotA))

		tracker.Update([]Report{{ID: "C", X: 0.3, Y: 0.3}})
		c, ok := tracker.Cursor("C")
		require.True(t, ok)
		require.Equal(t, slotA, c.Slot)
	})

	t.Run("vanished cursor returns its slot to the next new cursor", func(t *testing.T) {
		tracker := newTestTracker(t, 4)
		tracker.Update([]Report{
			{ID: "A", X: 0.1, Y: 0.1},
			{ID: "B", X: 0.2, Y: 0.2},
		})
		slotA := tracker.cursors["A"].Slot

		tracker.Update([]Report{{ID: "B", X: 0.2, Y: 0.2}})
		tracker.Update([]Report{
			{ID: "B", X: 0.2, Y: 0.2},
			{ID: "C", X: 0.3, Y: 0.3},
		})

		c, _ := tracker.Cursor("C")
		require.Equal(t, slotA, c.Slot)
	})

	t.Run("slot released in a cycle is not reused by the same cycle", func(t *testing.T) {
		tracker := newTestTracker(t, 1)
		tracker.Update([]Report{{ID: "A", X: 0.2, Y: 0.2}})

		res := tracker.Update([]Report{{ID: "B", X: 0.4, Y: 0.4}})
		require.Equal(t, []string{"B"}, res.Dropped)
		require.Equal(t, []string{"A"}, res.Vanished)
		require.Zero(t, tracker.FingersDetected())

		res = tracker.Update([]Report{{ID: "B", X: 0.4, Y: 0.4}})
		require.Equal(t, []string{"B"}, res.Added)
		require.Equal(t, 1, tracker.FingersDetected())
	})

	t.Run("out of range report is clamped", func(t *testing.T) {
		tracker := newTestTracker(t, 1)
		tracker.Update([]Report{{ID: "A", X: 3, Y: -1}})

		p, err := tracker.PositionOf("A")
		require.NoError(t, err)
		require.Equal(t, Point{X: 680, Y: 460}, p)
	})
}

func TestCursorTrackerInvariants(t *testing.T) {
	const maxCursors = 4

	tracker := newTestTracker(t, maxCursors)
	rng := rand.New(rand.NewSource(42))
	current := make(map[string]Point)

	for cycle := 0; cycle < 500; cycle++ {
		var reports []Report
		for id := 0; id < 8; id++ {
			if rng.Intn(3) == 0 {
				continue
			}
			reports = append(reports, Report{
				ID: fmt.Sprint(id),
				X:  rng.Float64(),
				Y:  rng.Float64(),
			})
		}

		tracker.Update(reports)

		cursors := tracker.Cursors()
		require.LessOrEqual(t, len(cursors), maxCursors)
		require.Equal(t, len(cursors), tracker.FingersDetected())
		require.Equal(t, maxCursors-len(cursors), tracker.slots.Free())

		slots := make(map[int]string)
		next := make(map[string]Point)
		for _, c := range cursors {
			owner, taken := slots[c.Slot]
			require.False(t, taken, "slot %d held by %s and %s", c.Slot, owner, c.ID)
			slots[c.Slot] = c.ID

			if prev, ok := current[c.ID]; ok {
				require.Equal(t, prev, c.Previous)
			}
			next[c.ID] = c.Current
		}
		current = next
	}
}

func TestCursorTrackerReset(t *testing.T) {
	tracker := newTestTracker(t, 2)
	tracker.Update([]Report{
		{ID: "A", X: 0.1, Y: 0.1},
		{ID: "B", X: 0.2, Y: 0.2},
	})

	tracker.Reset()
	require.Zero(t, tracker.FingersDetected())
	require.Equal(t, 2, tracker.slots.Free())

	res := tracker.Update([]Report{{ID: "A", X: 0.1, Y: 0.1}})
	require.Equal(t, []string{"A"}, res.Added)
}

func TestCursorTrackerPositionOf(t *testing.T) {
	tracker := newTestTracker(t, 2)
	tracker.Update([]Report{{ID: "A", X: 0.5, Y: 0.5}})

	t.Run("position of a tracked cursor is returned", func(t *testing.T) {
		p, err := tracker.PositionOf("A")
		require.NoError(t, err)
		require.Equal(t, Point{X: 340, Y: 230}, p)
	})

	t.Run("position of an untracked cursor returns an error", func(t *testing.T) {
		p, err := tracker.PositionOf("Z")
		require.Error(t, err)
		require.Equal(t, ErrTypeNotTracked, errors.Type(err))
		require.Zero(t, p)
	})
}

func TestCursorTrackerTrackedIDs(t *testing.T) {
	tracker := newTestTracker(t, 3)
	tracker.Update([]Report{
		{ID: "A", X: 0.1, Y: 0.1},
		{ID: "B", X: 0.2, Y: 0.2},
		{ID: "C", X: 0.3, Y: 0.3},
	})
	require.Equal(t, []string{"A", "B", "C"}, tracker.TrackedIDs())

	tracker.Update([]Report{
		{ID: "B", X: 0.2, Y: 0.2},
		{ID: "C", X: 0.3, Y: 0.3},
	})
	tracker.Update([]Report{
		{ID: "B", X: 0.2, Y: 0.2},
		{ID: "C", X: 0.3, Y: 0.3},
		{ID: "D", X: 0.4, Y: 0.4},
	})
	require.Equal(t, []string{"D", "B", "C"}, tracker.TrackedIDs())
}
