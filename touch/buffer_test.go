package touch

import (
	"testing"

	"github.com/aukilabs/medtouch/models"
	"github.com/stretchr/testify/require"
)

func TestBufferPoll(t *testing.T) {
	t.Run("empty buffer polls nothing", func(t *testing.T) {
		var b Buffer
		require.Empty(t, b.Poll())
	})

	t.Run("latest frame is polled until replaced", func(t *testing.T) {
		var b Buffer
		require.True(t, b.Push(Frame{Cursors: []models.Report{{ID: "A", X: 0.1}}}))
		require.Equal(t, []models.Report{{ID: "A", X: 0.1}}, b.Poll())
		require.Equal(t, []models.Report{{ID: "A", X: 0.1}}, b.Poll())

		require.True(t, b.Push(Frame{Cursors: []models.Report{{ID: "B", X: 0.2}}}))
		require.Equal(t, []models.Report{{ID: "B", X: 0.2}}, b.Poll())
	})

	t.Run("empty frame lifts every contact", func(t *testing.T) {
		var b Buffer
		b.Push(Frame{Cursors: []models.Report{{ID: "A"}}})
		b.Push(Frame{})
		require.Empty(t, b.Poll())
	})

	t.Run("polled reports are a copy", func(t *testing.T) {
		var b Buffer
		b.Push(Frame{Cursors: []models.Report{{ID: "A", X: 0.1}}})

		reports := b.Poll()
		reports[0].X = 0.9
		require.Equal(t, 0.1, b.Poll()[0].X)
	})
}

func TestBufferPush(t *testing.T) {
	t.Run("duplicate ids keep the last report at the first position", func(t *testing.T) {
		var b Buffer
		b.Push(Frame{Cursors: []models.Report{
			{ID: "A", X: 0.1},
			{ID: "B", X: 0.2},
			{ID: "A", X: 0.3},
		}})

		require.Equal(t, []models.Report{
			{ID: "A", X: 0.3},
			{ID: "B", X: 0.2},
		}, b.Poll())
	})

	t.Run("stale sequenced frame is discarded", func(t *testing.T) {
		var b Buffer
		require.True(t, b.Push(Frame{Seq: 5, Cursors: []models.Report{{ID: "A"}}}))
		require.False(t, b.Push(Frame{Seq: 4, Cursors: []models.Report{{ID: "B"}}}))
		require.False(t, b.Push(Frame{Seq: 5, Cursors: []models.Report{{ID: "C"}}}))
		require.Equal(t, []models.Report{{ID: "A"}}, b.Poll())

		require.True(t, b.Push(Frame{Seq: 6, Cursors: []models.Report{{ID: "D"}}}))
		require.Equal(t, []models.Report{{ID: "D"}}, b.Poll())
	})

	t.Run("unsequenced frame is always accepted", func(t *testing.T) {
		var b Buffer
		b.Push(Frame{Seq: 5})
		require.True(t, b.Push(Frame{Cursors: []models.Report{{ID: "A"}}}))
	})

	t.Run("clear forgets the sequence", func(t *testing.T) {
		var b Buffer
		b.Push(Frame{Seq: 5, Cursors: []models.Report{{ID: "A"}}})
		b.Clear()
		require.Empty(t, b.Poll())
		require.True(t, b.Push(Frame{Seq: 1}))
	})
}
