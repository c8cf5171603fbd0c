package models

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSlotPoolAcquire(t *testing.T) {
	t.Run("returns every slot once", func(t *testing.T) {
		p := NewSlotPool(3)

		for i := 0; i < 3; i++ {
			slot, ok := p.Acquire()
			require.True(t, ok)
			require.Equal(t, i, slot)
		}

		slot, ok := p.Acquire()
		require.False(t, ok)
		require.Equal(t, -1, slot)
		require.Zero(t, p.Free())
	})

	t.Run("returns the last released slot first", func(t *testing.T) {
		p := NewSlotPool(4)
		for i := 0; i < 4; i++ {
			p.Acquire()
		}

		require.NoError(t, p.Release(1))
		require.NoError(t, p.Release(3))

		slot, ok := p.Acquire()
		require.True(t, ok)
		require.Equal(t, 3, slot)

		slot, ok = p.Acquire()
		require.True(t, ok)
		require.Equal(t, 1, slot)
	})

	t.Run("zero capacity pool has no slot", func(t *testing.T) {
		p := NewSlotPool(0)
		_, ok := p.Acquire()
		require.False(t, ok)
		require.Zero(t, p.Capacity())
	})
}

func TestSlotPoolRelease(t *testing.T) {
	t.Run("released slot is free again", func(t *testing.T) {
		p := NewSlotPool(2)
		slot, _ := p.Acquire()
		require.True(t, p.Assigned(slot))
		require.Equal(t, 1, p.Free())

		require.NoError(t, p.Release(slot))
		require.False(t, p.Assigned(slot))
		require.Equal(t, 2, p.Free())
	})

	t.Run("releasing a free slot returns an error", func(t *testing.T) {
		p := NewSlotPool(2)
		err := p.Release(1)
		require.Error(t, err)
		require.Equal(t, ErrTypeSlotNotAssigned, errors.Type(err))
		require.Equal(t, 2, p.Free())
	})

	t.Run("releasing an out of range slot returns an error", func(t *testing.T) {
		p := NewSlotPool(2)
		err := p.Release(2)
		require.Error(t, err)
		require.Equal(t, ErrTypeSlotOutOfRange, errors.Type(err))

		err = p.Release(-1)
		require.Error(t, err)
		require.Equal(t, ErrTypeSlotOutOfRange, errors.Type(err))
	})
}
