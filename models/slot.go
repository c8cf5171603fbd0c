package models

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// SlotPool hands out finger slots from the fixed range [0, capacity).
//
// Free slots are kept on a stack: the most recently released slot is the
// next one acquired.
type SlotPool struct {
	free     []int
	assigned []bool
}

// NewSlotPool returns a pool where every slot is free. Slot 0 is acquired
// first.
func NewSlotPool(capacity int) *SlotPool {
	if capacity < 0 {
		capacity = 0
	}

	p := &SlotPool{
		free:     make([]int, 0, capacity),
		assigned: make([]bool, capacity),
	}
	for slot := capacity - 1; slot >= 0; slot-- {
		p.free = append(p.free, slot)
	}
	return p
}

// Acquire takes a free slot. It returns false when every slot is assigned.
func (p *SlotPool) Acquire() (int, bool) {
	n := len(p.free)
	if n == 0 {
		return -1, false
	}

	slot := p.free[n-1]
	p.free = p.free[:n-1]
	p.assigned[slot] = true
	return slot, true
}

// Release returns an assigned slot to the pool.
func (p *SlotPool) Release(slot int) error {
	if slot < 0 || slot >= len(p.assigned) {
		return errors.New("slot is out of range").
			WithType(ErrTypeSlotOutOfRange).
			WithTag("slot", slot).
			WithTag("capacity", len(p.assigned))
	}

	if !p.assigned[slot] {
		return errors.New("slot is not assigned").
			WithType(ErrTypeSlotNotAssigned).
			WithTag("slot", slot)
	}

	p.assigned[slot] = false
	p.free = append(p.free, slot)
	return nil
}

// Assigned reports whether the slot is currently held by a cursor.
func (p *SlotPool) Assigned(slot int) bool {
	return slot >= 0 && slot < len(p.assigned) && p.assigned[slot]
}

// Free returns the number of slots available.
func (p *SlotPool) Free() int {
	return len(p.free)
}

// Capacity returns the total number of slots.
func (p *SlotPool) Capacity() int {
	return len(p.assigned)
}
