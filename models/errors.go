package models

// Error types returned by the tracker.
const (
	ErrTypeInvalidCapacity   = "invalid_capacity"
	ErrTypeInvalidScreenSize = "invalid_screen_size"
	ErrTypeNotTracked        = "not_tracked"
	ErrTypeSlotOutOfRange    = "slot_out_of_range"
	ErrTypeSlotNotAssigned   = "slot_not_assigned"
)
