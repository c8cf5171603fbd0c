package touch

const (
	ErrTypeInvalidFrame = "invalid_frame"
)
