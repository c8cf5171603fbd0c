package suite

const (
	ErrTypeInvalidLayout = "invalid_layout"
	ErrTypeUnknownScreen = "unknown_screen"
)
