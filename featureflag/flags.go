package featureflag

type Flag string

const (
	// Disables the screen_state messages sent on connect and on screen
	// switches.
	FlagDisableScreenState Flag = "DISABLE_SCREEN_STATE"

	// Disables the action messages of cycles where no finger touches the
	// surface and none was lifted.
	FlagDisableIdleActions Flag = "DISABLE_IDLE_ACTIONS"

	// Disables the tracked cursors attached to action messages.
	FlagDisableCursorEcho Flag = "DISABLE_CURSOR_ECHO"
)
