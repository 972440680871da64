package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyQuitUpper  = "Q"
	KeyCtrlC      = "ctrl+c"
	KeySpace      = " "
	KeyTab        = "tab"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyJ          = "j"
	KeyK          = "k"
	KeyEnter      = "enter"
	KeyEsc        = "esc"
	KeyAdd        = "a"
	KeyDelete     = "d"
	KeyReminder   = "r"
	KeyBackground = "b"
	KeyCycleIcon  = "ctrl+n"
)

// DefaultRemindAt is the reminder time set by KeyReminder.
const DefaultRemindAt = "09:00"
