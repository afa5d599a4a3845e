package notify

import (
	"time"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single notification event. Notifications live
// only for the lifetime of the process; nothing is written to disk.
type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}
