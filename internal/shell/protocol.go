// Package shell provides the client and protocol types for talking to the
// mobile shell bridge (notifications, background runner, motion sensor) over
// a Unix socket using NDJSON.
package shell

import "time"

// Command names understood by the bridge.
const (
	CmdNotifyPermission = "notify.permission"
	CmdNotifySchedule   = "notify.schedule"
	CmdNotifyCancel     = "notify.cancel"
	CmdBackgroundStart  = "background.start"
	CmdBackgroundStop   = "background.stop"
	CmdBackgroundStatus = "background.status"
	CmdMotionPermission = "motion.permission"
	CmdSubscribe        = "subscribe"
)

// EventMotion carries one accelerometer reading.
const EventMotion = "motion"

// Command is sent from a client to the bridge.
type Command struct {
	Cmd         string   `json:"cmd"`
	ID          *int     `json:"id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Body        string   `json:"body,omitempty"`
	At          string   `json:"at,omitempty"` // RFC 3339
	RepeatDaily *bool    `json:"repeatDaily,omitempty"`
	Label       string   `json:"label,omitempty"`
	Payload     string   `json:"payload,omitempty"`
	Events      []string `json:"events,omitempty"`
}

// Response is returned by the bridge after processing a command.
type Response struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	ID        *int   `json:"id,omitempty"`
	Granted   *bool  `json:"granted,omitempty"`
	Available *bool  `json:"available,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// Event is streamed from the bridge to subscribed clients.
type Event struct {
	Event   string   `json:"event"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	Z       *float64 `json:"z,omitempty"`
	TS      int64    `json:"ts,omitempty"` // unix milliseconds
	Message string   `json:"message,omitempty"`
}

// Acceleration returns the motion reading carried by a motion event. ok is
// false for other events or when the bridge sent an incomplete reading.
func (e Event) Acceleration() (x, y, z float64, at time.Time, ok bool) {
	if e.Event != EventMotion || e.X == nil || e.Y == nil || e.Z == nil {
		return 0, 0, 0, time.Time{}, false
	}
	return *e.X, *e.Y, *e.Z, time.UnixMilli(e.TS), true
}

// Notification is a local notification request.
type Notification struct {
	ID          int
	Title       string
	Body        string
	At          time.Time
	RepeatDaily bool
}

// MotionAccess reports whether motion samples can be delivered.
type MotionAccess int

const (
	MotionGranted MotionAccess = iota
	MotionDenied
	MotionUnavailable
)

func (a MotionAccess) String() string {
	switch a {
	case MotionGranted:
		return "granted"
	case MotionDenied:
		return "denied"
	default:
		return "unavailable"
	}
}

// BoolPtr returns a pointer to a bool value. Convenience for building commands.
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns a pointer to an int value.
func IntPtr(i int) *int { return &i }

// FloatPtr returns a pointer to a float64 value.
func FloatPtr(f float64) *float64 { return &f }
