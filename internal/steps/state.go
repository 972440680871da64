package steps

import "sync"

// State is the lifecycle of a tracking loop.
type State int

const (
	Stopped State = iota
	Starting
	Active
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// lifecycle guards Stopped -> Starting -> Active -> Stopping -> Stopped.
// Starting and Stopping are held while the slow part of a transition runs,
// so a concurrent Start or Stop is refused instead of racing it.
type lifecycle struct {
	mu    sync.Mutex
	state State
}

func (l *lifecycle) current() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *lifecycle) beginStart() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Stopped:
		l.state = Starting
		return nil
	case Stopping:
		return ErrTransitioning
	default:
		return ErrAlreadyRunning
	}
}

func (l *lifecycle) beginStop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Active:
		l.state = Stopping
		return nil
	case Starting, Stopping:
		return ErrTransitioning
	default:
		return ErrNotRunning
	}
}

func (l *lifecycle) set(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}
