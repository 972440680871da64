package shell

import "context"

// Offline stands in for the bridge when none is reachable. Every call fails
// with ErrUnavailable; motion is reported as unavailable.
type Offline struct{}

func (Offline) NotificationsPermitted(context.Context) (bool, error) {
	return false, ErrUnavailable
}

func (Offline) Schedule(context.Context, Notification) error { return ErrUnavailable }

func (Offline) Cancel(context.Context, int) error { return ErrUnavailable }

func (Offline) StartBackground(context.Context, string, string) error { return ErrUnavailable }

func (Offline) StopBackground(context.Context, string) error { return ErrUnavailable }

func (Offline) BackgroundActive(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (Offline) MotionPermission(context.Context) (MotionAccess, error) {
	return MotionUnavailable, nil
}
