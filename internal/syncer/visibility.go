package syncer

import "sync/atomic"

// Visibility reports whether the dashboard a controller feeds is on screen.
// Interval refreshes are skipped while it is not.
type Visibility interface {
	Visible() bool
}

// AlwaysVisible is the visibility of a host without a notion of hidden views.
type AlwaysVisible struct{}

func (AlwaysVisible) Visible() bool { return true }

// VisibilityFlag is a visibility toggled by the host. The zero value is visible.
type VisibilityFlag struct {
	hidden atomic.Bool
}

func (f *VisibilityFlag) Visible() bool {
	return !f.hidden.Load()
}

func (f *VisibilityFlag) Set(visible bool) {
	f.hidden.Store(!visible)
}
