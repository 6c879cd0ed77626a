package cui

import (
	"io"
)

// Option configures the UI returned by New.
type Option func(*basicUI)

// Writer replaces stdout. The computed orders and the usage text go to w.
func Writer(w io.Writer) Option {
	return func(u *basicUI) {
		u.writer = w
	}
}

// ErrWriter replaces stderr. Errors and verbose logs go to ew.
func ErrWriter(ew io.Writer) Option {
	return func(u *basicUI) {
		u.errWriter = ew
	}
}
