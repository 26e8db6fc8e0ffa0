// Package clock provides a swappable source of current time.
//
// Production code is wired with System at startup; tests substitute Fixed so
// exact timestamps are reproducible. The implementation chosen at startup is
// never replaced during the process lifetime.
package clock

import "time"

// Clock returns the current instant. It is a plain function type so stores and
// services can hold it as an injected dependency and call it directly.
type Clock func() time.Time

// System is the production clock.
var System Clock = time.Now

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
