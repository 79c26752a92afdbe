package clock

import "time"

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}

type system struct{}

// System returns a Clock backed by time.Now.
func System() Clock {
	return system{}
}

func (system) Now() time.Time {
	return time.Now()
}
