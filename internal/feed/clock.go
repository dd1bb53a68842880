package feed

import "time"

// Clock schedules delayed calls. Tests replace it with a manual implementation.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules calls with the runtime timers
var SystemClock Clock = systemClock{}
