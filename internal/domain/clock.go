package domain

import "time"

// Clock abstrae la hora actual para que los servicios sean deterministas en tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapta una función a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock devuelve la hora del sistema en UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })
