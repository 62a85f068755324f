package clock

import "time"

// Clock provides time to the application: review/location timestamps and
// cache age computations all read it. Using an interface enables
// deterministic tests via a controllable implementation.
type Clock interface {
	Now() time.Time
}
