// Package clock supplies the current time behind an interface so billing
// math on stay lengths and payment timestamps can be pinned in tests.
package clock

import (
	"context"
	"time"
)

// Clock yields the instant used for charge windows, discharge defaults
// and payment processing timestamps.
type Clock interface {
	Now(ctx context.Context) time.Time
}
