// Package job holds pure domain logic for claim leases.
package job

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidLease indicates a lease duration that is not positive.
var ErrInvalidLease = errors.New("lease must be positive")

// Lease is a claim lease normalised to the whole seconds the conditional
// claim query works in. Durations round up, so a sub-second lease becomes
// one second instead of expiring before the claim is even written.
type Lease struct {
	seconds int
}

// NewLease validates and normalises d.
func NewLease(d time.Duration) (Lease, error) {
	if d <= 0 {
		return Lease{}, ErrInvalidLease
	}
	return Lease{seconds: ceilSeconds(d)}, nil
}

// IsZero reports whether the lease was never set.
func (l Lease) IsZero() bool {
	return l.seconds == 0
}

// Seconds returns the lease length in whole seconds, at least one.
func (l Lease) Seconds() int {
	if l.seconds < 1 {
		return 1
	}
	return l.seconds
}

// Duration returns the normalised lease as a time.Duration.
func (l Lease) Duration() time.Duration {
	return time.Duration(l.Seconds()) * time.Second
}

func ceilSeconds(d time.Duration) int {
	s := int64((d + time.Second - 1) / time.Second)
	if s < 1 {
		s = 1
	}
	if s > int64(math.MaxInt) {
		s = int64(math.MaxInt)
	}
	return int(s)
}
