package des

import (
	"fmt"
	"time"
)

// SimTime is a totally ordered virtual-time scalar, expressed in seconds
// since the simulation's start time. It is monotonic non-decreasing as the
// runtime cursor advances; user code never observes it moving backwards.
type SimTime float64

const (
	// SimTimeZero is the origin of virtual time.
	SimTimeZero SimTime = 0

	// SimTimeMin is -2^62 seconds, the lower sentinel bound of SimTime.
	SimTimeMin SimTime = -1 << 62

	// SimTimeMax is 2^62 seconds, used as a sentinel for "never" (an unset
	// deadline, an unlimited horizon).
	SimTimeMax SimTime = 1 << 62
)

// Now is the zero point of virtual time. SimTime has no wall-clock
// meaning, so this reads no real clock; it exists so a Builder's default
// start time documents intent at its call site instead of a bare literal.
func Now() SimTime { return SimTimeZero }

// Add returns t advanced by d. Negative durations are permitted at the call
// site; it is the caller's responsibility (typically the runtime) to reject
// a result that would move time backwards relative to the cursor.
func (t SimTime) Add(d time.Duration) SimTime {
	return t + SimTime(d.Seconds())
}

// Sub returns the duration between two SimTime values, t minus u.
func (t SimTime) Sub(u SimTime) time.Duration {
	return time.Duration(float64(t-u) * float64(time.Second))
}

// Before reports whether t is strictly earlier than u.
func (t SimTime) Before(u SimTime) bool { return t < u }

// After reports whether t is strictly later than u.
func (t SimTime) After(u SimTime) bool { return t > u }

// String formats t as seconds with millisecond precision.
func (t SimTime) String() string {
	return fmt.Sprintf("%.3fs", float64(t))
}

// Duration is an alias kept for readability at call sites that schedule
// relative delays; it is exactly time.Duration so APIs that already speak
// time.Duration (cron schedules, context timeouts) compose without
// conversion helpers.
type Duration = time.Duration
