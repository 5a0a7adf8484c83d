package des

import (
	"fmt"
	"time"
)

// FemtoPerSec is the number of femtoseconds in one second, the resolution
// of the fixed-point SimTime representation.
const FemtoPerSec uint64 = 1_000_000_000_000_000

// FixedTime is the alternative, fixed-point representation of virtual
// time: a whole-seconds counter plus a sub-second fractional counter in
// femtoseconds, avoiding the accumulated rounding error a float64 seconds
// counter develops over very long horizons.
//
// Both queue backends key their ordering on SimTime (float64 seconds)
// directly; FixedTime is a standalone representation for embedders that
// need exact fixed-point arithmetic, convertible to and from SimTime via
// FixedTimeFromSimTime and SimTime().
type FixedTime struct {
	Secs   uint64
	Femto  uint64 // invariant: Femto < FemtoPerSec
}

// NewFixedTime constructs a FixedTime, normalizing an out-of-range Femto
// component into whole seconds.
func NewFixedTime(secs, femto uint64) FixedTime {
	secs += femto / FemtoPerSec
	femto %= FemtoPerSec
	return FixedTime{Secs: secs, Femto: femto}
}

// FixedTimeFromSimTime converts the float64-seconds representation to the
// fixed-point pair.
func FixedTimeFromSimTime(t SimTime) FixedTime {
	if t < 0 {
		t = 0
	}
	whole := uint64(t)
	frac := float64(t) - float64(whole)
	return NewFixedTime(whole, uint64(frac*float64(FemtoPerSec)))
}

// SimTime converts the fixed-point pair back to the float64-seconds
// representation.
func (f FixedTime) SimTime() SimTime {
	return SimTime(float64(f.Secs) + float64(f.Femto)/float64(FemtoPerSec))
}

// Add returns f advanced by d.
func (f FixedTime) Add(d time.Duration) FixedTime {
	femtoPerNano := FemtoPerSec / 1_000_000_000
	total := f.Femto + uint64(d.Nanoseconds())*femtoPerNano
	return NewFixedTime(f.Secs, total)
}

// Compare returns -1, 0, or 1 as f is less than, equal to, or greater than g.
func (f FixedTime) Compare(g FixedTime) int {
	switch {
	case f.Secs != g.Secs:
		if f.Secs < g.Secs {
			return -1
		}
		return 1
	case f.Femto != g.Femto:
		if f.Femto < g.Femto {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// String renders the fixed-point pair as seconds.femtoseconds.
func (f FixedTime) String() string {
	return fmt.Sprintf("%d.%015ds", f.Secs, f.Femto)
}
