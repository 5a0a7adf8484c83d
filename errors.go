package des

import "errors"

// Configuration errors — fatal at build time.
var (
	ErrDuplicatePath     = errors.New("des: duplicate module path")
	ErrSelfConnection    = errors.New("des: gate connected to itself")
	ErrZeroBitrate       = errors.New("des: channel metrics have zero bitrate")
	ErrScheduleInPast    = errors.New("des: event scheduled strictly before the time cursor")
	ErrApplicationNil    = errors.New("des: application is nil")
	ErrEventNil          = errors.New("des: event value is nil")
)

// Runtime dispatch errors — recoverable, logged and execution continues.
var (
	ErrQueueEmpty      = errors.New("des: event queue is empty")
	ErrHandleUnknown   = errors.New("des: event handle is unknown or already cancelled")
	ErrMaxEventsReached = errors.New("des: max event count reached")
	ErrMaxTimeReached   = errors.New("des: max simulated time reached")
)

// Lifecycle misuse errors — fatal.
var (
	ErrNoCurrentContext   = errors.New("des: no module context is active")
	ErrScheduleAfterSimEnd = errors.New("des: event scheduled from at_sim_end is ignored")
	ErrUninitializedModule = errors.New("des: module handle is uninitialized")
)
