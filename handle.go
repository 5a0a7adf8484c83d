package des

// EventHandle identifies a previously pushed event for cancellation. It is
// opaque to callers; backends assign it at Push time and interpret it at
// Cancel time.
type EventHandle uint64
