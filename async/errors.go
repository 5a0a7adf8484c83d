package async

import "errors"

var (
	// ErrBridgeShutdown is returned by any scheduling call made on a Bridge
	// that has already been shut down.
	ErrBridgeShutdown = errors.New("async: bridge has been shut down")
	// ErrChannelFull is returned by mpsc.Channel.TrySend when the bounded
	// buffer is at capacity.
	ErrChannelFull = errors.New("async: mpsc channel is full")
	// ErrChannelClosed is returned by mpsc.Channel.TrySend once the channel
	// is closed.
	ErrChannelClosed = errors.New("async: mpsc channel is closed")
	// ErrInvalidCronSpec is returned by NewCronTicker when robfig/cron fails
	// to parse the schedule string.
	ErrInvalidCronSpec = errors.New("async: invalid cron schedule")
)
