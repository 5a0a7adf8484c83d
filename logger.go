package des

import "go.uber.org/zap"

// Logger defines the interface for runtime logging. It uses structured,
// key-value style arguments so the core never commits to a particular
// logging library; applications may plug in anything from slog to zap
// behind this interface.
//
// Example:
//
//	logger.Info("channel busy, dropping message", "channel", ch.Name(), "at", now)
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// noopLogger discards everything; used when a Builder is constructed
// without an explicit logger.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}

// zapLogger adapts a zap.SugaredLogger to the Logger interface. A Builder
// uses it only when passed one via WithLogger; without that, the Builder
// falls back to noopLogger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a Logger backed by a production zap logger.
func NewZapLogger() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

// NewDevelopmentLogger builds a Logger backed by a human-readable,
// development-mode zap logger (colorized level, caller, no sampling).
func NewDevelopmentLogger() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

func (l *zapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }
func (l *zapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
