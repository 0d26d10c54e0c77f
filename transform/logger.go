package transform

import "go.uber.org/zap"

// Logger receives warnings emitted by transforms that can proceed past a
// recoverable problem (e.g. a missing fixture table when converting a
// write statement to a SELECT) instead of failing outright.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps a zap logger for use as a transform Logger. Passing
// nil uses zap's development logger, which writes warnings to stderr.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l, _ = zap.NewDevelopment()
	}
	return &zapLogger{sugar: l.Sugar()}
}

func (z *zapLogger) Warnf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

// noopLogger discards every warning; used when a caller doesn't supply one.
type noopLogger struct{}

func (noopLogger) Warnf(string, ...interface{}) {}
