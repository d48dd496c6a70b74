package log

import (
	"context"
	"io"
)

// Noop discards all log messages. Used in tests.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) Debug(ctx context.Context, msg string, args ...interface{}) {}
func (l *Noop) Info(ctx context.Context, msg string, args ...interface{})  {}
func (l *Noop) Warn(ctx context.Context, msg string, args ...interface{})  {}
func (l *Noop) Error(ctx context.Context, msg string, args ...interface{}) {}
func (l *Noop) Fatal(ctx context.Context, msg string, args ...interface{}) {}

func (l *Noop) Level() string {
	return "info"
}

func (l *Noop) Writer() io.Writer {
	return io.Discard
}
