package utils

import (
	"context"
	"runtime/debug"

	"marketpulse/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one misbehaving
// fetch cannot take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still live, logging when it
// is not so loops can bail out quietly.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		if log != nil {
			log.Info("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		}
		return false
	default:
		return true
	}
}
