// -----------------------------------------------------------------------
// Safe Goroutine - Panic-protected goroutine wrappers
// -----------------------------------------------------------------------

package common

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ternarybob/arbor"
)

// PanicError is returned by RunSafely when fn panicked.
type PanicError struct {
	Name  string
	Value interface{}
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Value)
}

// RunSafely calls fn and converts a panic into a *PanicError so that one
// bad input cannot take down a batch.
func RunSafely(logger arbor.ILogger, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			perr := &PanicError{Name: name, Value: r, Stack: string(buf[:n])}
			if logger != nil {
				logger.Error().
					Str("task", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", perr.Stack).
					Msg("Recovered from panic")
			}
			err = perr
		}
	}()
	return fn()
}

// SafeGoWithContext runs fn in a goroutine with panic recovery. fn is not
// started when ctx is already cancelled.
func SafeGoWithContext(ctx context.Context, logger arbor.ILogger, name string, fn func()) {
	go func() {
		select {
		case <-ctx.Done():
			if logger != nil {
				logger.Debug().Str("goroutine", name).Msg("Goroutine cancelled before start")
			}
			return
		default:
		}

		_ = RunSafely(logger, name, func() error {
			fn()
			return nil
		})
	}()
}
