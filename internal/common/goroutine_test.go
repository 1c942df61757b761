package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestRunSafely(t *testing.T) {
	logger := arbor.NewLogger()

	assert.NoError(t, RunSafely(logger, "ok", func() error { return nil }))

	sentinel := errors.New("boom")
	assert.ErrorIs(t, RunSafely(logger, "err", func() error { return sentinel }), sentinel)

	err := RunSafely(logger, "panics", func() error { panic("bad input") })
	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "panics", perr.Name)
	assert.Equal(t, "bad input", perr.Value)
	assert.NotEmpty(t, perr.Stack)
}

func TestSafeGoWithContext(t *testing.T) {
	done := make(chan struct{})
	SafeGoWithContext(context.Background(), nil, "runs", func() {
		defer close(done)
		panic("recovered")
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := make(chan struct{}, 1)
	SafeGoWithContext(ctx, nil, "cancelled", func() { ran <- struct{}{} })
	select {
	case <-ran:
		t.Fatal("goroutine ran after cancellation")
	case <-time.After(50 * time.Millisecond):
	}
}
