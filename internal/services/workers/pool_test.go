package workers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/screener/internal/common"
)

func TestPool_RunsAllJobsWithinBound(t *testing.T) {
	pool := NewPool(context.Background(), 3, arbor.NewLogger())
	pool.Start()

	var running, peak, done int32
	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Submit(Job{Name: fmt.Sprintf("job-%d", i), Run: func(ctx context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&done, 1)
			atomic.AddInt32(&running, -1)
			return nil
		}}))
	}
	pool.Wait()

	assert.Equal(t, int32(20), done)
	assert.LessOrEqual(t, peak, int32(3))
	assert.Empty(t, pool.Errors())
}

func TestPool_RecoversPanicsAndCollectsErrors(t *testing.T) {
	pool := NewPool(context.Background(), 2, arbor.NewLogger())
	pool.Start()

	sentinel := errors.New("bad data")
	var ok int32
	require.NoError(t, pool.Submit(Job{Name: "panics", Run: func(context.Context) error { panic("boom") }}))
	require.NoError(t, pool.Submit(Job{Name: "fails", Run: func(context.Context) error { return sentinel }}))
	require.NoError(t, pool.Submit(Job{Name: "ok", Run: func(context.Context) error { atomic.AddInt32(&ok, 1); return nil }}))
	pool.Wait()

	assert.Equal(t, int32(1), ok)
	errs := pool.Errors()
	require.Len(t, errs, 2)

	byName := map[string]error{}
	for _, e := range errs {
		byName[e.Name] = e
	}
	var perr *common.PanicError
	assert.ErrorAs(t, byName["panics"], &perr)
	assert.ErrorIs(t, byName["fails"], sentinel)
}

func TestPool_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1, arbor.NewLogger())
	pool.Start()

	release := make(chan struct{})
	started := make(chan struct{})
	var ran int32
	require.NoError(t, pool.Submit(Job{Name: "first", Run: func(context.Context) error {
		close(started)
		<-release
		atomic.AddInt32(&ran, 1)
		return nil
	}}))
	<-started
	require.NoError(t, pool.Submit(Job{Name: "queued", Run: func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}}))

	cancel()
	close(release)
	assert.Error(t, pool.Submit(Job{Name: "late", Run: func(context.Context) error { return nil }}))
	pool.Wait()

	assert.Equal(t, int32(1), ran, "queued job is skipped after cancellation")
	assert.Equal(t, 1, pool.Skipped())
}
