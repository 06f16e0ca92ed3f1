package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/celllayout/logging"
)

func newTestQueue(workers int) *Queue {
	return New(Options{Workers: workers, Logger: logging.Discard()})
}

func TestQueueRunsTasks(t *testing.T) {
	q := newTestQueue(2)
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))
	require.NoError(t, q.Start(ctx), "重复启动无副作用")

	boom := errors.New("boom")
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Submit(ctx, Task{
			Name: fmt.Sprintf("t%d", i),
			Run: func(context.Context) (any, error) {
				if i == 3 {
					return nil, boom
				}
				return i * i, nil
			},
		}))
	}

	got := map[string]Result{}
	for len(got) < 5 {
		select {
		case r := <-q.Results():
			got[r.Name] = r
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for results, got %d", len(got))
		}
	}
	assert.Equal(t, 16, got["t4"].Value)
	assert.ErrorIs(t, got["t3"].Err, boom)

	require.NoError(t, q.Stop())
	_, open := <-q.Results()
	assert.False(t, open, "Stop 后结果通道关闭")
	require.ErrorIs(t, q.Submit(ctx, Task{Name: "late"}), ErrStopped)
	require.ErrorIs(t, q.Start(ctx), ErrStopped)
	require.NoError(t, q.Stop(), "重复停止无副作用")
}

func TestQueueLimitsConcurrency(t *testing.T) {
	q := newTestQueue(2)
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))

	var active, peak atomic.Int32
	release := make(chan struct{})
	for i := 0; i < 6; i++ {
		require.NoError(t, q.Submit(ctx, Task{
			Name: fmt.Sprint(i),
			Run: func(context.Context) (any, error) {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-release
				active.Add(-1)
				return nil, nil
			},
		}))
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	for i := 0; i < 6; i++ {
		<-q.Results()
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
	require.NoError(t, q.Stop())
}

func TestStopCancelsRunningTasks(t *testing.T) {
	q := newTestQueue(1)
	require.NoError(t, q.Start(context.Background()))

	started := make(chan struct{})
	require.NoError(t, q.Submit(context.Background(), Task{
		Name: "blocked",
		Run: func(ctx context.Context) (any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}))
	<-started
	require.NoError(t, q.Stop())
	for range q.Results() {
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	q := newTestQueue(1)
	require.ErrorIs(t, q.Submit(context.Background(), Task{Name: "early"}), ErrStopped)
	require.NoError(t, q.Stop())
	_, open := <-q.Results()
	assert.False(t, open)
}
