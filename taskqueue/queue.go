// Package taskqueue 在后台 goroutine 中执行不触碰布局树的纯计算（例如解析模板），
// 并通过 Results 通道把结果交还给持有布局树的 goroutine。
package taskqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/celllayout/logging"
)

// ErrStopped 表示队列尚未启动或已经停止。
var ErrStopped = errors.New("taskqueue: 队列未运行")

// Task 是一个后台任务。Run 应该在 ctx 取消后尽快返回。
type Task struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// Result 是任务的执行结果。
type Result struct {
	Name  string
	Value any
	Err   error
}

// Options 配置 Queue。
type Options struct {
	// Workers 为同时执行的任务数上限，≤ 0 时为 1。
	Workers int
	// Buffer 为待执行任务与结果通道的缓冲大小，≤ 0 时为 16。
	Buffer int
	Logger *slog.Logger
}

type state int

const (
	idle state = iota
	running
	stopped
)

// Queue 是显式启动/停止的后台任务队列。
type Queue struct {
	workers int
	tasks   chan Task
	results chan Result
	log     *slog.Logger

	mu       sync.Mutex
	state    state
	done     chan struct{}
	loopDone chan struct{}
	cancel   context.CancelFunc
	g        *errgroup.Group
}

// New 创建未启动的队列。
func New(opts Options) *Queue {
	q := &Queue{
		workers: max(opts.Workers, 1),
		log:     opts.Logger,
		done:    make(chan struct{}),
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = 16
	}
	q.tasks = make(chan Task, buffer)
	q.results = make(chan Result, buffer)
	if q.log == nil {
		q.log = logging.New("taskqueue")
	}
	return q
}

// Start 启动调度循环。重复调用无副作用；停止后不能再次启动。
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	switch q.state {
	case running:
		return nil
	case stopped:
		return ErrStopped
	}

	ctx, q.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.workers)
	q.g = g
	q.loopDone = make(chan struct{})
	q.state = running
	go q.dispatch(gctx)
	q.log.Debug("队列已启动", "workers", q.workers)
	return nil
}

// Submit 把任务放入队列。缓冲已满时阻塞，直到有空位、队列停止或 ctx 取消。
func (q *Queue) Submit(ctx context.Context, t Task) error {
	q.mu.Lock()
	st := q.state
	q.mu.Unlock()
	if st != running {
		return ErrStopped
	}
	select {
	case q.tasks <- t:
		return nil
	case <-q.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results 返回结果通道，Stop 之后关闭。
func (q *Queue) Results() <-chan Result { return q.results }

// Stop 停止调度并取消正在执行的任务，等待所有任务返回后关闭 Results。
// 尚未取走的结果保留在通道中；取消后才完成的任务结果被丢弃。
func (q *Queue) Stop() error {
	q.mu.Lock()
	prev := q.state
	q.state = stopped
	if prev != stopped {
		close(q.done)
	}
	q.mu.Unlock()

	switch prev {
	case idle:
		close(q.results)
		return nil
	case stopped:
		return nil
	}
	q.cancel()
	<-q.loopDone
	err := q.g.Wait()
	close(q.results)
	q.log.Debug("队列已停止")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (q *Queue) dispatch(ctx context.Context) {
	defer close(q.loopDone)
	for {
		select {
		case <-q.done:
			return
		case <-ctx.Done():
			return
		case t := <-q.tasks:
			// 工作者全部繁忙时 Go 会阻塞
			q.g.Go(func() error {
				q.run(ctx, t)
				return nil
			})
		}
	}
}

func (q *Queue) run(ctx context.Context, t Task) {
	v, err := t.Run(ctx)
	r := Result{Name: t.Name, Value: v, Err: err}
	select {
	case q.results <- r:
	case <-ctx.Done():
		q.log.Debug("队列停止，丢弃结果", "task", t.Name, "err", err)
	}
}
