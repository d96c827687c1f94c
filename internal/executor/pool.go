package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/vuon9/workdiff/internal/common"
	"github.com/vuon9/workdiff/internal/models"
)

// ErrPoolClosed is returned by Submit after Shutdown has begun.
var ErrPoolClosed = errors.New("executor pool is closed")

const (
	// maxExecutors caps the pool size regardless of the requested value,
	// protecting against oversubscription on large comparison sets.
	maxExecutors = 8
	// defaultQueueCapacity bounds how many tasks may sit in the pending
	// queue before Submit blocks.
	defaultQueueCapacity = 64
)

// taskEnvelope pairs a schema-versioned request with the future its caller
// holds.
type taskEnvelope struct {
	request taskRequest
	future  *Future
}

// Pool owns a fixed-size set of executors. Pending tasks queue FIFO and are
// picked up by whichever executor goes idle first. An executor that crashes
// or violates the message protocol while holding a task fails that task's
// future, is discarded, and is replaced so pool capacity is restored unless
// the pool is shutting down.
//
// Executors are isolated from the coordinator: the only communication is the
// closed taskRequest/taskResponse message schema flowing through channels,
// and each request is owned exclusively by the executor holding it.
type Pool struct {
	taskFn TaskFunc
	tasks  chan taskEnvelope
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
	nextID int

	seq atomic.Uint64
}

// NewPool creates and starts a pool. The effective size is clamped between 1
// and maxExecutors.
func NewPool(size int, taskFn TaskFunc, logger zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if size > maxExecutors {
		size = maxExecutors
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		taskFn: taskFn,
		tasks:  make(chan taskEnvelope, defaultQueueCapacity),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With().Str("component", "ExecutorPool").Logger(),
	}

	for i := 0; i < size; i++ {
		p.startExecutor()
	}
	p.logger.Debug().Int("size", size).Msg("Executor pool started")
	return p
}

// Submit enqueues one comparison and returns a future for its outcome. It is
// rejected once the pool is shutting down.
func (p *Pool) Submit(req models.ComparisonRequest) (*Future, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	env := taskEnvelope{
		request: taskRequest{
			Version: schemaVersion,
			Seq:     p.seq.Add(1),
			Request: req,
		},
		future: newFuture(),
	}

	select {
	case p.tasks <- env:
		return env.future, nil
	case <-p.ctx.Done():
		return nil, ErrPoolClosed
	}
}

// Shutdown marks the pool closed, terminates all executors, and waits for
// them. Queued tasks that no executor has picked up are abandoned; their
// futures stay unresolved and callers release themselves via the context
// they pass to Future.Wait.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.logger.Debug().Msg("Executor pool shut down")
}

// startExecutor registers and launches one executor goroutine. The wg.Add
// happens under the same lock that Shutdown uses to set closed, so no
// executor can start once shutdown has begun.
func (p *Pool) startExecutor() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	id := p.nextID
	p.nextID++
	p.wg.Add(1)
	go p.runExecutor(id)
}

// runExecutor is the executor loop: take the head of the queue, execute it,
// settle its future. The loop exits on pool cancellation, or after a fatal
// response, in which case a replacement is spawned.
func (p *Pool) runExecutor(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case env := <-p.tasks:
			// Shutdown may race the queue pick-up; abandoned tasks stay
			// unresolved rather than being executed after cancellation.
			if p.ctx.Err() != nil {
				return
			}
			resp := p.execute(env.request)
			if !resp.valid(env.request) && !resp.Fatal {
				resp = taskResponse{
					Version: schemaVersion,
					Seq:     env.request.Seq,
					Err:     fmt.Sprintf("protocol error: response version=%d seq=%d", resp.Version, resp.Seq),
					Fatal:   true,
				}
			}

			p.settle(env.future, resp)

			if resp.Fatal {
				p.logger.Warn().Int("executor_id", id).Str("error", resp.Err).Msg("Executor discarded, spawning replacement")
				p.replace()
				return
			}
		}
	}
}

// execute runs the task body, converting panics into fatal responses so one
// crashing comparison never takes the process down.
func (p *Pool) execute(req taskRequest) (resp taskResponse) {
	resp = taskResponse{Version: schemaVersion, Seq: req.Seq}
	defer func() {
		if r := recover(); r != nil {
			resp.Err = fmt.Sprintf("executor panic: %v", r)
			resp.Fatal = true
		}
	}()

	if req.Version != schemaVersion {
		resp.Err = fmt.Sprintf("protocol error: unsupported request schema version %d", req.Version)
		resp.Fatal = true
		return resp
	}

	result, err := p.taskFn(p.ctx, req.Request)
	if err != nil {
		resp.Err = err.Error()
		return resp
	}
	resp.Result = &result
	return resp
}

// settle resolves a task's future from the executor's response.
func (p *Pool) settle(future *Future, resp taskResponse) {
	switch {
	case resp.Err != "":
		future.fail(common.NewError("executor task failed: %s", resp.Err))
	case resp.Result == nil:
		future.fail(common.NewError("executor returned no result"))
	default:
		future.resolve(*resp.Result)
	}
}

// replace restores pool capacity after an executor was discarded, unless the
// pool is shutting down.
func (p *Pool) replace() {
	p.startExecutor()
}
