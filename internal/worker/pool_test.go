package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	pos int
	err error
}

func (r *mockResult) Position() int {
	return r.pos
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	pos       int
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{pos: j.pos, err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{pos: j.pos, err: errors.New("job error")}
	}
	return &mockResult{pos: j.pos}
}

func TestNewPool(t *testing.T) {
	p1 := NewPool(context.Background(), 5)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool(context.Background(), 0)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool(context.Background(), -1)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	count := 10

	for i := 0; i < count; i++ {
		pool.Submit(&mockJob{pos: i, executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}

	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_ResultsOrderedByPosition(t *testing.T) {
	pool := NewPool(context.Background(), 4)
	pool.Start()

	count := 40
	for i := 0; i < count; i++ {
		// Later jobs finish first
		pool.Submit(&mockJob{pos: i, duration: time.Duration(count-i) * time.Millisecond / 4})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	for i, res := range results {
		if res.Position() != i {
			t.Fatalf("result %d has position %d", i, res.Position())
		}
	}
}

func TestPool_ManyJobsDoNotBlock(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	done := make(chan []Result)
	go func() {
		for i := 0; i < 500; i++ {
			pool.Submit(&mockJob{pos: i})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != 500 {
			t.Errorf("expected 500 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pool blocked with more jobs than buffer space")
	}
}

// concurrencyJob tracks max concurrent executions
type concurrencyJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &mockResult{}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var current int32
	var maxConcurrent int32
	var completed int32
	var mu sync.Mutex

	totalJobs := 50

	for i := 0; i < totalJobs; i++ {
		pool.Submit(&concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
				atomic.AddInt32(&completed, 1)
			},
			duration: 10 * time.Millisecond,
		})
	}

	pool.Wait()

	if atomic.LoadInt32(&completed) != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, completed)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&mockJob{pos: 0, shouldErr: true})
	pool.Submit(&mockJob{pos: 1, shouldErr: false})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].GetError() == nil {
		t.Error("expected error for position 0")
	}
	if results[1].GetError() != nil {
		t.Errorf("unexpected error for position 1: %v", results[1].GetError())
	}
}

func TestPool_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(&concurrencyJob{
		start:    func() { close(started) },
		duration: 50 * time.Millisecond,
	})
	<-started
	cancel()

	if pool.Submit(&mockJob{}) {
		t.Error("expected Submit to fail after parent cancel")
	}

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Wait blocked after parent cancel")
	}
}
