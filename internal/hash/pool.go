package hash

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

const resultBuffer = 64

// Task names one file to digest.
type Task struct {
	Path string
	Size int64
}

// Result carries the digest of one file, or the error that prevented it.
type Result struct {
	Path string
	Size int64
	Sum  uint64
	Err  error
}

// Pool hashes files concurrently on a fixed-size worker pool. Feed tasks
// with Add, then call Close once; Results is closed after the last digest.
type Pool struct {
	pool    *ants.Pool
	tasks   chan Task
	results chan Result
	wg      sync.WaitGroup
}

func NewPool(workers int) (*Pool, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		tasks:   make(chan Task, resultBuffer),
		results: make(chan Result, resultBuffer),
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	p.pool = pool

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		if err := pool.Submit(p.worker); err != nil {
			p.wg.Done()
			pool.Release()
			return nil, err
		}
	}

	return p, nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		sum, err := File(task.Path)
		p.results <- Result{Path: task.Path, Size: task.Size, Sum: sum, Err: err}
	}
}

// Add queues one file; it blocks when the task buffer is full.
func (p *Pool) Add(t Task) {
	p.tasks <- t
}

// Results returns the channel digests arrive on.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops accepting tasks, waits for in-flight digests and closes the
// results channel.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
	p.pool.Release()
	close(p.results)
}
