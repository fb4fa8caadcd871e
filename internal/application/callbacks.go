package application

import "sync"

// CallbackQueue runs posted functions one at a time, in order, on a single
// goroutine. Async pipeline results are delivered through it.
type CallbackQueue struct {
	mu     sync.Mutex
	closed bool
	tasks  chan func()
	done   chan struct{}
}

func NewCallbackQueue(size int) *CallbackQueue {
	if size <= 0 {
		size = 16
	}
	q := &CallbackQueue{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *CallbackQueue) loop() {
	defer close(q.done)
	for fn := range q.tasks {
		fn()
	}
}

// Post enqueues fn. It reports false if the queue is already closed.
func (q *CallbackQueue) Post(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.tasks <- fn
	return true
}

// Close stops accepting work and waits for queued callbacks to finish.
func (q *CallbackQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()
	<-q.done
}
