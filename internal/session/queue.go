package session

import (
	"context"
	"sync"
)

// submission is one submitted line waiting for the consumer
type submission struct {
	seq  uint64
	text string
}

// queue is an unbounded FIFO with a single blocking consumer.
// push never blocks, so the UI thread can always hand a line over.
type queue struct {
	mu     sync.Mutex
	items  []submission
	notify chan struct{}
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1)}
}

func (q *queue) push(s submission) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop blocks until an item is available or ctx is done
func (q *queue) pop(ctx context.Context) (submission, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			s := q.items[0]
			q.items[0] = submission{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return s, nil
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return submission{}, ctx.Err()
		}
	}
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
