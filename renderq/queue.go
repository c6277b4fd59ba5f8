// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderq

import "sync"

// queue is an unbounded multi-producer, single-consumer FIFO. Producers
// never block, so a caller submitting work is never stalled by a slow
// render.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool

	// signal holds at most one wake-up for the consumer.
	signal chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{signal: make(chan struct{}, 1)}
}

// push appends v. It returns false if the queue is closed.
func (q *queue[T]) push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// pop removes the oldest item without blocking.
func (q *queue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.head == len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v, true
}

// close rejects further pushes and returns the items still queued, oldest
// first.
func (q *queue[T]) close() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	rest := append([]T(nil), q.items[q.head:]...)
	q.items = nil
	q.head = 0
	return rest
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
