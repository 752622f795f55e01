package batch

import "sync"

// queue holds identifiers that still need fetching. It is safe for use from
// the coordinator and from workers.
type queue struct {
	mu  sync.Mutex
	ids []int
}

func newQueue(ids []int) *queue {
	q := &queue{ids: make([]int, len(ids))}
	copy(q.ids, ids)
	return q
}

func (q *queue) push(ids ...int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, ids...)
}

// pop removes up to n identifiers from the front of the queue.
func (q *queue) pop(n int) []int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n > len(q.ids) {
		n = len(q.ids)
	}
	out := make([]int, n)
	copy(out, q.ids[:n])
	q.ids = q.ids[n:]
	return out
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
