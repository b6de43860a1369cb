package mock_providers

import (
	"fmt"
	"sync"
)

// pollsUntilDone is how many status checks a mock render or caption export
// stays in-flight before turning completed.
const pollsUntilDone = 3

// jobTracker hands out ids and counts down status polls per id, so the
// drivers exercise their real polling loops against the mock routes.
type jobTracker struct {
	mu        sync.Mutex
	next      int
	remaining map[string]int
}

func newJobTracker() *jobTracker {
	return &jobTracker{
		remaining: make(map[string]int),
	}
}

func (t *jobTracker) create(prefix string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	id := fmt.Sprintf("%s-%d", prefix, t.next)
	t.remaining[id] = pollsUntilDone
	return id
}

// poll returns true once the id has been polled enough times to finish.
// Unknown ids finish immediately.
func (t *jobTracker) poll(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	left, ok := t.remaining[id]
	if !ok || left <= 0 {
		return true
	}
	t.remaining[id] = left - 1
	return false
}
