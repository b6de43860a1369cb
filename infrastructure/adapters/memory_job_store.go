package adapters

import (
	"context"
	"sync"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/domain"
)

// memoryJobStore keeps job records in a process-local map with no expiry.
// It is both the standalone fallback when Redis is unreachable at startup
// and the per-call safety net inside the Redis store.
type memoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

func NewMemoryJobStore() outbound.JobStorePort {
	return newMemoryJobStore()
}

func newMemoryJobStore() *memoryJobStore {
	return &memoryJobStore{
		jobs: make(map[string]domain.Job),
	}
}

func (m *memoryJobStore) Set(_ context.Context, job domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

func (m *memoryJobStore) Get(_ context.Context, id string) (domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, outbound.ErrJobNotFound
	}
	return job, nil
}

func (m *memoryJobStore) Delete(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

func (m *memoryJobStore) Exists(_ context.Context, id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.jobs[id]
	return ok
}
