package outbound

import (
	"context"
	"errors"

	"github.com/zylo-solution/luka-video-generation-task/domain"
)

// ErrJobNotFound is returned by Get when no record exists for the id.
var ErrJobNotFound = errors.New("job not found")

// JobStorePort persists job records keyed by job id.
//
// Set never fails observably: implementations degrade to an in-process map
// when the durable backend rejects the write. Delete and Exists likewise
// swallow backend failures.
type JobStorePort interface {
	Set(ctx context.Context, job domain.Job)
	Get(ctx context.Context, id string) (domain.Job, error)
	Delete(ctx context.Context, id string)
	Exists(ctx context.Context, id string) bool
}
