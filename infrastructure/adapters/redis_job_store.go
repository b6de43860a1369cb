package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
	"github.com/zylo-solution/luka-video-generation-task/domain"
)

const jobKeyPrefix = "job:"

// redisJobStore persists job records as JSON under job:<id> with a TTL
// refreshed on every Set. A write that Redis rejects lands in the embedded
// memory store and stays there; entries are not reconciled back into Redis
// when it recovers.
type redisJobStore struct {
	client *redis.Client
	ttl    time.Duration
	mem    *memoryJobStore
	logger outbound.LoggerPort
}

// NewJobStore selects the backend once: it probes Redis with a bounded
// timeout and returns the memory store when the probe fails. Callers never
// branch on which variant they got.
func NewJobStore(ctx context.Context, cfg *config.RedisConfig, logger outbound.LoggerPort) outbound.JobStorePort {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.ErrorWithFields(err, "Invalid Redis URL, using in-memory job store", map[string]interface{}{
			"redis_url": cfg.URL,
		})
		return NewMemoryJobStore()
	}
	opts.DialTimeout = cfg.DialTimeout

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.ErrorWithFields(err, "Redis unavailable, using in-memory job store", map[string]interface{}{
			"redis_url": cfg.URL,
		})
		return NewMemoryJobStore()
	}

	logger.InfoWithFields("Connected to Redis job store", map[string]interface{}{
		"redis_url": cfg.URL,
	})
	return &redisJobStore{
		client: client,
		ttl:    cfg.JobTTL,
		mem:    newMemoryJobStore(),
		logger: logger,
	}
}

func (r *redisJobStore) Set(ctx context.Context, job domain.Job) {
	payload, err := json.Marshal(job)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to marshal job record, falling back to memory", map[string]interface{}{
			"job_id": job.ID,
		})
		r.mem.Set(ctx, job)
		return
	}

	if err := r.client.Set(ctx, jobKeyPrefix+job.ID, payload, r.ttl).Err(); err != nil {
		r.logger.ErrorWithFields(err, "Redis write failed, falling back to memory", map[string]interface{}{
			"job_id": job.ID,
		})
		r.mem.Set(ctx, job)
	}
}

func (r *redisJobStore) Get(ctx context.Context, id string) (domain.Job, error) {
	data, err := r.client.Get(ctx, jobKeyPrefix+id).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.ErrorWithFields(err, "Redis read failed, checking memory", map[string]interface{}{
				"job_id": id,
			})
		}
		return r.mem.Get(ctx, id)
	}

	var job domain.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		r.logger.ErrorWithFields(err, "Failed to unmarshal job record", map[string]interface{}{
			"job_id": id,
		})
		return r.mem.Get(ctx, id)
	}
	return job, nil
}

func (r *redisJobStore) Delete(ctx context.Context, id string) {
	if err := r.client.Del(ctx, jobKeyPrefix+id).Err(); err != nil {
		r.logger.ErrorWithFields(err, "Redis delete failed", map[string]interface{}{
			"job_id": id,
		})
	}
	r.mem.Delete(ctx, id)
}

func (r *redisJobStore) Exists(ctx context.Context, id string) bool {
	count, err := r.client.Exists(ctx, jobKeyPrefix+id).Result()
	if err == nil && count > 0 {
		return true
	}
	if err != nil {
		r.logger.ErrorWithFields(err, "Redis exists check failed, checking memory", map[string]interface{}{
			"job_id": id,
		})
	}
	return r.mem.Exists(ctx, id)
}
