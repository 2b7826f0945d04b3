package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps jobs in Redis.
//
// Layout, for prefix "queue" and queue "default":
//
//	queue:job:<id>                job JSON
//	queue:default:pending         list of ready job ids, FIFO
//	queue:default:delayed         sorted set of job ids scored by due time (ms)
//	queue:default:processing      set of claimed job ids
//	queue:lease:<id>              claim id, expires natively after the lock duration
//	queue:dlq                     list of dead letter JSON
//
// A claimed job whose lease key has expired is pushed back to the head of
// its pending list by the next claim on that queue. Its stored status is
// still processing, which is how the claim tells it from a fresh job.
type RedisStorage struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// RedisStorageOption configures a RedisStorage.
type RedisStorageOption func(*RedisStorage)

// WithRedisKeyPrefix sets the key namespace (default "queue").
func WithRedisKeyPrefix(prefix string) RedisStorageOption {
	return func(s *RedisStorage) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithCompletedRetention sets how long done and failed jobs stay readable.
func WithCompletedRetention(d time.Duration) RedisStorageOption {
	return func(s *RedisStorage) {
		if d >= 0 {
			s.retention = d
		}
	}
}

// WithRedisClock replaces time.Now for scheduling decisions.
func WithRedisClock(now func() time.Time) RedisStorageOption {
	return func(s *RedisStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRedisStorage creates a Redis backed storage.
func NewRedisStorage(client redis.UniversalClient, opts ...RedisStorageOption) (*RedisStorage, error) {
	if client == nil {
		return nil, ErrRepositoryNil
	}

	s := &RedisStorage{
		client:    client,
		prefix:    "queue",
		retention: 24 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// claimScript promotes due delayed jobs, recovers claims whose lease expired
// and pops the next pending id into the processing set under a fresh lease.
//
// KEYS[1] pending, KEYS[2] delayed, KEYS[3] processing
// ARGV[1] now (ms), ARGV[2] lease key prefix, ARGV[3] lease (ms), ARGV[4] claim id
var claimScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', ARGV[1])
for _, id in ipairs(due) do
	redis.call('ZREM', KEYS[2], id)
	redis.call('RPUSH', KEYS[1], id)
end
local inflight = redis.call('SMEMBERS', KEYS[3])
for _, id in ipairs(inflight) do
	if redis.call('EXISTS', ARGV[2] .. id) == 0 then
		redis.call('SREM', KEYS[3], id)
		redis.call('LPUSH', KEYS[1], id)
	end
end
local id = redis.call('LPOP', KEYS[1])
if not id then
	return false
end
redis.call('SADD', KEYS[3], id)
redis.call('SET', ARGV[2] .. id, ARGV[4], 'PX', ARGV[3])
return id
`)

// releaseScript applies a state transition only while the caller's claim
// still holds the lease.
//
// KEYS[1] lease, KEYS[2] processing, KEYS[3] job, KEYS[4] requeue target
// ARGV[1] claim id, ARGV[2] job JSON, ARGV[3] job TTL (ms, 0 keeps it),
// ARGV[4] requeue mode ("", "pending" or "delayed"), ARGV[5] job id, ARGV[6] due time (ms)
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('SREM', KEYS[2], ARGV[5])
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[3], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[3], ARGV[2])
end
if ARGV[4] == 'pending' then
	redis.call('RPUSH', KEYS[4], ARGV[5])
elseif ARGV[4] == 'delayed' then
	redis.call('ZADD', KEYS[4], ARGV[6], ARGV[5])
end
return 1
`)

// CreateJob implements EnqueuerRepository
func (s *RedisStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job cannot be nil", ErrJobCreate)
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrJobCreate, err)
	}

	created, err := s.client.SetNX(ctx, s.jobKey(job.ID), data, 0).Result()
	if err != nil {
		return unavailable(err)
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
	}

	if err := s.schedule(ctx, s.client, job); err != nil {
		return unavailable(err)
	}
	return nil
}

// ClaimJob implements WorkerRepository
func (s *RedisStorage) ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error) {
	if lockDuration < time.Millisecond {
		lockDuration = time.Millisecond
	}
	for _, q := range queues {
		job, err := s.claimFrom(ctx, q, workerID, lockDuration)
		if err != nil {
			return nil, err
		}
		if job != nil {
			return job, nil
		}
	}
	return nil, ErrNoJobToClaim
}

func (s *RedisStorage) claimFrom(ctx context.Context, queue string, workerID uuid.UUID, lockDuration time.Duration) (*Job, error) {
	for {
		now := s.now()
		claimID := uuid.New()
		rawID, err := claimScript.Run(ctx, s.client,
			[]string{s.pendingKey(queue), s.delayedKey(queue), s.processingKey(queue)},
			now.UnixMilli(), s.leasePrefix(), lockDuration.Milliseconds(), claimID.String(),
		).Text()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, unavailable(err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed job id %q", ErrJobNotFound, rawID)
		}

		job, err := s.load(ctx, id)
		if errors.Is(err, ErrJobNotFound) {
			// The id outlived its job; drop the claim and try the next one.
			if err := s.client.SRem(ctx, s.processingKey(queue), rawID).Err(); err != nil {
				return nil, unavailable(err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		// Recovered from an expired lease with no retry budget left.
		if job.Status == JobStatusProcessing && job.Attempts > job.MaxRetries {
			if err := s.deadLetterExpired(ctx, job, now); err != nil {
				return nil, err
			}
			continue
		}

		lockUntil := now.Add(lockDuration)
		job.Status = JobStatusProcessing
		job.Attempts++
		job.LockedUntil = &lockUntil
		job.LockedBy = &workerID
		job.ClaimID = &claimID

		if err := s.save(ctx, s.client, job, 0); err != nil {
			return nil, err
		}
		return job, nil
	}
}

// CompleteJob implements WorkerRepository
func (s *RedisStorage) CompleteJob(ctx context.Context, jobID, claimID uuid.UUID) error {
	job, err := s.loadProcessing(ctx, jobID)
	if err != nil {
		return err
	}

	now := s.now()
	job.Status = JobStatusDone
	job.ProcessedAt = &now
	job.Error = nil
	unlock(job)

	return s.release(ctx, job, claimID, s.retention, false)
}

// RetryJob implements WorkerRepository
func (s *RedisStorage) RetryJob(ctx context.Context, jobID, claimID uuid.UUID, errorMsg string, delay time.Duration) error {
	job, err := s.loadProcessing(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = JobStatusQueued
	job.Error = &errorMsg
	job.ScheduledAt = s.now().Add(delay)
	unlock(job)

	return s.release(ctx, job, claimID, 0, true)
}

// FailJob implements WorkerRepository
func (s *RedisStorage) FailJob(ctx context.Context, jobID, claimID uuid.UUID, errorMsg string) error {
	job, err := s.loadProcessing(ctx, jobID)
	if err != nil {
		return err
	}

	now := s.now()
	job.Status = JobStatusFailed
	job.Error = &errorMsg
	job.ProcessedAt = &now
	unlock(job)

	return s.release(ctx, job, claimID, s.retention, false)
}

// MoveToDLQ implements WorkerRepository
func (s *RedisStorage) MoveToDLQ(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != JobStatusFailed {
		return fmt.Errorf("%w: %s", ErrJobNotFailed, jobID)
	}
	return s.pushDeadLetter(ctx, job)
}

// GetJob returns the stored job.
func (s *RedisStorage) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	return s.load(ctx, jobID)
}

// DeadLetters returns the dead letter queue, oldest first.
func (s *RedisStorage) DeadLetters(ctx context.Context) ([]DeadLetter, error) {
	raw, err := s.client.LRange(ctx, s.dlqKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	out := make([]DeadLetter, 0, len(raw))
	for _, item := range raw {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(item), &dl); err != nil {
			return nil, fmt.Errorf("failed to decode dead letter: %w", err)
		}
		out = append(out, dl)
	}
	return out, nil
}

// Ping reports whether Redis answers.
func (s *RedisStorage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// release drops the claim of job and stores it, requeueing it when asked.
// It fails with ErrLeaseLost unless claimID still holds the lease.
func (s *RedisStorage) release(ctx context.Context, job *Job, claimID uuid.UUID, ttl time.Duration, requeue bool) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	mode, target := "", s.processingKey(job.Queue)
	if requeue {
		mode, target = "pending", s.pendingKey(job.Queue)
		if job.ScheduledAt.After(s.now()) {
			mode, target = "delayed", s.delayedKey(job.Queue)
		}
	}

	held, err := releaseScript.Run(ctx, s.client,
		[]string{s.leaseKey(job.ID), s.processingKey(job.Queue), s.jobKey(job.ID), target},
		claimID.String(), data, ttl.Milliseconds(), mode, job.ID.String(), job.ScheduledAt.UnixMilli(),
	).Int()
	if err != nil {
		return unavailable(err)
	}
	if held == 0 {
		return fmt.Errorf("%w: %s", ErrLeaseLost, job.ID)
	}
	return nil
}

func (s *RedisStorage) deadLetterExpired(ctx context.Context, job *Job, now time.Time) error {
	msg := expiredLeaseError(job)
	job.Status = JobStatusFailed
	job.Error = &msg
	job.ProcessedAt = &now
	unlock(job)
	return s.pushDeadLetter(ctx, job)
}

func (s *RedisStorage) pushDeadLetter(ctx context.Context, job *Job) error {
	data, err := json.Marshal(newDeadLetter(job, s.now()))
	if err != nil {
		return fmt.Errorf("failed to encode dead letter: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.dlqKey(), data)
		pipe.Del(ctx, s.jobKey(job.ID), s.leaseKey(job.ID))
		pipe.SRem(ctx, s.processingKey(job.Queue), job.ID.String())
		pipe.LRem(ctx, s.pendingKey(job.Queue), 0, job.ID.String())
		pipe.ZRem(ctx, s.delayedKey(job.Queue), job.ID.String())
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStorage) schedule(ctx context.Context, c redis.Cmdable, job *Job) error {
	if job.ScheduledAt.After(s.now()) {
		return c.ZAdd(ctx, s.delayedKey(job.Queue), redis.Z{
			Score:  float64(job.ScheduledAt.UnixMilli()),
			Member: job.ID.String(),
		}).Err()
	}
	return c.RPush(ctx, s.pendingKey(job.Queue), job.ID.String()).Err()
}

func (s *RedisStorage) save(ctx context.Context, c redis.Cmdable, job *Job, ttl time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := c.Set(ctx, s.jobKey(job.ID), data, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStorage) load(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, unavailable(err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", jobID, err)
	}
	return &job, nil
}

func (s *RedisStorage) loadProcessing(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	job, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != JobStatusProcessing {
		return nil, fmt.Errorf("%w: %s", ErrJobNotProcessing, jobID)
	}
	return job, nil
}

func (s *RedisStorage) jobKey(id uuid.UUID) string   { return s.prefix + ":job:" + id.String() }
func (s *RedisStorage) leaseKey(id uuid.UUID) string { return s.leasePrefix() + id.String() }
func (s *RedisStorage) leasePrefix() string          { return s.prefix + ":lease:" }
func (s *RedisStorage) pendingKey(q string) string   { return s.prefix + ":" + q + ":pending" }
func (s *RedisStorage) delayedKey(q string) string   { return s.prefix + ":" + q + ":delayed" }
func (s *RedisStorage) processingKey(q string) string {
	return s.prefix + ":" + q + ":processing"
}
func (s *RedisStorage) dlqKey() string { return s.prefix + ":dlq" }

func unavailable(err error) error {
	return errors.Join(ErrStorageUnavailable, err)
}
