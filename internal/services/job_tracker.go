package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/pipeline"
)

const (
	jobKeyPrefix = "job:"
	snapshotTTL  = time.Hour
	watchBudget  = 10 * time.Minute
)

// SnapshotStore caches the latest known state of a job, so page
// reloads resume from it instead of starting blind.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, snap models.JobSnapshot, ttl time.Duration) error
	GetSnapshot(ctx context.Context, jobID string) (models.JobSnapshot, error)
}

type RedisSnapshotStore struct {
	Client *redis.Client
}

func (s *RedisSnapshotStore) PutSnapshot(ctx context.Context, snap models.JobSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, jobKeyPrefix+snap.JobID, data, ttl).Err()
}

func (s *RedisSnapshotStore) GetSnapshot(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	data, err := s.Client.Get(ctx, jobKeyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.JobSnapshot{}, models.ErrJobNotFound
	}
	if err != nil {
		return models.JobSnapshot{}, err
	}
	var snap models.JobSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.JobSnapshot{}, err
	}
	return snap, nil
}

// JobTracker runs one watcher goroutine per started job and mirrors
// every snapshot into the store. Watchers die with their job or with
// the tracker, whichever comes first.
type JobTracker struct {
	Poller   *pipeline.Poller
	Store    SnapshotStore
	InfoLog  *log.Logger
	ErrorLog *log.Logger

	mu       sync.Mutex
	watching map[string]bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewJobTracker(poller *pipeline.Poller, store SnapshotStore, infoLog, errorLog *log.Logger) *JobTracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &JobTracker{
		Poller:   poller,
		Store:    store,
		InfoLog:  infoLog,
		ErrorLog: errorLog,
		watching: make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Track starts watching a job unless a watcher already runs for it.
func (t *JobTracker) Track(jobID string) {
	t.mu.Lock()
	if t.watching[jobID] {
		t.mu.Unlock()
		return
	}
	t.watching[jobID] = true
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			t.mu.Lock()
			delete(t.watching, jobID)
			t.mu.Unlock()
		}()

		watchCtx, cancelWatch := context.WithTimeout(t.ctx, watchBudget)
		defer cancelWatch()

		final, err := t.Poller.Watch(watchCtx, jobID, func(snap models.JobSnapshot) {
			putCtx, cancelPut := context.WithTimeout(t.ctx, 3*time.Second)
			defer cancelPut()
			if err := t.Store.PutSnapshot(putCtx, snap, snapshotTTL); err != nil {
				t.ErrorLog.Printf("job %s: cache snapshot: %v", jobID, err)
			}
		})
		if err != nil {
			t.ErrorLog.Printf("job %s: watch ended: %v", jobID, err)
			return
		}
		t.InfoLog.Printf("job %s finished with status %s", jobID, final.Status)
	}()
}

// Snapshot returns the cached state of a job, ErrJobNotFound when the
// cache has nothing.
func (t *JobTracker) Snapshot(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	return t.Store.GetSnapshot(ctx, jobID)
}

// Shutdown cancels every watcher and waits for them to exit.
func (t *JobTracker) Shutdown() {
	t.cancel()
	t.wg.Wait()
}
