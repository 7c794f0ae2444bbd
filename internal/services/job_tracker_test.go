package services

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/pipeline"
)

type memSnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]models.JobSnapshot
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{snaps: make(map[string]models.JobSnapshot)}
}

func (s *memSnapshotStore) PutSnapshot(ctx context.Context, snap models.JobSnapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.JobID] = snap
	return nil
}

func (s *memSnapshotStore) GetSnapshot(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[jobID]
	if !ok {
		return models.JobSnapshot{}, models.ErrJobNotFound
	}
	return snap, nil
}

type stubFetcher struct {
	mu    sync.Mutex
	snaps []models.JobSnapshot
	i     int
}

func (f *stubFetcher) Status(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snaps[f.i]
	if f.i < len(f.snaps)-1 {
		f.i++
	}
	return snap, nil
}

func quietTracker(fetcher pipeline.StatusFetcher, store SnapshotStore) *JobTracker {
	quiet := log.New(io.Discard, "", 0)
	return NewJobTracker(pipeline.NewPoller(fetcher, time.Millisecond), store, quiet, quiet)
}

func TestJobTrackerCachesProgress(t *testing.T) {
	fetcher := &stubFetcher{snaps: []models.JobSnapshot{
		{JobID: "job-1", Status: models.JobProcessing, Progress: 30},
		{JobID: "job-1", Status: models.JobRecognitionComplete, Progress: 70, Results: completedResults()},
		{JobID: "job-1", Status: models.JobCompleted, Progress: 100, Results: completedResults()},
	}}
	store := newMemSnapshotStore()
	tracker := quietTracker(fetcher, store)
	defer tracker.Shutdown()

	tracker.Track("job-1")
	tracker.Track("job-1") // duplicate Track must be harmless

	deadline := time.After(2 * time.Second)
	for {
		snap, err := tracker.Snapshot(context.Background(), "job-1")
		if err == nil && snap.Status == models.JobCompleted {
			if snap.Results == nil || len(snap.Results.ProcessedObjects) != 2 {
				t.Fatalf("final snapshot lost its results: %+v", snap)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("job never reached completed in cache, last: %+v (err %v)", snap, err)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestJobTrackerSnapshotMiss(t *testing.T) {
	tracker := quietTracker(&stubFetcher{snaps: []models.JobSnapshot{{}}}, newMemSnapshotStore())
	defer tracker.Shutdown()

	if _, err := tracker.Snapshot(context.Background(), "nope"); !errors.Is(err, models.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestJobTrackerShutdownStopsWatchers(t *testing.T) {
	// A job that never finishes: shutdown must still return promptly.
	fetcher := &stubFetcher{snaps: []models.JobSnapshot{
		{JobID: "job-2", Status: models.JobProcessing, Progress: 10},
	}}
	tracker := quietTracker(fetcher, newMemSnapshotStore())
	tracker.Track("job-2")

	done := make(chan struct{})
	go func() {
		tracker.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("shutdown did not stop the watcher")
	}
}
