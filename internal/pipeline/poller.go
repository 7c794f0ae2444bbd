package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"declutteredWeb/internal/models"
)

// maxPollFailures is how many consecutive transport errors Watch
// tolerates before giving up on a job.
const maxPollFailures = 5

type StatusFetcher interface {
	Status(ctx context.Context, jobID string) (models.JobSnapshot, error)
}

// Poller drives a job to completion by polling its status on a fixed
// interval. One transient fetch error does not stop the watch; the
// last good snapshot stays current until the next poll lands.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
}

func NewPoller(fetcher StatusFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{fetcher: fetcher, interval: interval}
}

// jitter spreads concurrent watchers so their polls do not all land
// on the detection service in the same instant.
func (p *Poller) jitter() time.Duration {
	spread := p.interval / 5
	if spread <= 0 {
		return p.interval
	}
	return p.interval - spread/2 + time.Duration(rand.Int63n(int64(spread)))
}

// Watch polls until the job reaches a terminal status or ctx is done.
// Every new snapshot is merged over the previous one and handed to
// onUpdate, so recognition data survives the arrival of pricing.
func (p *Poller) Watch(ctx context.Context, jobID string, onUpdate func(models.JobSnapshot)) (models.JobSnapshot, error) {
	timer := time.NewTimer(p.jitter())
	defer timer.Stop()

	var last models.JobSnapshot
	failures := 0
	for {
		snap, err := p.fetcher.Status(ctx, jobID)
		switch {
		case errors.Is(err, models.ErrJobNotFound):
			return last, err
		case err != nil:
			failures++
			if failures >= maxPollFailures {
				return last, fmt.Errorf("poll job %s: %w", jobID, err)
			}
		default:
			failures = 0
			snap.Results = models.MergeResults(last.Results, snap.Results)
			last = snap
			if onUpdate != nil {
				onUpdate(last)
			}
			if last.Status.Terminal() {
				return last, nil
			}
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-timer.C:
			timer.Reset(p.jitter())
		}
	}
}
