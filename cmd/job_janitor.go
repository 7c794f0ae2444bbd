package main

import (
	"context"
	"log"
	"time"

	"declutteredWeb/internal/pipeline"
)

const (
	jobJanitorInterval = 1 * time.Hour
	jobJanitorTimeout  = 30 * time.Second

	// The detection service keeps finished jobs in memory until told
	// otherwise. Above this many we flush the completed ones; a flow
	// that has not moved past its finished job still resolves status
	// from the snapshot cache.
	jobJanitorHighWater = 100
)

func startJobJanitor(ctx context.Context, client *pipeline.Client, infoLog, errorLog *log.Logger) {
	if client == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(jobJanitorInterval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, jobJanitorTimeout)
			defer cancel()

			jobs, err := client.Jobs(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("job janitor: list jobs: %v", err)
				}
				return
			}
			if len(jobs) < jobJanitorHighWater {
				return
			}

			cleared, err := client.ClearJobs(runCtx)
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("job janitor: clear jobs: %v", err)
				}
				return
			}
			if infoLog != nil {
				infoLog.Printf("job janitor: cleared %d finished jobs", cleared)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
