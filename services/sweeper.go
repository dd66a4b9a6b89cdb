package services

import (
	"context"
	"log"
	"time"
)

// SessionCloser is the outbound notification hook: when a session is swept,
// the boundary edits the original drive message to strip its stale controls.
// The call is fire-and-forget and never retried.
type SessionCloser interface {
	CloseDriveMessage(target ResponseTarget, reason string)
}

// Sweeper is the single background loop per deployment. It polls on a fixed
// interval for idle driving sessions and expired jobs; it shares no state
// with the request handlers beyond the database rows themselves.
type Sweeper struct {
	driving *DrivingService
	jobs    *JobService

	interval     time.Duration
	idleTimeout  time.Duration
	jobRetention time.Duration

	closer SessionCloser
}

func NewSweeper(driving *DrivingService, jobs *JobService, interval, idleTimeout, jobRetention time.Duration) *Sweeper {
	return &Sweeper{
		driving:      driving,
		jobs:         jobs,
		interval:     interval,
		idleTimeout:  idleTimeout,
		jobRetention: jobRetention,
	}
}

// SetCloser attaches the notification hook. Optional; without it swept
// sessions are still removed, just silently.
func (s *Sweeper) SetCloser(closer SessionCloser) {
	s.closer = closer
}

// Run blocks until the context is canceled. Start it with `go sweeper.Run(ctx)`.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Sweeper running: interval=%s idle_timeout=%s job_retention=%s",
		s.interval, s.idleTimeout, s.jobRetention)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Sweeper stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one sweep pass.
func (s *Sweeper) Tick() {
	targets, err := s.driving.SweepIdle(s.idleTimeout)
	if err != nil {
		log.Printf("Idle session sweep failed: %v", err)
	}
	for _, target := range targets {
		if s.closer != nil {
			s.closer.CloseDriveMessage(target, "You were idle for too long, so your truck was parked.")
		}
	}

	if _, err := s.jobs.Sweep(s.jobRetention); err != nil {
		log.Printf("Job sweep failed: %v", err)
	}
}
