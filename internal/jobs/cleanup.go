package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/config"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/repository"
)

// CleanupJob periodically sweeps expired sessions and invites, and
// purges old access requests. SweepExpired only refreshes the advisory
// invite status; validation recomputes from dates either way.
type CleanupJob struct {
	sessionRepo repository.HostSessionRepository
	inviteRepo  repository.InviteRepository
	requestRepo repository.AccessRequestRepository
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(
	sessionRepo repository.HostSessionRepository,
	inviteRepo repository.InviteRepository,
	requestRepo repository.AccessRequestRepository,
	interval time.Duration,
) *CleanupJob {
	return &CleanupJob{
		sessionRepo: sessionRepo,
		inviteRepo:  inviteRepo,
		requestRepo: requestRepo,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	j.runCleanup(ctx, "host sessions", j.sessionRepo.DeleteExpired)
	j.runCleanup(ctx, "guest invites", func(ctx context.Context) (int64, error) {
		return j.inviteRepo.SweepExpired(ctx, model.DateOnly(time.Now()))
	})
	j.runCleanup(ctx, "access requests", func(ctx context.Context) (int64, error) {
		return j.requestRepo.DeleteOlderThan(ctx, time.Now().Add(-config.AccessRequestRetention))
	})
}

func (j *CleanupJob) runCleanup(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	count, err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("failed to cleanup %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("cleaned up %s", name)
	}
}
