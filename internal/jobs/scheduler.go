package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ngplus/api/internal/repository"
)

// Scheduler runs the nightly rating-counter audit: it compares every user's
// denormalized rating_count against the live rating rows and logs any drift.
// The audit never mutates; the transactional rating operations own the
// counter, the job only watches them.
type Scheduler struct {
	cron  *cron.Cron
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewScheduler(users *repository.UserRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		users: users,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.auditRatingCounters); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) auditRatingCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	drift, err := s.users.FindCounterDrift(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("rating counter audit failed")
		return
	}

	if len(drift) == 0 {
		s.log.Info().Msg("rating counter audit clean")
		return
	}

	for _, d := range drift {
		s.log.Warn().
			Str("user_id", d.UserID).
			Int("rating_count", d.RatingCount).
			Int("live_count", d.LiveCount).
			Msg("rating counter drift detected")
	}
}
