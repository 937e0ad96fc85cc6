// Package scheduler runs the periodic maintenance jobs: closing finished
// seasons and lapsing expired subscriptions.
package scheduler

import (
	"context"
	"time"

	"fulvo/backend/internal/league"
)

const jobTimeout = 2 * time.Minute

// SeasonRoller closes a finished season and opens the next one.
type SeasonRoller interface {
	Rollover(ctx context.Context) (*league.RolloverResult, error)
}

// SubscriptionSweeper lapses expired subscriptions.
type SubscriptionSweeper interface {
	ExpireSubscriptions(ctx context.Context) (int64, error)
}

// Schedules holds the cron expressions of each job.
type Schedules struct {
	SeasonRollover    string
	SubscriptionSweep string
}

// RegisterJobs adds the season rollover and subscription sweep jobs.
func RegisterJobs(s *Service, sched Schedules, seasons SeasonRoller, subs SubscriptionSweeper) error {
	if _, err := s.AddJob("season_rollover", sched.SeasonRollover, func() {
		RunSeasonRollover(s, seasons)
	}); err != nil {
		return err
	}
	_, err := s.AddJob("subscription_sweep", sched.SubscriptionSweep, func() {
		RunSubscriptionSweep(s, subs)
	})
	return err
}

// RunSeasonRollover executes one rollover pass.
func RunSeasonRollover(s *Service, seasons SeasonRoller) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	res, err := seasons.Rollover(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Season rollover failed")
		return
	}
	if res == nil {
		return
	}
	s.log.Info().
		Str("closed", res.Closed.Name).
		Str("opened", res.Opened.Name).
		Int("awarded", res.Awarded).
		Msg("Season rolled over")
}

// RunSubscriptionSweep executes one expiry pass.
func RunSubscriptionSweep(s *Service, subs SubscriptionSweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := subs.ExpireSubscriptions(ctx); err != nil {
		s.log.Error().Err(err).Msg("Subscription sweep failed")
	}
}
