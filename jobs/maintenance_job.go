package jobs

import (
	"fmt"

	"github.com/anjiri1684/wordpace/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Maintainer is the engine surface the periodic jobs call.
type Maintainer interface {
	CleanupExpiredCustomTexts() int
	IsTrialExpired() bool
	StreakStatus() services.StreakStatus
}

// RemoveExpiredCustomTexts deletes free-tier texts past their expiry.
func RemoveExpiredCustomTexts(m Maintainer, log *zap.Logger) {
	removed := m.CleanupExpiredCustomTexts()
	if removed == 0 {
		log.Debug("no expired custom texts found")
		return
	}
	log.Info("removed expired custom texts", zap.Int("count", removed))
}

// SweepTrialExpiry lets a lapsed trial reset premium settings even when the
// UI never asks.
func SweepTrialExpiry(m Maintainer, log *zap.Logger) {
	if m.IsTrialExpired() {
		log.Debug("trial is expired")
	}
}

// RefreshStreak applies the monthly allowance refill and expires a stale
// freeze activation.
func RefreshStreak(m Maintainer, log *zap.Logger) {
	s := m.StreakStatus()
	log.Debug("streak refreshed",
		zap.String("state", string(s.State)),
		zap.Int("freezes", s.FreezesAvailable),
		zap.Int("restores", s.RestoresAvailable))
}

// Schedule registers the maintenance jobs on a new cron scheduler. The caller
// starts and stops it.
func Schedule(m Maintainer, cleanupSpec string, log *zap.Logger) (*cron.Cron, error) {
	log = log.Named("jobs")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	specs := []struct {
		name string
		spec string
		run  func(Maintainer, *zap.Logger)
	}{
		{"custom_text_cleanup", cleanupSpec, RemoveExpiredCustomTexts},
		{"trial_expiry_sweep", cleanupSpec, SweepTrialExpiry},
		{"streak_refresh", "@hourly", RefreshStreak},
	}
	for _, s := range specs {
		job, jobLog := s.run, log.With(zap.String("job", s.name))
		if _, err := c.AddFunc(s.spec, func() { job(m, jobLog) }); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", s.name, err)
		}
	}
	log.Info("✅ maintenance jobs scheduled", zap.String("cleanup", cleanupSpec))
	return c, nil
}
