package services

import (
	"time"

	"github.com/anjiri1684/wordpace/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	TrialDuration    = 72 * time.Hour
	SnapshotValidity = 7 * 24 * time.Hour
)

var validate = validator.New()

func trialActive(p *models.Profile, now time.Time) bool {
	return p.Trial != nil && now.Sub(p.Trial.StartedAt) <= TrialDuration
}

func entitled(p *models.Profile, now time.Time) bool {
	return p.IsPremium || trialActive(p, now)
}

// lapse captures the premium personalization and falls back to what the free
// tier and earned rewards allow, so a later resubscribe within
// SnapshotValidity gets it back.
func lapse(p *models.Profile, now time.Time) {
	p.SavedPremiumSettingsSnapshot = &models.SettingsSnapshot{
		Settings:   p.Settings.Premium(),
		CapturedAt: now,
		ExpiresAt:  now.Add(SnapshotValidity),
	}
	p.Settings = freeAllowanceFor(p.UnlockedRewardIDs).restrict(p.Settings)
}

// StartTrial starts the one trial an installation ever gets.
func (e *Engine) StartTrial() bool {
	var ok bool
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if p.TrialConsumed || p.IsPremium {
			return false, nil
		}
		p.Trial = &models.TrialState{StartedAt: now}
		p.TrialConsumed = true
		ok = true
		e.log.Info("trial started", zap.Time("ends_at", now.Add(TrialDuration)))
		return true, []Event{{Type: EventEntitlementChanged, Premium: true}}
	})
	return ok
}

// IsTrialExpired reports whether the trial has run out. The first call past
// expiry snapshots and resets premium settings and clears the trial.
func (e *Engine) IsTrialExpired() bool {
	var expired bool
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if p.Trial == nil {
			expired = p.TrialConsumed
			return false, nil
		}
		if now.Sub(p.Trial.StartedAt) <= TrialDuration {
			return false, nil
		}
		expired = true
		if !p.IsPremium {
			lapse(p, now)
		}
		p.Trial = nil
		e.log.Info("trial expired", zap.Bool("premium", p.IsPremium))
		return true, []Event{{Type: EventTrialExpired, Premium: p.IsPremium}}
	})
	return expired
}

// TrialEndsAt returns when the running trial ends, or false without one.
func (e *Engine) TrialEndsAt() (time.Time, bool) {
	var (
		end time.Time
		ok  bool
	)
	e.read(func(p *models.Profile, _ time.Time) {
		if p.Trial != nil {
			end, ok = p.Trial.StartedAt.Add(TrialDuration), true
		}
	})
	return end, ok
}

func (e *Engine) IsEntitled() bool {
	var ok bool
	e.read(func(p *models.Profile, now time.Time) {
		ok = entitled(p, now)
	})
	return ok
}

type GrantResult struct {
	RestoredSettings bool `json:"restored_settings"`
	DiscardedStale   bool `json:"discarded_stale_snapshot"`
}

// GrantPremium applies a confirmed purchase or restore.
func (e *Engine) GrantPremium() GrantResult {
	var res GrantResult
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		p.IsPremium = true
		if snap := p.SavedPremiumSettingsSnapshot; snap != nil {
			if snap.Expired(now) {
				res.DiscardedStale = true
			} else {
				p.Settings = p.Settings.WithPremium(snap.Settings)
				res.RestoredSettings = true
			}
			p.SavedPremiumSettingsSnapshot = nil
		}
		e.log.Info("✅ premium granted",
			zap.Bool("restored_settings", res.RestoredSettings),
			zap.Bool("discarded_stale_snapshot", res.DiscardedStale))
		return true, []Event{{Type: EventEntitlementChanged, Premium: true}}
	})
	return res
}

// RevokePremium applies an expiration or refund. Outside a running trial the
// premium settings are snapshotted and reset the same way a trial lapse does.
func (e *Engine) RevokePremium() bool {
	var revoked bool
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if !p.IsPremium {
			return false, nil
		}
		p.IsPremium = false
		if !trialActive(p, now) {
			lapse(p, now)
		}
		revoked = true
		e.log.Info("premium revoked")
		return true, []Event{{Type: EventEntitlementChanged, Premium: false}}
	})
	return revoked
}

// UpdateSettings replaces the reader settings. Free accounts are limited to
// the defaults plus what their badge rewards unlock.
func (e *Engine) UpdateSettings(s models.ReadingSettings) (models.ReadingSettings, bool) {
	var (
		out models.ReadingSettings
		ok  bool
	)
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		out = p.Settings.Clone()
		if err := validate.Struct(s); err != nil {
			return false, nil
		}
		if !entitled(p, now) && !freeAllowanceFor(p.UnlockedRewardIDs).permits(s) {
			return false, nil
		}
		p.Settings = s.Clone()
		out, ok = p.Settings.Clone(), true
		return true, nil
	})
	return out, ok
}
