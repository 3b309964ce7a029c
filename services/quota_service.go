package services

import (
	"time"

	"github.com/anjiri1684/wordpace/models"
)

// Unlimited is reported by Remaining for entitled accounts.
const Unlimited = -1

// DailyLimits caps free-tier usage per local calendar day.
var DailyLimits = map[models.FeatureKey]int{
	models.FeatureQuiz:             1,
	models.FeatureDictionaryLookup: 2,
	models.FeaturePronunciation:    3,
}

// usedOn returns the usage counted for day. A stamp from an earlier day means
// the counter has implicitly reset; a stamp from a later day (clock moved
// backwards) keeps the counter.
func usedOn(p *models.Profile, f models.FeatureKey, day string) int {
	u, ok := p.DailyQuotas[f]
	if !ok || u.LastResetDay < day {
		return 0
	}
	return u.Used
}

func remaining(p *models.Profile, f models.FeatureKey, now time.Time, day string) int {
	if !f.Valid() {
		return 0
	}
	if entitled(p, now) {
		return Unlimited
	}
	left := DailyLimits[f] - usedOn(p, f, day)
	if left < 0 {
		return 0
	}
	return left
}

func (e *Engine) CanUse(f models.FeatureKey) bool {
	return e.Remaining(f) != 0
}

// Remaining returns how many uses of f are left today, or Unlimited.
func (e *Engine) Remaining(f models.FeatureKey) int {
	var left int
	e.read(func(p *models.Profile, now time.Time) {
		left = remaining(p, f, now, e.day(now))
	})
	return left
}

// Consume records one use of f and reports whether it was allowed.
func (e *Engine) Consume(f models.FeatureKey) bool {
	var ok bool
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		day := e.day(now)
		switch left := remaining(p, f, now, day); {
		case left == Unlimited:
			ok = true
			return false, nil
		case left == 0:
			return false, nil
		}
		used := usedOn(p, f, day)
		stamp := day
		if cur := p.DailyQuotas[f].LastResetDay; cur > day {
			stamp = cur
		}
		p.DailyQuotas[f] = models.QuotaUsage{Used: used + 1, LastResetDay: stamp}
		ok = true
		return true, nil
	})
	return ok
}

type QuotaStatus struct {
	Feature   models.FeatureKey `json:"feature"`
	Limit     int               `json:"limit"`
	Remaining int               `json:"remaining"`
}

// Quotas lists every gated feature with today's remaining uses.
func (e *Engine) Quotas() []QuotaStatus {
	out := make([]QuotaStatus, 0, len(models.Features))
	e.read(func(p *models.Profile, now time.Time) {
		day := e.day(now)
		for _, f := range models.Features {
			out = append(out, QuotaStatus{Feature: f, Limit: DailyLimits[f], Remaining: remaining(p, f, now, day)})
		}
	})
	return out
}
