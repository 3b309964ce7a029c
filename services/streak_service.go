package services

import (
	"time"

	"github.com/anjiri1684/wordpace/models"
	"go.uber.org/zap"
)

const (
	// SameDayWindow is the gap below which a reading does not extend the streak.
	SameDayWindow = 24 * time.Hour
	// MissedDayWindow is the largest gap still counted as the next consecutive day.
	MissedDayWindow = 48 * time.Hour
	// FreezeWindow bounds how long an armed freeze stays usable.
	FreezeWindow = MissedDayWindow

	MonthlyFreezeGrant  = 2
	MonthlyRestoreGrant = 1
)

type StreakState string

const (
	StreakNone         StreakState = "none"
	StreakActive       StreakState = "active"
	StreakPendingBreak StreakState = "pending_break"
)

// Transition names the branch a reading took through the streak machine.
type Transition string

const (
	TransitionStarted     Transition = "started"
	TransitionSameDay     Transition = "same_day"
	TransitionConsecutive Transition = "consecutive"
	TransitionFrozen      Transition = "freeze_consumed"
	TransitionBroken      Transition = "broken"
	TransitionBlocked     Transition = "blocked_pending_break"
	TransitionClockSkew   Transition = "clock_skew"
)

func streakState(p *models.Profile) StreakState {
	switch {
	case p.PendingStreakBreak != nil:
		return StreakPendingBreak
	case p.CurrentStreak > 0:
		return StreakActive
	}
	return StreakNone
}

func freezeArmed(p *models.Profile, now time.Time) bool {
	if p.FreezeActivation == nil {
		return false
	}
	age := now.Sub(p.FreezeActivation.ActivatedAt)
	return age >= 0 && age <= FreezeWindow
}

// classifyReading decides which transition a reading at now takes. It does
// not modify p.
func classifyReading(p *models.Profile, now time.Time) Transition {
	if p.PendingStreakBreak != nil {
		return TransitionBlocked
	}
	if p.LastReadAt == nil {
		return TransitionStarted
	}
	elapsed := now.Sub(*p.LastReadAt)
	switch {
	case elapsed < 0:
		return TransitionClockSkew
	case elapsed < SameDayWindow:
		return TransitionSameDay
	case elapsed <= MissedDayWindow:
		return TransitionConsecutive
	case freezeArmed(p, now) && p.StreakFreezesAvailable > 0:
		return TransitionFrozen
	}
	return TransitionBroken
}

func applyReading(p *models.Profile, t Transition, now time.Time) {
	switch t {
	case TransitionStarted:
		p.CurrentStreak = 1
		p.LastReadAt = &now
	case TransitionSameDay:
		if p.CurrentStreak == 0 {
			p.CurrentStreak = 1
		}
		p.LastReadAt = &now
	case TransitionConsecutive:
		p.CurrentStreak++
		p.LastReadAt = &now
	case TransitionFrozen:
		p.StreakFreezesAvailable--
		p.FreezeActivation = nil
		p.CurrentStreak++
		p.LastReadAt = &now
	case TransitionBroken:
		p.PendingStreakBreak = &models.StreakBreak{PreviousStreak: p.CurrentStreak, BrokenAt: now}
	}
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}

// expireFreeze drops an armed freeze that was not used within its window.
func expireFreeze(p *models.Profile, now time.Time) bool {
	if p.FreezeActivation != nil && !freezeArmed(p, now) && now.After(p.FreezeActivation.ActivatedAt) {
		p.FreezeActivation = nil
		return true
	}
	return false
}

// refillAllowances resets premium allowances on the first access of a month.
func (e *Engine) refillAllowances(p *models.Profile, now time.Time) bool {
	month := e.month(now)
	if !p.IsPremium || p.LastAllowanceRefillMonth == month {
		return false
	}
	p.StreakFreezesAvailable = MonthlyFreezeGrant
	p.StreakRestoresAvailable = MonthlyRestoreGrant
	p.LastAllowanceRefillMonth = month
	e.log.Info("streak allowances refilled", zap.String("month", month))
	return true
}

type StreakStatus struct {
	State             StreakState `json:"state"`
	Current           int         `json:"current"`
	Longest           int         `json:"longest"`
	LastReadAt        *time.Time  `json:"last_read_at,omitempty"`
	PreviousStreak    int         `json:"previous_streak,omitempty"`
	FreezesAvailable  int         `json:"freezes_available"`
	RestoresAvailable int         `json:"restores_available"`
	FreezeArmed       bool        `json:"freeze_armed"`
}

func streakStatus(p *models.Profile, now time.Time) StreakStatus {
	s := StreakStatus{
		State:             streakState(p),
		Current:           p.CurrentStreak,
		Longest:           p.LongestStreak,
		FreezesAvailable:  p.StreakFreezesAvailable,
		RestoresAvailable: p.StreakRestoresAvailable,
		FreezeArmed:       freezeArmed(p, now),
	}
	if p.LastReadAt != nil {
		t := *p.LastReadAt
		s.LastReadAt = &t
	}
	if p.PendingStreakBreak != nil {
		s.PreviousStreak = p.PendingStreakBreak.PreviousStreak
	}
	return s
}

// StreakStatus reports the streak read model. Viewing it counts as an access
// for the monthly allowance refill.
func (e *Engine) StreakStatus() StreakStatus {
	var s StreakStatus
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		changed := e.refillAllowances(p, now)
		changed = expireFreeze(p, now) || changed
		s = streakStatus(p, now)
		return changed, nil
	})
	return s
}

// ActivateFreeze arms one freeze to cover a gap in the next FreezeWindow.
func (e *Engine) ActivateFreeze() bool {
	var ok bool
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		changed := e.refillAllowances(p, now)
		changed = expireFreeze(p, now) || changed
		if p.PendingStreakBreak != nil || p.StreakFreezesAvailable == 0 || freezeArmed(p, now) {
			return changed, nil
		}
		p.FreezeActivation = &models.FreezeActivation{ActivatedAt: now}
		ok = true
		return true, nil
	})
	return ok
}

type RestoreResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Streak int    `json:"streak"`
}

const (
	ReasonNoPendingBreak = "no_pending_break"
	ReasonNoRestores     = "no_restores_available"
)

// RestoreStreak reinstates a broken streak. purchasedCredit is set when the
// purchase collaborator already sold a one-off restore, in which case the
// allowance is left untouched.
func (e *Engine) RestoreStreak(purchasedCredit bool) RestoreResult {
	var res RestoreResult
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		changed := e.refillAllowances(p, now)
		res.Streak = p.CurrentStreak
		if p.PendingStreakBreak == nil {
			res.Reason = ReasonNoPendingBreak
			return changed, nil
		}
		if !purchasedCredit {
			if p.StreakRestoresAvailable == 0 {
				res.Reason = ReasonNoRestores
				return changed, nil
			}
			p.StreakRestoresAvailable--
		}
		p.CurrentStreak = p.PendingStreakBreak.PreviousStreak
		p.LastReadAt = &now
		p.PendingStreakBreak = nil
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}
		res.OK, res.Streak = true, p.CurrentStreak
		e.log.Info("streak restored", zap.Int("streak", p.CurrentStreak), zap.Bool("purchased", purchasedCredit))
		return true, nil
	})
	return res
}

// DiscardStreak accepts the break; today's reading still counts as day one.
func (e *Engine) DiscardStreak() bool {
	var ok bool
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if p.PendingStreakBreak == nil {
			return false, nil
		}
		p.CurrentStreak = 1
		p.LastReadAt = &now
		p.PendingStreakBreak = nil
		if p.LongestStreak < 1 {
			p.LongestStreak = 1
		}
		ok = true
		return true, nil
	})
	return ok
}
