package services

import (
	"time"

	"github.com/anjiri1684/wordpace/models"
)

const (
	PromptCooldown          = 2 * time.Hour
	EscalatedPromptCooldown = 24 * time.Hour
	// EscalationDismissals is the lifetime dismiss count after which the
	// longer cooldown applies.
	EscalationDismissals = 3
)

// PromptTrigger identifies what asked for an upsell. Intentional triggers
// come from the user tapping something locked and skip the cooldown.
type PromptTrigger struct {
	Name        string `json:"name" validate:"required"`
	Intentional bool   `json:"intentional"`
}

func promptCooldown(t models.PaywallThrottle) time.Duration {
	if t.DismissCount >= EscalationDismissals {
		return EscalatedPromptCooldown
	}
	return PromptCooldown
}

func canShowPrompt(p *models.Profile, trigger PromptTrigger, now time.Time) bool {
	if entitled(p, now) {
		return false
	}
	if trigger.Intentional {
		return true
	}
	last := p.PaywallThrottle.LastShownAt
	if last == nil {
		return true
	}
	return now.Sub(*last) >= promptCooldown(p.PaywallThrottle)
}

func (e *Engine) CanShowPrompt(trigger PromptTrigger) bool {
	var ok bool
	e.read(func(p *models.Profile, now time.Time) {
		ok = canShowPrompt(p, trigger, now)
	})
	return ok
}

func (e *Engine) RecordPromptShown() {
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		p.PaywallThrottle.LastShownAt = &now
		return true, nil
	})
}

func (e *Engine) RecordPromptDismissed() {
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		p.PaywallThrottle.DismissCount++
		return true, nil
	})
}
