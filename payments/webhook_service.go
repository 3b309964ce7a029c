package payments

import (
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/wordpace/services"
	"go.uber.org/zap"
)

// Event types sent by the subscription provider.
const (
	EventInitialPurchase     = "INITIAL_PURCHASE"
	EventRenewal             = "RENEWAL"
	EventRestore             = "RESTORE"
	EventUncancellation      = "UNCANCELLATION"
	EventNonRenewingPurchase = "NON_RENEWING_PURCHASE"
	EventCancellation        = "CANCELLATION"
	EventExpiration          = "EXPIRATION"
	EventRefund              = "REFUND"
	EventBillingIssueLapsed  = "BILLING_ISSUE_LAPSED"
)

// StreakRestoreProduct is the consumable that buys one streak restore.
const StreakRestoreProduct = "wordpace.streak_restore"

type Event struct {
	ID         string    `json:"id" validate:"required"`
	Type       string    `json:"type" validate:"required"`
	ProductID  string    `json:"product_id"`
	OccurredAt time.Time `json:"event_timestamp"`
}

type Action string

const (
	ActionGranted  Action = "granted"
	ActionRevoked  Action = "revoked"
	ActionRestored Action = "streak_restored"
	ActionIgnored  Action = "ignored"
)

type Outcome struct {
	Action  Action                  `json:"action"`
	Grant   *services.GrantResult   `json:"grant,omitempty"`
	Restore *services.RestoreResult `json:"restore,omitempty"`
}

// Entitlements is the engine surface purchase events act on.
type Entitlements interface {
	GrantPremium() services.GrantResult
	RevokePremium() bool
	RestoreStreak(purchasedCredit bool) services.RestoreResult
}

// ApplyEvent maps a provider event onto the engine. A cancellation only stops
// auto-renewal, so access lasts until the matching EXPIRATION arrives.
func ApplyEvent(e Entitlements, ev Event) Outcome {
	switch strings.ToUpper(ev.Type) {
	case EventInitialPurchase, EventRenewal, EventRestore, EventUncancellation:
		res := e.GrantPremium()
		return Outcome{Action: ActionGranted, Grant: &res}
	case EventExpiration, EventRefund, EventBillingIssueLapsed:
		if !e.RevokePremium() {
			return Outcome{Action: ActionIgnored}
		}
		return Outcome{Action: ActionRevoked}
	case EventNonRenewingPurchase:
		if ev.ProductID != StreakRestoreProduct {
			return Outcome{Action: ActionIgnored}
		}
		res := e.RestoreStreak(true)
		return Outcome{Action: ActionRestored, Restore: &res}
	default:
		return Outcome{Action: ActionIgnored}
	}
}

// Processor applies events at most once per event id. Providers retry
// webhooks, so the last maxSeen ids are remembered.
type Processor struct {
	mu      sync.Mutex
	target  Entitlements
	seen    map[string]struct{}
	order   []string
	maxSeen int
	log     *zap.Logger
}

func NewProcessor(target Entitlements, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		target:  target,
		seen:    make(map[string]struct{}),
		maxSeen: 1024,
		log:     log.Named("payments"),
	}
}

// Process applies ev and reports false when it was already processed.
func (p *Processor) Process(ev Event) (Outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.seen[ev.ID]; dup {
		p.log.Info("webhook already processed", zap.String("event_id", ev.ID))
		return Outcome{Action: ActionIgnored}, false
	}
	p.seen[ev.ID] = struct{}{}
	p.order = append(p.order, ev.ID)
	if len(p.order) > p.maxSeen {
		delete(p.seen, p.order[0])
		p.order = p.order[1:]
	}

	out := ApplyEvent(p.target, ev)
	p.log.Info("purchase event applied",
		zap.String("event_id", ev.ID),
		zap.String("type", ev.Type),
		zap.String("action", string(out.Action)))
	return out, true
}
