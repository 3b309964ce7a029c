package models

import (
	"time"

	"github.com/goccy/go-json"
)

// CurrentSchemaVersion is the shape written by this build. Older payloads are
// upgraded by the codec before they reach any caller.
const CurrentSchemaVersion = 5

type TrialState struct {
	StartedAt time.Time `json:"startedAt"`
}

// Profile is the single persisted record of an installation.
type Profile struct {
	SchemaVersion int `json:"schemaVersion" validate:"gte=1"`

	IsPremium     bool        `json:"isPremium"`
	Trial         *TrialState `json:"trial,omitempty"`
	TrialConsumed bool        `json:"trialConsumed"`

	LevelProgress int `json:"levelProgress" validate:"gte=0"`

	CurrentStreak            int               `json:"currentStreak" validate:"gte=0"`
	LongestStreak            int               `json:"longestStreak" validate:"gte=0"`
	LastReadAt               *time.Time        `json:"lastReadAt,omitempty"`
	StreakFreezesAvailable   int               `json:"streakFreezesAvailable" validate:"gte=0"`
	StreakRestoresAvailable  int               `json:"streakRestoresAvailable" validate:"gte=0"`
	LastAllowanceRefillMonth string            `json:"lastAllowanceRefillMonth,omitempty"`
	PendingStreakBreak       *StreakBreak      `json:"pendingStreakBreak,omitempty"`
	FreezeActivation         *FreezeActivation `json:"freezeActivation,omitempty"`

	DailyQuotas map[FeatureKey]QuotaUsage `json:"dailyQuotas" validate:"dive"`
	CustomTexts []CustomText              `json:"customTexts" validate:"dive"`

	UnlockedBadgeIDs  IDSet `json:"unlockedBadgeIds"`
	UnlockedRewardIDs IDSet `json:"unlockedRewardIds"`

	PaywallThrottle PaywallThrottle `json:"paywallThrottle"`

	Settings                     ReadingSettings   `json:"settings"`
	SavedPremiumSettingsSnapshot *SettingsSnapshot `json:"savedPremiumSettingsSnapshot,omitempty"`

	Stats ReadingStats `json:"stats"`

	CreatedAt time.Time `json:"createdAt"`

	// Extra holds top-level fields this build does not know, so they are
	// written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// NewProfile returns the first-launch record.
func NewProfile(now time.Time) *Profile {
	return &Profile{
		SchemaVersion:     CurrentSchemaVersion,
		DailyQuotas:       map[FeatureKey]QuotaUsage{},
		CustomTexts:       []CustomText{},
		UnlockedBadgeIDs:  IDSet{},
		UnlockedRewardIDs: IDSet{},
		Settings:          DefaultReadingSettings(),
		Stats:             ReadingStats{CategoryCounts: map[string]int{}},
		CreatedAt:         now,
	}
}

// Normalize replaces nil collections with empty ones so callers never have to
// nil-check a decoded record.
func (p *Profile) Normalize() {
	if p.DailyQuotas == nil {
		p.DailyQuotas = map[FeatureKey]QuotaUsage{}
	}
	if p.CustomTexts == nil {
		p.CustomTexts = []CustomText{}
	}
	if p.UnlockedBadgeIDs == nil {
		p.UnlockedBadgeIDs = IDSet{}
	}
	if p.UnlockedRewardIDs == nil {
		p.UnlockedRewardIDs = IDSet{}
	}
	if p.Stats.CategoryCounts == nil {
		p.Stats.CategoryCounts = map[string]int{}
	}
	if p.Settings.Theme == "" {
		p.Settings.Theme = DefaultTheme
	}
	if p.Settings.FontFamily == "" {
		p.Settings.FontFamily = DefaultFontFamily
	}
	if p.Settings.WordsPerMinute == 0 {
		p.Settings.WordsPerMinute = DefaultWordsPerMinute
	}
}

// Clone returns a deep copy that shares no mutable state with p.
func (p *Profile) Clone() *Profile {
	c := *p
	if p.Trial != nil {
		t := *p.Trial
		c.Trial = &t
	}
	c.LastReadAt = cloneTime(p.LastReadAt)
	if p.PendingStreakBreak != nil {
		b := *p.PendingStreakBreak
		c.PendingStreakBreak = &b
	}
	if p.FreezeActivation != nil {
		f := *p.FreezeActivation
		c.FreezeActivation = &f
	}
	c.DailyQuotas = make(map[FeatureKey]QuotaUsage, len(p.DailyQuotas))
	for k, v := range p.DailyQuotas {
		c.DailyQuotas[k] = v
	}
	c.CustomTexts = append([]CustomText(nil), p.CustomTexts...)
	if c.CustomTexts == nil {
		c.CustomTexts = []CustomText{}
	}
	c.UnlockedBadgeIDs = p.UnlockedBadgeIDs.Clone()
	c.UnlockedRewardIDs = p.UnlockedRewardIDs.Clone()
	c.PaywallThrottle.LastShownAt = cloneTime(p.PaywallThrottle.LastShownAt)
	c.Settings = p.Settings.Clone()
	if p.SavedPremiumSettingsSnapshot != nil {
		s := *p.SavedPremiumSettingsSnapshot
		s.Settings.InterestTopics = append([]string(nil), s.Settings.InterestTopics...)
		c.SavedPremiumSettingsSnapshot = &s
	}
	c.Stats.CategoryCounts = make(map[string]int, len(p.Stats.CategoryCounts))
	for k, v := range p.Stats.CategoryCounts {
		c.Stats.CategoryCounts[k] = v
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
