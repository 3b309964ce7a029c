package models

import (
	"time"

	"github.com/google/uuid"
)

type FeatureKey string

const (
	FeatureQuiz             FeatureKey = "quiz"
	FeatureDictionaryLookup FeatureKey = "dictionary_lookup"
	FeaturePronunciation    FeatureKey = "pronunciation"
)

// Features lists every quota-gated feature in display order.
var Features = []FeatureKey{FeatureQuiz, FeatureDictionaryLookup, FeaturePronunciation}

func (f FeatureKey) Valid() bool {
	switch f {
	case FeatureQuiz, FeatureDictionaryLookup, FeaturePronunciation:
		return true
	}
	return false
}

type QuotaUsage struct {
	Used         int    `json:"used" validate:"gte=0"`
	LastResetDay string `json:"lastResetDay"` // YYYY-MM-DD, local
}

type CustomText struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	WordCount int       `json:"wordCount" validate:"gte=0"`
	CreatedAt time.Time `json:"createdAt"`
}

type PaywallThrottle struct {
	LastShownAt  *time.Time `json:"lastShownAt,omitempty"`
	DismissCount int        `json:"dismissCount" validate:"gte=0"`
}
