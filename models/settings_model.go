package models

import "time"

const (
	DefaultTheme          = "classic"
	DefaultFontFamily     = "system"
	DefaultWordsPerMinute = 250
	FreeWordsPerMinuteCap = 600
)

// ReadingSettings is the user's reader personalization. AI personalization and
// interest topics are premium-only. Themes, fonts and speeds above
// FreeWordsPerMinuteCap need premium or a matching badge reward.
type ReadingSettings struct {
	Theme             string   `json:"theme" validate:"required"`
	FontFamily        string   `json:"fontFamily" validate:"required"`
	WordsPerMinute    int      `json:"wordsPerMinute" validate:"gte=60,lte=1500"`
	AIPersonalization bool     `json:"aiPersonalization"`
	InterestTopics    []string `json:"interestTopics,omitempty"`
}

func DefaultReadingSettings() ReadingSettings {
	return ReadingSettings{
		Theme:          DefaultTheme,
		FontFamily:     DefaultFontFamily,
		WordsPerMinute: DefaultWordsPerMinute,
	}
}

func (s ReadingSettings) Clone() ReadingSettings {
	s.InterestTopics = append([]string(nil), s.InterestTopics...)
	return s
}

// Premium extracts the premium-only part of the settings.
func (s ReadingSettings) Premium() PremiumSettings {
	return PremiumSettings{
		Theme:             s.Theme,
		FontFamily:        s.FontFamily,
		WordsPerMinute:    s.WordsPerMinute,
		AIPersonalization: s.AIPersonalization,
		InterestTopics:    append([]string(nil), s.InterestTopics...),
	}
}

// WithoutPremium resets the premium-only fields to free defaults.
func (s ReadingSettings) WithoutPremium() ReadingSettings {
	s.Theme = DefaultTheme
	s.FontFamily = DefaultFontFamily
	s.AIPersonalization = false
	s.InterestTopics = nil
	return s
}

// WithPremium applies a captured premium subset on top of s.
func (s ReadingSettings) WithPremium(p PremiumSettings) ReadingSettings {
	s.Theme = p.Theme
	s.FontFamily = p.FontFamily
	if p.WordsPerMinute > 0 {
		s.WordsPerMinute = p.WordsPerMinute
	}
	s.AIPersonalization = p.AIPersonalization
	s.InterestTopics = append([]string(nil), p.InterestTopics...)
	return s
}

type PremiumSettings struct {
	Theme             string   `json:"theme"`
	FontFamily        string   `json:"fontFamily"`
	WordsPerMinute    int      `json:"wordsPerMinute,omitempty"`
	AIPersonalization bool     `json:"aiPersonalization"`
	InterestTopics    []string `json:"interestTopics,omitempty"`
}

type SettingsSnapshot struct {
	Settings   PremiumSettings `json:"settings"`
	CapturedAt time.Time       `json:"capturedAt"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

func (s *SettingsSnapshot) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
