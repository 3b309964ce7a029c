package services

import (
	"strings"
	"time"

	"github.com/anjiri1684/wordpace/models"
	"go.uber.org/zap"
)

// GoodPronunciationScore is the minimum attempt score counted as good.
const GoodPronunciationScore = 0.8

type ReadingSession struct {
	WordCount   int       `json:"word_count" validate:"gte=0,lte=1000000"`
	Category    string    `json:"category"`
	CompletedAt time.Time `json:"completed_at"`
}

type ReadingResult struct {
	Transition  Transition     `json:"transition"`
	Streak      StreakStatus   `json:"streak"`
	LevelBefore int            `json:"level_before"`
	LevelAfter  int            `json:"level_after"`
	NewBadges   []models.Badge `json:"new_badges"`
}

// RecordReadingCompleted runs a finished reading through the streak machine,
// adds its words to progress and evaluates badges. A zero CompletedAt means
// now.
func (e *Engine) RecordReadingCompleted(s ReadingSession) ReadingResult {
	var res ReadingResult
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		at := s.CompletedAt
		if at.IsZero() {
			at = now
		}
		words := s.WordCount
		if words < 0 {
			words = 0
		}

		e.refillAllowances(p, at)
		expireFreeze(p, at)

		res.Transition = classifyReading(p, at)
		applyReading(p, res.Transition, at)

		var events []Event
		if res.Transition == TransitionBroken {
			e.log.Info("streak break pending", zap.Int("previous_streak", p.PendingStreakBreak.PreviousStreak))
			events = append(events, Event{Type: EventStreakBreakPending, At: at, Streak: p.PendingStreakBreak.PreviousStreak})
		}

		p.Stats.TotalWords = addCapped(p.Stats.TotalWords, words)
		p.Stats.TextsCompleted++
		if c := strings.ToLower(strings.TrimSpace(s.Category)); c != "" {
			p.Stats.CategoryCounts[c]++
		}

		res.LevelBefore = LevelFor(p.LevelProgress)
		unlocked, levelEvents := e.addProgress(p, words)
		events = append(events, levelEvents...)
		rest := evaluateRules(p, nil)
		events = append(events, badgeEvents(rest)...)

		res.LevelAfter = LevelFor(p.LevelProgress)
		res.NewBadges = append(unlocked, rest...)
		res.Streak = streakStatus(p, at)
		return true, events
	})
	return res
}

// RecordQuizResult counts a finished quiz. Invalid scores are ignored.
func (e *Engine) RecordQuizResult(correct, total int) []models.Badge {
	if total <= 0 || correct < 0 || correct > total {
		return nil
	}
	return e.recordStats(func(s *models.ReadingStats) {
		s.QuizzesCompleted++
		if correct == total {
			s.PerfectQuizzes++
		}
	})
}

// RecordPronunciationAttempt counts an attempt scored between 0 and 1.
func (e *Engine) RecordPronunciationAttempt(score float64) []models.Badge {
	if score < 0 || score > 1 {
		return nil
	}
	return e.recordStats(func(s *models.ReadingStats) {
		s.PronunciationAttempts++
		if score >= GoodPronunciationScore {
			s.GoodPronunciations++
		}
	})
}

// RecordWordLookup counts a dictionary lookup and whether the word was saved
// to the user's vocabulary.
func (e *Engine) RecordWordLookup(saved bool) []models.Badge {
	return e.recordStats(func(s *models.ReadingStats) {
		s.WordsLookedUp++
		if saved {
			s.WordsSaved++
		}
	})
}

func (e *Engine) recordStats(fn func(*models.ReadingStats)) []models.Badge {
	var unlocked []models.Badge
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		fn(&p.Stats)
		unlocked = evaluateRules(p, nil)
		return true, badgeEvents(unlocked)
	})
	return unlocked
}

// Overview is the combined read model the home screen renders.
type Overview struct {
	Premium        bool                   `json:"premium"`
	Entitled       bool                   `json:"entitled"`
	TrialEndsAt    *time.Time             `json:"trial_ends_at,omitempty"`
	Level          LevelProgress          `json:"level"`
	Streak         StreakStatus           `json:"streak"`
	Quotas         []QuotaStatus          `json:"quotas"`
	CanUpload      bool                   `json:"can_upload"`
	UnlockedBadges []string               `json:"unlocked_badges"`
	Settings       models.ReadingSettings `json:"settings"`
}

func (e *Engine) Overview() Overview {
	var o Overview
	e.read(func(p *models.Profile, now time.Time) {
		day := e.day(now)
		o = Overview{
			Premium:        p.IsPremium,
			Entitled:       entitled(p, now),
			Level:          levelProgressFor(p.LevelProgress),
			Streak:         streakStatus(p, now),
			CanUpload:      canUpload(p, now),
			UnlockedBadges: p.UnlockedBadgeIDs.Sorted(),
			Settings:       p.Settings.Clone(),
		}
		if p.Trial != nil {
			end := p.Trial.StartedAt.Add(TrialDuration)
			o.TrialEndsAt = &end
		}
		for _, f := range models.Features {
			o.Quotas = append(o.Quotas, QuotaStatus{Feature: f, Limit: DailyLimits[f], Remaining: remaining(p, f, now, day)})
		}
	})
	return o
}
