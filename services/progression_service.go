package services

import (
	"math"
	"time"

	"github.com/anjiri1684/wordpace/models"
	"go.uber.org/zap"
)

// LevelThresholds are the levelProgress values at which levels 1..5 start.
var LevelThresholds = []int{0, 750, 2500, 5500, 10000}

var LevelNames = []string{"Beginner", "Intermediate", "Advanced", "Expert", "Master"}

// LevelFor returns the 1-based level for a cumulative progress value.
func LevelFor(progress int) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if progress >= threshold {
			level = i + 1
		}
	}
	return level
}

type LevelProgress struct {
	Level         int     `json:"level"`
	Name          string  `json:"name"`
	Progress      int     `json:"progress"`
	LevelStart    int     `json:"level_start"`
	NextThreshold int     `json:"next_threshold,omitempty"`
	Remaining     int     `json:"remaining"`
	Fraction      float64 `json:"fraction"`
	MaxLevel      bool    `json:"max_level"`
}

func levelProgressFor(progress int) LevelProgress {
	level := LevelFor(progress)
	lp := LevelProgress{
		Level:      level,
		Name:       LevelNames[level-1],
		Progress:   progress,
		LevelStart: LevelThresholds[level-1],
	}
	if level == len(LevelThresholds) {
		lp.MaxLevel = true
		lp.Fraction = 1
		return lp
	}
	lp.NextThreshold = LevelThresholds[level]
	lp.Remaining = lp.NextThreshold - progress
	span := lp.NextThreshold - lp.LevelStart
	lp.Fraction = float64(progress-lp.LevelStart) / float64(span)
	return lp
}

func (e *Engine) CurrentLevel() int {
	var level int
	e.read(func(p *models.Profile, _ time.Time) {
		level = LevelFor(p.LevelProgress)
	})
	return level
}

func (e *Engine) ProgressToNextLevel() LevelProgress {
	var lp LevelProgress
	e.read(func(p *models.Profile, _ time.Time) {
		lp = levelProgressFor(p.LevelProgress)
	})
	return lp
}

// addCapped adds b to a, saturating at math.MaxInt.
func addCapped(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// addProgress adds amount and, on a level increase, unlocks the level badges
// for every level now reached.
func (e *Engine) addProgress(p *models.Profile, amount int) (unlocked []models.Badge, events []Event) {
	if amount <= 0 {
		return nil, nil
	}
	before := LevelFor(p.LevelProgress)
	p.LevelProgress = addCapped(p.LevelProgress, amount)
	after := LevelFor(p.LevelProgress)
	if after <= before {
		return nil, nil
	}
	e.log.Info("level up", zap.Int("from", before), zap.Int("to", after))
	events = append(events, Event{Type: EventLevelUp, Level: after})
	unlocked = evaluateRules(p, func(r BadgeRule) bool { return r.Kind == RuleLevel })
	return unlocked, append(events, badgeEvents(unlocked)...)
}

// AddProgress adds to the cumulative progress and returns the badges it
// unlocked.
func (e *Engine) AddProgress(amount int) []models.Badge {
	var unlocked []models.Badge
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if amount <= 0 {
			return false, nil
		}
		var events []Event
		unlocked, events = e.addProgress(p, amount)
		return true, events
	})
	return unlocked
}
