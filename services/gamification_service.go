package services

import (
	"time"

	"github.com/anjiri1684/wordpace/models"
)

type RuleKind string

const (
	RuleLevel    RuleKind = "level"
	RuleStreak   RuleKind = "streak"
	RuleReading  RuleKind = "reading"
	RuleCategory RuleKind = "category"
	RulePractice RuleKind = "practice"
	RuleVocab    RuleKind = "vocabulary"
)

// BadgeInput is the counter snapshot badge rules are evaluated against.
type BadgeInput struct {
	Stats         models.ReadingStats
	CurrentStreak int
	LongestStreak int
	Level         int
}

type BadgeRule struct {
	Badge     models.Badge
	Kind      RuleKind
	Satisfied func(BadgeInput) bool
}

var Rewards = map[string]models.Reward{
	"theme-sunrise":    {ID: "theme-sunrise", Description: "Sunrise reader theme", Theme: "sunrise"},
	"font-literata":    {ID: "font-literata", Description: "Literata reading font", FontFamily: "literata"},
	"bonus-freeze":     {ID: "bonus-freeze", Description: "One extra streak freeze", BonusFreezes: 1},
	"bonus-restore":    {ID: "bonus-restore", Description: "One extra streak restore", BonusRestores: 1},
	"theme-midnight":   {ID: "theme-midnight", Description: "Midnight reader theme", Theme: "midnight"},
	"speed-unlock-900": {ID: "speed-unlock-900", Description: "Reading speeds up to 900 wpm", WordsPerMinute: 900},
}

// freeAllowance is what a free account may pick in its reader settings.
type freeAllowance struct {
	themes map[string]bool
	fonts  map[string]bool
	maxWPM int
}

func freeAllowanceFor(rewards models.IDSet) freeAllowance {
	a := freeAllowance{
		themes: map[string]bool{models.DefaultTheme: true},
		fonts:  map[string]bool{models.DefaultFontFamily: true},
		maxWPM: models.FreeWordsPerMinuteCap,
	}
	for id := range rewards {
		r, ok := Rewards[id]
		if !ok {
			continue
		}
		if r.Theme != "" {
			a.themes[r.Theme] = true
		}
		if r.FontFamily != "" {
			a.fonts[r.FontFamily] = true
		}
		a.maxWPM = max(a.maxWPM, r.WordsPerMinute)
	}
	return a
}

func (a freeAllowance) permits(s models.ReadingSettings) bool {
	return a.themes[s.Theme] && a.fonts[s.FontFamily] && s.WordsPerMinute <= a.maxWPM &&
		!s.AIPersonalization && len(s.InterestTopics) == 0
}

// restrict keeps what the allowance covers and resets the rest to free defaults.
func (a freeAllowance) restrict(s models.ReadingSettings) models.ReadingSettings {
	out := s.WithoutPremium()
	if a.themes[s.Theme] {
		out.Theme = s.Theme
	}
	if a.fonts[s.FontFamily] {
		out.FontFamily = s.FontFamily
	}
	out.WordsPerMinute = min(out.WordsPerMinute, a.maxWPM)
	return out
}

func levelRule(id, name string, level int) BadgeRule {
	return BadgeRule{
		Badge:     models.Badge{ID: id, Name: name, Description: "Reached the " + LevelNames[level-1] + " level"},
		Kind:      RuleLevel,
		Satisfied: func(in BadgeInput) bool { return in.Level >= level },
	}
}

func streakRule(id, name string, days int, reward string) BadgeRule {
	return BadgeRule{
		Badge:     models.Badge{ID: id, Name: name, Description: "Read on consecutive days", RewardID: reward},
		Kind:      RuleStreak,
		Satisfied: func(in BadgeInput) bool { return in.LongestStreak >= days },
	}
}

func wordsRule(id, name string, words int, reward string) BadgeRule {
	return BadgeRule{
		Badge:     models.Badge{ID: id, Name: name, Description: "Total words read", RewardID: reward},
		Kind:      RuleReading,
		Satisfied: func(in BadgeInput) bool { return in.Stats.TotalWords >= words },
	}
}

func categoryRule(id, name, category string, texts int) BadgeRule {
	return BadgeRule{
		Badge:     models.Badge{ID: id, Name: name, Description: "Texts completed in " + category},
		Kind:      RuleCategory,
		Satisfied: func(in BadgeInput) bool { return in.Stats.CategoryCounts[category] >= texts },
	}
}

// BadgeRules is evaluated in order; the order is also the catalog order.
var BadgeRules = []BadgeRule{
	{
		Badge:     models.Badge{ID: "first-read", Name: "First Read", Description: "Completed a first text"},
		Kind:      RuleReading,
		Satisfied: func(in BadgeInput) bool { return in.Stats.TextsCompleted >= 1 },
	},
	levelRule("reached-intermediate", "Intermediate Reader", 2),
	levelRule("reached-advanced", "Advanced Reader", 3),
	levelRule("reached-expert", "Expert Reader", 4),
	levelRule("reached-master", "Master Reader", 5),
	streakRule("streak-3", "Warming Up", 3, ""),
	streakRule("streak-7", "Week Streak", 7, "theme-sunrise"),
	streakRule("streak-30", "Month Streak", 30, "bonus-freeze"),
	streakRule("streak-100", "Unstoppable", 100, "bonus-restore"),
	wordsRule("words-1000", "Thousand Words", 1000, ""),
	wordsRule("words-10000", "Ten Thousand Words", 10000, "font-literata"),
	wordsRule("words-100000", "Bookworm", 100000, "speed-unlock-900"),
	{
		Badge:     models.Badge{ID: "texts-10", Name: "Regular Reader", Description: "Completed 10 texts"},
		Kind:      RuleReading,
		Satisfied: func(in BadgeInput) bool { return in.Stats.TextsCompleted >= 10 },
	},
	{
		Badge:     models.Badge{ID: "texts-50", Name: "Avid Reader", Description: "Completed 50 texts", RewardID: "theme-midnight"},
		Kind:      RuleReading,
		Satisfied: func(in BadgeInput) bool { return in.Stats.TextsCompleted >= 50 },
	},
	categoryRule("fiction-10", "Storyteller", "fiction", 10),
	categoryRule("news-10", "News Hound", "news", 10),
	categoryRule("science-10", "Curious Mind", "science", 10),
	{
		Badge:     models.Badge{ID: "category-explorer", Name: "Explorer", Description: "Read in 5 different categories"},
		Kind:      RuleCategory,
		Satisfied: func(in BadgeInput) bool { return distinctCategories(in.Stats.CategoryCounts) >= 5 },
	},
	{
		Badge:     models.Badge{ID: "quiz-first", Name: "Quiz Taker", Description: "Completed a first quiz"},
		Kind:      RulePractice,
		Satisfied: func(in BadgeInput) bool { return in.Stats.QuizzesCompleted >= 1 },
	},
	{
		Badge:     models.Badge{ID: "quiz-perfect-5", Name: "Sharp Recall", Description: "Five perfect quizzes"},
		Kind:      RulePractice,
		Satisfied: func(in BadgeInput) bool { return in.Stats.PerfectQuizzes >= 5 },
	},
	{
		Badge:     models.Badge{ID: "pronunciation-10", Name: "Clear Voice", Description: "Ten well pronounced attempts"},
		Kind:      RulePractice,
		Satisfied: func(in BadgeInput) bool { return in.Stats.GoodPronunciations >= 10 },
	},
	{
		Badge:     models.Badge{ID: "vocab-50", Name: "Word Collector", Description: "Saved 50 words"},
		Kind:      RuleVocab,
		Satisfied: func(in BadgeInput) bool { return in.Stats.WordsSaved >= 50 },
	},
	{
		Badge:     models.Badge{ID: "lookups-100", Name: "Dictionary Diver", Description: "Looked up 100 words"},
		Kind:      RuleVocab,
		Satisfied: func(in BadgeInput) bool { return in.Stats.WordsLookedUp >= 100 },
	},
}

func distinctCategories(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}

func badgeInput(p *models.Profile) BadgeInput {
	return BadgeInput{
		Stats:         p.Stats,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		Level:         LevelFor(p.LevelProgress),
	}
}

// unlockBadge adds the badge and grants its reward. Both ids are tracked in
// sets, so neither can be granted twice.
func unlockBadge(p *models.Profile, b models.Badge) bool {
	if !p.UnlockedBadgeIDs.Add(b.ID) {
		return false
	}
	if b.RewardID == "" || !p.UnlockedRewardIDs.Add(b.RewardID) {
		return true
	}
	reward := Rewards[b.RewardID]
	p.StreakFreezesAvailable = addCapped(p.StreakFreezesAvailable, reward.BonusFreezes)
	p.StreakRestoresAvailable = addCapped(p.StreakRestoresAvailable, reward.BonusRestores)
	return true
}

// evaluateRules unlocks every satisfied rule accepted by filter and returns
// the newly unlocked badges. Already unlocked badges are skipped.
func evaluateRules(p *models.Profile, filter func(BadgeRule) bool) []models.Badge {
	in := badgeInput(p)
	var unlocked []models.Badge
	for _, rule := range BadgeRules {
		if filter != nil && !filter(rule) {
			continue
		}
		if p.UnlockedBadgeIDs.Has(rule.Badge.ID) || !rule.Satisfied(in) {
			continue
		}
		if unlockBadge(p, rule.Badge) {
			unlocked = append(unlocked, rule.Badge)
		}
	}
	return unlocked
}

func badgeEvents(badges []models.Badge) []Event {
	events := make([]Event, 0, len(badges))
	for i := range badges {
		b := badges[i]
		events = append(events, Event{Type: EventBadgeUnlocked, Badge: &b})
	}
	return events
}

// EvaluateBadges runs the whole rule table and returns newly unlocked badges.
func (e *Engine) EvaluateBadges() []models.Badge {
	var unlocked []models.Badge
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		unlocked = evaluateRules(p, nil)
		return len(unlocked) > 0, badgeEvents(unlocked)
	})
	return unlocked
}

// BadgeCatalog lists every badge with its unlock state.
func (e *Engine) BadgeCatalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(BadgeRules))
	e.read(func(p *models.Profile, _ time.Time) {
		for _, rule := range BadgeRules {
			out = append(out, CatalogEntry{Badge: rule.Badge, Kind: rule.Kind, Unlocked: p.UnlockedBadgeIDs.Has(rule.Badge.ID)})
		}
	})
	return out
}

type CatalogEntry struct {
	models.Badge
	Kind     RuleKind `json:"kind"`
	Unlocked bool     `json:"unlocked"`
}

func (e *Engine) UnlockedBadges() []models.Badge {
	var out []models.Badge
	e.read(func(p *models.Profile, _ time.Time) {
		for _, rule := range BadgeRules {
			if p.UnlockedBadgeIDs.Has(rule.Badge.ID) {
				out = append(out, rule.Badge)
			}
		}
	})
	return out
}

func (e *Engine) UnlockedRewards() []models.Reward {
	var out []models.Reward
	e.read(func(p *models.Profile, _ time.Time) {
		for _, id := range p.UnlockedRewardIDs.Sorted() {
			if r, ok := Rewards[id]; ok {
				out = append(out, r)
			}
		}
	})
	return out
}
