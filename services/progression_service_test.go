package services

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/anjiri1684/wordpace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	cases := map[int]int{0: 1, 749: 1, 750: 2, 2499: 2, 2500: 3, 5500: 4, 9999: 4, 10000: 5, 50000: 5}
	for progress, want := range cases {
		assert.Equal(t, want, LevelFor(progress), "progress %d", progress)
	}
}

func TestAddProgress_CrossesIntermediate(t *testing.T) {
	h := newHarness(t)
	unlocked := h.engine.AddProgress(800)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "reached-intermediate", unlocked[0].ID)
	assert.Equal(t, 2, h.engine.CurrentLevel())

	assert.Empty(t, h.engine.AddProgress(100))
	assert.Empty(t, h.engine.EvaluateBadges())

	snap := h.engine.Snapshot()
	assert.Equal(t, []string{"reached-intermediate"}, snap.UnlockedBadgeIDs.Sorted())
	assert.Len(t, h.events.ofType(EventLevelUp), 1)
	assert.Len(t, h.events.ofType(EventBadgeUnlocked), 1)
}

func TestAddProgress_LargeJumpUnlocksEveryLevelBadge(t *testing.T) {
	h := newHarness(t)
	unlocked := h.engine.AddProgress(6000)
	var ids []string
	for _, b := range unlocked {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"reached-intermediate", "reached-advanced", "reached-expert"}, ids)
	assert.Equal(t, 4, h.engine.CurrentLevel())
}

func TestAddProgress_IgnoresNonPositive(t *testing.T) {
	h := newHarness(t)
	assert.Nil(t, h.engine.AddProgress(0))
	assert.Nil(t, h.engine.AddProgress(-50))
	assert.Zero(t, h.engine.Snapshot().LevelProgress)
}

func TestAddProgress_LevelIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 20; run++ {
		h := newHarness(t)
		total, prev := 0, 1
		for i := 0; i < 30; i++ {
			amount := rng.Intn(900) - 100
			h.engine.AddProgress(amount)
			if amount > 0 {
				total += amount
			}
			level := h.engine.CurrentLevel()
			require.GreaterOrEqual(t, level, prev)
			require.Equal(t, LevelFor(total), level)
			prev = level
		}
	}
}

func TestAddProgress_SaturatesAtMaxInt(t *testing.T) {
	h := newHarness(t)
	h.engine.AddProgress(math.MaxInt - 10)
	h.engine.AddProgress(1000)
	h.engine.AddProgress(math.MaxInt)

	snap := h.engine.Snapshot()
	assert.Equal(t, math.MaxInt, snap.LevelProgress)
	assert.Equal(t, len(LevelThresholds), h.engine.CurrentLevel())
}

func TestReading_TotalWordsSaturates(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 2; i++ {
		h.engine.RecordReadingCompleted(ReadingSession{WordCount: math.MaxInt/2 + 1})
	}
	assert.Equal(t, math.MaxInt, h.engine.Snapshot().Stats.TotalWords)
}

func TestProgressToNextLevel(t *testing.T) {
	h := newHarness(t)
	h.engine.AddProgress(800)
	lp := h.engine.ProgressToNextLevel()
	assert.Equal(t, 2, lp.Level)
	assert.Equal(t, "Intermediate", lp.Name)
	assert.Equal(t, 2500, lp.NextThreshold)
	assert.Equal(t, 1700, lp.Remaining)
	assert.InDelta(t, 50.0/1750.0, lp.Fraction, 1e-9)

	h.engine.AddProgress(20000)
	lp = h.engine.ProgressToNextLevel()
	assert.True(t, lp.MaxLevel)
	assert.Equal(t, 1.0, lp.Fraction)
}

func TestBadges_RewardGrantedOnce(t *testing.T) {
	p := models.NewProfile(start)
	p.LongestStreak = 30

	unlocked := evaluateRules(p, nil)
	var ids []string
	for _, b := range unlocked {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"streak-3", "streak-7", "streak-30"}, ids)
	assert.Equal(t, 1, p.StreakFreezesAvailable)
	assert.Equal(t, []string{"bonus-freeze", "theme-sunrise"}, p.UnlockedRewardIDs.Sorted())

	assert.Empty(t, evaluateRules(p, nil))
	assert.Equal(t, 1, p.StreakFreezesAvailable)
}

func TestBadges_RewardAlreadyHeldIsNotReapplied(t *testing.T) {
	p := models.NewProfile(start)
	p.UnlockedRewardIDs.Add("bonus-freeze")
	p.LongestStreak = 30
	evaluateRules(p, nil)
	assert.True(t, p.UnlockedBadgeIDs.Has("streak-30"))
	assert.Zero(t, p.StreakFreezesAvailable)
}

func TestBadges_ReadingTwiceUnlocksOnce(t *testing.T) {
	h := newHarness(t)
	first := h.engine.RecordReadingCompleted(ReadingSession{WordCount: 300, Category: "Fiction"})
	var ids []string
	for _, b := range first.NewBadges {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, "first-read")

	h.clock.Advance(time.Hour)
	second := h.engine.RecordReadingCompleted(ReadingSession{WordCount: 300, Category: "fiction"})
	assert.Empty(t, second.NewBadges)
	assert.Equal(t, 2, h.engine.Snapshot().Stats.CategoryCounts["fiction"])
}

func TestReading_AddsProgressAndLevels(t *testing.T) {
	h := newHarness(t)
	res := h.engine.RecordReadingCompleted(ReadingSession{WordCount: 1200, Category: "news"})
	assert.Equal(t, 1, res.LevelBefore)
	assert.Equal(t, 2, res.LevelAfter)

	snap := h.engine.Snapshot()
	assert.Equal(t, 1200, snap.LevelProgress)
	assert.Equal(t, 1200, snap.Stats.TotalWords)
	assert.Equal(t, 1, snap.Stats.TextsCompleted)
	for _, id := range []string{"first-read", "reached-intermediate", "words-1000"} {
		assert.True(t, snap.UnlockedBadgeIDs.Has(id), id)
	}
}

func TestReading_CategoryExplorer(t *testing.T) {
	h := newHarness(t)
	var got []models.Badge
	for _, c := range []string{"fiction", "news", "science", "history", "travel"} {
		got = append(got, h.engine.RecordReadingCompleted(ReadingSession{WordCount: 10, Category: c}).NewBadges...)
	}
	var ids []string
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, "category-explorer")
}

func TestPracticeRecorders(t *testing.T) {
	h := newHarness(t)
	assert.Nil(t, h.engine.RecordQuizResult(6, 5))
	assert.Nil(t, h.engine.RecordPronunciationAttempt(1.5))

	first := h.engine.RecordQuizResult(5, 5)
	require.Len(t, first, 1)
	assert.Equal(t, "quiz-first", first[0].ID)

	var perfect []models.Badge
	for i := 0; i < 4; i++ {
		perfect = append(perfect, h.engine.RecordQuizResult(3, 3)...)
	}
	require.Len(t, perfect, 1)
	assert.Equal(t, "quiz-perfect-5", perfect[0].ID)

	for i := 0; i < 9; i++ {
		assert.Empty(t, h.engine.RecordPronunciationAttempt(0.9))
	}
	h.engine.RecordPronunciationAttempt(0.2)
	last := h.engine.RecordPronunciationAttempt(GoodPronunciationScore)
	require.Len(t, last, 1)
	assert.Equal(t, "pronunciation-10", last[0].ID)

	h.engine.RecordWordLookup(true)
	h.engine.RecordWordLookup(false)
	stats := h.engine.Snapshot().Stats
	assert.Equal(t, 2, stats.WordsLookedUp)
	assert.Equal(t, 1, stats.WordsSaved)
	assert.Equal(t, 11, stats.PronunciationAttempts)
	assert.Equal(t, 10, stats.GoodPronunciations)
}

func TestBadgeCatalog(t *testing.T) {
	h := newHarness(t)
	h.engine.AddProgress(800)
	catalog := h.engine.BadgeCatalog()
	require.Len(t, catalog, len(BadgeRules))

	unlocked := 0
	for _, entry := range catalog {
		if entry.Unlocked {
			unlocked++
			assert.Equal(t, "reached-intermediate", entry.ID)
		}
	}
	assert.Equal(t, 1, unlocked)
	assert.Len(t, h.engine.UnlockedBadges(), 1)
	assert.Empty(t, h.engine.UnlockedRewards())
}
