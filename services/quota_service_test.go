package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/wordpace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuota_ConsumeThenExhausted(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.CanUse(models.FeatureQuiz))
	require.True(t, h.engine.Consume(models.FeatureQuiz))
	assert.False(t, h.engine.CanUse(models.FeatureQuiz))
	assert.False(t, h.engine.Consume(models.FeatureQuiz))
	assert.Zero(t, h.engine.Remaining(models.FeatureQuiz))

	assert.Equal(t, 2, h.engine.Remaining(models.FeatureDictionaryLookup))
	require.True(t, h.engine.Consume(models.FeatureDictionaryLookup))
	assert.Equal(t, 1, h.engine.Remaining(models.FeatureDictionaryLookup))
	require.True(t, h.engine.Consume(models.FeatureDictionaryLookup))
	assert.False(t, h.engine.CanUse(models.FeatureDictionaryLookup))

	for i := 0; i < 3; i++ {
		require.True(t, h.engine.Consume(models.FeaturePronunciation))
	}
	assert.False(t, h.engine.Consume(models.FeaturePronunciation))
}

func TestQuota_ResetsOnNextLocalDay(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.Consume(models.FeatureQuiz))

	h.clock.Advance(15 * time.Hour) // 23:00 same day
	assert.False(t, h.engine.CanUse(models.FeatureQuiz))

	h.clock.Advance(2 * time.Hour) // 01:00 next day
	assert.True(t, h.engine.CanUse(models.FeatureQuiz))
	assert.Equal(t, 1, h.engine.Remaining(models.FeatureQuiz))

	require.True(t, h.engine.Consume(models.FeatureQuiz))
	snap := h.engine.Snapshot()
	assert.Equal(t, models.QuotaUsage{Used: 1, LastResetDay: "2026-05-05"}, snap.DailyQuotas[models.FeatureQuiz])
}

func TestQuota_EntitledBypass(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.StartTrial())
	for i := 0; i < 5; i++ {
		require.True(t, h.engine.Consume(models.FeatureQuiz))
	}
	assert.Equal(t, Unlimited, h.engine.Remaining(models.FeatureQuiz))
	assert.Empty(t, h.engine.Snapshot().DailyQuotas)

	h.clock.Advance(4 * 24 * time.Hour)
	assert.Equal(t, 1, h.engine.Remaining(models.FeatureQuiz))
}

func TestQuota_UnknownFeature(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.engine.CanUse("hologram"))
	assert.False(t, h.engine.Consume("hologram"))
	h.engine.GrantPremium()
	assert.False(t, h.engine.CanUse("hologram"))
}

func TestQuota_BackwardClockKeepsCounter(t *testing.T) {
	p := models.NewProfile(start)
	p.DailyQuotas[models.FeatureQuiz] = models.QuotaUsage{Used: 1, LastResetDay: "2026-05-05"}
	assert.Equal(t, 1, usedOn(p, models.FeatureQuiz, "2026-05-04"))
	assert.Equal(t, 1, usedOn(p, models.FeatureQuiz, "2026-05-05"))
	assert.Equal(t, 0, usedOn(p, models.FeatureQuiz, "2026-05-06"))
}

func TestQuota_Listing(t *testing.T) {
	h := newHarness(t)
	h.engine.Consume(models.FeaturePronunciation)
	quotas := h.engine.Quotas()
	require.Len(t, quotas, 3)
	assert.Equal(t, QuotaStatus{Feature: models.FeaturePronunciation, Limit: 3, Remaining: 2}, quotas[2])
}

func TestCustomText_OneActiveFreeText(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.CanUpload())

	text, ok := h.engine.AddCustomText(" My notes ", "the quick brown fox")
	require.True(t, ok)
	assert.Equal(t, "My notes", text.Title)
	assert.Equal(t, 4, text.WordCount)

	assert.False(t, h.engine.CanUpload())
	_, ok = h.engine.AddCustomText("second", "jumps over")
	assert.False(t, ok)

	h.clock.Advance(CustomTextExpiry)
	assert.Empty(t, h.engine.VisibleCustomTexts())
	assert.True(t, h.engine.CanUpload())
	assert.Len(t, h.engine.Snapshot().CustomTexts, 1, "expired text is hidden, not deleted")

	_, ok = h.engine.AddCustomText("second", "jumps over")
	require.True(t, ok)
	assert.Len(t, h.engine.VisibleCustomTexts(), 1)

	assert.Equal(t, 1, h.engine.CleanupExpiredCustomTexts())
	assert.Zero(t, h.engine.CleanupExpiredCustomTexts())
	assert.Len(t, h.engine.Snapshot().CustomTexts, 1)
}

func TestCustomText_EmptyContentRejected(t *testing.T) {
	h := newHarness(t)
	_, ok := h.engine.AddCustomText("title", "   ")
	assert.False(t, ok)
}

func TestCustomText_PremiumKeepsEverything(t *testing.T) {
	h := newHarness(t)
	h.engine.GrantPremium()
	for i := 0; i < 3; i++ {
		_, ok := h.engine.AddCustomText("t", "some words")
		require.True(t, ok)
	}
	h.clock.Advance(3 * CustomTextExpiry)
	assert.Len(t, h.engine.VisibleCustomTexts(), 3)
	assert.Zero(t, h.engine.CleanupExpiredCustomTexts())
}

func TestPaywall_Cooldown(t *testing.T) {
	h := newHarness(t)
	passive := PromptTrigger{Name: "home_banner"}
	tapped := PromptTrigger{Name: "locked_theme", Intentional: true}

	require.True(t, h.engine.CanShowPrompt(passive))
	h.engine.RecordPromptShown()
	assert.False(t, h.engine.CanShowPrompt(passive))
	assert.True(t, h.engine.CanShowPrompt(tapped))

	h.clock.Advance(PromptCooldown - time.Minute)
	assert.False(t, h.engine.CanShowPrompt(passive))
	h.clock.Advance(time.Minute)
	assert.True(t, h.engine.CanShowPrompt(passive))
}

func TestPaywall_EscalatesAfterDismissals(t *testing.T) {
	h := newHarness(t)
	passive := PromptTrigger{Name: "home_banner"}
	for i := 0; i < EscalationDismissals; i++ {
		h.engine.RecordPromptShown()
		h.engine.RecordPromptDismissed()
	}
	assert.Equal(t, EscalationDismissals, h.engine.Snapshot().PaywallThrottle.DismissCount)

	h.clock.Advance(3 * time.Hour)
	assert.False(t, h.engine.CanShowPrompt(passive))
	h.clock.Advance(21 * time.Hour)
	assert.True(t, h.engine.CanShowPrompt(passive))
}

func TestPaywall_EntitledNeverPrompted(t *testing.T) {
	h := newHarness(t)
	h.engine.GrantPremium()
	assert.False(t, h.engine.CanShowPrompt(PromptTrigger{Name: "locked_theme", Intentional: true}))
}
