package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/wordpace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func premiumSettings() models.ReadingSettings {
	return models.ReadingSettings{
		Theme:             "midnight",
		FontFamily:        "literata",
		WordsPerMinute:    400,
		AIPersonalization: true,
		InterestTopics:    []string{"space", "history"},
	}
}

func TestTrial_ExpiryLapsesAndResubscribeRestores(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.StartTrial())
	assert.True(t, h.engine.IsEntitled())
	assert.False(t, h.engine.StartTrial(), "only one trial per installation")

	_, ok := h.engine.UpdateSettings(premiumSettings())
	require.True(t, ok)
	assert.False(t, h.engine.IsTrialExpired())

	h.clock.Advance(4 * 24 * time.Hour)
	assert.True(t, h.engine.IsTrialExpired())

	snap := h.engine.Snapshot()
	assert.False(t, snap.IsPremium)
	assert.Nil(t, snap.Trial)
	require.NotNil(t, snap.SavedPremiumSettingsSnapshot)
	assert.Equal(t, "midnight", snap.SavedPremiumSettingsSnapshot.Settings.Theme)
	assert.Equal(t, h.clock.Now().Add(SnapshotValidity), snap.SavedPremiumSettingsSnapshot.ExpiresAt)
	assert.Equal(t, models.DefaultTheme, snap.Settings.Theme)
	assert.Equal(t, 400, snap.Settings.WordsPerMinute, "free fields survive the lapse")

	assert.True(t, h.engine.IsTrialExpired())
	assert.Len(t, h.events.ofType(EventTrialExpired), 1, "lapse side effect runs once")

	h.clock.Advance(2 * 24 * time.Hour)
	res := h.engine.GrantPremium()
	assert.True(t, res.RestoredSettings)

	snap = h.engine.Snapshot()
	assert.True(t, snap.IsPremium)
	assert.Nil(t, snap.SavedPremiumSettingsSnapshot)
	assert.Equal(t, premiumSettings(), snap.Settings)
}

func TestTrial_StaleSnapshotIsDiscarded(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.StartTrial())
	_, ok := h.engine.UpdateSettings(premiumSettings())
	require.True(t, ok)

	h.clock.Advance(4 * 24 * time.Hour)
	require.True(t, h.engine.IsTrialExpired())

	h.clock.Advance(8 * 24 * time.Hour)
	res := h.engine.GrantPremium()
	assert.False(t, res.RestoredSettings)
	assert.True(t, res.DiscardedStale)

	snap := h.engine.Snapshot()
	assert.Nil(t, snap.SavedPremiumSettingsSnapshot)
	assert.Equal(t, models.DefaultTheme, snap.Settings.Theme)
}

func TestTrial_NeverStarted(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.engine.IsTrialExpired())
	_, ok := h.engine.TrialEndsAt()
	assert.False(t, ok)
}

func TestTrial_EndsAt(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.StartTrial())
	end, ok := h.engine.TrialEndsAt()
	require.True(t, ok)
	assert.Equal(t, start.Add(TrialDuration), end)

	h.clock.Advance(TrialDuration)
	assert.True(t, h.engine.IsEntitled(), "trial covers its full duration")
	h.clock.Advance(time.Second)
	assert.False(t, h.engine.IsEntitled())
}

func TestTrial_PremiumUserCannotStartTrial(t *testing.T) {
	h := newHarness(t)
	h.engine.GrantPremium()
	assert.False(t, h.engine.StartTrial())
}

func TestTrial_PurchaseDuringTrialKeepsSettings(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.engine.StartTrial())
	_, ok := h.engine.UpdateSettings(premiumSettings())
	require.True(t, ok)
	h.engine.GrantPremium()

	h.clock.Advance(4 * 24 * time.Hour)
	assert.True(t, h.engine.IsTrialExpired())

	snap := h.engine.Snapshot()
	assert.Nil(t, snap.SavedPremiumSettingsSnapshot)
	assert.Equal(t, premiumSettings(), snap.Settings)
}

func TestPremium_RevokeSnapshotsSettings(t *testing.T) {
	h := newHarness(t)
	h.engine.GrantPremium()
	_, ok := h.engine.UpdateSettings(premiumSettings())
	require.True(t, ok)

	require.True(t, h.engine.RevokePremium())
	assert.False(t, h.engine.RevokePremium())
	assert.False(t, h.engine.IsEntitled())

	snap := h.engine.Snapshot()
	free := models.DefaultReadingSettings()
	free.WordsPerMinute = 400
	assert.Equal(t, free, snap.Settings)
	require.NotNil(t, snap.SavedPremiumSettingsSnapshot)

	h.clock.Advance(24 * time.Hour)
	assert.True(t, h.engine.GrantPremium().RestoredSettings)
	assert.Equal(t, premiumSettings(), h.engine.Snapshot().Settings)
}

func TestSettings_FreeTierLimits(t *testing.T) {
	h := newHarness(t)
	_, ok := h.engine.UpdateSettings(premiumSettings())
	assert.False(t, ok)

	free := models.DefaultReadingSettings()
	free.WordsPerMinute = 320
	got, ok := h.engine.UpdateSettings(free)
	require.True(t, ok)
	assert.Equal(t, 320, got.WordsPerMinute)

	free.WordsPerMinute = 10
	got, ok = h.engine.UpdateSettings(free)
	assert.False(t, ok)
	assert.Equal(t, 320, got.WordsPerMinute)
}

func grantRewards(h *harness, ids ...string) {
	h.engine.mutation(func(p *models.Profile, _ time.Time) (bool, []Event) {
		for _, id := range ids {
			p.UnlockedRewardIDs.Add(id)
		}
		return true, nil
	})
}

func TestSettings_RewardsUnlockFreeOptions(t *testing.T) {
	h := newHarness(t)
	sunrise := models.DefaultReadingSettings()
	sunrise.Theme = "sunrise"
	_, ok := h.engine.UpdateSettings(sunrise)
	assert.False(t, ok)

	fast := models.DefaultReadingSettings()
	fast.WordsPerMinute = 850
	_, ok = h.engine.UpdateSettings(fast)
	assert.False(t, ok)

	fast.WordsPerMinute = models.FreeWordsPerMinuteCap
	_, ok = h.engine.UpdateSettings(fast)
	assert.True(t, ok)

	grantRewards(h, "theme-sunrise", "font-literata", "speed-unlock-900")

	unlocked := models.ReadingSettings{Theme: "sunrise", FontFamily: "literata", WordsPerMinute: 850}
	got, ok := h.engine.UpdateSettings(unlocked)
	require.True(t, ok)
	assert.Equal(t, unlocked, got)

	unlocked.Theme = "midnight"
	_, ok = h.engine.UpdateSettings(unlocked)
	assert.False(t, ok)

	unlocked.Theme = "sunrise"
	unlocked.WordsPerMinute = 950
	_, ok = h.engine.UpdateSettings(unlocked)
	assert.False(t, ok)

	unlocked.WordsPerMinute = 850
	unlocked.AIPersonalization = true
	_, ok = h.engine.UpdateSettings(unlocked)
	assert.False(t, ok)
}

func TestPremium_LapseKeepsRewardedSettings(t *testing.T) {
	h := newHarness(t)
	grantRewards(h, "theme-midnight")
	h.engine.GrantPremium()
	premium := premiumSettings()
	premium.WordsPerMinute = 1200
	_, ok := h.engine.UpdateSettings(premium)
	require.True(t, ok)

	require.True(t, h.engine.RevokePremium())
	assert.Equal(t, models.ReadingSettings{
		Theme:          "midnight",
		FontFamily:     models.DefaultFontFamily,
		WordsPerMinute: models.FreeWordsPerMinuteCap,
	}, h.engine.Snapshot().Settings)

	h.engine.GrantPremium()
	assert.Equal(t, premium, h.engine.Snapshot().Settings)
}
