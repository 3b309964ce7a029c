package services

import (
	"strings"
	"time"

	"github.com/anjiri1684/wordpace/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomTextExpiry is how long a free account's custom text stays visible.
const CustomTextExpiry = 24 * time.Hour

func textExpired(t models.CustomText, now time.Time) bool {
	return now.Sub(t.CreatedAt) >= CustomTextExpiry
}

func visibleTexts(p *models.Profile, now time.Time) []models.CustomText {
	out := []models.CustomText{}
	premium := entitled(p, now)
	for _, t := range p.CustomTexts {
		if premium || !textExpired(t, now) {
			out = append(out, t)
		}
	}
	return out
}

func canUpload(p *models.Profile, now time.Time) bool {
	return entitled(p, now) || len(visibleTexts(p, now)) == 0
}

func (e *Engine) CanUpload() bool {
	var ok bool
	e.read(func(p *models.Profile, now time.Time) {
		ok = canUpload(p, now)
	})
	return ok
}

// AddCustomText stores a user-provided text. Free accounts hold one active
// text at a time.
func (e *Engine) AddCustomText(title, content string) (models.CustomText, bool) {
	var (
		text models.CustomText
		ok   bool
	)
	content = strings.TrimSpace(content)
	if content == "" {
		return text, false
	}
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if !canUpload(p, now) {
			return false, nil
		}
		text = models.CustomText{
			ID:        uuid.New(),
			Title:     strings.TrimSpace(title),
			Content:   content,
			WordCount: len(strings.Fields(content)),
			CreatedAt: now,
		}
		p.CustomTexts = append(p.CustomTexts, text)
		ok = true
		return true, nil
	})
	return text, ok
}

// VisibleCustomTexts hides expired free-tier texts without deleting them.
func (e *Engine) VisibleCustomTexts() []models.CustomText {
	var out []models.CustomText
	e.read(func(p *models.Profile, now time.Time) {
		out = visibleTexts(p, now)
	})
	return out
}

// CleanupExpiredCustomTexts deletes expired texts of a free account and
// returns how many were removed.
func (e *Engine) CleanupExpiredCustomTexts() int {
	var removed int
	e.mutation(func(p *models.Profile, now time.Time) (bool, []Event) {
		if entitled(p, now) {
			return false, nil
		}
		kept := p.CustomTexts[:0:0]
		for _, t := range p.CustomTexts {
			if textExpired(t, now) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if removed == 0 {
			return false, nil
		}
		p.CustomTexts = kept
		e.log.Info("expired custom texts removed", zap.Int("count", removed))
		return true, nil
	})
	return removed
}
