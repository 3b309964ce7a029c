package codec

import (
	"github.com/anjiri1684/wordpace/models"
	"github.com/goccy/go-json"
)

// Document is the loosely typed form of a persisted profile. Migration steps
// operate on it so that fields unknown to this build survive an upgrade.
type Document map[string]any

// Step upgrades a document from version N to N+1. A step must be pure and must
// return its input unchanged when the document is not at version N.
type Step func(Document) Document

// Steps is indexed by the version a step upgrades from.
var Steps = map[int]Step{
	1: addStreakAllowances,
	2: normalizeQuotasAndTrial,
	3: addMonetizationState,
	4: addReadingStats,
}

// Migrate applies every step from the document's version up to the current
// schema. Re-running it on an already migrated document is a no-op.
func Migrate(doc Document) Document {
	for v := VersionOf(doc); v < models.CurrentSchemaVersion; v = VersionOf(doc) {
		step, ok := Steps[v]
		if !ok {
			break
		}
		doc = step(doc)
	}
	return doc
}

// VersionOf returns the schema version recorded in doc. Payloads written before
// versioning existed carry no version and are treated as version 1.
func VersionOf(doc Document) int {
	switch v := doc["schemaVersion"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
		return 0
	case nil:
		return 1
	}
	return 0
}

// v1 -> v2: streak allowances and longest streak.
func addStreakAllowances(in Document) Document {
	if VersionOf(in) != 1 {
		return in
	}
	doc := in.clone()
	if _, ok := doc["longestStreak"]; !ok {
		doc["longestStreak"] = numberOr(doc["currentStreak"], 0)
	}
	setDefault(doc, "streakFreezesAvailable", 0)
	setDefault(doc, "streakRestoresAvailable", 0)
	doc["schemaVersion"] = 2
	return doc
}

// v2 -> v3: boolean quota flags become counters, flat trial timestamp becomes
// a trial object.
func normalizeQuotasAndTrial(in Document) Document {
	if VersionOf(in) != 2 {
		return in
	}
	doc := in.clone()
	if quotas, ok := doc["dailyQuotas"].(map[string]any); ok {
		for key, raw := range quotas {
			usage, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if old, present := usage["usedToday"]; present {
				switch v := old.(type) {
				case bool:
					if v {
						usage["used"] = 1
					} else {
						usage["used"] = 0
					}
				case float64, json.Number:
					usage["used"] = numberOr(v, 0)
				}
				delete(usage, "usedToday")
			}
			setDefault(usage, "used", 0)
			quotas[key] = usage
		}
	}
	if started, ok := doc["trialStartedAt"].(string); ok && started != "" {
		doc["trial"] = map[string]any{"startedAt": started}
		doc["trialConsumed"] = true
	}
	delete(doc, "trialStartedAt")
	doc["schemaVersion"] = 3
	return doc
}

// v3 -> v4: rewards, paywall throttle, custom texts, reader settings.
func addMonetizationState(in Document) Document {
	if VersionOf(in) != 3 {
		return in
	}
	doc := in.clone()
	setDefault(doc, "unlockedRewardIds", []any{})
	setDefault(doc, "paywallThrottle", map[string]any{"dismissCount": 0})
	setDefault(doc, "customTexts", []any{})
	setDefault(doc, "settings", map[string]any{
		"theme":          models.DefaultTheme,
		"fontFamily":     models.DefaultFontFamily,
		"wordsPerMinute": models.DefaultWordsPerMinute,
	})
	doc["schemaVersion"] = 4
	return doc
}

// v4 -> v5: lifetime stats seeded from progress, de-duplicated badge ids.
func addReadingStats(in Document) Document {
	if VersionOf(in) != 4 {
		return in
	}
	doc := in.clone()
	if _, ok := doc["stats"]; !ok {
		doc["stats"] = map[string]any{
			"totalWords":     numberOr(doc["levelProgress"], 0),
			"categoryCounts": map[string]any{},
		}
	}
	if ids, ok := doc["unlockedBadgeIds"].([]any); ok {
		seen := map[string]bool{}
		out := make([]any, 0, len(ids))
		for _, id := range ids {
			s, ok := id.(string)
			if !ok || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
		doc["unlockedBadgeIds"] = out
	}
	if _, ok := doc["createdAt"]; !ok {
		if last, ok := doc["lastReadAt"].(string); ok {
			doc["createdAt"] = last
		}
	}
	doc["schemaVersion"] = 5
	return doc
}

func setDefault(doc map[string]any, key string, value any) {
	if v, ok := doc[key]; !ok || v == nil {
		doc[key] = value
	}
}

func numberOr(v any, fallback int) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	if i, ok := v.(int); ok {
		return i
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return fallback
}

func (d Document) clone() Document {
	return cloneValue(map[string]any(d)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Document:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	}
	return v
}
