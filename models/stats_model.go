package models

// ReadingStats are the lifetime counters badge rules are evaluated against.
type ReadingStats struct {
	TotalWords            int            `json:"totalWords" validate:"gte=0"`
	TextsCompleted        int            `json:"textsCompleted" validate:"gte=0"`
	CategoryCounts        map[string]int `json:"categoryCounts" validate:"dive,gte=0"`
	QuizzesCompleted      int            `json:"quizzesCompleted" validate:"gte=0"`
	PerfectQuizzes        int            `json:"perfectQuizzes" validate:"gte=0"`
	PronunciationAttempts int            `json:"pronunciationAttempts" validate:"gte=0"`
	GoodPronunciations    int            `json:"goodPronunciations" validate:"gte=0"`
	WordsLookedUp         int            `json:"wordsLookedUp" validate:"gte=0"`
	WordsSaved            int            `json:"wordsSaved" validate:"gte=0"`
}
