package models

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RewardID    string `json:"reward_id,omitempty"`
}

type Reward struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	// BonusFreezes is added to the streak freeze allowance when granted.
	BonusFreezes int `json:"bonus_freezes,omitempty"`
	// BonusRestores is added to the streak restore allowance when granted.
	BonusRestores int `json:"bonus_restores,omitempty"`
	// Theme and FontFamily become selectable on a free account.
	Theme      string `json:"theme,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
	// WordsPerMinute raises the free reading speed limit.
	WordsPerMinute int `json:"words_per_minute,omitempty"`
}
