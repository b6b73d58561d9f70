package words

import (
	"strings"

	"github.com/samber/lo"
)

// Difficulty is a game tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// DefaultDifficulty is used for unknown tiers.
const DefaultDifficulty = Medium

// Settings binds a tier to its attempt budget and word-length window.
// Lengths are measured with spaces removed.
type Settings struct {
	MaxAttempts int `json:"maxAttempts"`
	MinLen      int `json:"minWordLength"`
	MaxLen      int `json:"maxWordLength"`
	AIHintCost  int `json:"aiHintCost"`
}

var difficultySettings = map[Difficulty]Settings{
	Easy:   {MaxAttempts: 8, MinLen: 3, MaxLen: 6, AIHintCost: 0},
	Medium: {MaxAttempts: 6, MinLen: 5, MaxLen: 10, AIHintCost: 0},
	Hard:   {MaxAttempts: 4, MinLen: 8, MaxLen: 20, AIHintCost: 1},
}

// NormalizeDifficulty maps s to a known tier, defaulting to Medium.
func NormalizeDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := difficultySettings[d]; ok {
		return d
	}
	return DefaultDifficulty
}

// SettingsFor returns the settings for d; unknown tiers get Medium's.
func SettingsFor(d Difficulty) Settings {
	return difficultySettings[NormalizeDifficulty(string(d))]
}

// LetterCount is the length of word ignoring spaces.
func LetterCount(word string) int {
	return len([]rune(strings.ReplaceAll(word, " ", "")))
}

// FilterByDifficulty keeps entries whose letter count fits d's window.
// An empty result falls back to the full list so a game can always start.
func FilterByDifficulty(entries []Entry, d Difficulty) []Entry {
	s := SettingsFor(d)
	out := lo.Filter(entries, func(e Entry, _ int) bool {
		n := LetterCount(e.Word)
		return n >= s.MinLen && n <= s.MaxLen
	})
	if len(out) == 0 {
		return entries
	}
	return out
}
