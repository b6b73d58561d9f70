package daily

// Outcome of a finished daily game.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// Streak is the per-category daily record.
type Streak struct {
	Current          int     `json:"current"`
	Best             int     `json:"best"`
	LastDate         string  `json:"lastDate,omitempty"`
	LastOutcome      Outcome `json:"lastOutcome,omitempty"`
	LastAttemptsLeft int     `json:"lastAttemptsLeft"`
	LastGuessCount   int     `json:"lastGuessCount"`
}

// RecordOutcome folds a finished game on today into s and reports whether s
// changed. A category updates at most once per day.
//
// A win extends the streak only when yesterday was also a win; otherwise it
// restarts at 1. A loss resets it to 0.
func (s *Streak) RecordOutcome(win bool, attemptsLeft, guessCount int, today string) bool {
	if s.LastDate == today {
		return false
	}
	if win {
		if s.LastDate == PreviousDateKey(today) && s.LastOutcome == OutcomeWin {
			s.Current++
		} else {
			s.Current = 1
		}
		s.Best = max(s.Best, s.Current)
		s.LastOutcome = OutcomeWin
	} else {
		s.Current = 0
		s.LastOutcome = OutcomeLose
	}
	s.LastDate = today
	s.LastAttemptsLeft = attemptsLeft
	s.LastGuessCount = guessCount
	return true
}
