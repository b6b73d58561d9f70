package game

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// blank marks an unrevealed letter in a masked word.
const blank = "_"

// NormalizeLetter validates a single-letter guess and uppercases it.
func NormalizeLetter(s string) (string, error) {
	if utf8.RuneCountInString(s) != 1 {
		return "", ErrInvalidInput
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) {
		return "", ErrInvalidInput
	}
	return string(unicode.ToUpper(r)), nil
}

// MaskedWord renders word with unguessed letters as "_", one position per
// token, tokens joined by single spaces. Spaces and other non-letters are
// structural and always shown.
func MaskedWord(word string, guesses []string) string {
	parts := make([]string, 0, len(word))
	for _, r := range word {
		ch := string(r)
		if !unicode.IsLetter(r) || slices.Contains(guesses, ch) {
			parts = append(parts, ch)
		} else {
			parts = append(parts, blank)
		}
	}
	return strings.Join(parts, " ")
}

// Masked is MaskedWord for the round.
func (r *Round) Masked() string {
	return MaskedWord(r.Word, r.Guesses)
}

// Apply records an already-normalized letter.
//
// A repeated letter is rejected before the game-over check so it reports
// ErrAlreadyGuessed in every state. A miss costs one attempt; the round ends
// when every letter is revealed or attempts reach zero.
func (r *Round) Apply(letter string) error {
	if slices.Contains(r.Guesses, letter) {
		return ErrAlreadyGuessed
	}
	if r.GameOver {
		return ErrGameOver
	}

	r.Guesses = append(r.Guesses, letter)
	if !strings.Contains(r.Word, letter) {
		r.AttemptsLeft--
	}
	r.Win = !strings.Contains(r.Masked(), blank)
	r.GameOver = r.Win || r.AttemptsLeft <= 0
	return nil
}

// Revealed returns the word when the round is over and "" otherwise.
func (r *Round) Revealed() string {
	if r.GameOver {
		return r.Word
	}
	return ""
}

// GuessList is the guesses made so far, never nil, so clients always see a
// JSON array.
func (r *Round) GuessList() []string {
	if r.Guesses == nil {
		return []string{}
	}
	return r.Guesses
}
