// Package learning builds the educational extras shown with each word: a
// short definition and fun fact from the AI collaborator, plus curriculum
// metadata from the catalog. Enrichment never fails a game; collaborator
// errors are replaced by generic text.
package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/hangman/internal/ai"
	"github.com/robalobadob/hangman/internal/words"
)

// Generator is the AI collaborator.
type Generator interface {
	GenerateText(ctx context.Context, req ai.Request) (string, error)
}

// Info is the enrichment attached to a game.
type Info struct {
	Category          string `json:"category"`
	Definition        string `json:"definition"`
	FunFact           string `json:"funFact"`
	Subject           string `json:"subject,omitempty"`
	GradeBand         string `json:"gradeBand,omitempty"`
	Standard          string `json:"standard,omitempty"`
	Description       string `json:"description,omitempty"`
	EssentialQuestion string `json:"essentialQuestion,omitempty"`
	Hint              string `json:"hint"`
}

// Service produces Info and hints. A nil generator behaves as an
// unconfigured collaborator.
type Service struct {
	gen Generator
}

// NewService returns a Service backed by gen (which may be nil).
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

func (s *Service) generate(ctx context.Context, req ai.Request) (string, error) {
	if s.gen == nil {
		return "", ai.ErrNotConfigured
	}
	return s.gen.GenerateText(ctx, req)
}

// Info enriches entry. meta supplies defaults for fields the entry lacks,
// which matters for synthetic entries of words no longer in the catalog.
func (s *Service) Info(ctx context.Context, entry words.Entry, category string, meta words.Metadata) *Info {
	definition, funFact := s.definitionAndFact(ctx, entry.Word, category)
	return &Info{
		Category:          category,
		Definition:        definition,
		FunFact:           funFact,
		Subject:           lo.CoalesceOrEmpty(entry.Subject, meta.Subject),
		GradeBand:         lo.CoalesceOrEmpty(entry.GradeBand, meta.GradeBand),
		Standard:          lo.CoalesceOrEmpty(entry.Standard, meta.Standard),
		Description:       lo.CoalesceOrEmpty(entry.Description, meta.Description),
		EssentialQuestion: entry.EssentialQuestion,
		Hint:              entry.Hint,
	}
}

// definitionAndFact asks the collaborator; only a failed call falls back to
// generic text. A reply without the expected labels yields empty strings.
func (s *Service) definitionAndFact(ctx context.Context, word, category string) (string, string) {
	reply, err := s.generate(ctx, ai.Request{
		Prompt:      learningPrompt(word, category),
		System:      fmt.Sprintf("CRITICAL: Generate accurate content exclusively about '%s'. Verify your response is about '%s' and not any other word. Be factually correct.", word, word),
		MaxTokens:   150,
		Temperature: 0.4,
	})
	if err != nil {
		log.Warn().Err(err).Str("word", word).Str("category", category).Msg("learning info fallback")
		return Fallback(category)
	}
	return ParseLearningReply(reply)
}

// Fallback is the generic definition and fun fact for category.
func Fallback(category string) (definition, funFact string) {
	return fmt.Sprintf("A word from the %s category.", category),
		fmt.Sprintf("This word is part of the %s vocabulary.", category)
}

// ParseLearningReply extracts the DEFINITION: and FUN_FACT: lines from a
// free-text reply. Other lines are ignored; missing labels give "".
func ParseLearningReply(reply string) (definition, funFact string) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DEFINITION:"):
			definition = strings.TrimSpace(strings.TrimPrefix(line, "DEFINITION:"))
		case strings.HasPrefix(line, "FUN_FACT:"):
			funFact = strings.TrimSpace(strings.TrimPrefix(line, "FUN_FACT:"))
		}
	}
	return definition, funFact
}

// Hint asks the collaborator for a short hint about word given the player's
// progress. Errors are returned as-is so callers can tell "not configured"
// from a failed request.
func (s *Service) Hint(ctx context.Context, word, category, masked string) (string, error) {
	return s.generate(ctx, ai.Request{
		Prompt:      hintPrompt(word, category, masked),
		System:      fmt.Sprintf("CRITICAL INSTRUCTION: Give a hint specifically and exclusively about the word '%s'. Double-check your hint is about '%s' and not any other word. Be factually accurate. No preambles.", word, word),
		MaxTokens:   80,
		Temperature: 0.3,
	})
}

func learningPrompt(word, category string) string {
	return fmt.Sprintf(`CRITICAL: Create educational content about the EXACT word "%[1]s" ONLY.

THE WORD IS: %[1]s
Category: %[2]s

Generate factually accurate educational content about "%[1]s" and ONLY "%[1]s".

Respond in this exact format:

DEFINITION: [Write a clear, age-appropriate definition of "%[1]s" in one sentence]

FUN_FACT: [Write an interesting, educational fun fact about "%[1]s" in one sentence]

Double-check your content is about "%[1]s" before responding.`, word, category)
}

func hintPrompt(word, category, masked string) string {
	return fmt.Sprintf(`CRITICAL: You must give a hint about the EXACT word "%[1]s". Do not confuse it with other words.

THE WORD IS: %[1]s
Category: %[2]s
Current progress: %[3]s

Provide a factually accurate hint that uniquely describes "%[1]s" and ONLY "%[1]s".
Maximum 12 words. Start directly with the hint - no preambles.`, word, category, masked)
}
