// internal/words/words.go
//
// Word catalog for the hangman engine.
//
// Responsibilities:
//   - Load the built-in catalog embedded in the assets package.
//   - Merge an optional external curriculum file over it (whole categories
//     are replaced, never merged word by word).
//   - Answer lookups by category and word, never failing hard.
//
// Curriculum file (JSON):
//
//	{"categories": [{"name": "...", "subject": "...", "gradeBand": "...",
//	  "standard": "...", "description": "...",
//	  "words": [{"word": "...", "hint": "...", "definition": "...",
//	             "funFact": "...", "essentialQuestion": "..."}]}]}
//
// snake_case spellings (grade_band, fun_fact, essential_question) are accepted too.
//
// Constraints:
//   • Words are trimmed, uppercased and must contain only letters and single
//     interior spaces.
//   • Every category keeps at least one word.
//   • A missing or malformed curriculum file is logged and ignored.

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/hangman/assets"
)

// DefaultCategory is used whenever a requested category is unknown.
const DefaultCategory = "Technology"

// Entry is a single guessable word with its hint and optional enrichment fields.
type Entry struct {
	Word              string `json:"word"`
	Hint              string `json:"hint"`
	Definition        string `json:"definition,omitempty"`
	FunFact           string `json:"funFact,omitempty"`
	EssentialQuestion string `json:"essentialQuestion,omitempty"`
	Subject           string `json:"subject,omitempty"`
	GradeBand         string `json:"gradeBand,omitempty"`
	Standard          string `json:"standard,omitempty"`
	Description       string `json:"description,omitempty"`
}

// Metadata holds category-level defaults.
type Metadata struct {
	Subject     string `json:"subject,omitempty"`
	GradeBand   string `json:"gradeBand,omitempty"`
	Standard    string `json:"standard,omitempty"`
	Description string `json:"description,omitempty"`
}

// Category is a named, ordered list of entries.
type Category struct {
	Name string
	Metadata
	Words []Entry
}

// Catalog is read-only after Load.
type Catalog struct {
	names  []string
	byName map[string]*Category
}

// rawCatalog / rawCategory / rawEntry mirror the JSON documents. Categories and
// entries are kept as raw messages so one malformed item doesn't sink the rest.
type rawCatalog struct {
	Categories []json.RawMessage `json:"categories"`
}

type rawCategory struct {
	Name           string            `json:"name"`
	Subject        string            `json:"subject"`
	GradeBand      string            `json:"gradeBand"`
	GradeBandSnake string            `json:"grade_band"`
	Standard       string            `json:"standard"`
	Description    string            `json:"description"`
	Words          []json.RawMessage `json:"words"`
}

type rawEntry struct {
	Word                   string `json:"word"`
	Hint                   string `json:"hint"`
	Definition             string `json:"definition"`
	FunFact                string `json:"funFact"`
	FunFactSnake           string `json:"fun_fact"`
	EssentialQuestion      string `json:"essentialQuestion"`
	EssentialQuestionSnake string `json:"essential_question"`
	Subject                string `json:"subject"`
	GradeBand              string `json:"gradeBand"`
	GradeBandSnake         string `json:"grade_band"`
	Standard               string `json:"standard"`
	Description            string `json:"description"`
}

// Load builds the catalog from the embedded defaults and, when curriculumPath
// names a readable file, overlays its categories. Only a broken built-in
// catalog is an error.
func Load(curriculumPath string) (*Catalog, error) {
	raw, err := assets.BuiltinCatalog()
	if err != nil {
		return nil, fmt.Errorf("words: read builtin catalog: %w", err)
	}
	builtin, err := parseCategories(raw)
	if err != nil {
		return nil, fmt.Errorf("words: parse builtin catalog: %w", err)
	}
	if len(builtin) == 0 {
		return nil, errors.New("words: builtin catalog is empty")
	}

	c := &Catalog{byName: make(map[string]*Category, len(builtin))}
	for _, cat := range builtin {
		c.put(cat)
	}

	if curriculumPath == "" {
		return c, nil
	}
	data, err := os.ReadFile(curriculumPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", curriculumPath).Msg("failed to read curriculum categories")
		}
		return c, nil
	}
	extra, err := parseCategories(data)
	if err != nil {
		log.Warn().Err(err).Str("path", curriculumPath).Msg("failed to load curriculum categories")
		return c, nil
	}
	for _, cat := range extra {
		c.put(cat)
	}
	log.Info().Str("path", curriculumPath).Int("categories", len(extra)).Msg("curriculum categories loaded")
	return c, nil
}

// put inserts or replaces a category, keeping its original position when replacing.
func (c *Catalog) put(cat *Category) {
	if _, ok := c.byName[cat.Name]; !ok {
		c.names = append(c.names, cat.Name)
	}
	c.byName[cat.Name] = cat
}

// parseCategories decodes a catalog document. Individual malformed categories
// and entries are skipped; only an unreadable top level is an error.
func parseCategories(data []byte) ([]*Category, error) {
	var doc rawCatalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make([]*Category, 0, len(doc.Categories))
	for _, rc := range doc.Categories {
		var cat rawCategory
		if err := json.Unmarshal(rc, &cat); err != nil {
			log.Debug().Err(err).Msg("skipping malformed category")
			continue
		}
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			continue
		}
		meta := Metadata{
			Subject:     cat.Subject,
			GradeBand:   lo.CoalesceOrEmpty(cat.GradeBand, cat.GradeBandSnake),
			Standard:    cat.Standard,
			Description: cat.Description,
		}
		entries := lo.FilterMap(cat.Words, func(rw json.RawMessage, _ int) (Entry, bool) {
			return parseEntry(rw, meta)
		})
		if len(entries) == 0 {
			continue
		}
		out = append(out, &Category{Name: name, Metadata: meta, Words: entries})
	}
	return out, nil
}

// parseEntry normalizes one word entry, applying category metadata to the
// fields the entry leaves empty.
func parseEntry(data json.RawMessage, meta Metadata) (Entry, bool) {
	var re rawEntry
	if err := json.Unmarshal(data, &re); err != nil {
		log.Debug().Err(err).Msg("skipping malformed word entry")
		return Entry{}, false
	}
	word, ok := NormalizeWord(re.Word)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Word:              word,
		Hint:              lo.CoalesceOrEmpty(re.Hint, re.Definition),
		Definition:        re.Definition,
		FunFact:           lo.CoalesceOrEmpty(re.FunFact, re.FunFactSnake),
		EssentialQuestion: lo.CoalesceOrEmpty(re.EssentialQuestion, re.EssentialQuestionSnake),
		Subject:           lo.CoalesceOrEmpty(re.Subject, meta.Subject),
		GradeBand:         lo.CoalesceOrEmpty(re.GradeBand, re.GradeBandSnake, meta.GradeBand),
		Standard:          lo.CoalesceOrEmpty(re.Standard, meta.Standard),
		Description:       lo.CoalesceOrEmpty(re.Description, meta.Description),
	}, true
}

// NormalizeWord uppercases s, trims it and collapses interior whitespace to
// single spaces. It reports false when the result is empty or holds anything
// other than letters and spaces.
func NormalizeWord(s string) (string, bool) {
	w := strings.Join(strings.Fields(strings.ToUpper(s)), " ")
	if w == "" {
		return "", false
	}
	for _, r := range w {
		if r != ' ' && !unicode.IsLetter(r) {
			return "", false
		}
	}
	return w, true
}

// Names returns category names in load order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Category returns the named category.
func (c *Catalog) Category(name string) (*Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// NormalizeCategory maps unknown names to DefaultCategory (or, should that be
// missing, to the first loaded category).
func (c *Catalog) NormalizeCategory(name string) string {
	if _, ok := c.byName[name]; ok {
		return name
	}
	if _, ok := c.byName[DefaultCategory]; ok {
		return DefaultCategory
	}
	return c.names[0]
}

// Lookup finds word in category. Game state may outlive catalog changes, so a
// miss yields a minimal entry rather than an error.
func (c *Catalog) Lookup(category, word string) Entry {
	if cat, ok := c.byName[category]; ok {
		if e, found := lo.Find(cat.Words, func(e Entry) bool { return e.Word == word }); found {
			return e
		}
	}
	return Entry{Word: word}
}

// Len reports the number of categories.
func (c *Catalog) Len() int { return len(c.names) }
