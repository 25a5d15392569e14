// Package generator supplies target text for typing tests.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/wordlist"
)

// ExtendCount is the number of words appended when words mode runs out.
const ExtendCount = 50

var (
	zenWords         = []string{"Stay", "calm", "and", "keep", "typing."}
	zenFallbackWords = []string{"Focus", "and", "breathe."}
)

// Generator produces randomized word sequences from a corpus.
type Generator struct {
	rnd    *rand.Rand
	corpus wordlist.Corpus
}

// New returns a Generator seeded with the current time.
func New(corpus wordlist.Corpus) *Generator {
	return NewWithSource(corpus, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(corpus wordlist.Corpus, src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src), corpus: corpus}
}

// Generate returns a fresh word sequence for mode. Only words mode honours
// count; quotes mode yields one quote and zen mode a fixed filler.
func (g *Generator) Generate(mode model.TestMode, count int) []string {
	switch mode {
	case model.ModeQuotes:
		return g.quote()
	case model.ModeZen:
		return append([]string(nil), zenWords...)
	default:
		return g.words(count)
	}
}

// Extend returns existing followed by more text for mode. The result is
// always longer than existing and never shares its backing array.
func (g *Generator) Extend(existing []string, mode model.TestMode) []string {
	var more []string
	switch mode {
	case model.ModeQuotes:
		more = g.quote()
	case model.ModeZen:
		more = zenFallbackWords
	default:
		more = g.words(ExtendCount)
	}
	out := make([]string, 0, len(existing)+len(more))
	out = append(out, existing...)
	return append(out, more...)
}

func (g *Generator) words(count int) []string {
	if count <= 0 {
		count = ExtendCount
	}
	if len(g.corpus.Words) == 0 {
		// Never hand back an empty sequence; the engine needs a target.
		return append([]string(nil), zenFallbackWords...)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.corpus.Words[g.rnd.Intn(len(g.corpus.Words))])
	}
	return result
}

func (g *Generator) quote() []string {
	if len(g.corpus.Quotes) == 0 {
		return g.words(ExtendCount)
	}
	q := g.corpus.Quotes[g.rnd.Intn(len(g.corpus.Quotes))]
	return strings.Split(q, " ")
}
