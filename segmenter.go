package khmerseg

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// DefaultSeparator is used by Join if no separator is given.
const DefaultSeparator = "\u200B"

// Segmenter splits Khmer text into words, punctuation, quotes and marks.
//
// Text is first pre-split into word-script runs and break characters. Each
// run is segmented by a dynamic program over lexicon matches and fallback
// units, weighted by word frequencies. Finally a pipeline of rules repairs
// boundaries which the lexicon cannot resolve.
//
// A Segmenter is immutable and safe for concurrent use.
type Segmenter struct {
	lex       *Lexicon
	engine    *engine
	rules     []Rule
	normalize bool
	form      norm.Form
	foreign   bool
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithRules replaces the default rule pipeline. Calling it without rules
// switches post-processing off.
func WithRules(rules ...Rule) Option {
	return func(s *Segmenter) {
		s.rules = slices.Clone(rules)
	}
}

// WithNormalization normalizes input text to form before segmentation.
// Segment offsets then refer to the normalized text.
func WithNormalization(form norm.Form) Option {
	return func(s *Segmenter) {
		s.normalize = true
		s.form = form
	}
}

// WithForeignRuns keeps runs of letters outside the Khmer script together
// as a single word, instead of splitting them into characters.
func WithForeignRuns(on bool) Option {
	return func(s *Segmenter) {
		s.foreign = on
	}
}

// New creates a segmenter for a lexicon and a frequency table. Either may be
// nil, meaning empty.
func New(lex *Lexicon, freq *FrequencyTable, opts ...Option) *Segmenter {
	s := &Segmenter{
		lex:   lex,
		rules: DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = newEngine(lex, freq, s.foreign)
	tracer().Debugf("segmenter: %d lexicon words, %d rules, unknown cost %.2f",
		lex.Size(), len(s.rules), s.engine.unknownCost)
	return s
}

// Segment splits text and returns the segment texts, in order. Their
// concatenation is text (after normalization, if configured). Empty text
// results in an empty slice.
func (s *Segmenter) Segment(text string) []string {
	return Texts(s.Segments(text))
}

// Segments splits text into classified segments with byte offsets.
func (s *Segmenter) Segments(text string) []Segment {
	if s.normalize {
		text = s.form.String(text)
	}
	if text == "" {
		return []Segment{}
	}
	runes := []rune(text)
	offsets := runeByteOffsets(text)
	segs := make([]Segment, 0, len(runes)/3+1)
	for _, sp := range presplit(runes) {
		if sp.run {
			segs = s.engine.segment(text, offsets, runes[sp.from:sp.to], sp.from, segs)
			continue
		}
		from, to := offsets[sp.from], offsets[sp.to]
		segs = append(segs, Segment{Text: text[from:to], Start: from, End: to, Tag: sp.tag})
	}
	return ApplyRules(segs, s.rules, s.lex)
}

// Join segments text and joins the segments with sep. An empty sep selects
// DefaultSeparator, the zero width space.
func (s *Segmenter) Join(text string, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	return joinTexts(s.Segments(text), sep)
}

// SegmentAll segments a batch of texts with at most workers goroutines
// (unlimited if workers <= 0). Result i belongs to texts[i]. SegmentAll
// stops early when ctx is cancelled.
func (s *Segmenter) SegmentAll(ctx context.Context, texts []string, workers int) ([][]string, error) {
	results := make([][]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.Segment(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("segmenting batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("segmenting batch: %w", err)
	}
	return results, nil
}
