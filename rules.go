package khmerseg

import (
	"slices"
	"unicode/utf8"
)

// Membership is the lexicon view of the rule pipeline. *Lexicon implements it.
type Membership interface {
	Contains(word string) bool
}

// Rule is a deterministic transformation of a segment sequence, correcting a
// class of boundary errors. Rules are pure: they return a new sequence and
// leave their input untouched. They consult the lexicon only to re-validate
// fragments; lex may be nil.
//
// Every rule is idempotent: applying it to its own output is a no-op.
type Rule struct {
	Name  string
	Apply func(segs []Segment, lex Membership) []Segment
}

// The rules of the default pipeline.
var (
	// QuoteIsolation makes every quotation glyph a segment of its own,
	// tagged Quote.
	QuoteIsolation = Rule{Name: "quote-isolation", Apply: isolateQuotes}
	// RepetitionMarkSplit splits the repetition mark ៗ off the word it
	// follows, into a segment of its own tagged Mark.
	RepetitionMarkSplit = Rule{Name: "repetition-mark-split", Apply: splitRepetitionMarks}
	// SuffixSignReattachment merges a consonant carrying one of the signs
	// ់ ៍ ៌ (or ិ៍) into the preceding word.
	SuffixSignReattachment = Rule{Name: "suffix-sign-reattachment", Apply: reattachSuffixSigns}
	// PrefixSignReattachment merges a consonant carrying ័ into the
	// following word.
	PrefixSignReattachment = Rule{Name: "prefix-sign-reattachment", Apply: reattachPrefixSigns}
)

// DefaultRules returns the default rule pipeline. Quote isolation comes
// first, so that sign reattachment never sees a quote glyph as word text.
func DefaultRules() []Rule {
	return []Rule{
		QuoteIsolation,
		RepetitionMarkSplit,
		SuffixSignReattachment,
		PrefixSignReattachment,
	}
}

// ApplyRules runs segs through a rule pipeline, in order.
func ApplyRules(segs []Segment, rules []Rule, lex Membership) []Segment {
	for _, rule := range rules {
		segs = rule.Apply(segs, lex)
	}
	return segs
}

func isWord(lex Membership, text string) bool {
	return lex != nil && lex.Contains(text)
}

// --- Quotes ----------------------------------------------------------------

func isolateQuotes(segs []Segment, _ Membership) []Segment {
	return splitOut(segs, IsQuote, Quote)
}

// --- Repetition mark -------------------------------------------------------

func splitRepetitionMarks(segs []Segment, _ Membership) []Segment {
	return splitOut(segs, func(r rune) bool { return r == repetitionMark }, Mark)
}

// splitOut cuts every rune matching pred out of the segments, as a single-rune
// segment tagged tag. The remaining pieces keep their tag. Quote segments
// are left alone, except for a quote rule itself.
func splitOut(segs []Segment, pred func(rune) bool, tag Tag) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if seg.Tag == Quote && tag != Quote {
			out = append(out, seg)
			continue
		}
		from := 0
		for i, r := range seg.Text {
			if !pred(r) {
				continue
			}
			if i > from {
				out = append(out, seg.slice(from, i, seg.Tag))
			}
			to := i + utf8.RuneLen(r)
			out = append(out, seg.slice(i, to, tag))
			from = to
		}
		if from < len(seg.Text) {
			out = append(out, seg.slice(from, len(seg.Text), seg.Tag))
		}
	}
	return out
}

// --- Suffix signs ----------------------------------------------------------

// isSuffixFragment is true for consonant+sign, sign one of ់ ៍ ៌, and for
// consonant+ិ+៍.
func isSuffixFragment(text string) bool {
	var r [4]rune
	n := 0
	for _, c := range text {
		if n == len(r) {
			return false
		}
		r[n] = c
		n++
	}
	switch {
	case n == 2:
		return IsConsonant(r[0]) && (r[1] == bantoc || r[1] == toandakhiat || r[1] == robat)
	case n == 3:
		return IsConsonant(r[0]) && r[1] == vowelI && r[2] == toandakhiat
	}
	return false
}

func reattachSuffixSigns(segs []Segment, lex Membership) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if k := len(out) - 1; k >= 0 && seg.Tag == Word && out[k].Tag == Word &&
			isSuffixFragment(seg.Text) && !isWord(lex, seg.Text) {
			out[k] = merge(out[k], seg)
			continue
		}
		out = append(out, seg)
	}
	return out
}

// --- Prefix signs ----------------------------------------------------------

// isPrefixFragment is true for consonant+័.
func isPrefixFragment(text string) bool {
	c, size := utf8.DecodeRuneInString(text)
	if !IsConsonant(c) {
		return false
	}
	s, size2 := utf8.DecodeRuneInString(text[size:])
	return s == samyokSannya && size+size2 == len(text)
}

// reattachPrefixSigns works right to left, so that a chain of fragments
// collapses onto the word which ends it.
func reattachPrefixSigns(segs []Segment, lex Membership) []Segment {
	out := make([]Segment, 0, len(segs))
	for i := len(segs) - 1; i >= 0; i-- {
		seg := segs[i]
		if k := len(out) - 1; k >= 0 && seg.Tag == Word && out[k].Tag == Word &&
			isPrefixFragment(seg.Text) && !isWord(lex, seg.Text) {
			out[k] = merge(seg, out[k])
			continue
		}
		out = append(out, seg)
	}
	slices.Reverse(out)
	return out
}
