package khmerseg

import (
	"fmt"
	"strings"
)

// Tag classifies a segment.
type Tag uint8

const (
	Word        Tag = iota // lexicon word, number, acronym or fallback unit
	Punctuation            // punctuation and whitespace
	Quote                  // quotation glyph
	Mark                   // repetition mark ៗ, combining sign without a base
)

func (t Tag) String() string {
	switch t {
	case Word:
		return "word"
	case Punctuation:
		return "punctuation"
	case Quote:
		return "quote"
	case Mark:
		return "mark"
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Segment is a classified span of the input text. Start and End are byte
// offsets, End is exclusive; text[s.Start:s.End] == s.Text.
type Segment struct {
	Text  string
	Start int
	End   int
	Tag   Tag
}

func (s Segment) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", s.Tag, s.Text, s.Start, s.End)
}

// Texts returns the text values of segs, in order.
func Texts(segs []Segment) []string {
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return texts
}

// CheckCoverage verifies that segs partition text: they are ordered,
// contiguous, non-empty, and their concatenation is text.
func CheckCoverage(text string, segs []Segment) error {
	pos := 0
	for i, s := range segs {
		if s.Start != pos {
			return fmt.Errorf("segment %d starts at %d, expected %d", i, s.Start, pos)
		}
		if s.End <= s.Start || s.End > len(text) {
			return fmt.Errorf("segment %d has invalid span [%d:%d]", i, s.Start, s.End)
		}
		if text[s.Start:s.End] != s.Text {
			return fmt.Errorf("segment %d: text[%d:%d]=%q, segment text %q",
				i, s.Start, s.End, text[s.Start:s.End], s.Text)
		}
		pos = s.End
	}
	if pos != len(text) {
		return fmt.Errorf("segments end at %d, text has length %d", pos, len(text))
	}
	return nil
}

// merge joins two adjacent segments into a word segment.
func merge(a, b Segment) Segment {
	assert(a.End == b.Start, "merge of non-adjacent segments")
	return Segment{Text: a.Text + b.Text, Start: a.Start, End: b.End, Tag: Word}
}

// slice cuts the byte range [from:to) (relative to s.Text) out of s.
func (s Segment) slice(from, to int, tag Tag) Segment {
	return Segment{Text: s.Text[from:to], Start: s.Start + from, End: s.Start + to, Tag: tag}
}

func joinTexts(segs []Segment, sep string) string {
	var sb strings.Builder
	for i, s := range segs {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
