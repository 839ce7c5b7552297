package khmerseg

import (
	"errors"
	"io"
	"slices"
	"testing"
)

// Khmer test words.
const (
	wSuosdei   = "សួស្តី"
	wPhseng    = "ផ្សេង"
	wKhnhom    = "ខ្ញុំ"
	wSrolanh   = "ស្រលាញ់"
	wKampuchea = "កម្ពុជា"
	wThor      = "ធម៌"
	wSamay     = "សម័យ"
	wPhsengRep = "ផ្សេងៗ"
	wKampu     = "កម្ពុ"
)

type sliceWordReader struct {
	words []string
	index int
	err   error
}

func (r *sliceWordReader) Next() (string, error) {
	if r.index >= len(r.words) {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	r.index++
	return r.words[r.index-1], nil
}

func TestLexiconContains(t *testing.T) {
	lex := NewLexicon([]string{wKhnhom, wSrolanh, wKampuchea, wKampu, "", wKhnhom})
	if lex.Size() != 4 {
		t.Fatalf("expected 4 words, have %d", lex.Size())
	}
	for _, w := range []string{wKhnhom, wSrolanh, wKampuchea, wKampu} {
		if !lex.Contains(w) {
			t.Fatalf("expected lexicon to contain %q", w)
		}
	}
	for _, w := range []string{"", "ក", "កម", wKampuchea + "ា", "abc"} {
		if lex.Contains(w) {
			t.Fatalf("did not expect lexicon to contain %q", w)
		}
	}
	if lex.MaxWordLength() != 7 {
		t.Fatalf("expected max word length 7, have %d", lex.MaxWordLength())
	}
}

func TestLexiconPrefixes(t *testing.T) {
	lex := NewLexicon([]string{wKampu, wKampuchea, wKhnhom})
	text := []rune(wKhnhom + wKampuchea + wKhnhom)
	var ends, ids []int
	for end, id := range lex.Prefixes(text, 5) {
		ends = append(ends, end)
		ids = append(ids, id)
	}
	if !slices.Equal(ends, []int{10, 12}) {
		t.Fatalf("expected prefix ends [10 12], have %v", ends)
	}
	if lex.Word(ids[0]) != wKampu || lex.Word(ids[1]) != wKampuchea {
		t.Fatalf("unexpected prefix words %q, %q", lex.Word(ids[0]), lex.Word(ids[1]))
	}
	n := 0
	for range lex.Prefixes(text, 1) {
		n++
	}
	if n != 0 {
		t.Fatalf("did not expect prefixes in the middle of a word, have %d", n)
	}
	for end := range lex.Prefixes(text, 5) {
		if end != 10 {
			t.Fatalf("expected iteration to stop after first prefix")
		}
		break
	}
}

func TestEmptyLexicon(t *testing.T) {
	for _, lex := range []*Lexicon{nil, NewLexicon(nil)} {
		if lex.Contains(wKhnhom) || lex.Size() != 0 || lex.MaxWordLength() != 0 {
			t.Fatalf("expected empty lexicon to be empty")
		}
		for range lex.Prefixes([]rune(wKhnhom), 0) {
			t.Fatalf("did not expect prefixes in empty lexicon")
		}
	}
}

func TestLoadLexiconReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := LoadLexicon("broken", &sliceWordReader{words: []string{wKhnhom}, err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected reader error to be wrapped, got %v", err)
	}
}

func TestLexiconSkipsNonBMP(t *testing.T) {
	lex, err := LoadLexicon("emoji", &sliceWordReader{words: []string{"\U0001F600", wKhnhom}})
	if err != nil {
		t.Fatal(err)
	}
	if lex.Size() != 1 || !lex.Contains(wKhnhom) || lex.Contains("\U0001F600") {
		t.Fatalf("expected only the BMP word to be indexed")
	}
}

func TestLexiconTrieStats(t *testing.T) {
	lex := NewLexicon([]string{wKhnhom, wSrolanh, wKampuchea})
	stats := lex.Stats()
	if stats.UsedSlots == 0 || stats.TotalSlots < stats.UsedSlots {
		t.Fatalf("implausible trie stats: %+v", stats)
	}
	if r := stats.FillRatio(); r <= 0 || r > 1 {
		t.Fatalf("fill ratio out of range: %f", r)
	}
}

func TestLexiconBuilderFilters(t *testing.T) {
	b := NewLexiconBuilder("test")
	for _, w := range []string{
		"  " + wKhnhom + " ",
		"ក", // valid single word
		"ឃ", // invalid single character
		wPhsengRep,
		"្កា",
		wKhnhom + "ឬ" + wKampuchea,
		"ឬ",
	} {
		b.Add(w)
	}
	if err := b.AddAll(&sliceWordReader{words: []string{wKampuchea}}); err != nil {
		t.Fatal(err)
	}
	lex, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{wKhnhom, "ក", wKampuchea, "ឬ"} {
		if !lex.Contains(w) {
			t.Fatalf("expected builder lexicon to contain %q", w)
		}
	}
	for _, w := range []string{"ឃ", wPhsengRep, "្កា", wKhnhom + "ឬ" + wKampuchea} {
		if lex.Contains(w) {
			t.Fatalf("expected builder to drop %q", w)
		}
	}
}

func TestLexiconBuilderVariants(t *testing.T) {
	ta := "ស្តី" // Coeng Ta
	da := "ស្ឍី" // Coeng Da
	lex, err := NewLexiconBuilder("variants").build(ta)
	if err != nil {
		t.Fatal(err)
	}
	if !lex.Contains(ta) || !lex.Contains(da) {
		t.Fatalf("expected Coeng Ta and Coeng Da spellings")
	}
	lex, err = NewLexiconBuilder("plain").WithoutVariants().build(ta)
	if err != nil {
		t.Fatal(err)
	}
	if lex.Contains(da) {
		t.Fatalf("did not expect variants")
	}
}

func (b *LexiconBuilder) build(words ...string) (*Lexicon, error) {
	for _, w := range words {
		b.Add(w)
	}
	return b.Build()
}

func TestVariants(t *testing.T) {
	// ក + coeng Ro + coeng Ka  ⇄  ក + coeng Ka + coeng Ro
	roFirst := "ក្រ្កា"
	roLast := "ក្ក្រា"
	if v := variants(roFirst); !slices.Equal(v, []string{roLast}) {
		t.Fatalf("expected Coeng Ro variant %q, have %q", roLast, v)
	}
	if v := variants(roLast); !slices.Equal(v, []string{roFirst}) {
		t.Fatalf("expected Coeng Ro variant %q, have %q", roFirst, v)
	}
	if v := variants(wKhnhom); len(v) != 0 {
		t.Fatalf("did not expect variants for %q, have %q", wKhnhom, v)
	}
	if v := variants("abc"); v != nil {
		t.Fatalf("did not expect variants for Latin text")
	}
}
