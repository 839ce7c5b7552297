package khmerseg

import (
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/derekparker/trie"
	"golang.org/x/text/unicode/norm"
)

// LexiconBuilder stages raw word list entries and cleans them up before they
// are compiled into a Lexicon. It performs the cleanup which raw Khmer word
// lists typically need:
//
//   - entries are normalized to NFC and trimmed
//   - orthographic variants of every entry are added (Coeng Ta/Da, Coeng Ro order)
//   - single characters which cannot stand alone as a word are dropped
//   - entries containing the repetition mark ៗ are dropped
//   - entries starting with a Coeng are dropped
//   - compounds around ឬ ("or") are dropped if all their parts are words
//
// Use NewLexicon or LoadLexicon to compile a word list as-is.
type LexiconBuilder struct {
	name     string
	staged   *trie.Trie
	count    int
	variants bool
}

type stagedEntry struct {
	variant bool // true for generated variants
}

// NewLexiconBuilder creates a builder for a lexicon called name.
func NewLexiconBuilder(name string) *LexiconBuilder {
	return &LexiconBuilder{
		name:     name,
		staged:   trie.New(),
		variants: true,
	}
}

// WithoutVariants switches off variant generation.
func (b *LexiconBuilder) WithoutVariants() *LexiconBuilder {
	b.variants = false
	return b
}

// Add stages a word together with its orthographic variants.
func (b *LexiconBuilder) Add(word string) {
	word = norm.NFC.String(strings.TrimSpace(word))
	if word == "" {
		return
	}
	if r, size := utf8.DecodeRuneInString(word); size == len(word) && !IsValidSingleWord(r) {
		return
	}
	b.stage(word, false)
	if !b.variants {
		return
	}
	for _, v := range variants(word) {
		b.stage(v, true)
	}
}

func (b *LexiconBuilder) stage(word string, variant bool) {
	if _, found := b.staged.Find(word); found {
		return
	}
	b.staged.Add(word, stagedEntry{variant: variant})
	b.count++
}

// AddAll stages every word of a streaming source.
func (b *LexiconBuilder) AddAll(reader WordReader) error {
	for {
		word, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		b.Add(word)
	}
}

// Len returns the number of staged entries, variants included.
func (b *LexiconBuilder) Len() int {
	return b.count
}

// Build applies the cleanup filters and compiles the remaining entries.
func (b *LexiconBuilder) Build() (*Lexicon, error) {
	keys := b.staged.Keys()
	sort.Strings(keys)
	words := make([]string, 0, len(keys))
	dropped, generated := 0, 0
	for _, w := range keys {
		if b.rejected(w) {
			dropped++
			continue
		}
		if node, found := b.staged.Find(w); found {
			if e, ok := node.Meta().(stagedEntry); ok && e.variant {
				generated++
			}
		}
		words = append(words, w)
	}
	tracer().Debugf("lexicon builder %s: %d staged, %d dropped, %d variants",
		b.name, len(keys), dropped, generated)
	return LoadLexicon(b.name, &wordSlice{words: words})
}

func (b *LexiconBuilder) rejected(w string) bool {
	if strings.ContainsRune(w, repetitionMark) {
		return true
	}
	if strings.HasPrefix(w, string(coeng)) {
		return true
	}
	return b.isOrCompound(w)
}

// isOrCompound is true for entries like "A ឬ B" where all of the parts
// around ឬ are words on their own.
func (b *LexiconBuilder) isOrCompound(w string) bool {
	or := string(letterOr)
	if w == or || !strings.Contains(w, or) {
		return false
	}
	for _, part := range strings.Split(w, or) {
		if part == "" {
			continue
		}
		if _, found := b.staged.Find(part); !found {
			return false
		}
	}
	return true
}
