package khmerseg

import (
	"fmt"
	"io"
	"iter"
	"unicode/utf8"
)

// WordReader yields lexicon words one-by-one.
// It should return io.EOF when the stream is exhausted.
type WordReader interface {
	Next() (word string, err error)
}

// Lexicon is an immutable set of known words.
//
// Words are compiled into a double-array trie. The trie is the lexicon's
// prefix index: walking it along a text yields every lexicon word starting
// at a given position in a single pass.
//
// A Lexicon is read-only after construction and may be shared between
// goroutines. The nil *Lexicon is a valid, empty lexicon.
type Lexicon struct {
	trie       *lexiconTrie
	ends       *wordStore // trie state → word ID
	words      []string   // by word ID
	maxLen     int        // in runes
	Identifier string     // Identifies the lexicon
}

// NewLexicon compiles a lexicon from an in-memory word list.
// Empty strings and duplicates are ignored.
func NewLexicon(words []string) *Lexicon {
	lex, err := LoadLexicon("memory", &wordSlice{words: words})
	assert(err == nil, "in-memory word list failed to load")
	return lex
}

// LoadLexicon compiles a lexicon from a streaming, format-agnostic source.
//
// File format parsing is outside the base package. Use adapters like
// package wordlist to parse concrete formats and feed this API.
// Words are stored as given; entries which contain code points beyond the
// Basic Multilingual Plane cannot be indexed and are skipped.
func LoadLexicon(name string, reader WordReader) (lex *Lexicon, err error) {
	type pendingWord struct {
		node int
		id   int
	}
	trie := newLexiconTrie()
	pending := make([]pendingWord, 0, 1024)
	seen := make(map[string]struct{})
	lex = &Lexicon{
		trie:       trie,
		Identifier: fmt.Sprintf("lexicon: %s", name),
	}
	skipped := 0
	var word string
	for {
		word, err = reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading lexicon %s: %w", name, err)
		}
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		node, ok := trie.insert(word)
		if !ok {
			skipped++
			continue
		}
		seen[word] = struct{}{}
		pending = append(pending, pendingWord{node: node, id: len(lex.words)})
		lex.words = append(lex.words, word)
		lex.maxLen = max(lex.maxLen, utf8.RuneCountInString(word))
	}
	trie.compile()
	lex.ends = newWordStore(trie.dat.NStates())
	for _, p := range pending {
		state := trie.stateOf(p.node)
		if state == 0 {
			return nil, fmt.Errorf("no trie state for word %q after compilation", lex.words[p.id])
		}
		if err = lex.ends.Put(state, p.id); err != nil {
			return nil, err
		}
	}
	if skipped > 0 {
		tracer().Infof("%s: skipped %d words which cannot be indexed", lex.Identifier, skipped)
	}
	stats := lex.Stats()
	tracer().Infof("%s: %d words, max length %d", lex.Identifier, lex.Size(), lex.maxLen)
	tracer().Debugf("lexicon trie stats used=%d total=%d fill=%.2f maxStateID=%d sigma=%d",
		stats.UsedSlots, stats.TotalSlots, stats.FillRatio(), stats.MaxStateID, stats.Sigma)
	return lex, nil
}

// Contains reports whether word is a lexicon entry. Matching is exact.
func (lex *Lexicon) Contains(word string) bool {
	if lex == nil || word == "" {
		return false
	}
	_, ok := lex.ends.Get(int(lex.trie.dat.Walk([]rune(word))))
	return ok
}

// Prefixes yields every lexicon word which starts at text[start], as pairs
// (end, id) with text[start:end] == lex.Word(id), shortest first. Iteration
// stops as soon as no lexicon word continues the prefix.
func (lex *Lexicon) Prefixes(text []rune, start int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if lex == nil || start < 0 {
			return
		}
		c := lex.trie.cursor()
		for i := start; i < len(text); i++ {
			state := c.step(text[i])
			if state == 0 {
				return
			}
			if id, ok := lex.ends.Get(state); ok {
				if !yield(i+1, id) {
					return
				}
			}
		}
	}
}

// Word returns the word with the given ID, or "" for an unknown ID.
func (lex *Lexicon) Word(id int) string {
	if lex == nil || id < 0 || id >= len(lex.words) {
		return ""
	}
	return lex.words[id]
}

// Words iterates over all lexicon entries in ID order.
func (lex *Lexicon) Words() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if lex == nil {
			return
		}
		for id, w := range lex.words {
			if !yield(id, w) {
				return
			}
		}
	}
}

// Size returns the number of words in the lexicon.
func (lex *Lexicon) Size() int {
	if lex == nil {
		return 0
	}
	return len(lex.words)
}

// MaxWordLength returns the length of the longest word, in runes.
func (lex *Lexicon) MaxWordLength() int {
	if lex == nil {
		return 0
	}
	return lex.maxLen
}

// Stats reports density metrics for the trie index.
func (lex *Lexicon) Stats() TrieStats {
	if lex == nil || lex.trie == nil {
		return TrieStats{}
	}
	return lex.trie.stats
}

// --- Helpers ---------------------------------------------------------------

type wordSlice struct {
	words []string
	at    int
}

func (ws *wordSlice) Next() (string, error) {
	if ws.at >= len(ws.words) {
		return "", io.EOF
	}
	ws.at++
	return ws.words[ws.at-1], nil
}

func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return offsets
}
