/*
Package wordlist reads lexicon word lists.

A word list has one word per line. Leading and trailing whitespace is
ignored, as are empty lines and lines starting with '#'. If a line holds
tab-separated columns, the first column is the word; further columns, for
example counts, are ignored. A byte order mark at the start of the list is
skipped.
*/
package wordlist

import (
	"bufio"
	"io"
	"strings"

	"github.com/npillmayer/khmerseg"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'khmerseg'
func tracer() tracing.Trace {
	return tracing.Select("khmerseg")
}

const maxLineLength = 1 << 20

// Reader streams words from a word list.
type Reader struct {
	scanner *bufio.Scanner
	lines   int
}

// NewReader creates a Reader for a word list.
func NewReader(reader io.Reader) *Reader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	return &Reader{scanner: scanner}
}

// Next returns the next word. It returns io.EOF when exhausted.
func (r *Reader) Next() (string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		r.lines++
		if r.lines == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			line = line[:tab]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Lines returns the number of lines read so far.
func (r *Reader) Lines() int {
	return r.lines
}

// LoadLexicon compiles a word list as-is into a lexicon.
func LoadLexicon(name string, reader io.Reader) (*khmerseg.Lexicon, error) {
	return khmerseg.LoadLexicon(name, NewReader(reader))
}

// LoadCleanLexicon compiles a word list into a lexicon, normalizing and
// filtering entries and adding orthographic variants. See
// khmerseg.LexiconBuilder.
func LoadCleanLexicon(name string, reader io.Reader) (*khmerseg.Lexicon, error) {
	r := NewReader(reader)
	b := khmerseg.NewLexiconBuilder(name)
	if err := b.AddAll(r); err != nil {
		return nil, err
	}
	tracer().Debugf("word list %s: %d lines, %d staged entries", name, r.Lines(), b.Len())
	return b.Build()
}
