/*
Package loader opens lexicon and frequency files and creates segmenters
from them.

Files may be compressed. The compression is selected by file extension:
".zst" for Zstandard and ".lz4" for LZ4 frame format; everything else is
read as is. The format of the decompressed content is selected by the
inner extension: frequency tables are JSON (package freqjson), word lists
are line oriented text (package wordlist).

Example usage:

	seg, err := loader.LoadSegmenter(loader.Options{
		Dictionary:  "khmer_dictionary_words.txt.zst",
		Frequencies: "khmer_word_frequencies.json",
		Clean:       true,
	})
*/
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/npillmayer/khmerseg"
	"github.com/npillmayer/khmerseg/freqjson"
	"github.com/npillmayer/khmerseg/wordlist"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/unicode/norm"
)

// tracer writes to trace with key 'khmerseg'
func tracer() tracing.Trace {
	return tracing.Select("khmerseg")
}

// Compression is the compression format of a file.
type Compression int

const (
	None Compression = iota
	Zstd
	LZ4
)

// CompressionOf selects the compression format by file extension.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	}
	return None
}

type decompressingFile struct {
	io.Reader
	closers []func() error
}

func (f *decompressingFile) Close() (err error) {
	for i := len(f.closers) - 1; i >= 0; i-- {
		if e := f.closers[i](); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Open opens a file for reading, decompressing it if necessary.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return Decompress(f, CompressionOf(path))
}

// Decompress wraps a reader with a decompressor. Closing the result closes
// r as well.
func Decompress(r io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &decompressingFile{
			Reader:  dec,
			closers: []func() error{r.Close, func() error { dec.Close(); return nil }},
		}, nil
	case LZ4:
		return &decompressingFile{
			Reader:  lz4.NewReader(r),
			closers: []func() error{r.Close},
		}, nil
	}
	return r, nil
}

// LoadLexiconFile loads a word list. If clean is set, entries are
// normalized, filtered and extended by orthographic variants, see
// khmerseg.LexiconBuilder.
func LoadLexiconFile(path string, clean bool) (*khmerseg.Lexicon, error) {
	start := time.Now()
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	defer f.Close()
	name := filepath.Base(path)
	var lex *khmerseg.Lexicon
	if clean {
		lex, err = wordlist.LoadCleanLexicon(name, f)
	} else {
		lex, err = wordlist.LoadLexicon(name, f)
	}
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	tracer().Infof("loaded %d words from %s in %s", lex.Size(), path, time.Since(start))
	return lex, nil
}

// LoadFrequencyFile loads a JSON frequency table. If normalize is set,
// words are normalized to NFC, matching a cleaned lexicon.
func LoadFrequencyFile(path string, normalize bool) (*khmerseg.FrequencyTable, error) {
	start := time.Now()
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("frequencies: %w", err)
	}
	defer f.Close()
	var reader khmerseg.FrequencyReader = freqjson.NewReader(f)
	if normalize {
		reader = nfcReader{reader}
	}
	ft, err := khmerseg.LoadFrequencies(reader)
	if err != nil {
		return nil, fmt.Errorf("frequencies %s: %w", path, err)
	}
	tracer().Infof("loaded %d frequencies from %s in %s", ft.Len(), path, time.Since(start))
	return ft, nil
}

type nfcReader struct {
	khmerseg.FrequencyReader
}

func (r nfcReader) Next() (string, float64, error) {
	w, f, err := r.FrequencyReader.Next()
	return norm.NFC.String(w), f, err
}

// Options describes the resources of a segmenter.
type Options struct {
	Dictionary  string // path of the word list, required
	Frequencies string // path of the frequency table, optional
	Clean       bool   // clean up the word list, see LoadLexiconFile
	Segmenter   []khmerseg.Option
}

// LoadSegmenter loads lexicon and frequencies and creates a segmenter.
func LoadSegmenter(opts Options) (*khmerseg.Segmenter, error) {
	if opts.Dictionary == "" {
		return nil, fmt.Errorf("no dictionary given")
	}
	lex, err := LoadLexiconFile(opts.Dictionary, opts.Clean)
	if err != nil {
		return nil, err
	}
	var freq *khmerseg.FrequencyTable
	if opts.Frequencies != "" {
		if freq, err = LoadFrequencyFile(opts.Frequencies, opts.Clean); err != nil {
			return nil, err
		}
	} else {
		tracer().Infof("no frequency table given, using default costs")
	}
	return khmerseg.New(lex, freq, opts.Segmenter...), nil
}
