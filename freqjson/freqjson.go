/*
Package freqjson reads word frequency tables in JSON format.

A frequency table is a single JSON object mapping words to counts:

	{ "ខ្ញុំ": 10234, "កម្ពុជា": 877.5, ... }

The object is decoded as a stream, entry by entry, so that large tables do
not have to be held in memory twice.
*/
package freqjson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/npillmayer/khmerseg"
)

// Reader streams (word, count) entries from a JSON object.
type Reader struct {
	dec     *json.Decoder
	started bool
	done    bool
}

// NewReader creates a Reader for JSON frequency data.
func NewReader(reader io.Reader) *Reader {
	dec := json.NewDecoder(reader)
	dec.UseNumber()
	return &Reader{dec: dec}
}

// Next returns the next entry. It returns io.EOF when the object is
// exhausted.
func (r *Reader) Next() (string, float64, error) {
	if r.done {
		return "", 0, io.EOF
	}
	if !r.started {
		tok, err := r.dec.Token()
		if err == io.EOF {
			r.done = true
			return "", 0, io.EOF
		}
		if err != nil {
			return "", 0, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return "", 0, fmt.Errorf("frequency data must be a JSON object, starts with %v", tok)
		}
		r.started = true
	}
	if !r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return "", 0, unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '}' {
			return "", 0, fmt.Errorf("unexpected token %v in frequency data", tok)
		}
		r.done = true
		return "", 0, io.EOF
	}
	tok, err := r.dec.Token()
	if err != nil {
		return "", 0, unexpectedEOF(err)
	}
	word, ok := tok.(string)
	if !ok {
		return "", 0, fmt.Errorf("unexpected token %v in frequency data", tok)
	}
	var count json.Number
	if err := r.dec.Decode(&count); err != nil {
		return "", 0, fmt.Errorf("count of %q: %w", word, unexpectedEOF(err))
	}
	f, err := count.Float64()
	if err != nil {
		return "", 0, fmt.Errorf("count of %q: %w", word, err)
	}
	return word, f, nil
}

// inside the object, the end of input is an error
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// LoadFrequencies reads a JSON frequency table.
func LoadFrequencies(reader io.Reader) (*khmerseg.FrequencyTable, error) {
	return khmerseg.LoadFrequencies(NewReader(reader))
}
