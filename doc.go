/*
Package khmerseg segments unspaced Khmer text into words, punctuation,
quotation marks and repetition marks.

Khmer is written without spaces between words. Segmentation is inferred from
a lexicon, from word frequencies and from a small set of orthographic rules.
The package works in three steps:

  - The input is pre-split into runs of word-script characters and single
    break characters (punctuation, quotation glyphs, whitespace).
  - Every word-script run is segmented by a best-path search over lexicon
    matches. Paths are scored by word frequencies; characters unknown to the
    lexicon fall back to single orthographic clusters.
  - A pipeline of deterministic rules repairs boundaries the lexicon cannot
    resolve: quotation glyphs stay isolated, the repetition mark ៗ is split
    off, and orphaned combining signs are re-attached to their neighbours.

The lexicon is a frozen double-array trie (package dat) built once from a
streaming WordReader. Format adapters live in sub-packages wordlist and
freqjson; package loader opens (compressed) files and wires everything up.

Every segmentation covers its input exactly: concatenating the segments
reproduces the text, byte for byte.

Further Reading

	https://unicode.org/charts/PDF/U1780.pdf       (Khmer code chart)
	https://www.unicode.org/versions/latest/ch16.pdf (Southeast Asian scripts)

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package khmerseg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'khmerseg'
func tracer() tracing.Trace {
	return tracing.Select("khmerseg")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
