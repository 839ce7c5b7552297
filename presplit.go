package khmerseg

// span is a run of runes [from, to) found by the pre-split.
type span struct {
	from, to int
	tag      Tag
	run      bool // word-script run, to be handed to the engine
}

// presplit partitions text into word-script runs and single break
// characters. Break characters are kept inside a run in two cases only:
// number separators between two digits ("1,000", "៣.៥", "១ ០០០"), and the
// dots of an acronym made of at least two cluster-dot pairs ("ស.ភ.ភ.ព.").
func presplit(text []rune) []span {
	n := len(text)
	keep := acronymDots(text)
	spans := make([]span, 0, 8)
	runStart := -1
	for i, r := range text {
		if !IsBreak(r) || keep[i] || isNumberSeparator(text, i) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			spans = append(spans, span{from: runStart, to: i, tag: Word, run: true})
			runStart = -1
		}
		tag := Punctuation
		if IsQuote(r) {
			tag = Quote
		}
		spans = append(spans, span{from: i, to: i + 1, tag: tag})
	}
	if runStart >= 0 {
		spans = append(spans, span{from: runStart, to: n, tag: Word, run: true})
	}
	return spans
}

func isNumberSeparator(text []rune, i int) bool {
	switch text[i] {
	case ',', '.', ' ':
		return i > 0 && i+1 < len(text) && IsDigit(text[i-1]) && IsDigit(text[i+1])
	}
	return false
}

// acronymDots marks the dots of acronyms. Returns nil if there are none.
func acronymDots(text []rune) map[int]bool {
	var keep map[int]bool
	n := len(text)
	for i := 0; i < n; {
		if !isClusterBase(text[i]) {
			i++
			continue
		}
		end, pairs := acronymLength(text, i, n)
		if pairs < 2 {
			i += clusterLength(text, i, n)
			continue
		}
		if keep == nil {
			keep = make(map[int]bool)
		}
		for j := i; j < i+end; j++ {
			if text[j] == '.' {
				keep[j] = true
			}
		}
		i += end
	}
	return keep
}

// acronymLength returns the length in runes of the sequence of cluster-dot
// pairs starting at text[start], together with the number of pairs.
func acronymLength(text []rune, start, end int) (length, pairs int) {
	i := start
	for i < end && isClusterBase(text[i]) {
		l := clusterLength(text, i, end)
		if i+l >= end || text[i+l] != '.' {
			break
		}
		i += l + 1
		pairs++
	}
	return i - start, pairs
}

// numberLength returns the length in runes of the number starting at
// text[start]: an optional currency symbol, digits, and single separators
// between digits. Returns 0 if there is no number at start.
func numberLength(text []rune, start, end int) int {
	i := start
	if i < end && isCurrencySymbol(text[i]) {
		i++
	}
	if i >= end || !IsDigit(text[i]) {
		return 0
	}
	i++
	for i < end {
		c := text[i]
		if IsDigit(c) {
			i++
			continue
		}
		if (c == ',' || c == '.' || c == ' ') && i+1 < end && IsDigit(text[i+1]) {
			i += 2
			continue
		}
		break
	}
	return i - start
}
