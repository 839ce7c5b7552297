package khmerseg

import (
	"slices"
	"strings"
)

// variants returns the orthographic variants of a word which are commonly
// found in Khmer text: Coeng Ta and Coeng Da are interchangeable, and a
// Coeng Ro may precede or follow an adjacent subscript. The word itself is
// not part of the result. Variants are sorted.
func variants(word string) []string {
	if !strings.ContainsRune(word, coeng) {
		return nil
	}
	set := make(map[string]struct{})
	if strings.Contains(word, coengTa) {
		set[strings.ReplaceAll(word, coengTa, coengDa)] = struct{}{}
	}
	if strings.Contains(word, coengDa) {
		set[strings.ReplaceAll(word, coengDa, coengTa)] = struct{}{}
	}
	bases := []string{word}
	for v := range set {
		bases = append(bases, v)
	}
	for _, w := range bases {
		if swapped := swapCoengRo(w); swapped != w {
			set[swapped] = struct{}{}
		}
	}
	delete(set, word)
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	slices.Sort(result)
	return result
}

// swapCoengRo exchanges the order of Coeng Ro and an adjacent subscript
// consonant: Coeng+Ro+Coeng+X ⇄ Coeng+X+Coeng+Ro.
func swapCoengRo(word string) string {
	runes := []rune(word)
	n := len(runes)
	if n < 4 {
		return word
	}
	const ro = '\u179A'
	changed := false
	for i := 0; i+3 < n; {
		if runes[i] == coeng && runes[i+2] == coeng && (runes[i+1] == ro) != (runes[i+3] == ro) {
			runes[i], runes[i+1], runes[i+2], runes[i+3] = runes[i+2], runes[i+3], runes[i], runes[i+1]
			changed = true
			i += 4
			continue
		}
		i++
	}
	if !changed {
		return word
	}
	return string(runes)
}
