package khmerseg

import "unicode"

// Code points of the Khmer block with a special role during segmentation.
const (
	khmerStart = 0x1780
	khmerEnd   = 0x17FF

	coeng          = '\u17D2' // subscript marker
	repetitionMark = '\u17D7' // ៗ, Lek Too
	samyokSannya   = '\u17D0' // ័, attaches forward
	bantoc         = '\u17CB' // ់
	robat          = '\u17CC' // ៌
	toandakhiat    = '\u17CD' // ៍
	vowelI         = '\u17B7' // ិ
	letterOr       = '\u17AC' // ឬ, "or"
	coengTa        = "\u17D2\u178F"
	coengDa        = "\u17D2\u178D"
	coengRo        = "\u17D2\u179A"
	zeroWidthSpace = '\u200B'
)

// validSingleWords are characters which may stand alone as a word.
var validSingleWords = map[rune]bool{
	'\u1780': true, '\u1781': true, '\u1782': true, '\u1784': true, '\u1785': true,
	'\u1786': true, '\u1789': true, '\u178A': true, '\u178F': true, '\u1791': true,
	'\u1796': true, '\u179A': true, '\u179B': true, '\u179F': true, '\u17A1': true, // consonants
	'\u17AC': true, '\u17AE': true, '\u17AA': true, '\u17AF': true, '\u17B1': true,
	'\u17A6': true, '\u17A7': true, '\u17B3': true, // independent vowels
}

var currencySymbols = map[rune]bool{
	'$': true, '\u17DB': true, '\u20AC': true, '\u00A3': true, '\u00A5': true,
}

// IsKhmer is true for code points of the Khmer and Khmer Symbols blocks.
func IsKhmer(r rune) bool {
	return (r >= khmerStart && r <= khmerEnd) || (r >= 0x19E0 && r <= 0x19FF)
}

// IsConsonant is true for Khmer consonants U+1780 … U+17A2.
func IsConsonant(r rune) bool {
	return r >= 0x1780 && r <= 0x17A2
}

// IsIndependentVowel is true for U+17A3 … U+17B3.
func IsIndependentVowel(r rune) bool {
	return r >= 0x17A3 && r <= 0x17B3
}

// IsDependentVowel is true for U+17B6 … U+17C5.
func IsDependentVowel(r rune) bool {
	return r >= 0x17B6 && r <= 0x17C5
}

// IsSign is true for Khmer combining signs and diacritics.
func IsSign(r rune) bool {
	return (r >= 0x17C6 && r <= 0x17D1) || r == 0x17D3 || r == 0x17DD
}

// IsDigit is true for ASCII and Khmer digits.
func IsDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 0x17E0 && r <= 0x17E9)
}

// IsValidSingleWord is true for characters which may form a word on their own.
func IsValidSingleWord(r rune) bool {
	return validSingleWords[r]
}

// IsQuote is true for quotation glyphs. Besides the Unicode Quotation_Mark
// property this includes the double acute accent ˝ and the double prime ″,
// both of which are used as quotes in Khmer texts.
func IsQuote(r rune) bool {
	return unicode.Is(unicode.Quotation_Mark, r) || r == '\u02DD' || r == '\u2033'
}

// IsSpace is true for whitespace, including the zero width space.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || r == zeroWidthSpace
}

// IsBreak is true for characters which never become part of a word:
// punctuation, quotation glyphs and whitespace.
func IsBreak(r rune) bool {
	return IsQuote(r) || unicode.IsPunct(r) || IsSpace(r)
}

func isCurrencySymbol(r rune) bool {
	return currencySymbols[r]
}

func isClusterBase(r rune) bool {
	return r >= 0x1780 && r <= 0x17B3
}

// clusterLength returns the length (in runes) of the orthographic cluster
// starting at text[start]: a base consonant or independent vowel followed by
// subscripts (Coeng + consonant), dependent vowels and signs. Any other
// character forms a cluster of length 1.
func clusterLength(text []rune, start, end int) int {
	if start >= end {
		return 0
	}
	if !isClusterBase(text[start]) {
		return 1
	}
	i := start + 1
	for i < end {
		r := text[i]
		if r == coeng {
			if i+1 < end && IsConsonant(text[i+1]) {
				i += 2
				continue
			}
			break
		}
		if IsDependentVowel(r) || IsSign(r) {
			i++
			continue
		}
		break
	}
	return i - start
}
