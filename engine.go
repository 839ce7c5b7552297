package khmerseg

import (
	"math"
	"unicode"
)

// engine finds the best segmentation of a word-script run.
//
// Segmentation is a shortest-path search over the run's positions (a
// Viterbi-style dynamic program): edges are lexicon words, numbers,
// acronyms and fallback units, each carrying a cost from the cost model.
// Among paths of equal cost the one with fewer segments wins; remaining
// ties go to the edge which was relaxed first.
//
// An engine is immutable and may be used by multiple goroutines.
type engine struct {
	lex         *Lexicon
	costs       []float64 // by word ID
	unknownCost float64
	foreignRuns bool
}

func newEngine(lex *Lexicon, freq *FrequencyTable, foreignRuns bool) *engine {
	model := newCostModel(freq)
	e := &engine{
		lex:         lex,
		costs:       make([]float64, lex.Size()),
		unknownCost: model.unknownCost,
		foreignRuns: foreignRuns,
	}
	for id, w := range lex.Words() {
		e.costs[id] = model.wordCost(w)
	}
	return e
}

// path holds the dynamic programming state for one position.
type path struct {
	cost   float64
	segs   int
	parent int
	tag    Tag
}

// segment partitions run (runes of text starting at rune offset base) into
// word segments and appends them to out. offsets maps rune offsets of text
// to byte offsets.
func (e *engine) segment(text string, offsets []int, run []rune, base int, out []Segment) []Segment {
	n := len(run)
	if n == 0 {
		return out
	}
	dp := make([]path, n+1)
	for i := range dp {
		dp[i] = path{cost: math.Inf(1), parent: -1}
	}
	dp[0].cost = 0
	relax := func(from, to int, cost float64, tag Tag) {
		if to > n || to <= from {
			return
		}
		c, s := dp[from].cost+cost, dp[from].segs+1
		if c < dp[to].cost-costEpsilon || (c <= dp[to].cost+costEpsilon && s < dp[to].segs) {
			dp[to] = path{cost: c, segs: s, parent: from, tag: tag}
		}
	}
	for i := 0; i < n; i++ {
		if math.IsInf(dp[i].cost, 1) {
			continue
		}
		r := run[i]
		if (i > 0 && run[i-1] == coeng) || IsDependentVowel(r) {
			// orphaned subscript or vowel: consume one character, expensively
			relax(i, i+1, e.unknownCost+repairPenalty, fallbackTag(r))
			continue
		}
		for end, id := range e.lex.Prefixes(run, i) {
			relax(i, end, e.costs[id], Word)
		}
		if l := numberLength(run, i, n); l > 0 {
			relax(i, i+l, numberCost, Word)
		}
		if l, pairs := acronymLength(run, i, n); pairs > 0 {
			relax(i, i+l, acronymCost, Word)
		}
		if e.foreignRuns {
			if l := foreignRunLength(run, i, n); l > 0 {
				relax(i, i+l, foreignRunCost, Word)
			}
		}
		if IsKhmer(r) {
			l := clusterLength(run, i, n)
			cost := e.unknownCost
			if l == 1 && !IsValidSingleWord(r) {
				cost += invalidSinglePenalty
			}
			tag := Word
			if l == 1 {
				tag = fallbackTag(r)
			}
			relax(i, i+l, cost, tag)
		} else {
			relax(i, i+1, e.unknownCost, Word)
		}
	}
	assert(!math.IsInf(dp[n].cost, 1), "no segmentation path covers the run")
	// backtrack
	cuts := make([]int, 0, dp[n].segs+1)
	for at := n; at > 0; at = dp[at].parent {
		cuts = append(cuts, at)
	}
	cuts = append(cuts, 0)
	for k := len(cuts) - 1; k > 0; k-- {
		from, to := offsets[base+cuts[k]], offsets[base+cuts[k-1]]
		out = append(out, Segment{Text: text[from:to], Start: from, End: to, Tag: dp[cuts[k-1]].tag})
	}
	return out
}

// fallbackTag classifies a single-character fallback unit. A combining
// sign, dependent vowel or Coeng without a base is a mark.
func fallbackTag(r rune) Tag {
	if r == coeng || IsSign(r) || IsDependentVowel(r) {
		return Mark
	}
	return Word
}

// foreignRunLength returns the length of a run of letters outside the
// Khmer script starting at run[start], combining marks included.
func foreignRunLength(run []rune, start, end int) int {
	if !unicode.IsLetter(run[start]) || IsKhmer(run[start]) {
		return 0
	}
	i := start + 1
	for i < end && !IsKhmer(run[i]) && (unicode.IsLetter(run[i]) || unicode.IsMark(run[i])) {
		i++
	}
	return i - start
}
