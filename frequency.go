package khmerseg

import (
	"fmt"
	"io"
	"math"
	"slices"
)

// FrequencyReader yields word frequencies one-by-one.
// It should return io.EOF when the stream is exhausted.
type FrequencyReader interface {
	Next() (word string, score float64, err error)
}

// FrequencyTable maps words to non-negative frequency scores.
// Unknown words have score 0. A FrequencyTable is read-only after
// construction; the nil *FrequencyTable is a valid, empty table.
type FrequencyTable struct {
	scores map[string]float64
	total  float64 // effective token count of the scored words, variants excluded
}

// NewFrequencyTable creates a frequency table from an in-memory map.
// Negative and NaN scores are clamped to 0. Orthographic variants of a
// scored word inherit its score unless they are scored themselves.
func NewFrequencyTable(scores map[string]float64) *FrequencyTable {
	ft := &FrequencyTable{scores: make(map[string]float64, len(scores))}
	words := make([]string, 0, len(scores))
	for w, s := range scores {
		if w == "" {
			continue
		}
		if math.IsNaN(s) || s < 0 {
			s = 0
		}
		ft.scores[w] = s
		ft.total += max(s, minFrequencyFloor)
		words = append(words, w)
	}
	slices.Sort(words) // variant inheritance must not depend on map order
	for _, w := range words {
		for _, v := range variants(w) {
			if _, exists := ft.scores[v]; !exists {
				ft.scores[v] = ft.scores[w]
			}
		}
	}
	return ft
}

// LoadFrequencies reads a frequency table from a streaming, format-agnostic
// source. Use adapters like package freqjson to parse concrete formats.
// Scores of repeated words are added up; this merges entries which
// a normalizing reader maps to the same word.
func LoadFrequencies(reader FrequencyReader) (*FrequencyTable, error) {
	scores := make(map[string]float64)
	for {
		word, score, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading frequencies: %w", err)
		}
		if math.IsNaN(score) || score < 0 {
			score = 0
		}
		scores[word] += score
	}
	ft := NewFrequencyTable(scores)
	tracer().Infof("loaded frequencies for %d words (%d with variants), total %.0f",
		len(scores), ft.Len(), ft.total)
	return ft, nil
}

// Score returns the frequency score of word, or 0 if word is unknown.
func (ft *FrequencyTable) Score(word string) float64 {
	if ft == nil {
		return 0
	}
	return ft.scores[word]
}

// Len returns the number of scored words, variants included.
func (ft *FrequencyTable) Len() int {
	if ft == nil {
		return 0
	}
	return len(ft.scores)
}

// Total returns the effective token count of the table: the sum of all
// scores, each raised to a floor value of 5. Inherited variant scores do
// not count.
func (ft *FrequencyTable) Total() float64 {
	if ft == nil {
		return 0
	}
	return ft.total
}

// --- Cost model ------------------------------------------------------------

// Scores below this floor are raised to it before costs are computed, so
// rare words are not penalized beyond unscored lexicon words.
const minFrequencyFloor = 5.0

const (
	defaultWordCost      = 10.0 // lexicon word, no frequencies available
	unknownPenalty       = 5.0  // fallback unit, on top of the default cost
	invalidSinglePenalty = 10.0 // single character which cannot stand alone
	repairPenalty        = 50.0 // orphaned subscript or dependent vowel
)

const (
	numberCost     = 1.0
	acronymCost    = 1.0
	foreignRunCost = 1.0
	costEpsilon    = 1e-9
)

// costModel turns frequency scores into path costs. The cost of a word is
// the negative decimal logarithm of its relative frequency, so minimizing
// the summed cost of a path maximizes the product of the relative
// frequencies of its words.
type costModel struct {
	table       *FrequencyTable
	total       float64
	defaultCost float64 // lexicon word without score
	unknownCost float64 // fallback unit
}

func newCostModel(ft *FrequencyTable) costModel {
	m := costModel{
		table:       ft,
		defaultCost: defaultWordCost,
		unknownCost: 2 * defaultWordCost,
	}
	if t := ft.Total(); t > 0 {
		m.total = t
		m.defaultCost = -math.Log10(minFrequencyFloor / t)
		m.unknownCost = m.defaultCost + unknownPenalty
	}
	return m
}

// wordCost returns the cost of a lexicon word.
func (m costModel) wordCost(word string) float64 {
	if m.total == 0 {
		return m.defaultCost
	}
	s, ok := m.table.scores[word]
	if !ok {
		return m.defaultCost
	}
	return -math.Log10(max(s, minFrequencyFloor) / m.total)
}
