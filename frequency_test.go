package khmerseg

import (
	"errors"
	"io"
	"math"
	"testing"
)

type sliceFrequencyReader struct {
	words  []string
	scores []float64
	index  int
	err    error
}

func (r *sliceFrequencyReader) Next() (string, float64, error) {
	if r.index >= len(r.words) {
		if r.err != nil {
			return "", 0, r.err
		}
		return "", 0, io.EOF
	}
	r.index++
	return r.words[r.index-1], r.scores[r.index-1], nil
}

func TestFrequencyTableScores(t *testing.T) {
	ft := NewFrequencyTable(map[string]float64{
		wKhnhom:    120,
		wKampuchea: 3,
		"neg":      -7,
		"nan":      math.NaN(),
	})
	tests := []struct {
		word string
		want float64
	}{
		{wKhnhom, 120},
		{wKampuchea, 3},
		{"neg", 0},
		{"nan", 0},
		{wSrolanh, 0},
	}
	for _, tt := range tests {
		if got := ft.Score(tt.word); got != tt.want {
			t.Fatalf("score of %q: got %v, want %v", tt.word, got, tt.want)
		}
	}
	// scores below the floor count as 5
	if ft.Total() != 120+5+5+5 {
		t.Fatalf("expected effective total 135, have %v", ft.Total())
	}
	var nilTable *FrequencyTable
	if nilTable.Score(wKhnhom) != 0 || nilTable.Len() != 0 || nilTable.Total() != 0 {
		t.Fatalf("expected nil table to be empty")
	}
}

func TestFrequencyVariantsInheritScore(t *testing.T) {
	ta := "ស្តី"
	da := "ស្ឍី"
	ft := NewFrequencyTable(map[string]float64{ta: 42})
	if ft.Score(da) != 42 {
		t.Fatalf("expected variant to inherit score 42, has %v", ft.Score(da))
	}
	if ft.Len() != 2 || ft.Total() != 42 {
		t.Fatalf("variants must not count towards the total: len=%d total=%v", ft.Len(), ft.Total())
	}
	ft = NewFrequencyTable(map[string]float64{ta: 42, da: 7})
	if ft.Score(da) != 7 {
		t.Fatalf("expected scored variant to keep its own score, has %v", ft.Score(da))
	}
}

func TestLoadFrequencies(t *testing.T) {
	ft, err := LoadFrequencies(&sliceFrequencyReader{
		words:  []string{wKhnhom, wKampuchea, wKhnhom},
		scores: []float64{1, 20, 30},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ft.Score(wKhnhom) != 31 || ft.Score(wKampuchea) != 20 {
		t.Fatalf("unexpected scores %v / %v", ft.Score(wKhnhom), ft.Score(wKampuchea))
	}
	boom := errors.New("boom")
	if _, err = LoadFrequencies(&sliceFrequencyReader{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected reader error to be wrapped, got %v", err)
	}
}

func TestCostModel(t *testing.T) {
	m := newCostModel(nil)
	if m.defaultCost != 10 || m.unknownCost != 20 || m.wordCost(wKhnhom) != 10 {
		t.Fatalf("unexpected costs without frequencies: %+v", m)
	}
	m = newCostModel(NewFrequencyTable(map[string]float64{"a": 995, "b": 1}))
	// total = 995 + 5
	if math.Abs(m.defaultCost-(-math.Log10(5.0/1000))) > 1e-9 {
		t.Fatalf("unexpected default cost %v", m.defaultCost)
	}
	if math.Abs(m.unknownCost-m.defaultCost-5) > 1e-9 {
		t.Fatalf("unknown cost should exceed default cost by 5, is %v", m.unknownCost)
	}
	if m.wordCost("a") >= m.wordCost("b") {
		t.Fatalf("frequent word must be cheaper than rare word")
	}
	if m.wordCost("b") != m.wordCost("unscored") {
		t.Fatalf("rare word should cost the same as an unscored word")
	}
}
