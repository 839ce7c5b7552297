package khmerseg

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/text/unicode/norm"
)

func testSegmenter(words ...string) *Segmenter {
	return New(NewLexicon(words), nil)
}

func checkSegment(t *testing.T, seg *Segmenter, text string, want []string) {
	t.Helper()
	got := seg.Segment(text)
	if !slices.Equal(got, want) {
		t.Fatalf("segment(%q): got %q, want %q", text, got, want)
	}
	if strings.Join(got, "") != text {
		t.Fatalf("segment(%q) does not reconstruct the input", text)
	}
}

func TestSegmentQuoteIsolation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "khmerseg")
	defer teardown()
	//
	seg := testSegmenter(wSuosdei)
	checkSegment(t, seg, "“"+wSuosdei+"”", []string{"“", wSuosdei, "”"})
	segments := seg.Segments("“" + wSuosdei + "”")
	if segments[0].Tag != Quote || segments[1].Tag != Word || segments[2].Tag != Quote {
		t.Fatalf("unexpected tags %v", segments)
	}
	checkSegment(t, seg, "˝"+wSuosdei+"˝", []string{"˝", wSuosdei, "˝"})
	checkSegment(t, seg, "\""+wSuosdei+"\"", []string{"\"", wSuosdei, "\""})
}

func TestSegmentRepetitionMark(t *testing.T) {
	checkSegment(t, testSegmenter(wPhseng), wPhsengRep, []string{wPhseng, "ៗ"})
	// a raw word list may contain the word with the mark glued on
	seg := testSegmenter(wPhsengRep)
	checkSegment(t, seg, wPhsengRep, []string{wPhseng, "ៗ"})
	segments := seg.Segments(wPhsengRep)
	if segments[1].Tag != Mark {
		t.Fatalf("expected repetition mark to be tagged mark, is %s", segments[1].Tag)
	}
}

func TestSegmentEmpty(t *testing.T) {
	seg := testSegmenter(wKhnhom)
	if got := seg.Segment(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty, non-nil result for empty input, got %#v", got)
	}
}

func TestSegmentDictionaryWords(t *testing.T) {
	seg := testSegmenter(wKhnhom, wSrolanh, wKampuchea, wKampu)
	checkSegment(t, seg, wKhnhom+wSrolanh+wKampuchea, []string{wKhnhom, wSrolanh, wKampuchea})
	checkSegment(t, seg, wKhnhom+" "+wKampuchea+"។", []string{wKhnhom, " ", wKampuchea, "។"})
}

func TestSegmentSignReattachment(t *testing.T) {
	seg := New(nil, nil)
	checkSegment(t, seg, wThor, []string{wThor})
	checkSegment(t, seg, wSamay, []string{"ស", "ម័យ"})
}

func TestSegmentFallback(t *testing.T) {
	seg := New(nil, nil)
	checkSegment(t, seg, "abc", []string{"a", "b", "c"})
	checkSegment(t, seg, "a-b", []string{"a", "-", "b"})
	// subscripts and vowels stay with their base
	checkSegment(t, seg, wKhnhom, []string{wKhnhom})
	// orphaned coeng and dependent vowel
	checkSegment(t, seg, "្កា", []string{"្", "ក", "ា"})
	seg = New(nil, nil, WithForeignRuns(true))
	checkSegment(t, seg, "abc"+wKhnhom, []string{"abc", wKhnhom})
}

func TestSegmentOrphanedSignsAreMarks(t *testing.T) {
	seg := New(nil, nil)
	for _, c := range []struct {
		text string
		want []Tag
	}{
		{"្កា", []Tag{Mark, Word, Mark}},
		{"“\u17CB", []Tag{Quote, Mark}},
		{wKhnhom + " \u17C6", []Tag{Word, Punctuation, Mark}},
		{wPhsengRep, []Tag{Word, Word, Mark}},
	} {
		segments := seg.Segments(c.text)
		if len(segments) != len(c.want) {
			t.Fatalf("%q: expected %d segments, got %v", c.text, len(c.want), segments)
		}
		for i, s := range segments {
			if s.Tag != c.want[i] {
				t.Fatalf("%q: segment %d is %v, expected tag %s", c.text, i, s, c.want[i])
			}
		}
	}
}

func TestSegmentFrequencyDisambiguation(t *testing.T) {
	lex := NewLexicon([]string{"ab", "c", "a", "bc"})
	seg := New(lex, NewFrequencyTable(map[string]float64{"ab": 100, "c": 100, "a": 1, "bc": 1}))
	checkSegment(t, seg, "abc", []string{"ab", "c"})
	seg = New(lex, NewFrequencyTable(map[string]float64{"ab": 1, "c": 1, "a": 100, "bc": 100}))
	checkSegment(t, seg, "abc", []string{"a", "bc"})
}

func TestSegmentPrefersLongerMatches(t *testing.T) {
	seg := testSegmenter(wKampu, wKampuchea, "ជា")
	checkSegment(t, seg, wKampuchea, []string{wKampuchea})
}

func TestSegmentNumbersAndAcronyms(t *testing.T) {
	price := "តម្លៃ"
	seg := testSegmenter(price)
	checkSegment(t, seg, price+"$1,000.50", []string{price, "$1,000.50"})
	checkSegment(t, seg, "១ ០០០ "+price, []string{"១ ០០០", " ", price})
	checkSegment(t, seg, "ស.ភ.ភ.ព.", []string{"ស.ភ.ភ.ព."})
}

func TestSegmentOffsets(t *testing.T) {
	seg := testSegmenter(wSuosdei)
	text := "«" + wSuosdei + "»"
	segments := seg.Segments(text)
	if err := CheckCoverage(text, segments); err != nil {
		t.Fatal(err)
	}
	if segments[1].Start != len("«") || segments[1].End != len(text)-len("»") {
		t.Fatalf("unexpected offsets %v", segments[1])
	}
}

func TestSegmentDeterministic(t *testing.T) {
	seg := testSegmenter(wKhnhom, wSrolanh, wKampuchea)
	text := wKhnhom + wSrolanh + "xyz" + wKampuchea + "ៗ “" + wThor + "”"
	first := seg.Segments(text)
	for range 10 {
		if !slices.Equal(seg.Segments(text), first) {
			t.Fatalf("segmentation is not deterministic")
		}
	}
	if !slices.Equal(ApplyRules(first, DefaultRules(), seg.lex), first) {
		t.Fatalf("rule pipeline is not idempotent on segmenter output")
	}
}

func TestJoin(t *testing.T) {
	seg := testSegmenter(wKhnhom, wKampuchea)
	if got := seg.Join(wKhnhom+wKampuchea, ""); got != wKhnhom+"\u200B"+wKampuchea {
		t.Fatalf("expected zero width space separator, got %q", got)
	}
	if got := seg.Join(wKhnhom+wKampuchea, "|"); got != wKhnhom+"|"+wKampuchea {
		t.Fatalf("unexpected join result %q", got)
	}
}

func TestWithRules(t *testing.T) {
	seg := New(nil, nil, WithRules())
	checkSegment(t, seg, wThor, []string{"ធ", "ម៌"})
	seg = New(nil, nil, WithRules(SuffixSignReattachment))
	checkSegment(t, seg, wThor, []string{wThor})
}

func TestWithNormalization(t *testing.T) {
	decomposed, composed := "e\u0301", "\u00E9"
	seg := New(NewLexicon([]string{composed}), nil, WithNormalization(norm.NFC))
	if got := seg.Segment(decomposed); !slices.Equal(got, []string{composed}) {
		t.Fatalf("expected normalized input to match, got %q", got)
	}
}

func TestSegmentAll(t *testing.T) {
	seg := testSegmenter(wKhnhom, wSrolanh, wKampuchea, wPhseng)
	texts := []string{
		wKhnhom + wSrolanh + wKampuchea,
		"",
		wPhsengRep,
		"“" + wKhnhom + "”",
	}
	results, err := seg.SegmentAll(context.Background(), texts, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, text := range texts {
		if !slices.Equal(results[i], seg.Segment(text)) {
			t.Fatalf("batch result %d differs: %q", i, results[i])
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := seg.SegmentAll(ctx, texts, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}

// benchmarkText mixes Khmer words with numbers, a currency amount, an
// acronym and punctuation.
const benchmarkText = "ក្រុមហ៊ុនទទួលបានប្រាក់ចំណូល ១ ០០០ ០០០ ដុល្លារក្នុងឆ្នាំនេះ ខណៈដែលតម្លៃភាគហ៊ុនកើនឡើង ៥% ស្មើនឹង 50.00$។លោក ទេព សុវិចិត្រ នាយកប្រតិបត្តិដែលបញ្ចប់ការសិក្សាពីសាកលវិទ្យាល័យភូមិន្ទភ្នំពេញ (ស.ភ.ភ.ព.) បានថ្លែងថា ភាពជោគជ័យផ្នែកហិរញ្ញវត្ថុនាឆ្នាំនេះ គឺជាសក្ខីភាពនៃកិច្ចខិតខំប្រឹងប្រែងរបស់ក្រុមការងារទាំងមូល និងការជឿទុកចិត្តពីសំណាក់វិនិយោគិន។"

var benchmarkWords = []string{
	"ក្រុមហ៊ុន", "ទទួល", "បាន", "ប្រាក់", "ចំណូល", "ដុល្លារ",
	"ក្នុង", "ឆ្នាំ", "នេះ", "ខណៈ", "ដែល", "តម្លៃ",
	"ភាគហ៊ុន", "កើនឡើង", "ស្មើ", "នឹង", "លោក", "ទេព",
	"សុវិចិត្រ", "នាយក", "ប្រតិបត្តិ", "បញ្ចប់", "ការសិក្សា", "ពី",
	"សាកលវិទ្យាល័យ", "ភូមិន្ទ", "ភ្នំពេញ", "ថ្លែង", "ថា", "ភាព",
	"ជោគជ័យ", "ផ្នែក", "ហិរញ្ញវត្ថុ", "នា", "គឺជា", "សក្ខីភាព",
	"នៃ", "កិច្ច", "ខិតខំ", "ប្រឹងប្រែង", "របស់", "ក្រុម",
	"ការងារ", "ទាំងមូល", "និង", "ការជឿទុកចិត្ត", "សំណាក់", "វិនិយោគិន",
}

func benchmarkSegmenter() *Segmenter {
	return New(NewLexicon(benchmarkWords), nil)
}

func TestSegmentBenchmarkText(t *testing.T) {
	seg := benchmarkSegmenter()
	segments := seg.Segments(benchmarkText)
	if err := CheckCoverage(benchmarkText, segments); err != nil {
		t.Fatal(err)
	}
	texts := Texts(segments)
	if texts[0] != benchmarkWords[0] {
		t.Fatalf("expected text to start with %q, got %q", benchmarkWords[0], texts[0])
	}
	for _, token := range []string{"១ ០០០ ០០០", "ស.ភ.ភ.ព.", "50.00", "សាកលវិទ្យាល័យ"} {
		if !slices.Contains(texts, token) {
			t.Fatalf("expected segment %q in %q", token, texts)
		}
	}
}

func BenchmarkSegment(b *testing.B) {
	seg := benchmarkSegmenter()
	b.SetBytes(int64(len(benchmarkText)))
	b.ReportAllocs()
	for b.Loop() {
		seg.Segment(benchmarkText)
	}
}

func BenchmarkSegmentParallel(b *testing.B) {
	seg := benchmarkSegmenter()
	b.SetBytes(int64(len(benchmarkText)))
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			seg.Segment(benchmarkText)
		}
	})
}

func BenchmarkSegmentAll(b *testing.B) {
	seg := benchmarkSegmenter()
	batch := make([]string, 64)
	for i := range batch {
		batch[i] = benchmarkText
	}
	b.SetBytes(int64(len(batch) * len(benchmarkText)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := seg.SegmentAll(context.Background(), batch, runtime.GOMAXPROCS(0)); err != nil {
			b.Fatal(err)
		}
	}
}

func FuzzSegmentCoverage(f *testing.F) {
	seg := New(NewLexicon([]string{wKhnhom, wSrolanh, wKampuchea, wSuosdei, wPhseng}), nil)
	for _, s := range []string{
		"",
		"“" + wSuosdei + "”",
		wPhsengRep,
		wThor + wSamay,
		"្ា៌័",
		"1,000 ស.ភ. abc",
		"\xff\xfe" + wKhnhom,
	} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, text string) {
		segments := seg.Segments(text)
		if err := CheckCoverage(text, segments); err != nil {
			t.Fatalf("coverage violated for %q: %v", text, err)
		}
	})
}
