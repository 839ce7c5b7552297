/*
Command khmerseg segments Khmer text into words.

It reads text line by line, from a file or from standard input, and writes
one result per non-empty input line:

	khmerseg -dict words.txt.zst -freq freq.json -in corpus.txt -format json

Output is either the segmented line, with segments joined by a separator
(zero width space by default), or a JSON object per line:

	{"id":0,"input":"...","segments":["...","..."]}

Format "auto" selects text output for terminals and JSON otherwise.
Settings may also be given in a configuration file; see package
internal/config. Command line flags take precedence.
*/
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/npillmayer/khmerseg"
	"github.com/npillmayer/khmerseg/internal/config"
	"github.com/npillmayer/khmerseg/loader"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"golang.org/x/term"
	"golang.org/x/text/unicode/norm"
)

// tracer writes to trace with key 'khmerseg'
func tracer() tracing.Trace {
	return tracing.Select("khmerseg")
}

const maxLineLength = 1 << 20

// flag name → configuration key
var flagKeys = map[string]string{
	"dict":    config.Dictionary,
	"freq":    config.Frequencies,
	"clean":   config.Clean,
	"sep":     config.Separator,
	"format":  config.Format,
	"workers": config.Workers,
	"limit":   config.Limit,
	"foreign": config.Foreign,
	"nfc":     config.NFC,
	"trace":   config.TraceSeg,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "khmerseg: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("khmerseg", flag.ContinueOnError)
	configFile := fs.String("config", "", "configuration file (.nt, .yaml, .json)")
	inPath := fs.String("in", "-", "input file, - for standard input")
	outPath := fs.String("out", "-", "output file, - for standard output")
	fs.String("dict", "", "word list (plain, .zst or .lz4)")
	fs.String("freq", "", "JSON frequency table (plain, .zst or .lz4)")
	fs.Bool("clean", true, "normalize and filter the word list, add spelling variants")
	fs.String("sep", khmerseg.DefaultSeparator, "segment separator for text output")
	fs.String("format", config.FormatAuto, "output format: auto, text or json")
	fs.Int("workers", 0, "number of worker goroutines, 0 for one per CPU")
	fs.Int("limit", 0, "maximum number of lines to process, 0 for all")
	fs.Bool("foreign", false, "keep runs of non-Khmer letters together")
	fs.Bool("nfc", true, "normalize input to NFC")
	fs.String("trace", "", "trace level: Error, Info or Debug")
	if err := fs.Parse(args); err != nil {
		return err
	}
	conf, err := configure(*configFile, fs)
	if err != nil {
		return err
	}
	if err := setupTracing(conf); err != nil {
		return err
	}
	defer trace2go.Teardown()
	settings, err := config.Read(conf)
	if err != nil {
		return err
	}
	//
	seg, err := loader.LoadSegmenter(loader.Options{
		Dictionary:  settings.Dictionary,
		Frequencies: settings.Frequencies,
		Clean:       settings.Clean,
		Segmenter:   segmenterOptions(settings),
	})
	if err != nil {
		return err
	}
	in, closeIn, err := openInput(*inPath, stdin)
	if err != nil {
		return err
	}
	defer closeIn()
	lines, err := readLines(in, settings.Limit)
	if err != nil {
		return err
	}
	workers := settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	start := time.Now()
	results, err := seg.SegmentAll(ctx, lines, workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	tracer().Infof("segmented %d lines with %d workers in %s", len(lines), workers, elapsed)
	//
	out, closeOut, err := openOutput(*outPath, stdout)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if useJSON(settings.Format, out) {
		err = writeJSON(w, lines, results)
	} else {
		err = writeText(w, results, settings.Separator)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

func configure(path string, fs *flag.FlagSet) (*koanfadapter.KConf, error) {
	conf, err := config.New()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := config.LoadFile(conf, path); err != nil {
			return nil, err
		}
	} else if _, err := config.LoadDefaultFile(conf); err != nil {
		return nil, err
	}
	if err := config.ApplyFlags(conf, fs, flagKeys); err != nil {
		return nil, err
	}
	return conf, nil
}

func setupTracing(conf schuko.Configuration) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func segmenterOptions(s config.Settings) []khmerseg.Option {
	opts := []khmerseg.Option{khmerseg.WithForeignRuns(s.Foreign)}
	if s.NFC {
		opts = append(opts, khmerseg.WithNormalization(norm.NFC))
	}
	return opts
}

func openInput(path string, stdin io.Reader) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return stdin, func() error { return nil }, nil
	}
	f, err := loader.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// readLines reads trimmed, non-empty lines, at most limit of them if
// limit > 0.
func readLines(r io.Reader, limit int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if limit > 0 && len(lines) >= limit {
			break
		}
	}
	return lines, scanner.Err()
}

func useJSON(format string, out io.Writer) bool {
	switch format {
	case config.FormatJSON:
		return true
	case config.FormatText:
		return false
	}
	if f, ok := out.(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}

type record struct {
	ID       int      `json:"id"`
	Input    string   `json:"input"`
	Segments []string `json:"segments"`
}

func writeJSON(w io.Writer, lines []string, results [][]string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, segments := range results {
		if err := enc.Encode(record{ID: i, Input: lines[i], Segments: segments}); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, results [][]string, sep string) error {
	for _, segments := range results {
		if _, err := fmt.Fprintln(w, strings.Join(segments, sep)); err != nil {
			return err
		}
	}
	return nil
}
