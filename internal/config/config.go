/*
Package config holds the application configuration of the khmerseg command.

Configuration is layered. Defaults come first, then an optional
configuration file, then command line flags. Files may be NestedText
(".nt"), YAML (".yaml", ".yml") or JSON (".json"). If no file is given,
a file is searched for at the usual places for application "khmerseg",
for example ~/.config/khmerseg/config.nt.

Keys are flat names, except for trace levels, which are nested:

	dictionary: /usr/share/khmer/words.txt.zst
	frequencies: /usr/share/khmer/freq.json
	workers: 8
	tracelevel:
	    root: Error
	    khmerseg: Info
*/
package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
)

// AppTag identifies the application's configuration files.
const AppTag = "khmerseg"

// Configuration keys.
const (
	Dictionary  = "dictionary"
	Frequencies = "frequencies"
	Clean       = "clean"
	Separator   = "separator"
	Format      = "format"
	Workers     = "workers"
	Limit       = "limit"
	Foreign     = "foreign"
	NFC         = "nfc"
	TraceRoot   = "tracelevel.root"
	TraceSeg    = "tracelevel.khmerseg"
)

// Output formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Suffixes of configuration files, in order of preference.
var Suffixes = []string{"nt", "yaml", "yml", "json"}

// Defaults returns the default settings.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		Clean:     true,
		Separator: "\u200B",
		Format:    FormatAuto,
		Workers:   0,
		Limit:     0,
		Foreign:   false,
		NFC:       true,
		TraceRoot: "Error",
		TraceSeg:  "Error",
	}
}

// New creates a configuration holding the defaults.
// The tracing adapter defaults to the Go standard logger.
func New() (*koanfadapter.KConf, error) {
	conf := koanfadapter.New(koanf.New("."), "", nil)
	conf.InitDefaults()
	if err := conf.Koanf().Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("configuration defaults: %w", err)
	}
	return conf, nil
}

// LoadFile merges a configuration file into conf. The format is selected
// by file extension.
func LoadFile(conf *koanfadapter.KConf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		parser = koanfadapter.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unknown configuration format: %s", path)
	}
	if err := conf.Koanf().Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("configuration %s: %w", path, err)
	}
	return nil
}

// LoadDefaultFile merges the first configuration file found at the usual
// places into conf. It returns the path of the file, or "" if none exists.
func LoadDefaultFile(conf *koanfadapter.KConf) (string, error) {
	files := schuko.LocateConfig(AppTag, "", Suffixes)
	if len(files) == 0 {
		return "", nil
	}
	return files[0], LoadFile(conf, files[0])
}

// ApplyFlags merges command line flags into conf. keys maps flag names to
// configuration keys; flags without a key are ignored. Only flags set on
// the command line override, so that flag defaults do not mask values from
// a configuration file.
func ApplyFlags(conf *koanfadapter.KConf, fs *flag.FlagSet, keys map[string]string) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	provider := basicflag.ProviderWithValue(fs, ".", func(name, value string) (string, interface{}) {
		key, ok := keys[name]
		if !ok || !set[name] {
			return "", nil
		}
		return key, value
	})
	return conf.Koanf().Load(provider, nil)
}

// Settings are the effective settings of a khmerseg run.
type Settings struct {
	Dictionary  string
	Frequencies string
	Clean       bool
	Separator   string
	Format      string
	Workers     int
	Limit       int
	Foreign     bool
	NFC         bool
}

// Read extracts and validates the settings from a configuration.
func Read(conf schuko.Configuration) (Settings, error) {
	s := Settings{
		Dictionary:  conf.GetString(Dictionary),
		Frequencies: conf.GetString(Frequencies),
		Clean:       conf.GetBool(Clean),
		Separator:   conf.GetString(Separator),
		Format:      strings.ToLower(conf.GetString(Format)),
		Workers:     conf.GetInt(Workers),
		Limit:       conf.GetInt(Limit),
		Foreign:     conf.GetBool(Foreign),
		NFC:         conf.GetBool(NFC),
	}
	if s.Dictionary == "" {
		return s, fmt.Errorf("no dictionary configured (key %q)", Dictionary)
	}
	switch s.Format {
	case FormatAuto, FormatText, FormatJSON:
	case "":
		s.Format = FormatAuto
	default:
		return s, fmt.Errorf("unknown output format %q", s.Format)
	}
	if s.Workers < 0 || s.Limit < 0 {
		return s, fmt.Errorf("workers and limit must not be negative")
	}
	return s, nil
}
