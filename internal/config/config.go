package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/piecetree/internal/engine/buffer"
	"github.com/dshills/piecetree/internal/engine/search"
)

// DefaultEnvPrefix prefixes every environment variable Load reads.
const DefaultEnvPrefix = "PIECETREE"

// DefaultSearchLimit caps find results unless configured otherwise.
const DefaultSearchLimit = 1000

// Config holds the settings shared by the library facade and the CLI.
type Config struct {
	// DefaultEOL is "lf" or "crlf", used for documents without line breaks.
	DefaultEOL string `toml:"default_eol" yaml:"default_eol" split_words:"true"`

	// NormalizeEOL rewrites loaded and inserted line breaks to one style.
	NormalizeEOL bool `toml:"normalize_eol" yaml:"normalize_eol" split_words:"true"`

	// WordSeparators drives whole-word search.
	WordSeparators string `toml:"word_separators" yaml:"word_separators" split_words:"true"`

	// SearchLimit caps the matches one find returns. Zero means unlimited.
	SearchLimit int `toml:"search_limit" yaml:"search_limit" split_words:"true"`

	// DebugChecks verifies the piece tree after every mutation.
	DebugChecks bool `toml:"debug_checks" yaml:"debug_checks" split_words:"true"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level" split_words:"true"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DefaultEOL:     "lf",
		NormalizeEOL:   true,
		WordSeparators: search.DefaultWordSeparators,
		SearchLimit:    DefaultSearchLimit,
		LogLevel:       "info",
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	file      string
	envFile   string
	envPrefix string
}

// WithFile reads settings from a TOML (.toml) or YAML (.yaml, .yml)
// file. The file must exist.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithEnvFile loads a .env file before reading the environment. A
// missing file is skipped.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// Load resolves the settings layers and validates the result.
func Load(opts ...Option) (Config, error) {
	o := loadOptions{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if o.file != "" {
		if err := cfg.loadFile(o.file); err != nil {
			return Config{}, err
		}
	}
	if err := LoadDotEnv(o.envFile); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process(o.envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("reading %s_* environment: %w", o.envPrefix, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file. Variables
// already set are kept. An empty path or a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return c.decodeTOML(path, data)
	case ".yaml", ".yml":
		return c.decodeYAML(path, data)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func (c *Config) decodeTOML(path string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Path: path, Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

func (c *Config) decodeYAML(path string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// Validate rejects settings the engine cannot honor.
func (c Config) Validate() error {
	var errs []error
	if _, err := buffer.ParseLineEnding(c.DefaultEOL); err != nil {
		errs = append(errs, &ValidationError{Setting: "default_eol", Value: c.DefaultEOL, Message: "must be lf or crlf"})
	}
	if c.SearchLimit < 0 {
		errs = append(errs, &ValidationError{Setting: "search_limit", Value: c.SearchLimit, Message: "must not be negative"})
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Setting: "log_level", Value: c.LogLevel, Message: "must be debug, info, warn or error"})
	}
	return errors.Join(errs...)
}

// LineEnding returns DefaultEOL as a buffer.LineEnding.
func (c Config) LineEnding() buffer.LineEnding {
	le, err := buffer.ParseLineEnding(c.DefaultEOL)
	if err != nil {
		return buffer.LineEndingLF
	}
	return le
}

// BufferOptions converts the settings into buffer options.
func (c Config) BufferOptions(logger *log.Logger) []buffer.Option {
	return []buffer.Option{
		buffer.WithLineEnding(c.LineEnding()),
		buffer.WithNormalizeEOL(c.NormalizeEOL),
		buffer.WithSearchLimit(c.SearchLimit),
		buffer.WithIntegrityChecks(c.DebugChecks),
		buffer.WithLogger(logger),
	}
}

// SearchParams builds find parameters, enabling whole-word matching
// with the configured separators when wholeWord is set.
func (c Config) SearchParams(pattern string, isRegex, matchCase, wholeWord bool) search.Params {
	p := search.Params{
		Pattern:   pattern,
		IsRegex:   isRegex,
		MatchCase: matchCase,
	}
	if wholeWord {
		p.WordSeparators = c.WordSeparators
		if p.WordSeparators == "" {
			p.WordSeparators = search.DefaultWordSeparators
		}
	}
	return p
}
