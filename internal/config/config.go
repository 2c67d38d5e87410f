// Package config loads tutorbook settings from defaults, an optional YAML
// file, an optional .env file and the process environment, in increasing
// order of precedence, and validates the result against an embedded CUE
// schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Default file names, relative to the working directory.
const (
	DefaultPath    = "tutorbook.yaml"
	DefaultEnvFile = ".env"
	DefaultDBPath  = "tutorbook.db"
)

// Environment variables read by Load.
const (
	EnvDB          = "TUTORBOOK_DB"
	EnvFileHandles = "TUTORBOOK_FILE_HANDLES"
	EnvLogLevel    = "TUTORBOOK_LOG_LEVEL"
	EnvCurrency    = "TUTORBOOK_CURRENCY"
	EnvLocale      = "TUTORBOOK_LOCALE"
)

// Config is the merged runtime configuration.
type Config struct {
	DBPath      string `yaml:"db_path" json:"db_path"`
	FileHandles bool   `yaml:"file_handles" json:"file_handles"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
	Currency    string `yaml:"currency" json:"currency"`
	Locale      string `yaml:"locale" json:"locale"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DBPath:   DefaultDBPath,
		LogLevel: "info",
		Locale:   "en",
	}
}

// LoadOptions names the files Load reads. An empty Path falls back to
// DefaultPath and tolerates its absence; an explicit Path must exist.
type LoadOptions struct {
	Path    string
	EnvFile string
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (Config, error) {
	cfg := Defaults()

	path, required := opts.Path, true
	if path == "" {
		path, required = DefaultPath, false
	}
	if err := cfg.mergeFile(path, required); err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDB); ok {
		c.DBPath = v
	}
	if v, ok := lookup(EnvFileHandles); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFileHandles, err)
		}
		c.FileHandles = b
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvCurrency); ok {
		c.Currency = v
	}
	if v, ok := lookup(EnvLocale); ok {
		c.Locale = v
	}
	return nil
}

// Validate checks c against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	val := def.Unify(ctx.Encode(c))
	if err := val.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown names map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Language parses Locale as a BCP-47 tag.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
