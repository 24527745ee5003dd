package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	domainerr "osusume/internal/domain/errors"
)

type Config struct {
	Catalog CatalogConfig `yaml:"catalog" toml:"catalog"`
	Build   BuildConfig   `yaml:"build" toml:"build"`
	Serve   ServeConfig   `yaml:"serve" toml:"serve"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

type CatalogConfig struct {
	Title string `yaml:"title" toml:"title"`
	// Language drives the collation used to order creator names.
	Language string `yaml:"language" toml:"language"`
}

type BuildConfig struct {
	ContentDir string   `yaml:"content_dir" toml:"content_dir"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
	BundlePath string   `yaml:"bundle_path" toml:"bundle_path"`
	PublicDir  string   `yaml:"public_dir" toml:"public_dir"`
	ThemeDir   string   `yaml:"theme_dir" toml:"theme_dir"`
	BasePath   string   `yaml:"base_path" toml:"base_path"`
	Workers    int      `yaml:"workers" toml:"workers"`
}

type ServeConfig struct {
	Addr  string `yaml:"addr" toml:"addr"`
	Watch bool   `yaml:"watch" toml:"watch"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Title:    "Osusume",
			Language: "und",
		},
		Build: BuildConfig{
			ContentDir: "contents",
			Extensions: []string{".md", ".markdown"},
			PublicDir:  "public",
		},
		Serve: ServeConfig{
			Addr:  ":8080",
			Watch: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Catalog.Title) == "" {
		ve.Add("catalog.title", "must not be empty")
	}
	if _, err := language.Parse(c.Catalog.Language); err != nil {
		ve.Add("catalog.language", "must be a BCP 47 language tag")
	}

	if strings.TrimSpace(c.Build.ContentDir) == "" && strings.TrimSpace(c.Build.BundlePath) == "" {
		ve.Add("build.content_dir", "must not be empty when no bundle_path is set")
	}
	if len(c.Build.Extensions) == 0 {
		ve.Add("build.extensions", "must list at least one extension")
	}
	for _, ext := range c.Build.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ve.Add("build.extensions", "entries must start with '.'")
			break
		}
	}
	if c.Build.Workers < 0 {
		ve.Add("build.workers", "must not be negative")
	}
	if bp := strings.TrimSpace(c.Build.BasePath); bp != "" {
		if !strings.HasPrefix(bp, "/") {
			ve.Add("build.base_path", "must start with '/'")
		}
		if strings.HasSuffix(bp, "/") && bp != "/" {
			ve.Add("build.base_path", "must not end with '/'")
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		ve.Add("log.format", "must be 'auto', 'text' or 'json'")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		ve.Add("log.level", "must be one of debug, info, warn, error")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// LanguageTag returns the parsed collation language, falling back to und.
func (c Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Catalog.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// Load decodes path over Default. Files ending in .toml are decoded as TOML,
// everything else as YAML. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := decode(path, data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as an empty one.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

// Environment variables read by ApplyEnv.
const (
	EnvContentDir = "OSUSUME_CONTENT_DIR"
	EnvBundle     = "OSUSUME_BUNDLE"
	EnvAddr       = "OSUSUME_ADDR"
	EnvLanguage   = "OSUSUME_LANGUAGE"
	EnvLogLevel   = "OSUSUME_LOG_LEVEL"
	EnvLogFormat  = "OSUSUME_LOG_FORMAT"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overrides c with any OSUSUME_* variables reported by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvContentDir, &c.Build.ContentDir)
	set(EnvBundle, &c.Build.BundlePath)
	set(EnvAddr, &c.Serve.Addr)
	set(EnvLanguage, &c.Catalog.Language)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
}
