package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ainews/internal/logger"
	"ainews/internal/scrape"
)

type ConfigLoad func() (AppConfig, error)

func AppConfigLoader() ConfigLoad {
	return LoadAppConfig
}

// Static returns a loader that always yields cfg.
func Static(cfg AppConfig) ConfigLoad {
	return func() (AppConfig, error) { return cfg, nil }
}

// Section is a named listing page of the source site.
type Section struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type SourceConfig struct {
	Sections     []Section        `yaml:"sections"`
	Default      string           `yaml:"default"`
	BaseURL      string           `yaml:"base_url"`
	AllowedHosts []string         `yaml:"allowed_hosts"`
	TimeoutSec   int              `yaml:"timeout"`
	UserAgent    string           `yaml:"user_agent"`
	Selectors    scrape.Selectors `yaml:"selectors"`
}

// AIConfig configures the classification capability. Zero values select the
// classifier's own defaults.
type AIConfig struct {
	BaseUrl       string `yaml:"base_url"`
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	Prompt        string `yaml:"prompt"`
	MinIntervalMs int    `yaml:"min_interval_ms"`
	TimeoutSec    int    `yaml:"timeout"`
}

// AppConfig carries every setting the commands read.
type AppConfig struct {
	DatabasePath string        `yaml:"database_path"`
	Source       SourceConfig  `yaml:"source"`
	AI           AIConfig      `yaml:"ai"`
	Log          logger.Config `yaml:"log"`
}

// DefaultSections lists the BBC sections offered out of the box.
func DefaultSections() []Section {
	return []Section{
		{Name: "BBC Innovation", URL: "https://www.bbc.com/innovation"},
		{Name: "BBC News Home", URL: "https://www.bbc.com/news"},
		{Name: "BBC Technology", URL: "https://www.bbc.com/news/technology"},
		{Name: "BBC Science", URL: "https://www.bbc.com/news/science_and_environment"},
		{Name: "BBC Business", URL: "https://www.bbc.com/news/business"},
	}
}

func Default() AppConfig {
	return AppConfig{
		Source: SourceConfig{
			Sections:     DefaultSections(),
			Default:      "BBC Innovation",
			BaseURL:      scrape.DefaultBaseURL,
			AllowedHosts: slices.Clone(scrape.DefaultAllowedHosts),
			TimeoutSec:   20,
			Selectors:    scrape.DefaultSelectors(),
		},
		Log: logger.Config{Level: logger.DefaultLevel, Format: logger.DefaultFormat},
	}
}

// LoadAppConfig reads .env from the working directory, then the YAML config
// file, then environment overrides.
func LoadAppConfig() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path over the defaults. A missing file
// is not an error.
func LoadFrom(path string) (AppConfig, error) {
	ac := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return ac, fmt.Errorf("read config %s: %w", path, err)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&ac); err != nil && !errors.Is(err, io.EOF) {
			return ac, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&ac)
	ac.normalize()
	return ac, nil
}

func applyEnv(ac *AppConfig) {
	if v := os.Getenv("AINEWS_DB_PATH"); v != "" {
		ac.DatabasePath = v
	}
	if v := os.Getenv("AINEWS_AI_BASE_URL"); v != "" {
		ac.AI.BaseUrl = v
	}
	if v := os.Getenv("AINEWS_AI_MODEL"); v != "" {
		ac.AI.Model = v
	}
	if ac.AI.APIKey == "" {
		if v := os.Getenv("AINEWS_AI_API_KEY"); v != "" {
			ac.AI.APIKey = v
		} else {
			ac.AI.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if v := os.Getenv("AINEWS_LOG_LEVEL"); v != "" {
		ac.Log.Level = v
	}
}

func (ac *AppConfig) normalize() {
	d := Default()
	if strings.TrimSpace(ac.DatabasePath) == "" {
		ac.DatabasePath = FallbackDBPath()
	}
	ac.DatabasePath = ExpandPath(ac.DatabasePath)
	ac.Log.File = ExpandPath(ac.Log.File)
	if len(ac.Source.Sections) == 0 {
		ac.Source.Sections = d.Source.Sections
	}
	if ac.Source.Default == "" {
		ac.Source.Default = ac.Source.Sections[0].Name
	}
	if ac.Source.BaseURL == "" {
		ac.Source.BaseURL = d.Source.BaseURL
	}
	if ac.Source.TimeoutSec <= 0 {
		ac.Source.TimeoutSec = d.Source.TimeoutSec
	}
	ac.Source.Selectors = ac.Source.Selectors.WithDefaults()
}

// Section finds a section by case-insensitive name.
func (ac AppConfig) Section(name string) (Section, bool) {
	for _, s := range ac.Source.Sections {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Section{}, false
}

// ResolveSection picks the section to fetch. An explicit URL wins and is
// named after its host; otherwise name, or the configured default, is looked up.
func (ac AppConfig) ResolveSection(name, url string) (Section, error) {
	if url = strings.TrimSpace(url); url != "" {
		if name == "" {
			name = url
		}
		return Section{Name: name, URL: url}, nil
	}
	if name == "" {
		name = ac.Source.Default
	}
	s, ok := ac.Section(name)
	if !ok {
		names := make([]string, 0, len(ac.Source.Sections))
		for _, s := range ac.Source.Sections {
			names = append(names, s.Name)
		}
		return Section{}, fmt.Errorf("unknown source %q (available: %s)", name, strings.Join(names, ", "))
	}
	return s, nil
}

func (ac AppConfig) FetchTimeout() time.Duration {
	return time.Duration(ac.Source.TimeoutSec) * time.Second
}

func (ac AppConfig) MinInterval() time.Duration {
	return time.Duration(ac.AI.MinIntervalMs) * time.Millisecond
}

func (ac AppConfig) AITimeout() time.Duration {
	return time.Duration(ac.AI.TimeoutSec) * time.Second
}

// LoadDBPath returns the SQLite DB path used by ainews.
func LoadDBPath() (string, error) {
	ac, err := LoadAppConfig()
	if err != nil {
		return "", err
	}
	return ac.DatabasePath, nil
}

func FallbackDBPath() string {
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ainews", "ainews.db")
	}

	return "ainews.db"
}

// ConfigPath honours AINEWS_CONFIG, falling back to ~/.config/ainews/config.yaml.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("AINEWS_CONFIG")); p != "" {
		return ExpandPath(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ainews", "config.yaml"), nil
}

// ExpandPath expands leading ~ and environment variables in a filesystem path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}

// NewLogger builds the command logger. A non-empty logFile overrides log.file.
func (ac AppConfig) NewLogger(logFile string) (logger.Logger, error) {
	cfg := ac.Log
	if f := strings.TrimSpace(logFile); f != "" {
		cfg.File = ExpandPath(f)
	}
	return logger.New(cfg)
}
