package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Feed contains configuration for the podcast RSS source.
type Feed struct {
	URL           string   `toml:"url"`
	MaxEpisodes   int      `toml:"max_episodes"`
	SkipPaid      bool     `toml:"skip_paid"`
	TitleKeywords []string `toml:"title_keywords"`
}

// Whisper contains configuration for the transcription service.
type Whisper struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Store contains configuration for the intermediate transcript store.
type Store struct {
	// Backend is one of "file", "mongo", "postgres", "supabase".
	Backend string `toml:"backend"`

	DataDir string `toml:"data_dir"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	PostgresDSN string `toml:"postgres_dsn"`

	SupabaseURL      string `toml:"supabase_url"`
	SupabasePassword string `toml:"supabase_password"`
}

// Registry contains configuration for the dataset registry.
type Registry struct {
	BaseURL string `toml:"base_url"`
	Repo    string `toml:"repo"`
}

// Pipeline contains pipeline tuning knobs.
type Pipeline struct {
	Workers     int  `toml:"workers"`
	OldestFirst bool `toml:"oldest_first"`
}

// Config is the root configuration, loaded from a TOML file with environment
// variables supplying secrets.
type Config struct {
	Feed     Feed     `toml:"feed"`
	Whisper  Whisper  `toml:"whisper"`
	Store    Store    `toml:"store"`
	Registry Registry `toml:"registry"`
	Pipeline Pipeline `toml:"pipeline"`

	// RegistryToken is read from the HUB_TOKEN environment variable, never
	// from the config file.
	RegistryToken string `toml:"-"`

	// SupabaseKey is read from the SUPABASE_KEY environment variable.
	SupabaseKey string `toml:"-"`
}

// Default returns the configuration defaults applied before a file is loaded.
func Default() Config {
	return Config{
		Whisper: Whisper{
			Endpoint: "http://localhost:9000",
			Model:    "large-v3",
		},
		Store: Store{
			Backend:         "file",
			DataDir:         "data/transcripts",
			MongoDatabase:   "podcasts",
			MongoCollection: "episodes",
		},
		Registry: Registry{
			BaseURL: "https://huggingface.co",
		},
		Pipeline: Pipeline{
			Workers: 1,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. An empty path
// returns defaults with environment secrets applied.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.RegistryToken = os.Getenv("HUB_TOKEN")
	cfg.SupabaseKey = os.Getenv("SUPABASE_KEY")
	if pw := os.Getenv("SUPABASE_PASSWORD"); pw != "" {
		cfg.Store.SupabasePassword = pw
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file", "mongo", "postgres", "supabase":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline workers must not be negative")
	}
	return nil
}
