package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pktdecode/internal/logging"
	"github.com/danmuck/pktdecode/internal/protocol/packet"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the decoder tool configuration.
type Config struct {
	Workers       int
	MaxDepth      int
	StrictPadding bool
	Output        string
	LogLevel      string
	Server        ServerConfig
}

type ServerConfig struct {
	ID          string
	Addr        string
	CorsOrigins []string
	// MaxBatch bounds the number of transmissions per batch request.
	MaxBatch int
}

type fileConfig struct {
	Workers       int              `toml:"workers"`
	MaxDepth      int              `toml:"max_depth"`
	StrictPadding bool             `toml:"strict_padding"`
	Output        string           `toml:"output"`
	LogLevel      string           `toml:"log_level"`
	Server        fileServerConfig `toml:"server"`
}

type fileServerConfig struct {
	ID          string   `toml:"id"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	MaxBatch    int      `toml:"max_batch"`
}

func Default() Config {
	return Config{
		Workers:  4,
		MaxDepth: packet.DefaultOptions().MaxDepth,
		Output:   OutputText,
		LogLevel: "info",
		Server: ServerConfig{
			ID:          "pktdecode",
			Addr:        ":9200",
			CorsOrigins: []string{"http://localhost:3000"},
			MaxBatch:    1024,
		},
	}
}

// Load overlays the keys defined in the TOML file at path onto Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("strict_padding") {
		cfg.StrictPadding = raw.StrictPadding
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("server", "id") {
		cfg.Server.ID = strings.TrimSpace(raw.Server.ID)
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "cors_origins") {
		cfg.Server.CorsOrigins = normalizeOrigins(raw.Server.CorsOrigins)
	}
	if meta.IsDefined("server", "max_batch") {
		cfg.Server.MaxBatch = raw.Server.MaxBatch
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", cfg.MaxDepth)
	}
	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", cfg.Output)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return ValidateServer(cfg.Server)
}

func ValidateServer(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("server config missing id")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.MaxBatch < 1 {
		return fmt.Errorf("server max_batch must be at least 1, got %d", cfg.MaxBatch)
	}
	return nil
}

// DecodeOptions maps the config onto decoder options.
func (c Config) DecodeOptions() packet.Options {
	return packet.Options{MaxDepth: c.MaxDepth, StrictPadding: c.StrictPadding}
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
