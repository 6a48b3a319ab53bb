package internal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/bdbread/internal/btree"
)

type BdbReadConfig struct {
	AppName string `mapstructure:"app_name"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Reader struct {
		CachePages      int64  `mapstructure:"cache_pages"`
		UnpairedEntries string `mapstructure:"unpaired_entries"`
		CheckWorkers    int    `mapstructure:"check_workers"`
	} `mapstructure:"reader"`

	Shell struct {
		History    string `mapstructure:"history"`
		HistoryMax int    `mapstructure:"history_max"`
	} `mapstructure:"shell"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "bdbread")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("reader.cache_pages", 1024)
	v.SetDefault("reader.unpaired_entries", "lenient")
	v.SetDefault("reader.check_workers", 0)
	v.SetDefault("shell.history", "")
	v.SetDefault("shell.history_max", 2000)
}

// LoadConfig reads a YAML config file. An empty path yields the defaults.
func LoadConfig(path string) (*BdbReadConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg BdbReadConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *BdbReadConfig) validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Reader.UnpairedEntries) {
	case "lenient", "strict":
	default:
		return fmt.Errorf("config: reader.unpaired_entries must be lenient or strict, got %q",
			c.Reader.UnpairedEntries)
	}
	if c.Reader.CachePages < 0 {
		return fmt.Errorf("config: reader.cache_pages must be >= 0, got %d", c.Reader.CachePages)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the slog logger described by the log section.
func (c *BdbReadConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// ReaderOptions maps the reader section onto btree.Options.
func (c *BdbReadConfig) ReaderOptions(log *slog.Logger) btree.Options {
	return btree.Options{
		Logger:      log,
		CachePages:  c.Reader.CachePages,
		StrictPairs: strings.EqualFold(c.Reader.UnpairedEntries, "strict"),
	}
}
