// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Team     TeamConfig     `mapstructure:"team"`
	Season   SeasonConfig   `mapstructure:"season"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Players  PlayersConfig  `mapstructure:"players"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TeamConfig identifies the tracked team in the Profixio feeds.
type TeamConfig struct {
	TrackedTeamID int    `mapstructure:"tracked_team_id"`
	Name          string `mapstructure:"name"`
}

// SeasonConfig holds the season calendar used for kickoff-year inference.
type SeasonConfig struct {
	StartMonth int    `mapstructure:"start_month"`
	StartYear  int    `mapstructure:"start_year"`
	Timezone   string `mapstructure:"timezone"`
}

// Location resolves the configured schedule timezone.
func (s SeasonConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid season timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// PathsConfig holds the fixed directory and file layout.
type PathsConfig struct {
	RawDir       string `mapstructure:"raw_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
	SiteDataDir  string `mapstructure:"site_data_dir"`
	ScheduleFile string `mapstructure:"schedule_file"`
	LinksFile    string `mapstructure:"links_file"`
	SourcesFile  string `mapstructure:"sources_file"`
}

// FetchConfig holds feed download behavior.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// PlayersConfig holds the season table presentation policy.
type PlayersConfig struct {
	Sort string `mapstructure:"sort"` // "points" or "name"
}

// StorageConfig holds the journal database location.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// TelegramConfig holds run-summary notification configuration.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file and environment variables.
// The entry points take no arguments, so a missing file is not an error:
// defaults plus KOGSTATS_* environment overrides apply instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("KOGSTATS")
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Kungsholmen OG in Profixio
	v.SetDefault("team.tracked_team_id", 1403069)
	v.SetDefault("team.name", "Kungsholmen OG")

	// Update season.start_year when rolling into a new campaign.
	v.SetDefault("season.start_month", 9)
	v.SetDefault("season.start_year", 2025)
	v.SetDefault("season.timezone", "Europe/Stockholm")

	v.SetDefault("paths.raw_dir", "data/raw")
	v.SetDefault("paths.processed_dir", "data/processed")
	v.SetDefault("paths.site_data_dir", "docs/data")
	v.SetDefault("paths.schedule_file", "data/schedule.csv")
	v.SetDefault("paths.links_file", "data/links.txt")
	v.SetDefault("paths.sources_file", "data/sources.txt")

	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.user_agent", "kog-stats-fetcher/1.0")

	v.SetDefault("players.sort", "points")

	v.SetDefault("storage.db_path", "data/kogstats.db")

	v.SetDefault("telegram.enabled", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Team.TrackedTeamID <= 0 {
		return fmt.Errorf("team.tracked_team_id must be positive")
	}

	if c.Season.StartMonth < 1 || c.Season.StartMonth > 12 {
		return fmt.Errorf("season.start_month must be between 1 and 12")
	}
	if c.Season.StartYear < 2000 {
		return fmt.Errorf("season.start_year must be a full year (got %d)", c.Season.StartYear)
	}
	if _, err := c.Season.Location(); err != nil {
		return err
	}

	if c.Paths.RawDir == "" {
		return fmt.Errorf("paths.raw_dir is required")
	}
	if c.Paths.ProcessedDir == "" {
		return fmt.Errorf("paths.processed_dir is required")
	}
	if c.Paths.SiteDataDir == "" {
		return fmt.Errorf("paths.site_data_dir is required")
	}

	if c.Fetch.Timeout < 1*time.Second {
		return fmt.Errorf("fetch.timeout must be at least 1 second")
	}
	if c.Fetch.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent is required")
	}

	if c.Players.Sort != "points" && c.Players.Sort != "name" {
		return fmt.Errorf("players.sort must be one of: points, name")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
