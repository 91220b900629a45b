// Package config defines the application configuration, loaded through viper
// from config file, environment variables, and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logger        LoggerConfig        `mapstructure:"logger"`
	Server        ServerConfig        `mapstructure:"server"`
	Harvester     HarvesterConfig     `mapstructure:"harvester"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// AppConfig identifies the application instance.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	Encoding    string `mapstructure:"encoding"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// HarvesterConfig configures the crawl-dedupe-persist pipeline.
type HarvesterConfig struct {
	// UserAgent identifies the harvester; set once and reused for every
	// request.
	UserAgent string `mapstructure:"user_agent"`
	// StorePath is the JSON state file.
	StorePath string `mapstructure:"store_path"`
	// RequestTimeout bounds a single fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// AllowedDomains is the relevance allow-list for discovered links.
	AllowedDomains []string `mapstructure:"allowed_domains"`
	// TopicKeywords accept off-domain links mentioning the topic.
	TopicKeywords []string `mapstructure:"topic_keywords"`
	// ArticleMarkers are path segments that mark an article link.
	ArticleMarkers []string `mapstructure:"article_markers"`
	// ShallowPathDomain is the site family with slug-at-root article URLs.
	ShallowPathDomain string `mapstructure:"shallow_path_domain"`
	// ExcludedSegments are shallow paths that are never articles.
	ExcludedSegments []string `mapstructure:"excluded_segments"`
	// LogBufferSize caps a run handle's buffered progress lines.
	LogBufferSize int `mapstructure:"log_buffer_size"`
}

// ElasticsearchConfig configures the chunk ingest sink.
type ElasticsearchConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Addresses    []string `mapstructure:"addresses"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	APIKey       string   `mapstructure:"api_key"`
	IndexName    string   `mapstructure:"index_name"`
	ChunkSize    int      `mapstructure:"chunk_size"`
	ChunkOverlap int      `mapstructure:"chunk_overlap"`
}

// Load decodes the viper configuration tree into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
