// Package config loads runtime configuration from a YAML file with
// environment-variable fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 2342
	defaultEnv      = "development"
	defaultDBHost   = "127.0.0.1"
	defaultDBPort   = 3306
	defaultDBUser   = "root"
	defaultDBPass   = "password"
	defaultDBName   = "trendscope"
	defaultRedisURL = "redis://localhost:6379/0"

	defaultContentCacheTTL  = 10 * time.Minute
	defaultContentRefresh   = 30 * time.Minute
	defaultPipelineInterval = 2 * time.Second
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	DSN            string             `yaml:"dsn"` // MySQL DSN
	RedisURL       string             `yaml:"redis_url"`
	Env            string             `yaml:"env"` // "development" | "production"
	JWTSecret      string             `yaml:"jwt_secret"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Timezone       string             `yaml:"timezone"`
	Paths          PathsConfig        `yaml:"paths"`
	AI             AIConfig           `yaml:"ai"`
	Sources        SourcesConfig      `yaml:"sources"`
	Content        ContentConfig      `yaml:"content"`
	Research       ResearchConfig     `yaml:"research"`
	ReportArchive  ReportArchiveS3    `yaml:"report_archive"`
	Database       rawDatabaseConfig  `yaml:"database"`
}

type PathsConfig struct {
	Logs string `yaml:"logs"`
}

// AIConfig lists configured providers and per-feature model assignments.
type AIConfig struct {
	Providers       []AIProvider       `yaml:"providers"`
	ChatModel       *AIModelAssignment `yaml:"chat_model,omitempty"`
	ResearchModel   *AIModelAssignment `yaml:"research_model,omitempty"`
	SearchModel     *AIModelAssignment `yaml:"search_model,omitempty"`
	EnableAssistant bool               `yaml:"enable_assistant"`
	EnableResearch  bool               `yaml:"enable_research"`
}

// AIModelAssignment binds a feature to a provider and optional model
// override.
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// SourcesConfig carries credentials for the external content APIs.
type SourcesConfig struct {
	YouTubeAPIKey string `yaml:"youtube_api_key"`
	GitHubToken   string `yaml:"github_token"`
}

// ContentConfig tunes the aggregation layer.
type ContentConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// ResearchConfig tunes the analysis pipeline.
type ResearchConfig struct {
	StageInterval time.Duration `yaml:"stage_interval"`
	MaxCandidates int           `yaml:"max_candidates"`
}

// ReportArchiveS3 configures optional S3 archival of generated research
// reports.
type ReportArchiveS3 struct {
	Enable          bool   `yaml:"enable"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
}

type rawDatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development") || c.Env == ""
}

// Load reads the YAML config file at path. A missing file is not an error;
// defaults and environment variables apply on top either way.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.Sources.YouTubeAPIKey = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.Sources.GitHubToken = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" && cfg.Env == "" {
		cfg.Env = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DSN == "" {
		cfg.DSN = buildDSN(cfg.Database)
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.Content.CacheTTL <= 0 {
		cfg.Content.CacheTTL = defaultContentCacheTTL
	}
	if cfg.Content.RefreshInterval <= 0 {
		cfg.Content.RefreshInterval = defaultContentRefresh
	}
	if cfg.Research.StageInterval <= 0 {
		cfg.Research.StageInterval = defaultPipelineInterval
	}
	if cfg.Research.MaxCandidates <= 0 {
		cfg.Research.MaxCandidates = 8
	}
}

func buildDSN(db rawDatabaseConfig) string {
	host := db.Host
	if host == "" {
		host = defaultDBHost
	}
	port := db.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := db.User
	if user == "" {
		user = defaultDBUser
	}
	pass := db.Password
	if pass == "" {
		pass = defaultDBPass
	}
	name := db.Name
	if name == "" {
		name = defaultDBName
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
}
