package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that accepts YAML strings like "10m" as
// well as raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Download DownloadConfig `yaml:"download"`
	Issues   IssuesConfig   `yaml:"issues"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	Debug     bool   `yaml:"debug"`
	StaticDir string `yaml:"static_dir"`
}

type DownloadConfig struct {
	YTDLPPath    string   `yaml:"ytdlp_path"`
	FFmpegPath   string   `yaml:"ffmpeg_path"`
	FFprobePath  string   `yaml:"ffprobe_path"`
	Timeout      Duration `yaml:"timeout"`
	MaxHeight    int      `yaml:"max_height"`
	TempDir      string   `yaml:"temp_dir"`
	CleanupDelay Duration `yaml:"cleanup_delay"`
	UpdateOnBoot bool     `yaml:"update_on_boot"`
}

type IssuesConfig struct {
	Dir string `yaml:"dir"`
	// Backend selects where issue documents are written: "file" or "minio".
	Backend string `yaml:"backend"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
// A missing file is not an error; the service runs on defaults and env alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "static"
	}
	if cfg.Download.YTDLPPath == "" {
		cfg.Download.YTDLPPath = "yt-dlp"
	}
	if cfg.Download.FFmpegPath == "" {
		cfg.Download.FFmpegPath = "ffmpeg"
	}
	if cfg.Download.FFprobePath == "" {
		cfg.Download.FFprobePath = "ffprobe"
	}
	if cfg.Download.Timeout == 0 {
		cfg.Download.Timeout = Duration(10 * time.Minute)
	}
	if cfg.Download.MaxHeight == 0 {
		cfg.Download.MaxHeight = 2160
	}
	if cfg.Download.CleanupDelay == 0 {
		cfg.Download.CleanupDelay = Duration(5 * time.Minute)
	}
	if cfg.Issues.Dir == "" {
		cfg.Issues.Dir = "issues"
	}
	if cfg.Issues.Backend == "" {
		cfg.Issues.Backend = "file"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	// PORT, DEBUG and UPDATE_YTDLP are honored without a prefix; hosting
	// platforms inject PORT directly.
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Debug = b
		}
	}
	if v := os.Getenv("UPDATE_YTDLP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Download.UpdateOnBoot = b
		}
	}
	if v := os.Getenv("CLIPFETCH_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("CLIPFETCH_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("CLIPFETCH_YTDLP_PATH"); v != "" {
		cfg.Download.YTDLPPath = v
	}
	if v := os.Getenv("CLIPFETCH_FFMPEG_PATH"); v != "" {
		cfg.Download.FFmpegPath = v
	}
	if v := os.Getenv("CLIPFETCH_FFPROBE_PATH"); v != "" {
		cfg.Download.FFprobePath = v
	}
	if v := os.Getenv("CLIPFETCH_DOWNLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Download.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("CLIPFETCH_CLEANUP_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Download.CleanupDelay = Duration(d)
		}
	}
	if v := os.Getenv("CLIPFETCH_TEMP_DIR"); v != "" {
		cfg.Download.TempDir = v
	}
	if v := os.Getenv("CLIPFETCH_ISSUES_DIR"); v != "" {
		cfg.Issues.Dir = v
	}
	if v := os.Getenv("CLIPFETCH_ISSUES_BACKEND"); v != "" {
		cfg.Issues.Backend = v
	}
	if v := os.Getenv("CLIPFETCH_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("CLIPFETCH_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("CLIPFETCH_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("CLIPFETCH_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("CLIPFETCH_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("CLIPFETCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CLIPFETCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
