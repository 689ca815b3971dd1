package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names an optional YAML file read before the environment.
const FileEnv = "PLANTSCAN_CONFIG"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	DBPath          string        `yaml:"db_path"`
	PhotoPath       string        `yaml:"photo_local_path"`
	VisionBackend   string        `yaml:"vision_backend"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"`
	GeminiModel     string        `yaml:"gemini_model"`
	ClaudeAPIKey    string        `yaml:"claude_api_key"`
	ClaudeModel     string        `yaml:"claude_model"`
	OllamaHost      string        `yaml:"ollama_host"`
	OllamaModel     string        `yaml:"ollama_model"`
	AITimeout       time.Duration `yaml:"ai_timeout"`
	ScanConcurrency int           `yaml:"scan_concurrency"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	LogFile         string        `yaml:"log_file"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:      ":8080",
		DBPath:          "/data/plantscan.db",
		PhotoPath:       "/data/photos",
		VisionBackend:   "gemini",
		GeminiModel:     "gemini-2.5-flash",
		ClaudeModel:     "claude-sonnet-4-5",
		OllamaHost:      "http://localhost:11434",
		OllamaModel:     "llava",
		ScanConcurrency: 4,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// PLANTSCAN_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.PhotoPath = getEnv("PHOTO_LOCAL_PATH", cfg.PhotoPath)
	cfg.VisionBackend = getEnv("VISION_BACKEND", cfg.VisionBackend)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	var err error
	if cfg.AITimeout, err = getEnvDuration("AI_TIMEOUT", cfg.AITimeout); err != nil {
		return nil, err
	}
	if cfg.ScanConcurrency, err = getEnvInt("SCAN_CONCURRENCY", cfg.ScanConcurrency); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.VisionBackend {
	case "gemini", "claude", "ollama":
	default:
		return fmt.Errorf("%w: unknown vision backend %q", ErrInvalid, c.VisionBackend)
	}
	if c.AITimeout < 0 {
		return fmt.Errorf("%w: AI_TIMEOUT must not be negative", ErrInvalid)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}
	if c.ScanConcurrency < 1 {
		return fmt.Errorf("%w: SCAN_CONCURRENCY must be at least 1", ErrInvalid)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return n, nil
}
