package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	DB      DB      `yaml:"db"`
	OpenAI  OpenAI  `yaml:"openai"`
	Context Context `yaml:"context"`
}

type OpenAI struct {
	Reply   ModelConfig `yaml:"reply" validate:"required"`
	Summary ModelConfig `yaml:"summary" validate:"required"`
}

type ModelConfig struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// API token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free" validate:"required"`
	// Completion token limit
	MaxTokens int `yaml:"max_tokens" example:"1000"`
	// Sampling temperature
	Temperature float32 `yaml:"temperature" example:"0.7"`
}

type Server struct {
	// HTTP listen port
	Port int `yaml:"port" example:"8080"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type DB struct {
	// SQLite database file path
	Path string `yaml:"path" example:"data/conversations.db"`
}

type Context struct {
	// Number of most recent messages included in the reply context
	RecentWindow int `yaml:"recent_window" example:"5"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Port == 0 {
		result.Server.Port = 8080
	}
	if result.DB.Path == "" {
		result.DB.Path = "data/conversations.db"
	}
	if result.Context.RecentWindow == 0 {
		result.Context.RecentWindow = 5
	}
	applyModelDefaults(&result.OpenAI.Reply)
	applyModelDefaults(&result.OpenAI.Summary)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyModelDefaults(cfg *ModelConfig) {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
}
