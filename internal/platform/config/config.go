package config

import "time"

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Gemini GeminiConfig `yaml:"gemini"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// GeminiConfig holds the upstream vision model settings. APIKey is required
// and immutable after startup.
type GeminiConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"url"`
	ModelName   string        `yaml:"model_name"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no config file is present.
// The API key has no default: it must come from the environment or the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
		Gemini: GeminiConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			ModelName:   "gemini-1.5-flash-latest",
			Temperature: 0.1,
			Timeout:     30 * time.Second,
		},
	}
}
