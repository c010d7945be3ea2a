package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL    string `yaml:"api_base_url"`
	AuthBaseURL   string `yaml:"auth_base_url"`
	AuthAnonKey   string `yaml:"auth_anon_key"`
	ExecBaseURL   string `yaml:"exec_base_url"`
	SpeechBaseURL string `yaml:"speech_base_url"`
	SpeechAPIKey  string `yaml:"speech_api_key"`

	// External commands for the audio adapters. Capability detection probes
	// for these once at startup; a missing command degrades the relevant
	// adapter, it is not an error.
	CaptureCommand string `yaml:"capture_command"`
	PlayerCommand  string `yaml:"player_command"`

	SessionMinutes    int    `yaml:"session_minutes"`
	DefaultDifficulty int    `yaml:"default_difficulty"`
	DefaultLanguage   string `yaml:"default_language"`
	LogFile           string `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL:        "http://localhost:8000",
		ExecBaseURL:       "https://emkc.org/api/v2/piston",
		SpeechBaseURL:     "https://api.deepgram.com/v1",
		CaptureCommand:    "ffmpeg",
		PlayerCommand:     "ffplay",
		SessionMinutes:    60,
		DefaultDifficulty: 3,
		DefaultLanguage:   "python",
	}
}

// DefaultConfigPath is ~/.config/friday/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "friday", "config.yaml")
}

// LoadConfig reads the yaml config at path, fills unset fields with defaults
// and applies FRIDAY_* environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.ExecBaseURL == "" {
		cfg.ExecBaseURL = "https://emkc.org/api/v2/piston"
	}
	if cfg.SessionMinutes <= 0 {
		cfg.SessionMinutes = 60
	}
	if cfg.DefaultDifficulty < 1 || cfg.DefaultDifficulty > 5 {
		cfg.DefaultDifficulty = 3
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "python"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogPath()
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FRIDAY_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("FRIDAY_AUTH_URL"); v != "" {
		cfg.AuthBaseURL = v
	}
	if v := os.Getenv("FRIDAY_AUTH_ANON_KEY"); v != "" {
		cfg.AuthAnonKey = v
	}
	if v := os.Getenv("FRIDAY_EXEC_URL"); v != "" {
		cfg.ExecBaseURL = v
	}
	if v := os.Getenv("FRIDAY_SPEECH_URL"); v != "" {
		cfg.SpeechBaseURL = v
	}
	if v := os.Getenv("DEEPGRAM_API_KEY"); v != "" {
		cfg.SpeechAPIKey = v
	}
	if v := os.Getenv("FRIDAY_SESSION_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionMinutes = n
		}
	}
	if v := os.Getenv("FRIDAY_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "friday.log")
	}
	return filepath.Join(home, ".local", "state", "friday", "friday.log")
}
