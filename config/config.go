package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDeviceHost = "10.206.168.73"
	DefaultDevicePort = 8080
)

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Cloud    CloudConfig    `yaml:"cloud"`
	Audio    AudioConfig    `yaml:"audio"`
	Intake   IntakeConfig   `yaml:"intake"`
	Pushover PushoverConfig `yaml:"pushover"`
	Settings SettingsConfig `yaml:"settings"`
	Log      LogConfig      `yaml:"log"`
}

type DeviceConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	SimpleTimeout time.Duration `yaml:"simple_timeout"`
	JSONTimeout   time.Duration `yaml:"json_timeout"`
}

type CloudConfig struct {
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	Model           string        `yaml:"model"`
	Backend         string        `yaml:"backend"`
	Timeout         time.Duration `yaml:"timeout"`
	Temperature     *float32      `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
}

type AudioConfig struct {
	Backend     string        `yaml:"backend"`
	File        string        `yaml:"file"`
	PulseSource string        `yaml:"pulse_source"`
	SampleRate  int           `yaml:"sample_rate"`
	MaxDuration time.Duration `yaml:"max_duration"`
	TempDir     string        `yaml:"temp_dir"`
}

type IntakeConfig struct {
	Source    string `yaml:"source"`
	HTTPAddr  string `yaml:"http_addr"`
	Dir       string `yaml:"dir"`
	AuthToken string `yaml:"auth_token"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type SettingsConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, expanding ${VAR} references from the
// environment. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Device.Port == 0 {
		c.Device.Port = DefaultDevicePort
	}
	if c.Device.SimpleTimeout == 0 {
		c.Device.SimpleTimeout = 10 * time.Second
	}
	if c.Device.JSONTimeout == 0 {
		c.Device.JSONTimeout = 30 * time.Second
	}
	if c.Cloud.APIKey == "" {
		c.Cloud.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if c.Cloud.Model == "" {
		c.Cloud.Model = "gemini-2.5-flash"
	}
	if c.Cloud.Backend == "" {
		c.Cloud.Backend = "rest"
	}
	if c.Cloud.Timeout == 0 {
		c.Cloud.Timeout = 60 * time.Second
	}
	if c.Cloud.Temperature == nil {
		t := float32(0.3)
		c.Cloud.Temperature = &t
	}
	if c.Cloud.MaxOutputTokens == 0 {
		c.Cloud.MaxOutputTokens = 50
	}
	if c.Audio.Backend == "" {
		c.Audio.Backend = "microphone"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.MaxDuration == 0 {
		c.Audio.MaxDuration = 30 * time.Second
	}
	if c.Intake.Source == "" {
		c.Intake.Source = "http"
	}
	if c.Intake.HTTPAddr == "" {
		c.Intake.HTTPAddr = ":8090"
	}
	if c.Intake.Dir == "" {
		c.Intake.Dir = "./audio"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	var errs []error

	switch c.Cloud.Backend {
	case "rest", "sdk":
	default:
		errs = append(errs, fmt.Errorf("cloud.backend must be rest or sdk, got %q", c.Cloud.Backend))
	}
	switch c.Audio.Backend {
	case "microphone", "pulse", "file":
	default:
		errs = append(errs, fmt.Errorf("audio.backend must be microphone, pulse or file, got %q", c.Audio.Backend))
	}
	switch c.Intake.Source {
	case "http", "file":
	default:
		errs = append(errs, fmt.Errorf("intake.source must be http or file, got %q", c.Intake.Source))
	}
	if c.Device.Port <= 0 || c.Device.Port > 65535 {
		errs = append(errs, fmt.Errorf("device.port out of range: %d", c.Device.Port))
	}
	if *c.Cloud.Temperature < 0 {
		errs = append(errs, fmt.Errorf("cloud.temperature must not be negative"))
	}

	return errors.Join(errs...)
}
