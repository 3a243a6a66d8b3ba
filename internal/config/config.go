package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the server looks for its YAML config unless
// overridden with -config.
const DefaultConfigPath = "config.yml"

const (
	defaultPort             = 3000
	defaultAppURL           = "http://localhost:3000"
	defaultAutoApproveHours = 48
	defaultReminderHours    = 24
	defaultSendDelayMS      = 100
	defaultBackupInterval   = 24
)

// Load reads the YAML config at path, applies defaults and environment
// overrides for secrets. A missing file is not an error; defaults apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// run on defaults + environment
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.applyTimezone(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = "development"
	}
	if strings.TrimSpace(c.AppURL) == "" {
		c.AppURL = defaultAppURL
	}
	c.AppURL = strings.TrimRight(c.AppURL, "/")
	if c.SLA.AutoApproveHours <= 0 {
		c.SLA.AutoApproveHours = defaultAutoApproveHours
	}
	if c.SLA.ReminderHours <= 0 {
		c.SLA.ReminderHours = defaultReminderHours
	}
	if c.Alimtalk.Provider == "" {
		c.Alimtalk.Provider = "console"
	}
	if c.Alimtalk.SendDelayMS <= 0 {
		c.Alimtalk.SendDelayMS = defaultSendDelayMS
	}
	if c.AI.Type == "" {
		c.AI.Type = "anthropic"
	}
	if c.Backup.IntervalHours <= 0 {
		c.Backup.IntervalHours = defaultBackupInterval
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = "backups"
	}
}

// applyEnv lets secrets come from the environment, matching the original
// deployment's environment variable names.
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("BIZGO_API_KEY"); v != "" {
		c.Alimtalk.APIKey = v
	}
	if v := os.Getenv("BIZGO_SENDER_KEY"); v != "" {
		c.Alimtalk.SenderKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.AI.APIKey == "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("APP_URL"); v != "" {
		c.AppURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
}

func (c *AppConfig) applyTimezone() error {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	time.Local = loc
	_ = os.Setenv("TZ", tz)
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

// AutoApproveWindow is how long a pending manuscript waits before the sweep
// auto-approves it.
func (c *AppConfig) AutoApproveWindow() time.Duration {
	return time.Duration(c.SLA.AutoApproveHours) * time.Hour
}

// ReminderWindow is how long a pending manuscript waits before the reminder
// notification goes out.
func (c *AppConfig) ReminderWindow() time.Duration {
	return time.Duration(c.SLA.ReminderHours) * time.Hour
}

// SendDelay is the pause between consecutive notification sends in a batch.
func (c *AppConfig) SendDelay() time.Duration {
	return time.Duration(c.Alimtalk.SendDelayMS) * time.Millisecond
}
