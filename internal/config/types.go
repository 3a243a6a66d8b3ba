package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"` // "development" | "production"
	AppURL         string   `yaml:"app_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Timezone       string   `yaml:"timezone"`

	Database DatabaseConfig `yaml:"database"`
	RedisURL string         `yaml:"redis_url"`

	Alimtalk AlimtalkConfig `yaml:"alimtalk"`
	AI       AIProvider     `yaml:"ai"`
	SLA      SLAConfig      `yaml:"sla"`
	Backup   BackupConfig   `yaml:"backup"`
}

type DatabaseConfig struct {
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	Params   map[string]string `yaml:"params"`
}

// AlimtalkConfig configures the outbound notification gateway.
// Provider selects the adapter at startup; "console" logs sends instead of
// calling the BizGo API.
type AlimtalkConfig struct {
	Provider    string `yaml:"provider"` // "bizgo" | "console"
	APIKey      string `yaml:"api_key"`
	SenderKey   string `yaml:"sender_key"`
	SendDelayMS int    `yaml:"send_delay_ms"`
}

// AIProvider configures the text-transform service used for manuscript
// rewriting and custom generation.
type AIProvider struct {
	Type         string `yaml:"type"` // anthropic | openai | openai-compatible
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
}

// SLAConfig controls the confirmation-window sweeps.
type SLAConfig struct {
	AutoApproveHours int `yaml:"auto_approve_hours"`
	ReminderHours    int `yaml:"reminder_hours"`
}

type BackupConfig struct {
	Enable        bool      `yaml:"enable"`
	Dir           string    `yaml:"dir"`
	IntervalHours int       `yaml:"interval_hours"`
	S3            S3Options `yaml:"s3"`
}

type S3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// Enabled reports whether the S3 options are complete enough to upload.
func (o S3Options) Enabled() bool {
	return o.Bucket != "" && o.Region != "" && o.AccessKeyID != "" && o.SecretAccessKey != ""
}
