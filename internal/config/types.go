package config

import "time"

// Config is the top-level folio configuration, corresponding to folio.yaml.
type Config struct {
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Log        LogConfig        `yaml:"log" koanf:"log"`
	Content    ContentConfig    `yaml:"content" koanf:"content"`
	Session    SessionConfig    `yaml:"session" koanf:"session"`
	Theme      ThemeConfig      `yaml:"theme" koanf:"theme"`
	Navigation NavigationConfig `yaml:"navigation" koanf:"navigation"`
	Resume     ResumeConfig     `yaml:"resume" koanf:"resume"`
	SMTP       SMTPConfig       `yaml:"smtp" koanf:"smtp"`
	Admin      AdminConfig      `yaml:"admin" koanf:"admin"`
	Database   DatabaseConfig   `yaml:"database" koanf:"database"`
	Tracking   TrackingConfig   `yaml:"tracking" koanf:"tracking"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port      string `yaml:"port" koanf:"port"`
	Mode      string `yaml:"mode" koanf:"mode"`
	StaticDir string `yaml:"static_dir" koanf:"static_dir"`
	ImagesDir string `yaml:"images_dir" koanf:"images_dir"`
	Templates string `yaml:"templates" koanf:"templates"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Level       string `yaml:"level" koanf:"level"`
	Development bool   `yaml:"development" koanf:"development"`
}

// ContentConfig points at an external site file. Empty uses the built-in
// content.
type ContentConfig struct {
	File     string        `yaml:"file" koanf:"file"`
	Watch    bool          `yaml:"watch" koanf:"watch"`
	Debounce time.Duration `yaml:"debounce" koanf:"debounce"`
}

// SessionConfig controls live pages. CookieName is the long-lived visitor
// cookie that keys stored preferences.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" koanf:"cookie_name"`
	TTL        time.Duration `yaml:"ttl" koanf:"ttl"`
	Sweep      time.Duration `yaml:"sweep" koanf:"sweep"`
	MaxActive  int           `yaml:"max_active" koanf:"max_active"`
}

// ThemeConfig configures the theme toggle.
type ThemeConfig struct {
	Default    string   `yaml:"default" koanf:"default"`
	Themes     []string `yaml:"themes" koanf:"themes"`
	StorageKey string   `yaml:"storage_key" koanf:"storage_key"`
}

// NavigationConfig tunes scrolling.
type NavigationConfig struct {
	HeaderOffset    float64 `yaml:"header_offset" koanf:"header_offset"`
	SectionOffset   float64 `yaml:"section_offset" koanf:"section_offset"`
	ScrollThreshold float64 `yaml:"scroll_threshold" koanf:"scroll_threshold"`
}

// ResumeConfig configures the resume download. ShareURL and Filename
// override the site content.
type ResumeConfig struct {
	ShareURL string        `yaml:"share_url" koanf:"share_url"`
	Filename string        `yaml:"filename" koanf:"filename"`
	BaseURL  string        `yaml:"base_url" koanf:"base_url"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
}

// SMTPConfig holds contact form delivery settings.
type SMTPConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port string `yaml:"port" koanf:"port"`
	User string `yaml:"user" koanf:"user"`
	Pass string `yaml:"pass" koanf:"pass"`
	To   string `yaml:"to" koanf:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// TrackingConfig toggles visitor tracking.
type TrackingConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}
