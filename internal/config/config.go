// Package config defines service configuration and its loading rules.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// UploadDir is the base directory for stored event images.
	// Empty means uploads are kept in memory (dev only).
	UploadDir string `koanf:"upload_dir"`

	// DashboardTTL bounds how long the academy dashboard view is served
	// without re-fetching from storage.
	DashboardTTL time.Duration `koanf:"dashboard_ttl"`

	// PublicTTL bounds staleness of the public landing view.
	PublicTTL time.Duration `koanf:"public_ttl"`

	// AdminTTL bounds staleness of the admin panel view.
	AdminTTL time.Duration `koanf:"admin_ttl"`

	// RefreshInterval is how often the background refresher re-checks
	// cached views for staleness.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// DashboardPageSize caps how many upcoming events the dashboard shows.
	DashboardPageSize int `koanf:"dashboard_page_size"`

	// SessionTTL bounds how long a login session stays valid.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// AdminEmail and AdminPassword seed the initial admin account when no
	// admin exists yet. AdminPassword empty disables seeding.
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`

	// ResendKey enables outbound email via Resend when set.
	ResendKey string `koanf:"resend_key"`

	// EmailFrom is the default sender address.
	EmailFrom string `koanf:"email_from"`

	// EmailReplyTo is the default reply-to address.
	EmailReplyTo string `koanf:"email_reply_to"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:              ":8080",
		LogLevel:          "info",
		DBPath:            "mexxusarena.db",
		UploadDir:         "uploads",
		DashboardTTL:      60 * time.Second,
		PublicTTL:         5 * time.Minute,
		AdminTTL:          60 * time.Second,
		RefreshInterval:   60 * time.Second,
		DashboardPageSize: 6,
		SessionTTL:        24 * time.Hour,
		AdminEmail:        "admin@mexxusarena.com",
		EmailFrom:         "MEXXUS ARENA <noreply@mexxusarena.com>",
		EmailReplyTo:      "",
	}
}
