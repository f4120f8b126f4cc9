package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Users   UsersConfig   `yaml:"users"`
	Store   StoreConfig   `yaml:"store"`
	Archive ArchiveConfig `yaml:"archive"`
	Proxy   ProxyConfig   `yaml:"proxy"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type SessionConfig struct {
	Secret       string `yaml:"secret"`
	CookieSecure bool   `yaml:"cookie_secure"`
	ExpireDays   int    `yaml:"expire_days"`
}

// Credential is one configured login pair with its display name.
type Credential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// UsersConfig holds the fixed two-role roster: one chairman, one secretary.
type UsersConfig struct {
	Chairman  Credential `yaml:"chairman"`
	Secretary Credential `yaml:"secretary"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"` // memory, mongo
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type ProxyConfig struct {
	BackendURL string `yaml:"backend_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the yaml file at path, applies environment overrides and
// defaults, validates, and returns the config. A missing file is not an
// error: deployments may configure entirely through the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto the file-provided values.
// The environment wins so secrets can stay out of the config file.
func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Session.Secret, "SESSION_SECRET")
	setString(&c.Users.Chairman.Username, "ADMIN_USER")
	setString(&c.Users.Chairman.Password, "ADMIN_PASSWORD")
	setString(&c.Users.Secretary.Username, "SECRETARY_USER")
	setString(&c.Users.Secretary.Password, "SECRETARY_PASSWORD")
	setString(&c.Store.URI, "MONGO_URI")
	setString(&c.Proxy.BackendURL, "BACKEND_URL")
	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		c.Session.CookieSecure = v == "true"
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Session.ExpireDays == 0 {
		c.Session.ExpireDays = 7
	}
	if c.Users.Chairman.FullName == "" {
		c.Users.Chairman.FullName = "رئيس الاجتماع"
	}
	if c.Users.Secretary.FullName == "" {
		c.Users.Secretary.FullName = "مقرر الاجتماع"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.Database == "" {
		c.Store.Database = "meetingminutes"
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "meetings"
	}
}

// Validate enforces the required settings. Credential pairs have no
// fallback defaults: an unset pair is a startup error, not a guessable
// password.
func (c *Config) Validate() error {
	var problems []string

	if c.Session.Secret == "" {
		problems = append(problems, "session.secret (or SESSION_SECRET) is required")
	}
	if c.Users.Chairman.Username == "" || c.Users.Chairman.Password == "" {
		problems = append(problems, "users.chairman username/password are required")
	}
	if c.Users.Secretary.Username == "" || c.Users.Secretary.Password == "" {
		problems = append(problems, "users.secretary username/password are required")
	}
	if c.Users.Chairman.Username != "" &&
		strings.EqualFold(c.Users.Chairman.Username, c.Users.Secretary.Username) {
		problems = append(problems, "users.chairman and users.secretary usernames must differ")
	}
	switch c.Store.Driver {
	case "memory":
	case "mongo":
		if c.Store.URI == "" {
			problems = append(problems, "store.uri (or MONGO_URI) is required for the mongo driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.Bucket == "") {
		problems = append(problems, "archive.endpoint and archive.bucket are required when archive is enabled")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
