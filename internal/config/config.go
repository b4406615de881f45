package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"

	"github.com/hashtagchobi/chobi-site/internal/domain"
)

const DefaultProjectID = "hashtagchobi-673eb"

type Config struct {
	Site     domain.Config `yaml:"site"`
	Server   Server        `yaml:"server"`
	Cache    Cache         `yaml:"cache"`
	Store    Store         `yaml:"store"`
	Firebase Firebase      `yaml:"firebase"`
	Admin    Admin         `yaml:"admin"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	LogLevel      string `yaml:"logLevel"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Cache struct {
	Driver          string `yaml:"driver"` // memory, redis, memcached
	TTL             string `yaml:"ttl"`
	RefreshInterval string `yaml:"refreshInterval"`
	Prefix          string `yaml:"prefix"`

	ttl             time.Duration
	refreshInterval time.Duration
}

// TTLDuration is the parsed ttl.
func (c Cache) TTLDuration() time.Duration {
	return c.ttl
}

// RefreshDuration is the parsed refreshInterval. Zero disables the
// background refresh.
func (c Cache) RefreshDuration() time.Duration {
	return c.refreshInterval
}

type Store struct {
	Driver   string `yaml:"driver"` // firestore, memory
	SeedFile string `yaml:"seedFile"`
	Watch    bool   `yaml:"watch"`
}

// Firebase mirrors the web app settings of the Firebase project.
type Firebase struct {
	APIKey            string `yaml:"apiKey"`
	AuthDomain        string `yaml:"authDomain"`
	ProjectID         string `yaml:"projectId"`
	StorageBucket     string `yaml:"storageBucket"`
	MessagingSenderID string `yaml:"messagingSenderId"`
	AppID             string `yaml:"appId"`
	DatabaseID        string `yaml:"databaseId"`
	CredentialsFile   string `yaml:"credentialsFile"`
	EmulatorHost      string `yaml:"emulatorHost"`
}

type Admin struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// Load reads the YAML file at path, then applies .env and environment
// overrides, defaults and validation. A missing file is not an error when
// path is empty.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var config Config
	if path != "" {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	config.applyEnv(os.LookupEnv)
	if err := config.applyDefaults(); err != nil {
		return Config{}, err
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// applyEnv overrides the Firebase settings from FIREBASE_* variables, or
// the VITE_FIREBASE_* names used by the frontend build.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	get := func(name string) (string, bool) {
		if v, ok := lookup(name); ok && v != "" {
			return v, true
		}
		if v, ok := lookup("VITE_" + name); ok && v != "" {
			return v, true
		}
		return "", false
	}

	fields := []struct {
		env string
		dst *string
	}{
		{"FIREBASE_API_KEY", &c.Firebase.APIKey},
		{"FIREBASE_AUTH_DOMAIN", &c.Firebase.AuthDomain},
		{"FIREBASE_PROJECT_ID", &c.Firebase.ProjectID},
		{"FIREBASE_STORAGE_BUCKET", &c.Firebase.StorageBucket},
		{"FIREBASE_MESSAGING_SENDER_ID", &c.Firebase.MessagingSenderID},
		{"FIREBASE_APP_ID", &c.Firebase.AppID},
	}
	for _, f := range fields {
		if v, ok := get(f.env); ok {
			*f.dst = v
		}
	}

	if v, ok := lookup("FIRESTORE_EMULATOR_HOST"); ok && v != "" {
		c.Firebase.EmulatorHost = v
	}
	if v, ok := lookup("GOOGLE_APPLICATION_CREDENTIALS"); ok && v != "" && c.Firebase.CredentialsFile == "" {
		c.Firebase.CredentialsFile = v
	}
}

func (c *Config) applyDefaults() error {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "5m"
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return fmt.Errorf("cache ttl: %w", err)
	}
	c.Cache.ttl = ttl
	if c.Cache.RefreshInterval != "" {
		interval, err := time.ParseDuration(c.Cache.RefreshInterval)
		if err != nil {
			return fmt.Errorf("cache refreshInterval: %w", err)
		}
		c.Cache.refreshInterval = interval
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = "firestore"
	}
	if c.Firebase.ProjectID == "" {
		c.Firebase.ProjectID = DefaultProjectID
	}

	c.Site.SiteName = strings.TrimSpace(c.Site.SiteName)
	if c.Site.SiteName == "" {
		c.Site.SiteName = "Hashtag Chobi"
	}
	return nil
}

func (c *Config) validate() error {
	if c.Cache.ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.Cache.refreshInterval < 0 {
		return fmt.Errorf("negative cache refreshInterval")
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Server.RedisAddr == "" {
			return fmt.Errorf("cache driver redis requires server.redisAddr")
		}
	case "memcached":
		if c.Server.MemcachedAddr == "" {
			return fmt.Errorf("cache driver memcached requires server.memcachedAddr")
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	switch c.Store.Driver {
	case "firestore":
	case "memory":
		if c.Store.Watch && c.Store.SeedFile == "" {
			return fmt.Errorf("store watch requires store.seedFile")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Server.EnableTrace && c.Server.TraceEndpoint == "" {
		return fmt.Errorf("tracing enabled but server.traceEndpoint missing")
	}
	if (c.Admin.Username == "") != (c.Admin.PasswordHash == "") {
		return fmt.Errorf("admin username and passwordHash must be set together")
	}
	return nil
}
