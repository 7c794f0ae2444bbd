package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Pipeline struct {
		BaseURL      string        `yaml:"base_url"`
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"pipeline"`
	Assistant struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"assistant"`
	Supabase struct {
		URL             string `yaml:"url"`
		AnonKey         string `yaml:"anon_key"`
		JWTSecret       string `yaml:"jwt_secret"`
		StorageEndpoint string `yaml:"storage_endpoint"`
		StorageRegion   string `yaml:"storage_region"`
		StorageAccess   string `yaml:"storage_access_key"`
		StorageSecret   string `yaml:"storage_secret_key"`
		Buckets         struct {
			Uploads string `yaml:"uploads"`
			Cropped string `yaml:"cropped"`
			Video   string `yaml:"video"`
		} `yaml:"buckets"`
	} `yaml:"supabase"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Session struct {
		CookieName string        `yaml:"cookie_name"`
		TTL        time.Duration `yaml:"ttl"`
		Secret     string        `yaml:"secret"`
		Secure     bool          `yaml:"secure"`
	} `yaml:"session"`
}

// LoadConfig reads CONFIG_PATH (default config.yaml) and fills the gaps
// from environment variables, so a bare container can run on env alone.
func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Failed to unmarshal config data: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("Failed to read config file: %v", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyEnv() {
	setenv(&cfg.Server.Address, "SERVER_ADDRESS")
	setenv(&cfg.Pipeline.BaseURL, "PIPELINE_URL")
	setenv(&cfg.Assistant.BaseURL, "ASSISTANT_URL")
	setenv(&cfg.Supabase.URL, "SUPABASE_URL")
	setenv(&cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY")
	setenv(&cfg.Supabase.JWTSecret, "SUPABASE_JWT_SECRET")
	setenv(&cfg.Supabase.StorageEndpoint, "SUPABASE_STORAGE_ENDPOINT")
	setenv(&cfg.Supabase.StorageRegion, "SUPABASE_STORAGE_REGION")
	setenv(&cfg.Supabase.StorageAccess, "SUPABASE_STORAGE_ACCESS_KEY")
	setenv(&cfg.Supabase.StorageSecret, "SUPABASE_STORAGE_SECRET_KEY")
	setenv(&cfg.Redis.Addr, "REDIS_ADDR")
	setenv(&cfg.Redis.Password, "REDIS_PASSWORD")
	setenv(&cfg.Session.Secret, "SESSION_SECRET")
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":4000"
	}
	if cfg.Pipeline.BaseURL == "" {
		cfg.Pipeline.BaseURL = "http://localhost:5000"
	}
	if cfg.Pipeline.PollInterval == 0 {
		cfg.Pipeline.PollInterval = 2 * time.Second
	}
	if cfg.Assistant.BaseURL == "" {
		cfg.Assistant.BaseURL = cfg.Pipeline.BaseURL
	}
	if cfg.Supabase.StorageRegion == "" {
		cfg.Supabase.StorageRegion = "us-east-1"
	}
	if cfg.Supabase.Buckets.Uploads == "" {
		cfg.Supabase.Buckets.Uploads = "used_upload"
	}
	if cfg.Supabase.Buckets.Cropped == "" {
		cfg.Supabase.Buckets.Cropped = "cropped"
	}
	if cfg.Supabase.Buckets.Video == "" {
		cfg.Supabase.Buckets.Video = "video"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "declutter_session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
}

func setenv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
