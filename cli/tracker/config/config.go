package config

/*
Описание конфигурационного файла
*/

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

const (
	defaultApiPort               = 5000
	defaultRefreshCronExpression = "0 */10 * * * *"
	defaultMigrationsPath        = "file://migrations"
	defaultGeocodeHost           = "https://nominatim.openstreetmap.org"
	defaultGeocodeUserAgent      = "LiveTruckTracker/1.0"
	defaultTimeoutSeconds        = 10
	defaultCacheTTLHours         = 24 * 7
	defaultMirrorBuffer          = 1024
)

type Telemetry struct {
	URL            string `yaml:"url"`
	BearerToken    string `yaml:"bearer_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GeocodeCache struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

type Geocode struct {
	Host           string       `yaml:"host"`
	UserAgent      string       `yaml:"user_agent"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	Cache          GeocodeCache `yaml:"cache"`
}

type Mirror struct {
	Buffer  int                          `yaml:"buffer"`
	Workers int                          `yaml:"workers"`
	Stores  map[string]map[string]string `yaml:"stores"`
}

type Config struct {
	ApiPort               int32             `yaml:"api_port"`
	LogLevel              string            `yaml:"log_level"`
	LogFilePath           string            `yaml:"log_file_path"`
	LogMaxAgeDays         int               `yaml:"log_max_age_days"`
	MigrationsPath        string            `yaml:"migrations_path"`
	Store                 map[string]string `yaml:"store"`
	Mirror                Mirror            `yaml:"mirror"`
	Telemetry             Telemetry         `yaml:"telemetry"`
	Geocode               Geocode           `yaml:"geocode"`
	RefreshCronExpression string            `yaml:"refresh_cron_expression"`
}

func (c *Config) GetLogLevel() log.Level {
	var lvl log.Level

	switch c.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

func (c *Config) GetTelemetryTimeout() time.Duration {
	return time.Duration(c.Telemetry.TimeoutSeconds) * time.Second
}

func (c *Config) GetGeocodeTimeout() time.Duration {
	return time.Duration(c.Geocode.TimeoutSeconds) * time.Second
}

func (c *Config) GetGeocodeCacheTTL() time.Duration {
	return time.Duration(c.Geocode.Cache.TTLHours) * time.Hour
}

func (c *Config) IsGeocodeCacheEnabled() bool {
	return c.Geocode.Cache.Addr != ""
}

// NewConfig reads the YAML file at confPath, applies environment overrides and defaults.
func NewConfig(confPath string) (Config, error) {
	c := Config{}
	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, err
	}

	// .env is optional, the real environment wins over it
	_ = godotenv.Load()
	c.applyEnv()
	c.applyDefaults()

	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEMETRY_API_URL"); v != "" {
		c.Telemetry.URL = v
	}
	if v := os.Getenv("TELEMETRY_BEARER_TOKEN"); v != "" {
		c.Telemetry.BearerToken = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Errorf("Invalid API_PORT %q, keeping %d", v, c.ApiPort)
		} else {
			c.ApiPort = int32(port)
		}
	}
}

func (c *Config) applyDefaults() {
	if c.ApiPort == 0 {
		c.ApiPort = defaultApiPort
	}
	if c.RefreshCronExpression == "" {
		c.RefreshCronExpression = defaultRefreshCronExpression
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = defaultMigrationsPath
	}
	if c.Telemetry.TimeoutSeconds <= 0 {
		c.Telemetry.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Geocode.Host == "" {
		c.Geocode.Host = defaultGeocodeHost
	}
	if c.Geocode.UserAgent == "" {
		c.Geocode.UserAgent = defaultGeocodeUserAgent
	}
	if c.Geocode.TimeoutSeconds <= 0 {
		c.Geocode.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Geocode.Cache.TTLHours <= 0 {
		c.Geocode.Cache.TTLHours = defaultCacheTTLHours
	}
	if c.Mirror.Buffer <= 0 {
		c.Mirror.Buffer = defaultMirrorBuffer
	}
	if c.Telemetry.URL == "" {
		log.Warn("Telemetry URL is empty, refresh cycles will fail until it is configured")
	}
}
