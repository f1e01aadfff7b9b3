package config

import (
	"errors"

	"github.com/ashokbhamla/triposia.com-sub002/internal/site"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver string
		URL    string
	}
	Server struct {
		Port int
	}
	Site struct {
		URL string
	}
	Sitemap struct {
		PartSize     int
		PartCount    int
		DynamicParts bool
	}
	Log struct {
		Level  string
		Format string
		Dir    string
	}
}

// LoadConfig reads config.yaml from the working directory or ./config.
func LoadConfig() (*Config, error) {
	return Load(".", "./config")
}

// Load reads config.yaml from the first of paths that has one. A missing file
// is not an error; defaults and environment variables still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "triposia.db")
	v.SetDefault("site.url", "")
	v.SetDefault("sitemap.partsize", 10000)
	v.SetDefault("sitemap.partcount", 5)
	v.SetDefault("sitemap.dynamicparts", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.dir", "")

	_ = v.BindEnv("site.url", "SITE_URL")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// BaseURL is the canonical site address, honouring the SITE_URL override.
func (c *Config) BaseURL() string {
	return site.BaseURL(c.Site.URL)
}
