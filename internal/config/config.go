package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port     int    `yaml:"port" env:"PORT"`
		Timezone string `yaml:"timezone" env:"TIMEZONE"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host" env:"DB_HOST,required"`
		Port     int    `yaml:"port" env:"DB_PORT,required"`
		User     string `yaml:"user" env:"DB_USER,required"`
		Password string `yaml:"password" env:"DB_PASSWORD,required"`
		DBName   string `yaml:"dbname" env:"DB_NAME,required"`
		SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE,required"`
	} `yaml:"database"`

	Discord struct {
		Token     string `yaml:"token" env:"DISCORD_TOKEN"`
		ChannelID string `yaml:"channel_id" env:"DISCORD_CHANNEL_ID"`
	} `yaml:"discord"`

	Notifications struct {
		Buffer int `yaml:"buffer"`
	} `yaml:"notifications"`
}

func Load() (*Config, error) {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Replace environment variables in the YAML content
	content := string(data)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		placeholder := "${" + pair[0] + "}"
		content = strings.ReplaceAll(content, placeholder, pair[1])
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Convert numeric ports if supplied as environment variables
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT value: %w", err)
		}
		cfg.Database.Port = port
	}
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value: %w", err)
		}
		cfg.Server.Port = port
	}

	// An unexpanded placeholder means the variable was never set;
	// treat optional Discord settings as absent rather than literal.
	if strings.Contains(cfg.Discord.Token, "${") {
		cfg.Discord.Token = ""
	}
	if strings.Contains(cfg.Discord.ChannelID, "${") {
		cfg.Discord.ChannelID = ""
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "UTC"
	}
	if cfg.Notifications.Buffer <= 0 {
		cfg.Notifications.Buffer = 256
	}

	return &cfg, nil
}
