package config

import (
	"encoding/json"
	"os"
	"strconv"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Uploads  UploadsConfig  `json:"uploads"`
	Logging  LoggingConfig  `json:"logging"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	PoolSize int    `json:"pool_size"`
}

type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

type UploadsConfig struct {
	Dir      string `json:"dir"`
	URLBase  string `json:"url_base"`
	MaxWidth int    `json:"max_width"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// LoadConfig reads defaults, then the JSON file if present, then the
// environment; the environment wins.
func LoadConfig(path string) (*Config, error) {
	config := getDefaultConfig()

	loadFromEnvironment(config)

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, err
		}
		// Override again with environment variables to give them priority
		loadFromEnvironment(config)
	}

	return config, nil
}

func getDefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "producto",
			Username: "root",
			Password: "",
			PoolSize: 10,
		},
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Uploads: UploadsConfig{
			Dir:      "uploads",
			URLBase:  "/uploads",
			MaxWidth: 1280,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "stdout",
		},
	}
}

func loadFromEnvironment(config *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Port = p
		}
	}
	if database := os.Getenv("DB_NAME"); database != "" {
		config.Database.Database = database
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		config.Database.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		config.Uploads.Dir = dir
	}
	if width := os.Getenv("UPLOADS_MAX_WIDTH"); width != "" {
		if w, err := strconv.Atoi(width); err == nil {
			config.Uploads.MaxWidth = w
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		config.Logging.File = file
	}
}
