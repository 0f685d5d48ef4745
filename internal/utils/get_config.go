package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`
	LogFile      string `yaml:"LOG_FILE"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT configuration
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:       "8080",
		AppURL:        "http://localhost:8080",
		RateLimitMax:  10,
		LogFile:       "./logs/app.log",
		DBPort:        "5432",
		DBHost:        "localhost",
		JWTTTLMinutes: 120,
	}
}

func LoadConfig() error {
	return LoadConfigFrom("config.yaml")
}

// LoadConfigFrom reads a YAML file over the defaults. Values set in the
// environment under the same key take precedence over the file.
func LoadConfigFrom(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	loaded := defaultConfig()
	if err := yaml.Unmarshal(file, &loaded); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	config = loaded

	for _, key := range []string{"DB_PASSWORD", "JWT_SECRET", "SMTP_AUTH_PASSWORD", "AWS_SECRET_KEY", "AWS_ACCESS_KEY"} {
		if v, ok := os.LookupEnv(key); ok {
			setConfig(key, v)
		}
	}
	return nil
}

func setConfig(key, value string) {
	switch key {
	case "DB_PASSWORD":
		config.DBPassword = value
	case "JWT_SECRET":
		config.JWTSecret = value
	case "SMTP_AUTH_PASSWORD":
		config.SMTPAuthPassword = value
	case "AWS_SECRET_KEY":
		config.AWSSecretKey = value
	case "AWS_ACCESS_KEY":
		config.AWSAccessKey = value
	}
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "LOG_FILE":
		return config.LogFile
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return strconv.Itoa(config.JWTTTLMinutes)
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetConfigInt returns an integer config value, or fallback when the value
// is missing or not a number.
func GetConfigInt(key string, fallback int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
