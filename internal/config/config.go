package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	PublicBaseURL string
	FrontendURL   string
	UploadDir     string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
	ContactEmail  string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "4000"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "hackhub"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:4000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:      getEnv("MAIL_FROM", "HackHub <no-reply@hackhub.local>"),
		ContactEmail:  getEnv("CONTACT_EMAIL", "admin@hackhub.local"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
