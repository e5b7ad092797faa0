package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every environment-derived setting the server needs.
// It is built once at startup and injected into constructors; nothing
// else reads the environment after Load returns.
type Config struct {
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	AppEnv  string
	AppPort string

	PublicBaseURL string
	OrderPDFDir   string

	AdminWhatsAppNumber string
	WAPhoneNumberID     string
	WAAccessToken       string

	JWTSecret string
}

func getenv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// digitsOnly strips everything that is not 0-9; WhatsApp recipient
// numbers must be plain digit strings.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getenv("DATABASE_URL"),
		DBHost:      getenv("DB_HOST"),
		DBUser:      getenv("DB_USER"),
		DBPassword:  getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME"),
		DBPort:      getenv("DB_PORT"),

		AppEnv:  getenv("APP_ENV"),
		AppPort: getenv("PORT", "APP_PORT"),

		PublicBaseURL: strings.TrimRight(getenv("PUBLIC_BASE_URL"), "/"),
		OrderPDFDir:   getenv("ORDER_PDF_DIR"),

		AdminWhatsAppNumber: digitsOnly(getenv("ADMIN_WHATSAPP_NUMBER", "WHATSAPP_ADMIN_NUMBER")),
		WAPhoneNumberID:     getenv("WA_PHONE_NUMBER_ID", "WHATSAPP_PHONE_NUMBER_ID"),
		WAAccessToken:       getenv("WA_ACCESS_TOKEN", "WHATSAPP_ACCESS_TOKEN"),

		JWTSecret: getenv("JWT_SECRET"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "3000"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.AppPort
	}
	if cfg.OrderPDFDir == "" {
		cfg.OrderPDFDir = "public/order-pdfs"
	}

	if cfg.DatabaseURL == "" && cfg.DBHost == "" {
		log.Fatal("database configuration missing: set DATABASE_URL or DB_HOST")
	}

	return cfg
}

// Production reports whether the server runs with production settings
// (json logging, TLS on the database connection).
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}
