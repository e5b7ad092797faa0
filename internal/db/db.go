package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/sanikapatil01/chakali-store/internal/config"
)

// BuildDSN returns the connection string. A full DATABASE_URL wins;
// otherwise the DSN is assembled from the discrete DB_* settings.
// Production connections use sslmode=require (TLS without certificate
// verification); an explicit sslmode in DATABASE_URL is left alone.
func BuildDSN(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		if cfg.Production() && !strings.Contains(cfg.DatabaseURL, "sslmode=") {
			sep := "?"
			if strings.Contains(cfg.DatabaseURL, "?") {
				sep = "&"
			}
			return cfg.DatabaseURL + sep + "sslmode=require"
		}
		return cfg.DatabaseURL
	}
	sslmode := "disable"
	if cfg.Production() {
		sslmode = "require"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslmode,
	)
}

// New opens and pings the database.
func New(cfg *config.Config) (*sql.DB, error) {
	return newWithDriver(cfg, "postgres")
}

func newWithDriver(cfg *config.Config, driver string) (*sql.DB, error) {
	database, err := sql.Open(driver, BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return database, nil
}
