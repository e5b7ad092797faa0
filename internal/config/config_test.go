package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/chakali?sslmode=disable")
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("ORDER_PDF_DIR", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000", cfg.PublicBaseURL)
	assert.Equal(t, "public/order-pdfs", cfg.OrderPDFDir)
}

func TestLoad_Aliases(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/chakali")
	t.Setenv("ADMIN_WHATSAPP_NUMBER", "")
	t.Setenv("WHATSAPP_ADMIN_NUMBER", "+91 95291-11760")
	t.Setenv("WA_PHONE_NUMBER_ID", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "12345")
	t.Setenv("WA_ACCESS_TOKEN", "")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token-from-alias")
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "8080")

	cfg := Load()

	assert.Equal(t, "919529111760", cfg.AdminWhatsAppNumber, "number must be reduced to digits")
	assert.Equal(t, "12345", cfg.WAPhoneNumberID)
	assert.Equal(t, "token-from-alias", cfg.WAAccessToken)
	assert.Equal(t, "8080", cfg.AppPort)
}

func TestLoad_PrimaryNameWinsOverAlias(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/chakali")
	t.Setenv("WA_ACCESS_TOKEN", "primary")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "alias")

	cfg := Load()
	assert.Equal(t, "primary", cfg.WAAccessToken)
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/chakali")
	t.Setenv("PUBLIC_BASE_URL", "https://chakali.store///")

	cfg := Load()
	assert.Equal(t, "https://chakali.store", cfg.PublicBaseURL)
}

func TestProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	assert.True(t, cfg.Production())

	cfg.AppEnv = "development"
	assert.False(t, cfg.Production())
}
