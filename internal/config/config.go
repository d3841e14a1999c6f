package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the single place configuration enters the process. Every value
// comes from one canonical environment variable; there are no fallback
// spellings.
type Config struct {
	AppHost string

	DatabaseURL   string
	MigrationsDir string

	SpreadsheetID     string
	GoogleCredentials string // raw service-account JSON
	RequestsTable     string
	CatalogTable      string
	VoucherTable      string

	JWTSecret string

	// Optional WhatsApp Cloud API notifier. All three must be set for the
	// notifier to be enabled.
	WhatsAppToken      string
	WhatsAppPhoneID    string
	WhatsAppRecipients []string

	VoucherLayoutJSON string // optional layout override
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cfg := &Config{
		AppHost:           getEnv("APP_HOST", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", "migrations"),
		SpreadsheetID:     os.Getenv("SPREADSHEET_ID"),
		GoogleCredentials: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"),
		RequestsTable:     getEnv("REQUESTS_TABLE", "Solicitudes"),
		CatalogTable:      getEnv("CATALOG_TABLE", "Catalogo"),
		VoucherTable:      getEnv("VOUCHER_TABLE", "ValeSalida"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		WhatsAppToken:     os.Getenv("WHATSAPP_TOKEN"),
		WhatsAppPhoneID:   os.Getenv("WHATSAPP_PHONE_ID"),
		VoucherLayoutJSON: os.Getenv("VOUCHER_LAYOUT_JSON"),
	}

	if recipients := os.Getenv("WHATSAPP_RECIPIENTS"); recipients != "" {
		for _, r := range strings.Split(recipients, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.WhatsAppRecipients = append(cfg.WhatsAppRecipients, r)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required variable at once, so a bad deploy
// fails with the full list instead of one var per restart.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SpreadsheetID == "" {
		missing = append(missing, "SPREADSHEET_ID")
	}
	if c.GoogleCredentials == "" {
		missing = append(missing, "GOOGLE_SHEETS_CREDENTIALS_JSON")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NotifierEnabled reports whether the WhatsApp notifier is fully configured.
func (c *Config) NotifierEnabled() bool {
	return c.WhatsAppToken != "" && c.WhatsAppPhoneID != "" && len(c.WhatsAppRecipients) > 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
