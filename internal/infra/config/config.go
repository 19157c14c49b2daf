// internal/infra/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-derived setting of the service. Empty
// project/Redis settings switch the container to in-memory adapters for
// local development.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	GCPProjectID             string `env:"GCP_PROJECT_ID"`
	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
	FirebaseProjectID        string `env:"FIREBASE_PROJECT_ID"`
	GCPCreds                 string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// SendGridAPIKey wins when both are set; the secret name is the Secret
	// Manager resource to read the key from otherwise.
	SendGridAPIKey       string `env:"SENDGRID_API_KEY"`
	SendGridAPIKeySecret string `env:"SENDGRID_API_KEY_SECRET"`
	MailFrom             string `env:"MAIL_FROM" envDefault:"orders@brewhaven.example"`

	AllowedOrigin      string `env:"ALLOWED_ORIGIN"`
	ReturnLabelBaseURL string `env:"RETURN_LABEL_BASE_URL"`
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// GetFirestoreProjectID returns the Firestore project id, falling back to
// the base GCP project.
func (c *Config) GetFirestoreProjectID() string {
	if v := strings.TrimSpace(c.FirestoreProjectID); v != "" {
		return v
	}
	return strings.TrimSpace(c.GCPProjectID)
}

// GetFirebaseProjectID returns the Firebase Auth project id, falling back
// to the base GCP project.
func (c *Config) GetFirebaseProjectID() string {
	if v := strings.TrimSpace(c.FirebaseProjectID); v != "" {
		return v
	}
	return strings.TrimSpace(c.GCPProjectID)
}

// CredentialsFile returns the credentials file for GCP clients, if any.
func (c *Config) CredentialsFile() string {
	if v := strings.TrimSpace(c.FirestoreCredentialsFile); v != "" {
		return v
	}
	return strings.TrimSpace(c.GCPCreds)
}
