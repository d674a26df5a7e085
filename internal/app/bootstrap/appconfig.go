// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to this application,
// loaded in LoadConfig from files, SCRIBE_* environment variables, or
// command-line flags.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Bearer token configuration
	JWTKey   string        // HMAC key for API tokens; blank generates an ephemeral key
	TokenTTL time.Duration // bearer token lifetime

	// Base URL for OAuth callbacks (e.g., "https://scribe.example.com")
	BaseURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Billing webhook shared secret; blank disables the endpoint.
	BillingWebhookSecret string

	// Audit logging destinations per category: "all", "db", "log", "off".
	AuditLogAuth    string
	AuditLogContent string
	AuditLogBilling string
}
