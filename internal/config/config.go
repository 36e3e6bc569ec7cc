// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers file, dotenv and environment values over those defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// LeaderboardSize caps GET /api/leaderboard.
	LeaderboardSize int `koanf:"leaderboard_size"`

	// ResultRetention keeps at most this many quiz results per user; 0 keeps all.
	ResultRetention int `koanf:"result_retention"`

	// SeedContent loads the starter questions and rules at startup.
	SeedContent bool `koanf:"seed_content"`

	// RequireAdmin restricts content writes to admin sessions.
	RequireAdmin bool `koanf:"require_admin"`

	// JWTSecret signs session tokens (HS256).
	JWTSecret string `koanf:"jwt_secret"`

	// JWTIssuer is written to and checked against the iss claim.
	JWTIssuer string `koanf:"jwt_issuer"`

	// TokenTTLMinutes is the session token lifetime.
	TokenTTLMinutes int `koanf:"token_ttl_minutes"`

	// BcryptCost is the password hashing cost.
	BcryptCost int `koanf:"bcrypt_cost"`

	// Admin* describe the account seeded when no admin exists.
	AdminUsername string `koanf:"admin_username"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "ecosort-dev-secret"

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":5000",
		LeaderboardSize: 50,
		ResultRetention: 0,
		SeedContent:     true,
		RequireAdmin:    false,
		JWTSecret:       DefaultJWTSecret,
		JWTIssuer:       "ecosort",
		TokenTTLMinutes: 24 * 60,
		BcryptCost:      10,
		AdminUsername:   "admin",
		AdminEmail:      "admin@ecosort.com",
		AdminPassword:   "admin123",
	}
}
