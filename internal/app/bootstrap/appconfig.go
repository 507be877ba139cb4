// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request body limits.
// AppConfig is where everything specific to RoomHub lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: roomhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CurrentRoomCacheTTL bounds how stale a cached current-room read
	// may be before the ledger is consulted again.
	CurrentRoomCacheTTL time.Duration

	// OutboxBuffer is the side-effect queue capacity. When the buffer
	// is full new intents are dropped with a warning.
	OutboxBuffer int
}
