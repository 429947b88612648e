package config

import (
	"time"

	"github.com/applytrack/applytrack/internal/logger"
)

// DefaultTokenExpiry is used when jwt.expiryTime is not configured.
const DefaultTokenExpiry = 24 * time.Hour

// JWT settings for issuing and validating access tokens.
type JWT struct {
	Secret     string        // HMAC signing secret
	ExpiryTime time.Duration // token lifetime
	Issuer     string        // iss claim
}

// Seed settings for the first start on an empty database.
type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	JWT       JWT
	Log       logger.Log
	Seed      Seed
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	MaxPageSize    int    // upper bound for pageSize on list endpoints, 0 means unbounded
}
