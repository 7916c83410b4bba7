// Package config handles configuration loading for picstash.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${PICSTASH_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/picstash/picstash.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${PICSTASH_JWT_SECRET}"  # required, service refuses to start without it
//	  token_ttl: "24h"                      # bearer token validity window
//	  hash_slots: 4                         # concurrent bcrypt computations
//
// Uploads:
//
//	uploads:
//	  dir: "uploads"
//	  max_size_bytes: 10485760
//	  allowed_extensions: [".jpg", ".jpeg", ".png"]
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates that server.http_addr, database.path, and
// auth.jwt_secret are present. A missing jwt_secret is the one fatal
// startup condition: tokens cannot be signed or verified without it.
package config
