// Package config handles configuration loading for amld-site.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from AMLD_CONFIG environment variable
//  2. ./amld.yaml (current directory)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${AMLD_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	database:
//	  server_selection_timeout: "5s"
//	  socket_timeout: "45s"
//	  max_conn_idle_time: "30s"
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  base_url: "https://amldecoded.com"
//
// Database (MongoDB):
//
//	database:
//	  uri: "${MONGODB_URI}"       # Required; missing URI is a startup error
//	  name: "amld"
//	  max_pool_size: 10
//	  ip_family: 4
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${AMLD_JWT_SECRET}"
//
// Image uploads (Cloudinary) and contact mail (SMTP) each take their
// credentials from dedicated sections; see the struct definitions.
//
// # Validation
//
// Load() validates that the HTTP address, database URI, JWT secret, and the
// Cloudinary and SMTP credentials are all present. Validation failures abort
// startup rather than surfacing per request.
package config
