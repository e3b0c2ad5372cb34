// Package servium is a catalog service for deployable services and their
// release versions.
//
// # Overview
//
// Servium tracks services and the versions released for them. Each service
// is identified by a server assigned uuid and carries a name, an optional
// description, and a derived count of its versions. Versions belong to
// exactly one service, are unique by number within that service, and are
// returned newest release first.
//
// The system consists of three main components:
//   - API Server: JSON REST API for managing the catalog
//   - Storage Layer: GORM-backed relational storage (MySQL, SQLite)
//   - Auth Layer: JWT bearer authentication with role based write access
//
// # Usage
//
// Start the API server:
//
//	servium server --config config.yaml
//
// Mint a bearer token for a user:
//
//	servium token user alice@example.com --roles read,write
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (./config.yaml, ./configs/config.yaml, ~/.servium, /etc/servium)
//   - Environment variables (SC_ prefix)
//   - .env file
//
// Example configuration:
//
//	server:
//	  host: 0.0.0.0
//	  port: 8090
//	database:
//	  driver: mysql
//	  dsn: servium:servium@tcp(localhost:3306)/servium?parseTime=true
//	security:
//	  jwt_secret: change-me-in-production
//
// # API Endpoints
//
// Service Management:
//   - GET    /services                          - List services (paginated, searchable)
//   - GET    /services/:uuid                    - Get service by uuid
//   - POST   /services                          - Create service
//   - PATCH  /services/:uuid                    - Update service fields
//   - DELETE /services/:uuid                    - Delete service and its versions
//
// Version Management:
//   - POST   /services/:uuid/versions           - Add a version
//   - DELETE /services/:uuid/versions/:number   - Remove a version
//
// Operational:
//   - GET /health   - Liveness probe (unauthenticated)
//   - GET /metrics  - Prometheus metrics (unauthenticated)
//
// All /services routes require an Authorization: Bearer header. Mutating
// methods additionally require the write role in the token claims.
//
// # Development
//
// Run tests:
//
//	go test ./...
//
// Build the binary:
//
//	go build -o servium ./cmd/servium
//
// # Technology Stack
//
//   - Go 1.25+
//   - Echo v4 (Web framework)
//   - GORM (MySQL and SQLite storage)
//   - golang-jwt/v5 (Bearer authentication)
//   - Prometheus client (Metrics)
package servium
