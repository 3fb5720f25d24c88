// Package config provides configuration management for the VRU validation
// server.
//
// Configuration is read from a YAML file and then overridden by environment
// variables. Every attribute remembers where its value came from (default,
// file or environment), which `vructl configuration show` prints.
//
// # Configuration Sources
//
//   - $VRU_CONFIG_PATH/vru.yml (default /etc/vru/config/vru.yml)
//   - VRU_<ATTRIBUTE> environment variables, e.g. VRU_PROCESSING_WORKERS
//
// # Other Environment Variables
//
//   - DATABASE_URL: Database connection
//   - VRU_LOG_LEVEL: Logging verbosity
//   - SENTRY_DSN: Panic reporting
//   - PORT: Server listen port
package config
