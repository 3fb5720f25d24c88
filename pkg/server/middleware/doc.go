// Package middleware contains the HTTP middleware of the API server:
// bearer token authentication and panic recovery.
package middleware
