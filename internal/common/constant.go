// Package common contains constants and helpers shared by the storefront
// client packages.
package common

const (
	// RequestIDHeaderName carries a per-request correlation id on outbound calls.
	RequestIDHeaderName = "X-Request-ID"

	// AuthorizationHeaderName carries the bearer token of the current session.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
)
