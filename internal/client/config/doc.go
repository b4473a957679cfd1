// Package config loads runtime configuration for the storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with STOREFRONT_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     backend API base URL
//	-t duration   request timeout
//	-s string     session storage DSN (":memory:" for a throwaway session)
//	-b string     OAuth callback listen address
//	-l string     log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:5000/api",
//	  "request_timeout": "10s",
//	  "otp_cooldown": "60s",
//	  "success_delay": "1500ms",
//	  "storage_dsn": "storefront.db",
//	  "callback_addr": "localhost:3000",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	STOREFRONT_API_URL, STOREFRONT_REQUEST_TIMEOUT, STOREFRONT_OTP_COOLDOWN,
//	STOREFRONT_SUCCESS_DELAY, STOREFRONT_STORAGE_DSN,
//	STOREFRONT_CALLBACK_ADDR, STOREFRONT_LOG_LEVEL
package config
