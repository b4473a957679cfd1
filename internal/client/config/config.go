package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/netx"
)

// Config holds runtime settings for the storefront CLI.
//
// Durations are time.Duration; JSON accepts "1500ms"-style strings or
// integer nanoseconds, the environment accepts Go duration strings.
type Config struct {
	// APIBaseURL is the backend API root, e.g. http://localhost:5000/api.
	APIBaseURL string `env:"API_URL"`
	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// OTPCooldown is how long resend stays disabled after a code is sent.
	OTPCooldown time.Duration `env:"OTP_COOLDOWN"`
	// SuccessDelay keeps success messages visible before navigating.
	SuccessDelay time.Duration `env:"SUCCESS_DELAY"`
	// StorageDSN is the SQLite database holding the session. localdb.MemoryDSN
	// keeps the session for the lifetime of the process only.
	StorageDSN string `env:"STORAGE_DSN"`
	// CallbackAddr is where the OAuth callback listener binds.
	CallbackAddr string `env:"CALLBACK_ADDR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL"`
}

// EnvPrefix prefixes every environment variable name.
const EnvPrefix = "STOREFRONT_"

// MinOTPCooldown is the shortest accepted resend cooldown. The countdown
// runs in whole seconds.
const MinOTPCooldown = time.Second

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.OTPCooldown = 60 * time.Second
	c.SuccessDelay = 1500 * time.Millisecond
	c.StorageDSN = "storefront.db"
	c.CallbackAddr = "localhost:3000"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then STOREFRONT_* environment variables, then flags. Later
// sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], nil)
}

// load is LoadConfig over explicit arguments; a nil environ reads the
// process environment.
func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: empty api url")
	}
	if c.RequestTimeout < 0 || c.SuccessDelay < 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	if c.OTPCooldown < MinOTPCooldown {
		return fmt.Errorf("config: otp cooldown %s is shorter than %s", c.OTPCooldown, MinOTPCooldown)
	}
	if c.StorageDSN == "" {
		return fmt.Errorf("config: empty storage dsn")
	}
	if err := netx.RequireLoopback(c.CallbackAddr); err != nil {
		return fmt.Errorf("config: callback addr: %w", err)
	}
	return nil
}
