package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     backend API base URL
//	-t duration   request timeout
//	-s string     session storage DSN
//	-b string     OAuth callback listen address
//	-l string     log level
//
// Arguments are filtered with flagx.FilterArgs first so -c/-config and
// foreign flags do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-b", "-l"})

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StorageDSN, "s", cfg.StorageDSN, "session storage DSN")
	fs.StringVar(&cfg.CallbackAddr, "b", cfg.CallbackAddr, "OAuth callback listen address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
