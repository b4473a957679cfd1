package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// and empty strings leave the current value alone; a duration given as 0 is
// applied.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	OTPCooldown    *timex.Duration `json:"otp_cooldown"`
	SuccessDelay   *timex.Duration `json:"success_delay"`
	StorageDSN     string          `json:"storage_dsn"`
	CallbackAddr   string          `json:"callback_addr"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays cfg with the file given by -c or -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.CallbackAddr, jc.CallbackAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OTPCooldown, jc.OTPCooldown)
	setDuration(&cfg.SuccessDelay, jc.SuccessDelay)
	return nil
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
