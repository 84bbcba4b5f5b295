package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/osse101/playcredits/internal/period"
)

// ExpectedEnvSchemaVersion is the ENV_SCHEMA_VERSION this build understands
const ExpectedEnvSchemaVersion = "1.0"

// MinAPIKeyLength is the shortest API key accepted without a warning
const MinAPIKeyLength = 32

// Placeholder values shipped in example env files
const (
	examplePassword = "change_this_secure_password"
	exampleAPIKey   = "generate_with_openssl_rand_hex_32"
)

// Validate checks the loaded values for anything that would fail later at startup
func (c *Config) Validate() error {
	var errs []error

	if _, err := period.LoadCalendar(c.Timezone, c.WeekStartDay); err != nil {
		errs = append(errs, fmt.Errorf("invalid %s/%s: %w", EnvTimezone, EnvWeekStartDay, err))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", EnvWorkerCount, c.WorkerCount))
	}
	if c.SnapshotRefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", EnvSnapshotRefreshInterval, c.SnapshotRefreshInterval))
	}
	if c.CatalogCacheSize < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", EnvCatalogCacheSize, c.CatalogCacheSize))
	}
	if c.EventMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", EnvEventMaxRetries, c.EventMaxRetries))
	}

	return errors.Join(errs...)
}

// Audit inspects the raw environment for settings that load fine but are
// probably wrong. A schema version other than ExpectedEnvSchemaVersion is an
// error; the rest are warnings. A nil lookup reads the process environment.
func Audit(lookup func(string) (string, bool)) (warnings []string, err error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	switch v, ok := lookup(EnvSchemaVersion); {
	case !ok || v == "":
		warnings = append(warnings, fmt.Sprintf("%s is not set; assuming %s", EnvSchemaVersion, ExpectedEnvSchemaVersion))
	case v != ExpectedEnvSchemaVersion:
		return nil, fmt.Errorf("%s mismatch: expected %s, got %s; the env file may be outdated", EnvSchemaVersion, ExpectedEnvSchemaVersion, v)
	}

	if v, _ := lookup(EnvDBPassword); v == examplePassword {
		warnings = append(warnings, EnvDBPassword+" is still the example value")
	}
	switch key, _ := lookup(EnvAPIKey); {
	case key == exampleAPIKey:
		warnings = append(warnings, EnvAPIKey+" is still the example value; generate one with: openssl rand -hex 32")
	case key != "" && len(key) < MinAPIKeyLength:
		warnings = append(warnings, fmt.Sprintf("%s is shorter than %d characters", EnvAPIKey, MinAPIKeyLength))
	}
	if v, _ := lookup(EnvTimezone); v == "" {
		warnings = append(warnings, EnvTimezone+" is not set; period boundaries use UTC")
	}

	return warnings, nil
}
