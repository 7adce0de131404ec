package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the timeline service.
type Config struct {
	HTTPPort      int
	DatasetPath   string
	Timezone      *time.Location
	RefreshSpec   string
	BasicAuthUser string
	BasicAuthHash string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting which entries are missing or malformed.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    8080,
		Timezone:    time.Local,
		RefreshSpec: "*/15 * * * *",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("TIMELINE_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "TIMELINE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if path := strings.TrimSpace(os.Getenv("TIMELINE_DATASET_PATH")); path == "" {
		missing = append(missing, "TIMELINE_DATASET_PATH")
	} else {
		cfg.DatasetPath = path
	}

	if tz := strings.TrimSpace(os.Getenv("TIMELINE_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "TIMELINE_TIMEZONE")
		} else {
			cfg.Timezone = loc
		}
	}

	if spec := strings.TrimSpace(os.Getenv("TIMELINE_REFRESH_CRON")); spec != "" {
		cfg.RefreshSpec = spec
	}

	// Basic auth is optional but must be configured as a pair. The hash is
	// a bcrypt digest of the password, never the password itself.
	cfg.BasicAuthUser = strings.TrimSpace(os.Getenv("TIMELINE_BASIC_AUTH_USER"))
	cfg.BasicAuthHash = strings.TrimSpace(os.Getenv("TIMELINE_BASIC_AUTH_HASH"))
	if (cfg.BasicAuthUser == "") != (cfg.BasicAuthHash == "") {
		invalid = append(invalid, "TIMELINE_BASIC_AUTH_USER/TIMELINE_BASIC_AUTH_HASH")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
