package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds all process-level settings. It is built once at startup and
// passed explicitly; nothing reads the environment after loadConfig returns.
type Config struct {
	Port         string
	AuthHost     string
	APIHost      string
	UsernameBase string
	Password     string
	ClientID     string
	ClientSecret string
	WebhookURL   string
	StaticDir    string
	AppVersion   string

	// InsecureTLS disables certificate verification on upstream calls.
	// The internal yard-management hosts run self-signed certificates, so
	// operators may need this escape hatch. Verification stays on unless
	// explicitly turned off.
	InsecureTLS bool

	// Timeout is the upstream call timeout in seconds.
	Timeout int
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8000"),
		AuthHost:     getEnv("AUTH_HOST", "salep-auth.sce.manh.com"),
		APIHost:      getEnv("API_HOST", "salep.sce.manh.com"),
		UsernameBase: getEnv("USERNAME_BASE", "sdtadmin@"),
		Password:     os.Getenv("UPSTREAM_PASSWORD"),
		ClientID:     getEnv("CLIENT_ID", "omnicomponent.1.0.0"),
		ClientSecret: os.Getenv("CLIENT_SECRET"),
		WebhookURL:   getEnv("HA_WEBHOOK_URL", "http://sidmsmith.zapto.org:8123/api/webhook/manhattan_app_usage"),
		StaticDir:    getEnv("STATIC_DIR", "."),
		AppVersion:   os.Getenv("APP_VERSION"),
		InsecureTLS:  os.Getenv("UPSTREAM_INSECURE_TLS") == "true",
	}

	// The proxy is useless without upstream credentials, so refuse to start
	if cfg.Password == "" || cfg.ClientSecret == "" {
		return nil, errors.New("missing UPSTREAM_PASSWORD or CLIENT_SECRET environment variables")
	}

	// Convert timeout to integer
	timeoutEnv := os.Getenv("TIMEOUT")
	if timeoutEnv == "" {
		cfg.Timeout = 30
	} else {
		var err error
		cfg.Timeout, err = strconv.Atoi(timeoutEnv)
		if err != nil {
			return nil, fmt.Errorf("failed to convert timeout environment variable to integer: %s", timeoutEnv)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
