package config

import (
	"strings"
	"time"

	"github.com/payhive/paygate/internal/pkg/env"
)

// NICEPAY API endpoints per mode. The JS SDK is always served from the
// production domain, even in sandbox mode.
const (
	sandboxAPIBaseURL    = "https://sandbox-api.nicepay.co.kr/v1"
	productionAPIBaseURL = "https://api.nicepay.co.kr/v1"
	sdkURL               = "https://pay.nicepay.co.kr/v1/js/"
)

// NicePay holds processor credentials and endpoint configuration. It is
// constructed once at startup and injected into the client; nothing mutates
// it afterwards.
type NicePay struct {
	Mode       string
	APIBaseURL string
	SDKURL     string
	ClientID   string
	SecretKey  string

	// Approval calls get a longer allowance than everything else because
	// the processor may block on issuer authorization.
	ApprovalTimeout time.Duration
	GeneralTimeout  time.Duration
}

// Config is the process-wide, read-only configuration for the gateway.
type Config struct {
	AppHost string
	AppPort string

	NicePay NicePay

	// API keys accepted on the X-API-Key header for merchant-facing
	// endpoints. The approve callback and webhook receiver are exempt by
	// wire contract.
	APIKeys []string

	DefaultSuccessURL string
	DefaultFailureURL string
}

// Load builds the Config from the environment. env.SetupEnvFile must have
// been called first.
func Load() *Config {
	mode := strings.ToLower(env.GetEnv("NICEPAY_MODE", "sandbox"))
	apiBase := sandboxAPIBaseURL
	if mode == "production" {
		apiBase = productionAPIBaseURL
	}

	var apiKeys []string
	for _, k := range strings.Split(env.GetEnv("API_KEYS", ""), ",") {
		if k = strings.TrimSpace(k); k != "" {
			apiKeys = append(apiKeys, k)
		}
	}

	return &Config{
		AppHost: env.GetEnv("APP_HOST", "0.0.0.0"),
		AppPort: env.GetEnv("APP_PORT", "3100"),
		NicePay: NicePay{
			Mode:            mode,
			APIBaseURL:      apiBase,
			SDKURL:          sdkURL,
			ClientID:        strings.TrimSpace(env.GetEnv("NICEPAY_CLIENT_ID", "")),
			SecretKey:       strings.TrimSpace(env.GetEnv("NICEPAY_SECRET_KEY", "")),
			ApprovalTimeout: 30 * time.Second,
			GeneralTimeout:  10 * time.Second,
		},
		APIKeys:           apiKeys,
		DefaultSuccessURL: env.GetEnv("DEFAULT_SUCCESS_URL", "http://localhost:3000/payment/success"),
		DefaultFailureURL: env.GetEnv("DEFAULT_FAILURE_URL", "http://localhost:3000/payment/failure"),
	}
}

// HasAPIKey reports whether key is one of the configured merchant API keys.
func (c *Config) HasAPIKey(key string) bool {
	for _, k := range c.APIKeys {
		if k == key {
			return true
		}
	}
	return false
}
