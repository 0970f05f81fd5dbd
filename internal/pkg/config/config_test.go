package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "sandbox", cfg.NicePay.Mode)
	assert.Equal(t, "https://sandbox-api.nicepay.co.kr/v1", cfg.NicePay.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.NicePay.ApprovalTimeout)
	assert.Equal(t, 10*time.Second, cfg.NicePay.GeneralTimeout)
	assert.Equal(t, "3100", cfg.AppPort)
}

func TestLoadProductionMode(t *testing.T) {
	t.Setenv("NICEPAY_MODE", "Production")

	cfg := Load()
	assert.Equal(t, "production", cfg.NicePay.Mode)
	assert.Equal(t, "https://api.nicepay.co.kr/v1", cfg.NicePay.APIBaseURL)
}

func TestLoadAPIKeys(t *testing.T) {
	t.Setenv("API_KEYS", "pk_one, pk_two,,pk_three ")

	cfg := Load()
	assert.Equal(t, []string{"pk_one", "pk_two", "pk_three"}, cfg.APIKeys)

	assert.True(t, cfg.HasAPIKey("pk_two"))
	assert.False(t, cfg.HasAPIKey("pk_missing"))
	assert.False(t, cfg.HasAPIKey(""))
}
