package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("UPSTREAM_PASSWORD", "pw")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("TIMEOUT", "")
	t.Setenv("UPSTREAM_INSECURE_TLS", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "salep-auth.sce.manh.com", cfg.AuthHost)
	assert.Equal(t, "salep.sce.manh.com", cfg.APIHost)
	assert.Equal(t, "sdtadmin@", cfg.UsernameBase)
	assert.Equal(t, "omnicomponent.1.0.0", cfg.ClientID)
	assert.Equal(t, 30, cfg.Timeout)
	assert.False(t, cfg.InsecureTLS)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_PASSWORD", "pw")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("API_HOST", "yard.example.com")
	t.Setenv("TIMEOUT", "10")
	t.Setenv("UPSTREAM_INSECURE_TLS", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "yard.example.com", cfg.APIHost)
	assert.Equal(t, 10, cfg.Timeout)
	assert.True(t, cfg.InsecureTLS)
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("UPSTREAM_PASSWORD", "")
	t.Setenv("CLIENT_SECRET", "secret")
	_, err := loadConfig()
	assert.Error(t, err)

	t.Setenv("UPSTREAM_PASSWORD", "pw")
	t.Setenv("CLIENT_SECRET", "")
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("UPSTREAM_PASSWORD", "pw")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("TIMEOUT", "soon")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://yard.example.com", baseURL("yard.example.com"))
	assert.Equal(t, "http://127.0.0.1:9999", baseURL("http://127.0.0.1:9999"))
}
