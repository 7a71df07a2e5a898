package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "")
	t.Setenv("DEFAULT_STORE_ID", "")
	t.Setenv("SHIPPING_RULE_SELECTION", "")
	t.Setenv("SETTINGS_CACHE_REFRESH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1, cfg.DefaultStoreID)
	assert.Equal(t, "first", cfg.RuleSelection)
	assert.Equal(t, "@every 5m", cfg.SettingsCacheRefresh)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DEFAULT_STORE_ID", "main")
	_, err = Load()
	assert.Error(t, err)
}
