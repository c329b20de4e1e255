package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmehdipour/phone-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "+218", cfg.Phone.HomeDialCode)
	assert.Empty(t, cfg.Phone.MaskFallback)
	assert.Equal(t, 7, cfg.Phone.RevealDigits)
	assert.Equal(t, "phone.actions", cfg.Kafka.Topic)
	assert.Equal(t, 300*time.Millisecond, cfg.Notifier.BatchWait)
	require.Len(t, cfg.Webhooks, 1)
	assert.False(t, cfg.Webhooks[0].Enabled)

	e, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, "+218", e.Home().DialCode)
	assert.Equal(t, "ليبيانا", e.Classify("0926183185").CarrierName)
	assert.Equal(t, "092xxxxxxx", e.MaskFallback())
	assert.Equal(t, "0926183xxx", e.Mask("0926183185"))
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
phone:
  strict_country: true
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.Phone.StrictCountry)
	assert.Equal(t, "+218", cfg.Phone.HomeDialCode)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PHONEENG_PHONE_HOME_DIAL_CODE", "+20")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "+20", cfg.Phone.HomeDialCode)

	e, err := cfg.Engine()
	require.NoError(t, err)
	assert.True(t, e.IsValidHome("01012345678"))
	assert.Equal(t, "010xxxxxxxx", e.MaskFallback())
}

func TestLoadRevealDigitsFromEnv(t *testing.T) {
	t.Run("override reaches the engine", func(t *testing.T) {
		t.Setenv("PHONEENG_PHONE_REVEAL_DIGITS", "5")

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Phone.RevealDigits)

		e, err := cfg.Engine()
		require.NoError(t, err)
		assert.Equal(t, "09261xxx", e.Mask("0926183185"))
	})

	t.Run("zero is rejected", func(t *testing.T) {
		t.Setenv("PHONEENG_PHONE_REVEAL_DIGITS", "0")

		_, err := config.Load("")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	bad := cfg
	bad.Phone.HomeDialCode = "+44"
	assert.ErrorIs(t, bad.Validate(), config.ErrInvalidConfig)

	bad = cfg
	bad.Phone.RevealDigits = 0
	assert.ErrorIs(t, bad.Validate(), config.ErrInvalidConfig)

	bad = cfg
	bad.Phone.RevealDigits = -3
	assert.ErrorIs(t, bad.Validate(), config.ErrInvalidConfig)

	bad = cfg
	bad.Webhooks = []config.WebhookConfig{{Name: "crm", Enabled: true}}
	assert.ErrorIs(t, bad.Validate(), config.ErrInvalidConfig)

	assert.NoError(t, cfg.Validate())
}
