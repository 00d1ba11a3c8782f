package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Transport.Default)
	assert.Equal(t, "08:00", cfg.Scheduler.DefaultTime)
	assert.Equal(t, 2, cfg.Dispatch.SettleDelaySeconds)
	assert.Equal(t, 0.6, cfg.Extraction.ConfidenceThreshold)
	assert.True(t, cfg.Knowledge.HotReload)
}

func TestLoadSetsStoragePaths(t *testing.T) {
	dataDir := t.TempDir()
	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "rxguard.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, filepath.Join(dataDir, "archive"), cfg.Storage.ArchivePath)
}

func TestLoadFromFile(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "rxguard.yaml")

	content := `
server:
  port: 9090
transport:
  default: sms
  sms:
    gateway_url: https://sms.example.com/send
    api_key: secret
dispatch:
  settle_delay_seconds: 5
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sms", cfg.Transport.Default)
	assert.Equal(t, "https://sms.example.com/send", cfg.Transport.SMS.GatewayURL)
	assert.Equal(t, 5, cfg.Dispatch.SettleDelaySeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("RXGUARD_SERVER_PORT", "7070")
	defer os.Unsetenv("RXGUARD_SERVER_PORT")

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadEnvOnlySecrets(t *testing.T) {
	t.Setenv("RXGUARD_TRANSPORT_DEFAULT", "telegram")
	t.Setenv("RXGUARD_TRANSPORT_TELEGRAM_BOT_TOKEN", "123456:token")
	t.Setenv("RXGUARD_DISPATCH_DEFAULT_RECIPIENT", "+15551234567")
	t.Setenv("RXGUARD_EXTRACTION_SERVICE_URL", "https://extract.example.com")

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "telegram", cfg.Transport.Default)
	assert.Equal(t, "123456:token", cfg.Transport.Telegram.BotToken)
	assert.Equal(t, "+15551234567", cfg.Dispatch.DefaultRecipient)
	assert.Equal(t, "https://extract.example.com", cfg.Extraction.ServiceURL)
}

func TestLoadEnvAliases(t *testing.T) {
	t.Setenv("RXGUARD_TRANSPORT_DEFAULT", "sms")
	t.Setenv("RXGUARD_TRANSPORT_SMS_GATEWAY_URL", "https://sms.example.com/send")
	t.Setenv("SMS_GATEWAY_API_KEY", "alias-secret")

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://sms.example.com/send", cfg.Transport.SMS.GatewayURL)
	assert.Equal(t, "alias-secret", cfg.Transport.SMS.APIKey)
}

func TestValidateTransport(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "rxguard.yaml")

	content := `
transport:
  default: sms
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	_, err := Load(configPath, dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway_url")
}

func TestValidateUnknownTransport(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "rxguard.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("transport:\n  default: pigeon\n"), 0644))

	_, err := Load(configPath, dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pigeon")
}

func TestValidateConfidenceThreshold(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "rxguard.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("extraction:\n  confidence_threshold: 1.5\n"), 0644))

	_, err := Load(configPath, dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence_threshold")
}
