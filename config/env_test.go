package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesLayering(t *testing.T) {
	require.NoError(t, Load())

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"tax_rate": 0.1, "app_name": "Studio", "flat_shipping": 25}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_NAME=\"From Env\"\n# comment\nJWT_TTL_HOURS=24\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "From Env", Get("APP_NAME", ""))
	assert.InDelta(t, 0.1, TaxRate(), 1e-9)
	assert.InDelta(t, 25, FlatShipping(), 1e-9)
	assert.Equal(t, 24*time.Hour, TokenTTL())
}

func TestLoadFromFilesMissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, "sqlite", DatabaseDriver())
}

func TestSetOverridesSurviveReload(t *testing.T) {
	Set("FREE_SHIPPING_THRESHOLD", "750")
	t.Cleanup(func() { Set("FREE_SHIPPING_THRESHOLD", "500") })

	require.NoError(t, loadFromFiles("missing.json", "missing.env"))
	assert.InDelta(t, 750, FreeShippingThreshold(), 1e-9)
}

func TestTypedGettersFallBack(t *testing.T) {
	Set("RATE_LIMIT_BURST", "not-a-number")
	t.Cleanup(func() { Set("RATE_LIMIT_BURST", "40") })

	assert.Equal(t, 40, RateLimitBurst())
	assert.Equal(t, 7, Int("UNSET_KEY_FOR_TEST", 7))
}

func TestDatabaseDriverAndDSN(t *testing.T) {
	Set("DB_DRIVER", "oracle")
	t.Cleanup(func() { Set("DB_DRIVER", "sqlite") })
	assert.Equal(t, "sqlite", DatabaseDriver())

	Set("DB_DRIVER", "postgres")
	assert.Contains(t, DatabaseDSN(), "dbname=atelier")
}

func TestCORSOrigins(t *testing.T) {
	Set("CORS_ORIGINS", "https://a.example, https://b.example,,")
	t.Cleanup(func() { Set("CORS_ORIGINS", "*") })
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSOrigins())
}
