package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, name := range Names() {
		t.Setenv(name, "")
	}
}

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONNECT_RPM", "120")
	t.Setenv("CONNECT_BURST", "3")
	t.Setenv("PROBE_TIMEOUT_MS", "1500")
	t.Setenv("DNS_DIAGNOSTICS", "false")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "./_testlogs", cfg.LogDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 120, cfg.RateLimitRPM)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, 1500*time.Millisecond, cfg.ProbeTimeout)
	assert.False(t, cfg.DNSDiagnostics)

	v, ok := cfg.Credentials.Lookup(OpenAIAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "sk-test", v)
	assert.False(t, cfg.Credentials.Present(GeminiAPIKey))
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"API_ADDR", "LOG_DIR", "LOG_LEVEL", "ALLOWED_ORIGINS", "CONNECT_RPM", "CONNECT_BURST", "PROBE_TIMEOUT_MS", "DNS_DIAGNOSTICS"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Zero(t, cfg.RateLimitRPM)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Zero(t, cfg.ProbeTimeout)
	assert.True(t, cfg.DNSDiagnostics)
	assert.NoError(t, cfg.Validate())
}

func TestCredentials_EmptyValueIsAbsent(t *testing.T) {
	creds := LoadCredentials(func(name string) (string, bool) {
		if name == YouTubeAPIKey {
			return "", true
		}
		return "", false
	})
	_, ok := creds.Lookup(YouTubeAPIKey)
	assert.False(t, ok)
}

func TestCredentials_LookupIsIdempotent(t *testing.T) {
	env := map[string]string{
		SerpAPIKey:      "serp",
		ShopifyStoreURL: "https://shop.example",
	}
	creds := LoadCredentials(func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})

	// later changes to the source are not observed
	env[SerpAPIKey] = "changed"
	delete(env, ShopifyStoreURL)

	for i := 0; i < 3; i++ {
		v, ok := creds.Lookup(SerpAPIKey)
		require.True(t, ok)
		assert.Equal(t, "serp", v)

		v, ok = creds.Lookup(ShopifyStoreURL)
		require.True(t, ok)
		assert.Equal(t, "https://shop.example", v)
	}

	_, ok := creds.Lookup("NOT_A_CREDENTIAL")
	assert.False(t, ok)
}

func TestCredentials_UnrecognizedNamesNotLoaded(t *testing.T) {
	creds := LoadCredentials(func(string) (string, bool) { return "x", true })
	for _, name := range Names() {
		assert.True(t, creds.Present(name), name)
	}
	assert.False(t, creds.Present("HOME"))
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{
		Addr:         "",
		LogLevel:     "loud",
		RateLimitRPM: -1,
		SlackWebhook: "not a url",
		Credentials: LoadCredentials(func(name string) (string, bool) {
			switch name {
			case ShopifyStoreURL:
				return "shop.example", true
			case AIStudioURL:
				return "https://studio.example/v1/models", true
			}
			return "", false
		}),
	}

	err := cfg.Validate()
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "API_ADDR")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "CONNECT_RPM")
	assert.Contains(t, err.Error(), "SLACK_WEBHOOK_URL")
	assert.Contains(t, err.Error(), "SHOPIFY_STORE_URL")
	assert.NotContains(t, err.Error(), "AI_STUDIO_URL")
}

func TestLoadDotenv_DoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=from-file\nSERPAPI_API_KEY=file-serp\n"), 0o600))

	t.Setenv("SERPAPI_API_KEY", "from-process")
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	require.NoError(t, LoadDotenv(path))
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	assert.Equal(t, "from-file", os.Getenv("GEMINI_API_KEY"))
	assert.Equal(t, "from-process", os.Getenv("SERPAPI_API_KEY"))
}

func TestLoadDotenv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotenv_MalformedFileReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BAD-NAME=1\n"), 0o600))

	err := LoadDotenv(path, filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Contains(t, err.Error(), path)
}
