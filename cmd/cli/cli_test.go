package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/apiconnect/internal/config"
)

func TestCheck_MissingCredentials(t *testing.T) {
	for _, n := range config.Names() {
		t.Setenv(n, "")
	}
	t.Setenv("LOG_DIR", t.TempDir())

	var out bytes.Buffer
	cmd := checkCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"youtube", "shopify"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "✖ youtube    missing_config    YOUTUBE_API_KEY is missing.")
	assert.Contains(t, out.String(), "SHOPIFY_API_KEY or SHOPIFY_STORE_URL is missing.")

	strict := checkCmd()
	strict.SetOut(&bytes.Buffer{})
	strict.SetErr(&bytes.Buffer{})
	strict.SetArgs([]string{"--strict", "gemini"})
	assert.ErrorIs(t, strict.Execute(), errChecksFailed)
}

func TestCheck_EscalatedFaultPrintsDetail(t *testing.T) {
	studio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer studio.Close()
	for _, n := range config.Names() {
		t.Setenv(n, "")
	}
	t.Setenv(config.AIStudioAPIKey, "studio-key")
	t.Setenv(config.AIStudioURL, studio.URL)
	t.Setenv("LOG_DIR", t.TempDir())

	var out bytes.Buffer
	cmd := checkCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ai_studio"})

	require.Error(t, cmd.Execute())
	assert.Contains(t, out.String(), "✖ ai_studio  vendor_fault      Error connecting to Google AI Studio:")
}

func TestCheck_UnknownProvider(t *testing.T) {
	cmd := checkCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"twitter"})
	assert.ErrorContains(t, cmd.Execute(), "unknown provider")
}

func TestRemote(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/connect/openai":
			_, _ = w.Write([]byte(`{"message":"OpenAI connection tested successfully."}`))
		case "/connect/gemini":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"Error connecting to Google Gemini"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer api.Close()

	var out bytes.Buffer
	cmd := remoteCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--api", api.URL, "openai", "gemini"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error connecting to Google Gemini")
	assert.Contains(t, out.String(), "✔ openai     OpenAI connection tested successfully.")
	assert.Contains(t, out.String(), "✖ gemini")
}
