package probe

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactURL(t *testing.T) {
	cases := map[string]string{
		"https://serpapi.com/search?api_key=s3cret&q=test":        "https://serpapi.com/search?api_key=REDACTED&q=test",
		"https://www.googleapis.com/youtube/v3/channels?key=abc":  "https://www.googleapis.com/youtube/v3/channels?key=REDACTED",
		"https://api.openai.com/v1/chat/completions":              "https://api.openai.com/v1/chat/completions",
		"https://shop.example/admin/api/2023-01/shop.json?page=2": "https://shop.example/admin/api/2023-01/shop.json?page=2",
	}
	for in, want := range cases {
		assert.Equal(t, want, redactURL(in), in)
	}
}

func TestRedact_KeepsUnderlyingError(t *testing.T) {
	inner := errors.New("connection refused")
	err := redact(&url.Error{Op: "Get", URL: "http://127.0.0.1:1/x?key=abc", Err: inner})

	assert.NotContains(t, err.Error(), "abc")
	assert.ErrorIs(t, err, inner)

	plain := errors.New("plain")
	assert.Same(t, plain, redact(plain))
}
