package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hamed0406/apiconnect/internal/config"
)

// Endpoints are the fixed vendor base URLs. Shopify and AI Studio take
// theirs from credentials.
type Endpoints struct {
	OpenAI  string
	SerpAPI string
	YouTube string
	Gemini  string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		OpenAI:  "https://api.openai.com/v1",
		SerpAPI: "https://serpapi.com",
		YouTube: "https://www.googleapis.com/youtube/v3",
		Gemini:  "https://generativelanguage.googleapis.com/v1beta",
	}
}

// Vendors returns the six descriptors in route order.
func Vendors(ep Endpoints) []Descriptor {
	return []Descriptor{
		openAI(ep.OpenAI),
		serpAPI(ep.SerpAPI),
		shopify(),
		youTube(ep.YouTube),
		aiStudio(),
		gemini(ep.Gemini),
	}
}

// Find returns the descriptor with the given route name.
func Find(ds []Descriptor, name string) (Descriptor, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

func openAI(base string) Descriptor {
	return Descriptor{
		Name:        "openai",
		Label:       "OpenAI",
		Credentials: []string{config.OpenAIAPIKey},
		Build: func(ctx context.Context, creds map[string]string) (*http.Request, error) {
			body, err := json.Marshal(chatRequest{
				Model:     "gpt-3.5-turbo",
				Messages:  []chatMessage{{Role: "user", Content: "Test OpenAI connection"}},
				MaxTokens: 5,
			})
			if err != nil {
				return nil, err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+"/chat/completions", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+creds[config.OpenAIAPIKey])
			return req, nil
		},
		Interpret: func(body []byte) (string, bool) {
			if !nonEmptyArray(gjson.GetBytes(body, "choices")) {
				return "", false
			}
			return strings.TrimSpace(gjson.GetBytes(body, "choices.0.message.content").String()), true
		},
		Require:      []string{"choices.0.message.content"},
		ShapeMessage: "OpenAI did not return any choices.",
	}
}

func serpAPI(base string) Descriptor {
	return Descriptor{
		Name:        "serpapi",
		Label:       "SerpAPI",
		Credentials: []string{config.SerpAPIKey},
		Build: func(ctx context.Context, creds map[string]string) (*http.Request, error) {
			q := url.Values{}
			q.Set("q", "test")
			q.Set("api_key", creds[config.SerpAPIKey])
			return http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/search?"+q.Encode(), nil)
		},
		Interpret: func(body []byte) (string, bool) {
			status := gjson.GetBytes(body, "search_metadata.status")
			if status.String() != "Success" {
				return "", false
			}
			return status.String(), true
		},
	}
}

func shopify() Descriptor {
	return Descriptor{
		Name:        "shopify",
		Label:       "Shopify",
		Credentials: []string{config.ShopifyAPIKey, config.ShopifyStoreURL},
		Build: func(ctx context.Context, creds map[string]string) (*http.Request, error) {
			store := strings.TrimRight(creds[config.ShopifyStoreURL], "/")
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, store+"/admin/api/2023-01/shop.json", nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("X-Shopify-Access-Token", creds[config.ShopifyAPIKey])
			return req, nil
		},
		Interpret: func(body []byte) (string, bool) {
			shop := gjson.GetBytes(body, "shop")
			if !shop.Exists() {
				return "", false
			}
			return shop.Get("name").String(), true
		},
		Require: []string{"shop.name"},
	}
}

// youTubeChannel is the Google Developers channel; any public channel works.
const youTubeChannel = "UC_x5XG1OV2P6uZZ5FSM9Ttw"

func youTube(base string) Descriptor {
	return Descriptor{
		Name:        "youtube",
		Label:       "YouTube",
		Credentials: []string{config.YouTubeAPIKey},
		Build: func(ctx context.Context, creds map[string]string) (*http.Request, error) {
			q := url.Values{}
			q.Set("part", "snippet")
			q.Set("id", youTubeChannel)
			q.Set("key", creds[config.YouTubeAPIKey])
			return http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/channels?"+q.Encode(), nil)
		},
		Interpret: func(body []byte) (string, bool) {
			if !nonEmptyArray(gjson.GetBytes(body, "items")) {
				return "", false
			}
			return gjson.GetBytes(body, "items.0.snippet.title").String(), true
		},
		Require:              []string{"items.0.snippet.title"},
		ShapeMessage:         "YouTube connection successful, but no data was returned.",
		ShapeWarn:            true,
		EscalateDecodeErrors: true,
	}
}

func aiStudio() Descriptor {
	return Descriptor{
		Name:        "ai_studio",
		Label:       "Google AI Studio",
		Credentials: []string{config.AIStudioAPIKey, config.AIStudioURL},
		Build: func(ctx context.Context, creds map[string]string) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, creds[config.AIStudioURL], nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+creds[config.AIStudioAPIKey])
			return req, nil
		},
		// The endpoint is operator-supplied, so any JSON document counts.
		Interpret:            func([]byte) (string, bool) { return "", true },
		EscalateDecodeErrors: true,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

func gemini(base string) Descriptor {
	return Descriptor{
		Name:        "gemini",
		Label:       "Google Gemini",
		Credentials: []string{config.GeminiAPIKey},
		Build: func(ctx context.Context, creds map[string]string) (*http.Request, error) {
			body, err := json.Marshal(geminiRequest{
				Contents: []geminiContent{{Parts: []geminiPart{{Text: "Explain how AI works"}}}},
			})
			if err != nil {
				return nil, err
			}
			q := url.Values{}
			q.Set("key", creds[config.GeminiAPIKey])
			target := strings.TrimRight(base, "/") + "/models/gemini-1.5-flash:generateContent?" + q.Encode()
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			return req, nil
		},
		Interpret: func(body []byte) (string, bool) {
			if !nonEmptyArray(gjson.GetBytes(body, "candidates")) {
				return "", false
			}
			return strings.TrimSpace(gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()), true
		},
		EscalateDecodeErrors: true,
	}
}

func nonEmptyArray(r gjson.Result) bool {
	return r.IsArray() && len(r.Array()) > 0
}

// Select returns the named descriptors in the order given. No names selects
// all of ds.
func Select(ds []Descriptor, names []string) ([]Descriptor, error) {
	if len(names) == 0 {
		return ds, nil
	}
	out := make([]Descriptor, 0, len(names))
	for _, n := range names {
		d, ok := Find(ds, n)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", n)
		}
		out = append(out, d)
	}
	return out, nil
}
