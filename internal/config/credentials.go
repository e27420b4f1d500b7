package config

// Recognized credential names. Values come from the process environment
// (optionally seeded from .env) and are read exactly once.
const (
	OpenAIAPIKey    = "OPENAI_API_KEY"
	SerpAPIKey      = "SERPAPI_API_KEY"
	ShopifyAPIKey   = "SHOPIFY_API_KEY"
	ShopifyStoreURL = "SHOPIFY_STORE_URL"
	YouTubeAPIKey   = "YOUTUBE_API_KEY"
	AIStudioAPIKey  = "AI_STUDIO_API_KEY"
	AIStudioURL     = "AI_STUDIO_URL"
	GeminiAPIKey    = "GEMINI_API_KEY"
)

var credentialNames = []string{
	OpenAIAPIKey,
	SerpAPIKey,
	ShopifyAPIKey,
	ShopifyStoreURL,
	YouTubeAPIKey,
	AIStudioAPIKey,
	AIStudioURL,
	GeminiAPIKey,
}

// Credentials is the read-only credential table. The zero value is an empty
// table where every lookup reports absent.
type Credentials struct {
	values map[string]string
}

// LoadCredentials reads every recognized name through lookup. Empty values
// are treated as absent.
func LoadCredentials(lookup func(string) (string, bool)) Credentials {
	values := make(map[string]string, len(credentialNames))
	for _, name := range credentialNames {
		if v, ok := lookup(name); ok && v != "" {
			values[name] = v
		}
	}
	return Credentials{values: values}
}

// Lookup returns the value for name and whether it is present.
func (c Credentials) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Present reports whether name has a value.
func (c Credentials) Present(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Names returns the recognized credential names in a stable order.
func Names() []string {
	out := make([]string, len(credentialNames))
	copy(out, credentialNames)
	return out
}
