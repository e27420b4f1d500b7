package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Addr           string        `env:"API_ADDR" validate:"required"` // bind address, e.g. "127.0.0.1:8080" or ":8080" (Docker)
	LogDir         string        `env:"LOG_DIR"`                      // logs directory; empty disables the file sink
	LogLevel       string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS"`              // empty means allow all
	RateLimitRPM   int           `env:"CONNECT_RPM" validate:"gte=0"` // 0 disables rate limiting
	RateLimitBurst int           `env:"CONNECT_BURST" validate:"gte=0"`
	ProbeTimeout   time.Duration `env:"PROBE_TIMEOUT_MS" validate:"gte=0"` // 0 keeps the http.Client default (none)
	DNSDiagnostics bool          `env:"DNS_DIAGNOSTICS"`
	SlackWebhook   string        `env:"SLACK_WEBHOOK_URL" validate:"omitempty,url"`
	OTLPEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" validate:"omitempty,url"`
	Credentials    Credentials
}

// LoadDotenv seeds the environment from .env files when they exist.
// Variables already set in the process environment win. Absent files are
// skipped; unreadable or malformed ones are reported together.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var errs error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = multierr.Append(errs, fmt.Errorf("load %s: %w", p, err))
		}
	}
	return errs
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	var origins []string
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	// Limiting is opt-in; /connect answers only 200 or 500 unless set.
	var rpm int
	if v := os.Getenv("CONNECT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rpm = n
		}
	}
	burst := 10
	if v := os.Getenv("CONNECT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}

	var probeTimeout time.Duration
	if v := os.Getenv("PROBE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			probeTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	dnsDiag := true
	if v := os.Getenv("DNS_DIAGNOSTICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			dnsDiag = b
		}
	}

	return Config{
		Addr:           addr,
		LogDir:         logDir,
		LogLevel:       logLevel,
		AllowedOrigins: origins,
		RateLimitRPM:   rpm,
		RateLimitBurst: burst,
		ProbeTimeout:   probeTimeout,
		DNSDiagnostics: dnsDiag,
		SlackWebhook:   os.Getenv("SLACK_WEBHOOK_URL"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Credentials:    LoadCredentials(os.LookupEnv),
	}
}

// credentialURLs holds the URL-shaped credentials so they can be validated
// without exposing API keys in error messages.
type credentialURLs struct {
	ShopifyStoreURL string `env:"SHOPIFY_STORE_URL" validate:"omitempty,http_url"`
	AIStudioURL     string `env:"AI_STUDIO_URL" validate:"omitempty,http_url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks the settings and URL-shaped credentials. Missing
// credentials are not an error; they are reported when a probe runs.
// All problems are returned together.
func (c Config) Validate() error {
	var errs error
	errs = multierr.Append(errs, describe(validate.Struct(c)))

	shop, _ := c.Credentials.Lookup(ShopifyStoreURL)
	studio, _ := c.Credentials.Lookup(AIStudioURL)
	errs = multierr.Append(errs, describe(validate.Struct(credentialURLs{
		ShopifyStoreURL: shop,
		AIStudioURL:     studio,
	})))
	return errs
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var out error
	for _, fe := range verrs {
		out = multierr.Append(out, fmt.Errorf("%s fails %q check (got %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return out
}
