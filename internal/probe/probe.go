package probe

import (
	"context"
	"errors"
	"net/http"

	"github.com/hamed0406/apiconnect/internal/domain"
)

// ErrMalformedResponse is returned by Probe when a vendor answered 2xx with a
// body that is not JSON and the descriptor escalates decode errors.
var ErrMalformedResponse = errors.New("malformed vendor response")

// CredentialSource is the read-only credential table a probe draws from.
type CredentialSource interface {
	Lookup(name string) (string, bool)
}

// Runner performs one connectivity probe. A non-nil error means a fault the
// probe did not model; every modeled failure is reported in the Outcome.
type Runner interface {
	Probe(ctx context.Context, d Descriptor) (domain.Outcome, error)
}

// Descriptor holds everything vendor-specific about a connectivity probe.
type Descriptor struct {
	Name        string   // route slug, e.g. "ai_studio"
	Label       string   // display name, e.g. "Google AI Studio"
	Credentials []string // required credential names, in report order

	// Build returns the single outbound request. creds holds a value for
	// every name in Credentials.
	Build func(ctx context.Context, creds map[string]string) (*http.Request, error)

	// Interpret inspects a 2xx JSON body. ok=false means the expected field
	// is missing; excerpt is logged on success.
	Interpret func(body []byte) (excerpt string, ok bool)

	// Require lists gjson paths that must exist once Interpret accepts the
	// body. A missing path is an unexpected shape, or ErrMalformedResponse
	// when EscalateDecodeErrors is set.
	Require []string

	ShapeMessage         string // fixed unexpected-shape message; default includes the payload
	ShapeWarn            bool   // log unexpected shape at warn level
	EscalateDecodeErrors bool   // non-JSON or incomplete 2xx body escapes as ErrMalformedResponse
}
