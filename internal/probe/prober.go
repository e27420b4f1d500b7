package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/hamed0406/apiconnect/internal/domain"
)

const tracerName = "github.com/hamed0406/apiconnect/internal/probe"

// maxExcerpt bounds excerpts in success logs and fault messages.
const maxExcerpt = 200

// Notifier receives a message for every probe that did not succeed.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Prober runs connectivity probes. It holds no per-request state and is safe
// for concurrent use.
type Prober struct {
	client   *http.Client
	creds    CredentialSource
	log      *zap.Logger
	metrics  *Metrics
	notifier Notifier
	diagnose func(ctx context.Context, host string) DNSStatus
	tracer   trace.Tracer
}

type Option func(*Prober)

// WithHTTPClient replaces the default client (no timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Prober) { p.metrics = m }
}

func WithNotifier(n Notifier) Option {
	return func(p *Prober) { p.notifier = n }
}

// WithDNSDiagnostics classifies the vendor host after transport faults.
func WithDNSDiagnostics(on bool) Option {
	return func(p *Prober) {
		if on {
			p.diagnose = ClassifyHost
		} else {
			p.diagnose = nil
		}
	}
}

func NewProber(log *zap.Logger, creds CredentialSource, opts ...Option) *Prober {
	p := &Prober{
		client: &http.Client{},
		creds:  creds,
		log:    log,
		tracer: otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

var _ Runner = (*Prober)(nil)

// Probe performs one connectivity check against d. Missing credentials,
// transport faults, non-2xx answers and unexpected bodies are all reported in
// the Outcome and logged; the error is non-nil only for a non-JSON body when
// d.EscalateDecodeErrors is set.
func (p *Prober) Probe(ctx context.Context, d Descriptor) (domain.Outcome, error) {
	ctx, span := p.tracer.Start(ctx, "probe "+d.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("probe.provider", d.Name)),
	)
	defer span.End()

	out := domain.Outcome{
		ID:        uuid.NewString(),
		Provider:  d.Name,
		CheckedAt: time.Now().UTC(),
	}
	out, err := p.run(ctx, d, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.metrics.observe(d.Name, outcomeEscaped, out.Latency)
		return out, err
	}

	span.SetAttributes(attribute.String("probe.outcome", string(out.Kind)))
	if out.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", out.StatusCode))
	}
	if !out.OK() {
		span.SetStatus(codes.Error, out.Message)
	}
	p.report(ctx, d, out)
	return out, nil
}

func (p *Prober) run(ctx context.Context, d Descriptor, out domain.Outcome) (domain.Outcome, error) {
	creds := make(map[string]string, len(d.Credentials))
	for _, name := range d.Credentials {
		v, ok := p.creds.Lookup(name)
		if !ok {
			out.Missing = append(out.Missing, name)
			continue
		}
		creds[name] = v
	}
	if len(out.Missing) > 0 {
		out.Kind = domain.KindMissingConfig
		out.Message = strings.Join(out.Missing, " or ") + " is missing."
		return out, nil
	}

	req, err := d.Build(ctx, creds)
	if err != nil {
		return fault(d, out, fmt.Errorf("build request: %w", redact(err))), nil
	}

	ex, err := send(p.client, req)
	out.StatusCode = ex.status
	out.Latency = ex.latency
	if err != nil {
		if p.diagnose != nil && ex.status == 0 {
			dns := p.diagnose(context.WithoutCancel(ctx), req.URL.Hostname())
			out.DNSClass = dns.Class
			p.log.Info("dns_check",
				zap.String("provider", d.Name),
				zap.String("probe_id", out.ID),
				zap.String("host", dns.Host),
				zap.String("class", dns.Class),
				zap.Stringers("ips", dns.IPs),
				zap.String("cname", dns.CNAME),
				zap.Strings("nameservers", dns.Nameservers),
				zap.String("resolver_error", dns.ResolverError),
			)
		}
		return fault(d, out, err), nil
	}
	if !ex.ok() {
		return fault(d, out, fmt.Errorf("%d %s: %s", ex.status, http.StatusText(ex.status), excerpt(string(ex.body)))), nil
	}

	if !gjson.ValidBytes(ex.body) {
		err := fmt.Errorf("%s returned %q: %w", d.Label, excerpt(string(ex.body)), ErrMalformedResponse)
		if d.EscalateDecodeErrors {
			return fault(d, out, err), err
		}
		return fault(d, out, err), nil
	}

	summary, ok := d.Interpret(ex.body)
	if ok {
		if path := firstMissing(ex.body, d.Require); path != "" {
			if d.EscalateDecodeErrors {
				err := fmt.Errorf("%s response has no %s: %w", d.Label, path, ErrMalformedResponse)
				return fault(d, out, err), err
			}
			ok = false
		}
	}
	if !ok {
		out.Kind = domain.KindUnexpectedShape
		out.Payload = string(ex.body)
		out.Message = d.ShapeMessage
		if out.Message == "" {
			out.Message = fmt.Sprintf("Error connecting to %s: %s", d.Label, out.Payload)
		}
		return out, nil
	}

	out.Kind = domain.KindSuccess
	out.Excerpt = excerpt(summary)
	if out.Excerpt == "" {
		out.Message = d.Label + " connection successful."
	} else {
		out.Message = fmt.Sprintf("%s connection successful: %s", d.Label, out.Excerpt)
	}
	return out, nil
}

// firstMissing returns the first gjson path absent from body.
func firstMissing(body []byte, paths []string) string {
	for _, path := range paths {
		if !gjson.GetBytes(body, path).Exists() {
			return path
		}
	}
	return ""
}

func fault(d Descriptor, out domain.Outcome, err error) domain.Outcome {
	out.Kind = domain.KindVendorFault
	out.Err = err
	out.Message = fmt.Sprintf("Error connecting to %s: %v", d.Label, err)
	return out
}

// report writes the outcome log line, metrics and notification.
func (p *Prober) report(ctx context.Context, d Descriptor, out domain.Outcome) {
	fields := []zap.Field{
		zap.String("provider", out.Provider),
		zap.String("probe_id", out.ID),
		zap.String("outcome", string(out.Kind)),
	}
	if out.StatusCode != 0 {
		fields = append(fields, zap.Int("status", out.StatusCode))
	}
	if out.Latency > 0 {
		fields = append(fields, zap.Float64("latency_ms", out.LatencyMS()))
	}

	switch out.Kind {
	case domain.KindSuccess:
		p.log.Info(out.Message, fields...)
	case domain.KindMissingConfig:
		p.log.Error(out.Message, append(fields, zap.Strings("missing", out.Missing))...)
	case domain.KindVendorFault:
		fields = append(fields, zap.Error(out.Err))
		if out.DNSClass != "" {
			fields = append(fields, zap.String("dns_class", out.DNSClass))
		}
		p.log.Error(out.Message, fields...)
	case domain.KindUnexpectedShape:
		fields = append(fields, zap.String("payload", out.Payload))
		if d.ShapeWarn {
			p.log.Warn(out.Message, fields...)
		} else {
			p.log.Error(out.Message, fields...)
		}
	}

	p.metrics.observe(out.Provider, string(out.Kind), out.Latency)

	if out.OK() || p.notifier == nil {
		return
	}
	title := fmt.Sprintf("🔴 %s connectivity check failed", d.Label)
	text := fmt.Sprintf("Provider: %s\nOutcome: %s\nDetail: %s\nChecked: %s",
		out.Provider, out.Kind, excerpt(out.Message), out.CheckedAt.Format(time.RFC3339))
	if err := p.notifier.Send(ctx, title, text); err != nil {
		p.log.Warn("notify_failed", zap.String("provider", out.Provider), zap.String("probe_id", out.ID), zap.Error(err))
	}
}

// excerpt trims s to maxExcerpt runes.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxExcerpt {
		return s
	}
	r := []rune(s)
	return string(r[:maxExcerpt]) + "…"
}

// IsMalformed reports whether err came from an escalated decode failure.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
