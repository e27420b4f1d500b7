package domain

import "time"

// OutcomeKind classifies how a connectivity probe ended.
type OutcomeKind string

const (
	KindSuccess         OutcomeKind = "success"
	KindMissingConfig   OutcomeKind = "missing_config"
	KindVendorFault     OutcomeKind = "vendor_fault"
	KindUnexpectedShape OutcomeKind = "unexpected_shape"
)

// Outcome is the result of one probe against one vendor. It lives for a
// single request; nothing is retained.
type Outcome struct {
	ID         string        `json:"id"`
	Provider   string        `json:"provider"`
	Kind       OutcomeKind   `json:"kind"`
	Message    string        `json:"message"`
	Excerpt    string        `json:"excerpt,omitempty"`
	Payload    string        `json:"payload,omitempty"` // full body, unexpected shape only
	Missing    []string      `json:"missing,omitempty"` // credential names
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency_ns,omitempty"`
	DNSClass   string        `json:"dns_class,omitempty"`
	Err        error         `json:"-"`
	CheckedAt  time.Time     `json:"checked_at"`
}

func (o Outcome) OK() bool { return o.Kind == KindSuccess }

// LatencyMS is the round-trip time in milliseconds, 0 when no request was sent.
func (o Outcome) LatencyMS() float64 {
	return float64(o.Latency) / float64(time.Millisecond)
}
