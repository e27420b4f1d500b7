package probe

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBody caps how much of a vendor response is read.
const maxBody = 4 << 20

type exchange struct {
	status  int
	body    []byte
	latency time.Duration
}

func (e exchange) ok() bool { return e.status >= 200 && e.status < 300 }

// send issues req exactly once and reads the whole (capped) body.
func send(client *http.Client, req *http.Request) (exchange, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return exchange{latency: time.Since(start)}, redact(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	ex := exchange{status: resp.StatusCode, body: body, latency: time.Since(start)}
	if err != nil {
		return ex, fmt.Errorf("read body: %w", redact(err))
	}
	return ex, nil
}

// secretParams are query parameters vendors use for API keys.
var secretParams = []string{"key", "api_key"}

// redact strips API keys from the URL carried by *url.Error so they never
// reach logs or notifications.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: redactURL(uerr.URL), Err: uerr.Err}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
