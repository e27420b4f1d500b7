// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/apiconnect/internal/config"
	"github.com/hamed0406/apiconnect/internal/probe"
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
		os.Exit(1)
	}
	os.Exit(run(config.FromEnv(), os.Stdout, os.Stderr))
}

// run prints a credential report per provider and returns the exit code.
// Missing credentials only warn; invalid values fail.
func run(cfg config.Config, stdout, stderr io.Writer) int {
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }
	fail := func(msg string) { fmt.Fprintln(stderr, "✖", msg) }

	for _, d := range probe.Vendors(probe.DefaultEndpoints()) {
		var missing []string
		for _, name := range d.Credentials {
			if !cfg.Credentials.Present(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			warn(fmt.Sprintf("%s: %s is missing; /connect/%s will only log it.", d.Label, strings.Join(missing, " or "), d.Name))
			continue
		}
		ok(d.Label + " credentials present")
	}

	ok("API_ADDR=" + cfg.Addr)
	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; every origin is allowed by CORS.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}
	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty; failed checks only reach the log.")
	}

	errs := multierr.Errors(cfg.Validate())
	for _, e := range errs {
		fail(e.Error())
	}
	if len(errs) > 0 {
		return 1
	}
	ok("preflight passed")
	return 0
}
