package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/apiconnect/internal/config"
	"github.com/hamed0406/apiconnect/internal/logging"
	"github.com/hamed0406/apiconnect/internal/probe"
)

var errChecksFailed = errors.New("one or more checks failed")

func checkCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check [provider...]",
		Short: "Run connectivity checks in this process",
		Long: `Runs the checks sequentially in route order (or the order given) and
prints one line per provider. Providers: openai, serpapi, shopify, youtube,
ai_studio, gemini.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := probe.Select(probe.Vendors(probe.DefaultEndpoints()), args)
			if err != nil {
				return err
			}

			if err := config.LoadDotenv(); err != nil {
				return err
			}
			cfg := config.FromEnv()
			logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel})
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			opts := []probe.Option{probe.WithDNSDiagnostics(cfg.DNSDiagnostics)}
			if cfg.ProbeTimeout > 0 {
				opts = append(opts, probe.WithHTTPClient(&http.Client{Timeout: cfg.ProbeTimeout}))
			}
			p := probe.NewProber(logger, cfg.Credentials, opts...)

			outs, runErr := probe.RunAll(cmd.Context(), p, ds)
			failed := false
			for _, o := range outs {
				mark := "✔"
				if !o.OK() {
					mark = "✖"
					failed = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %-17s %s\n", mark, o.Provider, o.Kind, o.Message)
			}
			if runErr != nil {
				logger.Error("check_escaped", zap.Error(runErr))
				return runErr
			}
			if strict && failed {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any check does not succeed")
	return cmd
}
