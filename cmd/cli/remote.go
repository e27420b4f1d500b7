package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/hamed0406/apiconnect/internal/probe"
)

func remoteCmd() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "remote [provider...]",
		Short: "Ask a running API to run connectivity checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := probe.Select(probe.Vendors(probe.DefaultEndpoints()), args)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 2 * time.Minute}
			var errs error
			for _, d := range ds {
				line, err := callConnect(cmd, client, strings.TrimRight(base, "/")+"/connect/"+d.Name)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", d.Name, err))
					fmt.Fprintf(cmd.OutOrStdout(), "✖ %-10s %v\n", d.Name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✔ %-10s %s\n", d.Name, line)
			}
			return errs
		},
	}
	def := os.Getenv("API_BASE")
	if def == "" {
		def = "http://localhost:8080"
	}
	cmd.Flags().StringVar(&base, "api", def, "base URL of the apiconnect API (env API_BASE)")
	return cmd
}

func callConnect(cmd *cobra.Command, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK {
		if body.Detail != "" {
			return "", fmt.Errorf("%s: %s", resp.Status, body.Detail)
		}
		return "", fmt.Errorf("API returned status: %s", resp.Status)
	}
	return body.Message, nil
}
