// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/poseiden/backoffice/internal/config"
)

// ProbeStatus is the result of one health probe.
type ProbeStatus struct {
	Probe  string `json:"probe"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Body   string `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`
}

// probes are queried in this order.
var probes = []string{"liveness", "readiness"}

type statusConfig struct {
	addr       string
	jsonOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running Poseiden server",
		Long:  `Query the liveness and readiness probes of a running server's metrics address.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", config.Defaults().Metrics.Addr, "metrics/health address of the server")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 2*time.Second, "per-probe timeout")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	client := &http.Client{Timeout: cfg.timeout}
	statuses := queryProbes(cmd.Context(), client, cfg.addr)

	if cfg.jsonOutput {
		output, err := formatStatusJSON(statuses)
		if err != nil {
			return err
		}
		cmd.Println(output)
		return nil
	}
	cmd.Print(formatStatusTable(statuses))
	return nil
}

// queryProbes calls every probe under addr. addr may omit the scheme.
func queryProbes(ctx context.Context, client *http.Client, addr string) []ProbeStatus {
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	base = strings.TrimSuffix(base, "/")

	out := make([]ProbeStatus, 0, len(probes))
	for _, probe := range probes {
		out = append(out, queryProbe(ctx, client, base+"/healthz/"+probe, probe))
	}
	return out
}

func queryProbe(ctx context.Context, client *http.Client, url, probe string) ProbeStatus {
	status := ProbeStatus{Probe: probe}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		status.Error = fmt.Sprintf("invalid request: %v", err)
		return status
	}
	resp, err := client.Do(req)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		status.Error = fmt.Sprintf("failed to read response: %v", err)
		return status
	}
	status.Status = resp.StatusCode
	status.Body = strings.TrimSpace(string(body))
	status.OK = resp.StatusCode == http.StatusOK
	return status
}

// formatStatusTable formats the statuses as a human-readable table.
func formatStatusTable(statuses []ProbeStatus) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "PROBE\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "-----\t------\t------")
	for _, s := range statuses {
		switch {
		case s.Error != "":
			_, _ = fmt.Fprintf(w, "%s\tdown\t%s\n", s.Probe, s.Error)
		case s.OK:
			_, _ = fmt.Fprintf(w, "%s\tok\t%s\n", s.Probe, s.Body)
		default:
			_, _ = fmt.Fprintf(w, "%s\tfailing\t%d %s\n", s.Probe, s.Status, s.Body)
		}
	}

	_ = w.Flush()
	return buf.String()
}

func formatStatusJSON(statuses []ProbeStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}
