package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vit0-9/breachsignal_api/models"
	"github.com/vit0-9/breachsignal_api/pkg/history"
)

const defaultServer = "http://localhost:8080"

type rootOptions struct {
	server     string
	historyDir string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "breachctl",
		Short:         "Query a BreachSignal API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("BREACHSIGNAL_URL")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", server, "API base URL (env BREACHSIGNAL_URL)")
	cmd.PersistentFlags().StringVar(&opts.historyDir, "history-dir", "", "directory for lookup history (default user config dir)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "request timeout")

	cmd.AddCommand(
		newScanCmd(opts),
		newWhoisCmd(opts),
		newIPCmd(opts),
		newBreachCmd(opts),
		newLeadsCmd(opts),
		newReportCmd(opts),
		newHistoryCmd(opts),
	)
	return cmd
}

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.server, o.timeout)
}

func (o *rootOptions) history(key string) (*history.List, error) {
	dir := o.historyDir
	if dir == "" {
		var err error
		if dir, err = history.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return history.Open(dir, key)
}

// remember records a lookup. History is best effort: a failure is reported
// on stderr and never fails the command.
func (o *rootOptions) remember(cmd *cobra.Command, key, query string, result []byte) {
	l, err := o.history(key)
	if err == nil {
		err = l.Add(query, json.RawMessage(result))
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: history not saved:", err)
	}
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = w.Write(raw)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	var req models.ScanRequest
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a unified scan across every source the flags select",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !req.HasTarget() {
				return errors.New("at least one of --email, --domain or --ip is required")
			}
			res, err := opts.client().postJSON(cmd.Context(), "/scan", nil, req)
			if err != nil {
				return err
			}
			if res.StatusCode == http.StatusMultiStatus {
				fmt.Fprintln(cmd.ErrOrStderr(), "some sources failed; see errors")
			}
			opts.remember(cmd, history.ToolScan, scanQuery(req), res.Body)
			return printJSON(cmd.OutOrStdout(), res.Body)
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address to check for breaches")
	cmd.Flags().StringVar(&req.Domain, "domain", "", "domain for whois and site security")
	cmd.Flags().StringVar(&req.IP, "ip", "", "IP address for reputation")
	cmd.Flags().StringVar(&req.RecaptchaToken, "recaptcha-token", "", "reCAPTCHA token, required with --email")
	cmd.Flags().BoolVar(&req.Debug, "debug", false, "include upstream error messages")
	return cmd
}

func scanQuery(req models.ScanRequest) string {
	var parts []string
	for _, p := range []string{req.Email, req.Domain, req.IP} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func newWhoisCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whois <domain>",
		Short: "Look up domain registration data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().postJSON(cmd.Context(), "/whois-lookup", nil, models.WhoisLookupRequest{Domain: args[0]})
			if err != nil {
				return err
			}
			opts.remember(cmd, history.ToolWhois, args[0], res.Body)
			return printJSON(cmd.OutOrStdout(), res.Body)
		},
	}
}

func newIPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ip <address>",
		Short: "Look up the abuse reputation of an IP address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().postJSON(cmd.Context(), "/ip-reputation", nil, models.IPReputationRequest{IP: args[0]})
			if err != nil {
				return err
			}
			opts.remember(cmd, history.ToolIP, args[0], res.Body)
			return printJSON(cmd.OutOrStdout(), res.Body)
		},
	}
}

func newBreachCmd(opts *rootOptions) *cobra.Command {
	var req models.BreachCheckRequest
	cmd := &cobra.Command{
		Use:   "breach <email>",
		Short: "Run a breach check and email the results to the address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Email = args[0]
			res, err := opts.client().postJSON(cmd.Context(), "/check-breach", nil, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Body)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&req.Company, "company", "", "company name")
	cmd.Flags().StringVar(&req.RecaptchaToken, "recaptcha-token", "", "reCAPTCHA token")
	return cmd
}

func newLeadsCmd(opts *rootOptions) *cobra.Command {
	var q string
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List recorded leads, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if q != "" {
				query.Set("q", q)
			}
			res, err := opts.client().get(cmd.Context(), "/leads", query)
			if err != nil {
				return err
			}
			var body models.LeadsResponse
			if err := json.Unmarshal(res.Body, &body); err != nil {
				return fmt.Errorf("decode leads: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(body.Leads) == 0 {
				fmt.Fprintln(out, "no leads")
				return nil
			}
			for _, l := range body.Leads {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%d breaches\n",
					l.Timestamp.Format(time.RFC3339), l.Email, l.Name, l.Company, l.BreachCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "filter by email, name or company")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		input  string
		output string
		req    models.BreachReportRequest
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a breach report from a JSON list of breaches",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &req.Breaches); err != nil {
				return fmt.Errorf("decode breaches: %w", err)
			}
			res, err := opts.client().postJSON(cmd.Context(), "/breach-report", url.Values{"format": {format}}, req)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(res.Body)
				return err
			}
			return os.WriteFile(output, res.Body, 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "text, html or pdf")
	cmd.Flags().StringVarP(&input, "input", "i", "-", "file holding a JSON array of breaches (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "where to write the report (- for stdout)")
	cmd.Flags().StringVar(&req.Email, "email", "", "address printed on the report")
	cmd.Flags().StringVar(&req.Name, "name", "", "name printed on the report")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent lookups",
	}
	tools := []string{history.ToolWhois, history.ToolIP, history.ToolScan}

	list := &cobra.Command{
		Use:       "list <whois|ip|scan>",
		Short:     "List the most recent lookups of a tool",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: tools,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.history(args[0])
			if err != nil {
				return err
			}
			entries := l.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "history empty")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.At.Local().Format(time.DateTime), e.Query)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:       "clear <whois|ip|scan>",
		Short:     "Forget every lookup of a tool",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: tools,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.history(args[0])
			if err != nil {
				return err
			}
			if err := l.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s history cleared\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}
