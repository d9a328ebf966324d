package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/avast/retry-go/v4"
	"github.com/midsquest/midsquest/internal/common/httpclient"
	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// SupportedServerVersions is the range of game server versions this CLI is
// known to work with.
const SupportedServerVersions = ">= 1.0.0, < 2.0.0"

var serverVersionConstraint *semver.Constraints

func init() {
	var err error
	serverVersionConstraint, err = semver.NewConstraint(SupportedServerVersions)
	if err != nil {
		panic(err)
	}
}

// StatusReport describes the answer of the server's root endpoint.
type StatusReport struct {
	Server     string `json:"server"`
	StatusCode int    `json:"status"`
	Message    string `json:"message,omitempty"`
	Version    string `json:"version,omitempty"`
	Compatible *bool  `json:"compatible,omitempty"`
	Body       string `json:"body"`
}

// isServerVersionCompatible reports whether version falls in
// SupportedServerVersions. Invalid versions are not compatible.
func isServerVersionCompatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return serverVersionConstraint.Check(v)
}

// probeServer sends GET / and reports what came back. With wait > 0,
// transport failures are retried until the server answers or wait elapses.
func probeServer(ctx context.Context, sender httpclient.Sender, server string, wait time.Duration) (StatusReport, error) {
	report := StatusReport{Server: server}
	probe := func() error {
		rsp, err := sender.Send(ctx, httpclient.RequestOptions{Method: http.MethodGet, Path: "/"})
		if err != nil {
			return err
		}
		report.StatusCode = rsp.StatusCode
		report.Body = rsp.Body
		return nil
	}

	var err error
	if wait <= 0 {
		err = probe()
	} else {
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		err = retry.Do(probe,
			retry.Context(waitCtx),
			retry.Attempts(0),
			retry.Delay(500*time.Millisecond),
			retry.MaxDelay(5*time.Second),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return errors.Is(err, httpclient.ErrTransport)
			}),
			retry.OnRetry(func(n uint, err error) {
				log.Debug().Uint("attempt", n+1).Err(err).Msg("server not reachable yet")
			}),
		)
	}
	if err != nil {
		return report, err
	}

	if msg, ok := gameclient.Lookup(report.Body, "message"); ok {
		report.Message = msg
	}
	if v, ok := gameclient.Lookup(report.Body, "version"); ok {
		report.Version = v
		compatible := isServerVersionCompatible(v)
		report.Compatible = &compatible
	}
	return report, nil
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the game server is reachable",
	Long: `Send GET / to the game server and print the answer, including the server
version when it reports one.

Examples:
  # Check the configured server
  midsquest status

  # Wait up to 30 seconds for a server that is starting
  midsquest status --wait 30s -j`,
	RunE: getStatus,
}

var statusWait time.Duration

func getStatus(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	sender := httpclient.NewClient(cfg.ServerURL, nil,
		httpclient.WithDoer(httpclient.NewHTTPDoer(cfg.GetConnectTimeout())))
	return reportStatus(cmd.Context(), cmd.OutOrStdout(), sender, cfg.ServerURL, statusWait)
}

func reportStatus(ctx context.Context, w io.Writer, sender httpclient.Sender, server string, wait time.Duration) error {
	report, err := probeServer(ctx, sender, server, wait)
	if err != nil {
		if jsonOutput {
			printJSON(w, map[string]string{
				"version_cli": getCLIVersion(),
				"server":      server,
				"error":       "Unable to connect to server: " + err.Error(),
			})
		} else {
			fmt.Fprintf(w, "midsquest CLI %s\n", getCLIVersion())
			errorLabel.Fprintf(w, "Error: Unable to connect to server %s: %v\n", server, err)
		}
		return ErrAlreadyHandled
	}

	if jsonOutput {
		printJSON(w, map[string]any{
			"result":      1,
			"version_cli": getCLIVersion(),
			"value":       report,
		})
	} else {
		fmt.Fprintf(w, "midsquest CLI %s\n", getCLIVersion())
		printStatusPretty(w, report)
	}
	if report.StatusCode != http.StatusOK {
		return ErrAlreadyHandled
	}
	return nil
}

func printStatusPretty(w io.Writer, r StatusReport) {
	fmt.Fprintf(w, "Server: %s\n", r.Server)
	if r.StatusCode == http.StatusOK {
		okLabel.Fprintf(w, "Status: %d\n", r.StatusCode)
	} else {
		errorLabel.Fprintf(w, "Status: %d\n", r.StatusCode)
	}
	if r.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", r.Message)
	}
	if r.Version != "" {
		fmt.Fprintf(w, "Server Version: %s", r.Version)
		if r.Compatible != nil && !*r.Compatible {
			warnLabel.Fprintf(w, " (not in supported range %s)", SupportedServerVersions)
		}
		fmt.Fprintln(w)
	}
	if r.Message == "" && r.Version == "" {
		fmt.Fprintln(w, r.Body)
	}
}

// init initializes the status command and adds it to the root command
func init() {
	statusCmd.Flags().DurationVar(&statusWait, "wait", 0, "Keep retrying until the server answers or this much time has passed")
	rootCmd.AddCommand(statusCmd)
}
