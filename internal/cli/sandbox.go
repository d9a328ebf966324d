package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/midsquest/midsquest/internal/sandbox"
	"github.com/spf13/cobra"
)

func newSandboxCmd() *cobra.Command {
	var (
		addr       string
		secret     string
		sessionTTL time.Duration
		reqTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local game server",
		Long: `Run an in-memory game server that speaks the same API as the real one:
accounts, login with session tokens, rooms, move, look, doing and use. State is
lost when the process exits.

Examples:
  midsquest sandbox --addr :8000
  midsquest play --server http://localhost:8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("MIDSQUEST_SANDBOX_SECRET")
			}
			s, err := sandbox.CreateNewServer(sandbox.Options{
				Secret:         []byte(secret),
				SessionTTL:     sessionTTL,
				RequestTimeout: reqTimeout,
			})
			if err != nil {
				return fmt.Errorf("creating sandbox: %w", err)
			}
			s.MountHandlers()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !jsonOutput {
				okLabel.Fprintf(cmd.OutOrStdout(), "Sandbox listening on %s\n", addr)
			}
			return s.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "Address to listen on")
	cmd.Flags().StringVar(&secret, "secret", "", "Session signing secret (default: $MIDSQUEST_SANDBOX_SECRET or random)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "Session token lifetime, 0 for no expiry")
	cmd.Flags().DurationVar(&reqTimeout, "request-timeout", 30*time.Second, "Per-request deadline")
	return cmd
}

func init() {
	rootCmd.AddCommand(newSandboxCmd())
}
