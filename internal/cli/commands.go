package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/midsquest/midsquest/internal/common/logtrace"
	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// Global flags
	jsonOutput bool
	configFile string
	serverURL  string
	logLevel   string
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var warnLabel = color.New(color.FgYellow)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "midsquest [command] [flags]",
	Short: "MidsQuest CLI - play the Mids Quest text adventure from the command line",
	Long: `MidsQuest CLI talks to a Mids Quest game server. It creates accounts, logs in
and sends game actions (move, look, doing, use) with the session token the
server hands out at login.

The session token only lives as long as the process, so commands that need it
run a whole session: "play" runs a scripted session, "shell" an interactive one.

Examples:
  # Point the CLI at a server
  midsquest config --server http://localhost:8000

  # Check that the server is up
  midsquest status --wait 30s

  # Run the scripted session against a local sandbox
  midsquest sandbox --addr :8000 &
  midsquest play --server http://localhost:8000

  # Play interactively
  midsquest shell`,
	PersistentPreRunE: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Game server URL, overrides the configuration")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(os.Stdout, map[string]string{
				"error": err.Error(),
			})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// preRunHandlePersistents loads the configuration, applies flag overrides and
// initializes logging before any command runs.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.ServerURL = MorphServer(serverURL)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config = cfg

	logtrace.InitLogger(cfg.LogLevel, !jsonOutput)
	return nil
}

// newGameClient builds a client for the configured server. Response bodies are
// written to out.
func newGameClient(cfg *Config, out io.Writer, opts ...gameclient.Option) *gameclient.Client {
	base := []gameclient.Option{
		gameclient.WithOutput(out),
		gameclient.WithConnectTimeout(cfg.GetConnectTimeout()),
	}
	if cfg.LenientSession {
		base = append(base, gameclient.WithLenientSession())
	}
	return gameclient.New(cfg.ServerURL, append(base, opts...)...)
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of midsquest",
		Run: func(cmd *cobra.Command, args []string) {
			configPath := configFile
			if configPath == "" {
				configPath = "unknown"
			}

			if jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				})
			} else {
				cmd.Printf("midsquest CLI %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints data as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(w, string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.3.0"
}
