package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  create-user USERNAME PASSWORD   register a new account
  login USERNAME PASSWORD         log in and keep the session token
  look                            describe the current room
  move DIRECTION                  walk through an exit
  doing ACTIVITY...               set what you are doing
  use ITEM                        use an item in the room
  token                           show the session state
  logout                          forget the session token
  help                            show this help
  quit                            leave the shell`

const shellPrompt = "midsquest> "

// runShell reads commands from in until EOF, quit or ctx is done. Server
// responses are written to w by the client.
func runShell(ctx context.Context, c *gameclient.Client, in io.Reader, w io.Writer, t *Transcript, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(w, shellPrompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if quit := shellCommand(ctx, c, line, w, t); quit {
			return nil
		}
	}
}

// shellCommand runs one line and reports whether the shell should exit.
func shellCommand(ctx context.Context, c *gameclient.Client, line string, w io.Writer, t *Transcript) bool {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	var out gameclient.Outcome
	var err error
	switch strings.ToLower(verb) {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(w, shellHelp)
		return false
	case "token":
		printTokenState(w, c)
		return false
	case "logout":
		c.Credentials().Clear()
		okLabel.Fprintln(w, "Session token cleared.")
		return false
	case "create-user":
		if len(args) != 2 {
			errorLabel.Fprintln(w, "usage: create-user USERNAME PASSWORD")
			return false
		}
		out, err = c.CreateUser(ctx, args[0], args[1])
	case "login":
		if len(args) != 2 {
			errorLabel.Fprintln(w, "usage: login USERNAME PASSWORD")
			return false
		}
		out, err = c.Login(ctx, args[0], args[1])
	case "look":
		out, err = c.Look(ctx)
	case "move":
		if len(args) != 1 {
			errorLabel.Fprintln(w, "usage: move DIRECTION")
			return false
		}
		out, err = c.Move(ctx, args[0])
	case "doing":
		if rest == "" {
			errorLabel.Fprintln(w, "usage: doing ACTIVITY...")
			return false
		}
		out, err = c.SetDoing(ctx, rest)
	case "use":
		if rest == "" {
			errorLabel.Fprintln(w, "usage: use ITEM")
			return false
		}
		out, err = c.UseItem(ctx, rest)
	default:
		errorLabel.Fprintf(w, "unknown command %q, try help\n", verb)
		return false
	}

	if terr := t.Record(line, out, err); terr != nil {
		warnLabel.Fprintf(os.Stderr, "Warning: unable to write transcript: %v\n", terr)
	}
	switch {
	case err != nil:
		errorLabel.Fprintf(w, "Error: %v\n", err)
	case out.Preflight != nil:
		errorLabel.Fprintln(w, out.Preflight.Error())
	case !out.OK():
		errorLabel.Fprintf(w, "status %d\n", out.StatusCode)
	case out.Op == gameclient.OpLogin && c.SessionDegraded():
		warnLabel.Fprintln(w, "Logged in, but the server sent no session token.")
	}
	return false
}

func printTokenState(w io.Writer, c *gameclient.Client) {
	token, ok := c.Token()
	switch {
	case !ok:
		fmt.Fprintln(w, "Not logged in.")
	case c.SessionDegraded():
		warnLabel.Fprintln(w, "Logged in without a usable session token.")
	default:
		fmt.Fprintf(w, "Logged in, token %s\n", abbreviate(token, 12))
	}
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func newShellCmd() *cobra.Command {
	var transcriptPath string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Play interactively",
		Long: `Start an interactive session. The session token from "login" is kept for the
life of the shell and sent with every game action. Commands can also be piped
in, one per line.

` + shellHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, closeTranscript, err := openTranscript(transcriptPath)
			if err != nil {
				return err
			}
			defer closeTranscript()

			w := cmd.OutOrStdout()
			c := newGameClient(GetConfig(), w)
			prompt := isTerminal(os.Stdin)
			if prompt {
				fmt.Fprintf(w, "Connected to %s. Type help for commands.\n", GetConfig().ServerURL)
			}
			return runShell(cmd.Context(), c, cmd.InOrStdin(), w, t, prompt)
		},
	}
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Append an NDJSON transcript of the session to this file")
	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	rootCmd.AddCommand(newShellCmd())
}
