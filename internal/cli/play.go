package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultPassword = "password123"

// playStep is one operation of a scripted session.
type playStep struct {
	name string
	run  func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error)
}

// StepResult records how one step of a session ended.
type StepResult struct {
	Step   string `json:"step"`
	Op     string `json:"op"`
	Status int    `json:"status"`
	Body   string `json:"body,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PlayResult is the outcome of a scripted session.
type PlayResult struct {
	Username  string       `json:"username"`
	Completed bool         `json:"completed"`
	Steps     []StepResult `json:"steps"`
}

type playOptions struct {
	username  string
	password  string
	direction string
	activity  string
	item      string
}

// scriptedSession creates a fresh account, logs in, looks around, moves,
// sets an activity and uses an item.
func scriptedSession(o playOptions) []playStep {
	return []playStep{
		{"create user", func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error) {
			return c.CreateUser(ctx, o.username, o.password)
		}},
		{"login", func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error) {
			return c.Login(ctx, o.username, o.password)
		}},
		{"look", func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error) {
			return c.Look(ctx)
		}},
		{"move " + o.direction, func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error) {
			return c.Move(ctx, o.direction)
		}},
		{"set activity", func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error) {
			return c.SetDoing(ctx, o.activity)
		}},
		{"use " + o.item, func(ctx context.Context, c *gameclient.Client) (gameclient.Outcome, error) {
			return c.UseItem(ctx, o.item)
		}},
	}
}

// runPlay runs steps in order and stops at the first step that does not
// answer 200. A transport failure aborts the session and is returned.
func runPlay(ctx context.Context, c *gameclient.Client, w io.Writer, t *Transcript, steps []playStep, quiet bool) (PlayResult, error) {
	title := cases.Title(language.English)
	var res PlayResult

	for i, s := range steps {
		if !quiet {
			okLabel.Fprintf(w, "▶ %d/%d %s\n", i+1, len(steps), title.String(s.name))
		}
		out, err := s.run(ctx, c)
		if terr := t.Record(s.name, out, err); terr != nil {
			warnLabel.Fprintf(os.Stderr, "Warning: unable to write transcript: %v\n", terr)
		}

		sr := StepResult{Step: s.name, Op: out.Op.Name, Status: out.StatusCode, Body: out.Body}
		if err != nil {
			sr.Error = err.Error()
			res.Steps = append(res.Steps, sr)
			return res, fmt.Errorf("%s: %w", s.name, err)
		}
		if out.Preflight != nil {
			sr.Error = out.Preflight.Error()
		}
		res.Steps = append(res.Steps, sr)

		if !out.OK() {
			if !quiet {
				errorLabel.Fprintf(w, "%s failed with status %d", title.String(s.name), out.StatusCode)
				if msg, ok := out.Message(); ok {
					errorLabel.Fprintf(w, ": %s", msg)
				} else if out.Preflight != nil {
					errorLabel.Fprintf(w, ": %s", out.Preflight.Error())
				}
				fmt.Fprintln(w)
			}
			return res, nil
		}
	}
	res.Completed = true
	if !quiet {
		okLabel.Fprintln(w, "Session completed.")
	}
	return res, nil
}

func newPlayCmd() *cobra.Command {
	var o playOptions
	var transcriptPath string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a scripted game session",
		Long: `Run a scripted game session: create a user, log in, look around, move,
set an activity and use an item. The session stops at the first step the
server does not answer with 200, and aborts when the server cannot be reached.

Examples:
  # Play with a fresh player_<millis> account
  midsquest play

  # Use an existing account, go east and use the shield
  midsquest play --username alice --password secret --direction east --item shield`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.username == "" {
				o.username = fmt.Sprintf("player_%d", time.Now().UnixMilli())
			}
			t, closeTranscript, err := openTranscript(transcriptPath)
			if err != nil {
				return err
			}
			defer closeTranscript()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w := cmd.OutOrStdout()
			bodies := w
			if jsonOutput {
				bodies = io.Discard
			}
			c := newGameClient(GetConfig(), bodies)

			res, err := runPlay(ctx, c, w, t, scriptedSession(o), jsonOutput)
			res.Username = o.username
			if jsonOutput {
				out := map[string]any{"result": 1, "value": res}
				if err != nil {
					out["result"] = 0
					out["error"] = err.Error()
				}
				printJSON(w, out)
				if err != nil || !res.Completed {
					return ErrAlreadyHandled
				}
				return nil
			}
			if err != nil {
				return err
			}
			if !res.Completed {
				return ErrAlreadyHandled
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.username, "username", "u", "", "Username to create (default player_<millis>)")
	cmd.Flags().StringVarP(&o.password, "password", "p", defaultPassword, "Password for the new user")
	cmd.Flags().StringVar(&o.direction, "direction", "north", "Direction to move")
	cmd.Flags().StringVar(&o.activity, "doing", "looking around", "Activity to set")
	cmd.Flags().StringVar(&o.item, "item", "torch", "Item to use")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Append an NDJSON transcript of the session to this file")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPlayCmd())
}
