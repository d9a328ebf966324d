package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newCreateUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-user USERNAME PASSWORD",
		Short: "Register a new account",
		Long: `Register a new account on the game server. The server's answer is printed as
returned.

Examples:
  midsquest create-user alice secret`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			bodies := w
			if jsonOutput {
				bodies = io.Discard
			}
			c := newGameClient(GetConfig(), bodies)
			out, err := c.CreateUser(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(w, map[string]any{
					"result": boolToResult(out.OK()),
					"value": StepResult{
						Step:   "create user",
						Op:     out.Op.Name,
						Status: out.StatusCode,
						Body:   out.Body,
					},
				})
			} else if out.OK() {
				okLabel.Fprintf(w, "User %s created.\n", args[0])
			} else {
				msg, _ := out.Message()
				errorLabel.Fprintf(w, "Unable to create user (status %d): %s\n", out.StatusCode, msg)
			}
			if !out.OK() {
				return ErrAlreadyHandled
			}
			return nil
		},
	}
}

func boolToResult(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(newCreateUserCmd())
}
