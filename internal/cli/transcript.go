package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/midsquest/midsquest/internal/common/uuid"
	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/spf13/cobra"
)

// TranscriptEntry is one line of a session transcript.
type TranscriptEntry struct {
	SessionID string `json:"session_id"`
	Time      int64  `json:"time"` // milliseconds since epoch
	Step      string `json:"step,omitempty"`
	Op        string `json:"op"`
	Status    int    `json:"status"`
	Sent      bool   `json:"sent"`
	Body      string `json:"body,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Transcript appends one NDJSON line per operation outcome.
type Transcript struct {
	sessionID string
	enc       *jsoniter.Encoder
	now       func() time.Time
}

// NewTranscript writes entries for a new session to w.
func NewTranscript(w io.Writer) *Transcript {
	return &Transcript{
		sessionID: uuid.New().String(),
		enc:       json.NewEncoder(w),
		now:       time.Now,
	}
}

// SessionID identifies the entries written by this transcript.
func (t *Transcript) SessionID() string {
	return t.sessionID
}

// Record writes the outcome of one operation. A nil transcript records nothing.
func (t *Transcript) Record(step string, out gameclient.Outcome, opErr error) error {
	if t == nil {
		return nil
	}
	e := TranscriptEntry{
		SessionID: t.sessionID,
		Time:      t.now().UnixMilli(),
		Step:      step,
		Op:        out.Op.Name,
		Status:    out.StatusCode,
		Sent:      out.Sent(),
		Body:      out.Body,
	}
	switch {
	case opErr != nil:
		e.Error = opErr.Error()
	case out.Preflight != nil:
		e.Error = out.Preflight.Error()
	}
	return t.enc.Encode(&e)
}

// openTranscript opens path for appending. An empty path disables the
// transcript.
func openTranscript(path string) (*Transcript, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open transcript: %w", err)
	}
	return NewTranscript(f), func() { _ = f.Close() }, nil
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript FILE",
	Short: "Pretty-print a session transcript",
	Long: `Pretty-print a transcript written by "play --transcript" or "shell --transcript".
Each session is printed with its start time, followed by one line per
operation with the time relative to the session start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("unable to open transcript: %w", err)
		}
		defer f.Close()
		return printTranscript(cmd.OutOrStdout(), f)
	},
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
}

func printTranscript(w io.Writer, r io.Reader) error {
	p := NewTranscriptPrinter(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		p.PrintLine(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}
	return nil
}
