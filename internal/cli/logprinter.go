package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/midsquest/midsquest/internal/gameclient"
)

var sessionLabel = color.New(color.FgHiMagenta, color.Bold)
var startLabel = color.New(color.FgGreen).Add(color.Bold)

// Predefined palette of distinct colors for operations
var colorPalette = []*color.Color{
	color.New(color.FgGreen),
	color.New(color.FgCyan),
	color.New(color.FgMagenta),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
}

var failColor = color.New(color.FgHiRed)

// TranscriptPrinter renders transcript lines with per-operation colors.
type TranscriptPrinter struct {
	w        io.Writer
	sessions map[string]int64 // session id -> start time
	opColors map[string]*color.Color
}

func NewTranscriptPrinter(w io.Writer) *TranscriptPrinter {
	return &TranscriptPrinter{
		w:        w,
		sessions: make(map[string]int64),
		opColors: make(map[string]*color.Color),
	}
}

// PrintLine formats a single NDJSON transcript line.
func (p *TranscriptPrinter) PrintLine(line []byte) {
	var e TranscriptEntry
	if err := json.Unmarshal(line, &e); err != nil {
		fmt.Fprintf(p.w, "⚠️  Invalid JSON: %s\n", string(line))
		return
	}

	start, ok := p.sessions[e.SessionID]
	if !ok {
		start = e.Time
		p.sessions[e.SessionID] = start
		sessionLabel.Fprintf(p.w, "\nSession ID: %s\n", e.SessionID)
		startLabel.Fprintf(p.w, "    Start: %s\n\n", time.UnixMilli(start).Local().Format("2006-01-02 15:04:05.000 MST"))
	}

	opColor := p.opColors[e.Op]
	if opColor == nil {
		opColor = colorPalette[len(p.opColors)%len(colorPalette)]
		p.opColors[e.Op] = opColor
	}

	relative := time.Duration(e.Time-start) * time.Millisecond
	timestamp := fmt.Sprintf("[%02d:%02d.%03d]",
		int(relative.Minutes()),
		int(relative.Seconds())%60,
		relative.Milliseconds()%1000,
	)

	fmt.Fprint(p.w, "  "+timestamp+" ")
	opColor.Fprintf(p.w, "%-12s", e.Op)

	switch {
	case e.Error != "":
		failColor.Fprint(p.w, " ❗ ")
		failColor.Fprintln(p.w, e.Error)
	case e.Status != 200:
		failColor.Fprintf(p.w, " %d ", e.Status)
		fmt.Fprintln(p.w, indentMultiline(summarizeBody(e.Body), strings.Repeat(" ", 20)))
	default:
		fmt.Fprintf(p.w, " %d ", e.Status)
		fmt.Fprintln(p.w, indentMultiline(summarizeBody(e.Body), strings.Repeat(" ", 20)))
	}
}

// summarizeBody prefers the server's message or detail over the raw body.
func summarizeBody(body string) string {
	for _, key := range []string{"message", "detail"} {
		if v, ok := gameclient.Lookup(body, key); ok {
			return v
		}
	}
	return body
}

// indentMultiline adds indentation to all lines except the first in a multiline string
func indentMultiline(text, indent string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return text
	}
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}
