// Package logging builds the zerolog logger used by every action.
// Events are rendered as GitHub Actions workflow commands so the runner can
// annotate errors and hide debug output unless step debugging is on.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Build configures a logger.
type Build struct {
	writer io.Writer
	debug  bool
}

// New starts a logger build writing to stdout, which is where the runner
// reads workflow commands from.
func New() *Build {
	return &Build{writer: os.Stdout}
}

// To sets the destination writer.
func (b *Build) To(w io.Writer) *Build {
	b.writer = w
	return b
}

// Debug enables debug events.
func (b *Build) Debug(enabled bool) *Build {
	b.debug = enabled
	return b
}

// Make returns the logger.
func (b *Build) Make() zerolog.Logger {
	level := zerolog.InfoLevel
	if b.debug || RunnerDebug() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(&CommandWriter{Out: b.writer}).Level(level)
}

// RunnerDebug reports whether step debug logging is enabled on the runner.
func RunnerDebug() bool {
	return os.Getenv("RUNNER_DEBUG") == "1"
}

// CommandWriter renders zerolog JSON events as workflow commands.
type CommandWriter struct {
	Out io.Writer
}

// Write renders an event without a known level as a plain line.
func (w *CommandWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel renders one event.
func (w *CommandWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	var event map[string]any
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		return 0, fmt.Errorf("failed to decode log event: %w", err)
	}

	line := render(event)

	var out string
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		out = "::debug::" + escapeData(line)
	case zerolog.WarnLevel:
		out = "::warning::" + escapeData(line)
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		out = "::error::" + escapeData(line)
	default:
		out = line
	}

	if _, err := io.WriteString(w.Out, out+"\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}

// render formats the message followed by the remaining fields in key order.
func render(event map[string]any) string {
	var sb strings.Builder

	if msg, ok := event[zerolog.MessageFieldName].(string); ok {
		sb.WriteString(msg)
	}

	keys := make([]string, 0, len(event))
	for k := range event {
		if k == zerolog.MessageFieldName || k == zerolog.LevelFieldName {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", k, event[k])
	}

	return sb.String()
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
