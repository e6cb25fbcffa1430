package action

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// Outputs receives the outputs of an action.
type Outputs interface {
	Set(name string, value any) error
	// Flush emits anything buffered. Called once the action returns.
	Flush() error
}

// NewOutputs returns the GITHUB_OUTPUT file writer when running on a runner,
// and a terminal listing on w otherwise.
func NewOutputs(w io.Writer) Outputs {
	if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
		return &FileOutputs{Path: path}
	}
	return &TerminalOutputs{Out: w, Width: 100}
}

// formatValue converts an output value to its string form: strings as-is,
// nil as "", everything else as JSON.
func formatValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode output: %w", err)
	}
	return string(data), nil
}

// FileOutputs appends outputs to the runner's GITHUB_OUTPUT file using
// heredoc delimiters.
type FileOutputs struct {
	Path string
}

// Set appends one output.
func (o *FileOutputs) Set(name string, value any) error {
	text, err := formatValue(value)
	if err != nil {
		return err
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) {
		return fmt.Errorf("unexpected input: name should not contain the delimiter %q", delimiter)
	}
	if strings.Contains(text, delimiter) {
		return fmt.Errorf("unexpected input: value should not contain the delimiter %q", delimiter)
	}

	f, err := os.OpenFile(o.Path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, text, delimiter); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// Flush is a no-op; every output is written by Set.
func (o *FileOutputs) Flush() error {
	return nil
}

type output struct {
	name  string
	value string
}

// TerminalOutputs buffers outputs and renders them as an aligned listing.
type TerminalOutputs struct {
	Out   io.Writer
	Width int

	outputs []output
}

// Set buffers one output. A repeated name replaces the earlier value.
func (o *TerminalOutputs) Set(name string, value any) error {
	text, err := formatValue(value)
	if err != nil {
		return err
	}
	for i := range o.outputs {
		if o.outputs[i].name == name {
			o.outputs[i].value = text
			return nil
		}
	}
	o.outputs = append(o.outputs, output{name: name, value: text})
	return nil
}

// Flush renders the buffered outputs. Single-line values are truncated to
// Width; multi-line values are wrapped and indented below their name.
func (o *TerminalOutputs) Flush() error {
	if len(o.outputs) == 0 {
		return nil
	}

	keyWidth := 0
	for _, out := range o.outputs {
		keyWidth = max(keyWidth, lipgloss.Width(out.name))
	}
	key := KeyStyle.Width(keyWidth + 2)

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Outputs"))
	sb.WriteByte('\n')

	for _, out := range o.outputs {
		if strings.Contains(out.value, "\n") {
			sb.WriteString(KeyStyle.Render(out.name))
			sb.WriteByte('\n')
			wrapped := wordwrap.String(out.value, o.Width-4)
			sb.WriteString(ValueStyle.Render(indent.String(wrapped, 4)))
			sb.WriteByte('\n')
			continue
		}

		value := truncate.StringWithTail(out.value, uint(max(o.Width-keyWidth-2, 8)), "…")
		if out.value == "" {
			value = EmptyStyle.Render("(empty)")
		} else {
			value = ValueStyle.Render(value)
		}
		sb.WriteString(key.Render(out.name))
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(o.Out, sb.String())
	return err
}
