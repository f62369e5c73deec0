package progress

import (
	"fmt"
	"io"
)

// SimpleHandler writes one plain line per event, no color, no TTY
// assumptions — the fallback renderer for non-terminal output (piped logs,
// CI).
type SimpleHandler struct {
	writer io.Writer
}

// NewSimpleHandler creates a plain-line handler writing to writer.
func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{writer: writer}
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventStageStart:
		fmt.Fprintf(h.writer, "[%s] starting: %s\n", event.Stage, event.Path)

	case EventStageComplete:
		fmt.Fprintf(h.writer, "[%s] complete: %d items in %s\n", event.Stage, event.Count, event.Duration)

	case EventProjectFound:
		fmt.Fprintf(h.writer, "  found project: %s\n", event.Path)

	case EventProjectSkipped:
		fmt.Fprintf(h.writer, "  skipped: %s (%s)\n", event.Path, event.Reason)

	case EventClassResolved:
		fmt.Fprintf(h.writer, "  analyzed: %s (%s)\n", event.Path, event.Name)

	case EventProblemLogged:
		fmt.Fprintf(h.writer, "  problem: %s\n", event.Reason)

	case EventFileWriting:
		fmt.Fprintf(h.writer, "  writing: %s\n", event.Path)

	case EventFileWritten:
		fmt.Fprintf(h.writer, "  wrote: %s\n", event.Path)

	case EventInfo:
		fmt.Fprintf(h.writer, "  %s\n", event.Reason)
	}
}
