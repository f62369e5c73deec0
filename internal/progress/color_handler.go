package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	stageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ColorHandler renders stage banners and summaries with lipgloss styling,
// for interactive terminal sessions.
type ColorHandler struct {
	writer io.Writer
}

// NewColorHandler creates a styled handler writing to writer.
func NewColorHandler(writer io.Writer) *ColorHandler {
	return &ColorHandler{writer: writer}
}

func (h *ColorHandler) Handle(event Event) {
	switch event.Type {
	case EventStageStart:
		fmt.Fprintf(h.writer, "%s %s\n", stageStyle.Render("▶"), stageStyle.Render(event.Stage))

	case EventStageComplete:
		fmt.Fprintf(h.writer, "%s %s — %d items in %s\n",
			stageStyle.Render("✓"), event.Stage, event.Count, event.Duration)

	case EventProjectFound:
		fmt.Fprintf(h.writer, "  %s %s\n", dimStyle.Render("found"), event.Path)

	case EventProjectSkipped:
		fmt.Fprintf(h.writer, "  %s %s (%s)\n", warnStyle.Render("skip"), event.Path, event.Reason)

	case EventClassResolved:
		fmt.Fprintf(h.writer, "  %s %s (%s)\n", dimStyle.Render("class"), event.Path, event.Name)

	case EventProblemLogged:
		fmt.Fprintf(h.writer, "  %s %s\n", warnStyle.Render("problem"), event.Reason)

	case EventFileWriting:
		fmt.Fprintf(h.writer, "  %s %s\n", dimStyle.Render("writing"), event.Path)

	case EventFileWritten:
		fmt.Fprintf(h.writer, "  %s %s\n", dimStyle.Render("wrote"), event.Path)

	case EventInfo:
		fmt.Fprintf(h.writer, "  %s\n", dimStyle.Render(event.Reason))
	}
}

// NewDefaultHandler picks a ColorHandler when writer is an interactive
// terminal and a SimpleHandler otherwise, matching the teacher's
// isatty-gated rendering choice.
func NewDefaultHandler(writer io.Writer) Handler {
	if f, ok := writer.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return NewColorHandler(writer)
	}
	return NewSimpleHandler(writer)
}
