package progress

import (
	"os"
	"time"
)

// Progress is the centralized progress-reporting façade used by every
// pipeline stage. It is disabled by default so tests and library callers
// get silence unless they opt in.
type Progress struct {
	enabled bool
	handler Handler
}

// New creates a progress reporter. A nil handler falls back to a
// terminal-aware default (see NewDefaultHandler).
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewDefaultHandler(os.Stderr)
	}
	return &Progress{enabled: enabled, handler: handler}
}

// Report sends an event to the handler, only if enabled.
func (p *Progress) Report(event Event) {
	if !p.enabled {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.handler.Handle(event)
}

// StageStart reports the start of a pipeline stage.
func (p *Progress) StageStart(stage, path string) {
	p.Report(Event{Type: EventStageStart, Stage: stage, Path: path})
}

// StageComplete reports the completion of a pipeline stage.
func (p *Progress) StageComplete(stage string, count int, duration time.Duration) {
	p.Report(Event{Type: EventStageComplete, Stage: stage, Count: count, Duration: duration})
}

// ProjectFound reports a newly discovered project.
func (p *Progress) ProjectFound(path string) {
	p.Report(Event{Type: EventProjectFound, Path: path})
}

// ProjectSkipped reports a rejected candidate (e.g. a nested project).
func (p *Progress) ProjectSkipped(path, reason string) {
	p.Report(Event{Type: EventProjectSkipped, Path: path, Reason: reason})
}

// ClassResolved reports a coupling resolution outcome for a class.
func (p *Progress) ClassResolved(path, name string) {
	p.Report(Event{Type: EventClassResolved, Path: path, Name: name})
}

// ProblemLogged reports that a problem was appended to the problems log.
func (p *Progress) ProblemLogged(reason string) {
	p.Report(Event{Type: EventProblemLogged, Reason: reason})
}

// FileWriting reports that an output file is about to be written.
func (p *Progress) FileWriting(path string) {
	p.Report(Event{Type: EventFileWriting, Path: path})
}

// FileWritten reports that an output file was written.
func (p *Progress) FileWritten(path string) {
	p.Report(Event{Type: EventFileWritten, Path: path})
}

// Info reports a free-form informational message.
func (p *Progress) Info(message string) {
	p.Report(Event{Type: EventInfo, Reason: message})
}
