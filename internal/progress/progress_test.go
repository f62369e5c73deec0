package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimpleHandler(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "stage start",
			event:    Event{Type: EventStageStart, Stage: "scan", Path: "/workspace"},
			expected: "[scan] starting: /workspace\n",
		},
		{
			name:     "project found",
			event:    Event{Type: EventProjectFound, Path: "/workspace/libA"},
			expected: "  found project: /workspace/libA\n",
		},
		{
			name:     "project skipped",
			event:    Event{Type: EventProjectSkipped, Path: "/workspace/x/y", Reason: "nested project"},
			expected: "  skipped: /workspace/x/y (nested project)\n",
		},
		{
			name:     "problem logged",
			event:    Event{Type: EventProblemLogged, Reason: "unresolved import z.Z"},
			expected: "  problem: unresolved import z.Z\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := NewSimpleHandler(buf)
			handler.Handle(tt.event)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestProgressReporter_EnabledAndDisabled(t *testing.T) {
	t.Run("enabled reporter calls handler", func(t *testing.T) {
		buf := &bytes.Buffer{}
		p := New(true, NewSimpleHandler(buf))
		p.ProjectFound("/a")
		assert.NotEmpty(t, buf.String())
	})

	t.Run("disabled reporter does not call handler", func(t *testing.T) {
		buf := &bytes.Buffer{}
		p := New(false, NewSimpleHandler(buf))
		p.ProjectFound("/a")
		assert.Empty(t, buf.String())
	})
}

func TestConvenienceMethods(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(true, NewSimpleHandler(buf))

	p.StageStart("scan", "/workspace")
	p.ProjectFound("/workspace/libA")
	p.ProjectSkipped("/workspace/x/y", "nested project")
	p.ClassResolved("/workspace/app/src/m/M.as", "m.M")
	p.ProblemLogged("unresolved import z.Z")
	p.FileWriting("/workspace/app/asconfig.json")
	p.FileWritten("/workspace/app/asconfig.json")
	p.StageComplete("scan", 2, time.Millisecond)

	lines := 8
	got := countLines(buf.String())
	assert.Equal(t, lines, got)
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

func TestNullHandler(t *testing.T) {
	h := NewNullHandler()
	h.Handle(Event{Type: EventInfo, Reason: "should be discarded"})
}
