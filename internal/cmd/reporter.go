package cmd

import (
	"fmt"
	"io"

	"labelsync/pkg/github"
)

// consoleReporter prints one line per reconciliation event
type consoleReporter struct {
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

// HandleEvent implements github.EventSink
func (r *consoleReporter) HandleEvent(e github.Event) {
	switch e.Type {
	case github.EventRepositoryStarted:
		fmt.Fprintf(r.out, "\n%s\n", github.Describe(e))
	case github.EventRunComplete:
		fmt.Fprintf(r.out, "\n✅ %s\n", github.Describe(e))
	case github.EventRunFailed:
		fmt.Fprintf(r.out, "\n❌ %s\n", github.Describe(e))
	default:
		fmt.Fprintln(r.out, github.Describe(e))
	}
}
