package web

import (
	"fmt"
	"strings"
	"time"

	"labelsync/pkg/github"
)

// Severity classifies a LogEntry for display
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
	SeverityError    Severity = "error"
	SeverityProgress Severity = "progress"
)

// LogEntry is one line of the run log shown in the browser
type LogEntry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
}

// EntryFromEvent converts a reconciliation event into a log entry
func EntryFromEvent(e github.Event) LogEntry {
	entry := LogEntry{
		Message:   strings.TrimSpace(github.Describe(e)),
		Timestamp: e.Time,
		Severity:  SeverityInfo,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	switch e.Type {
	case github.EventRepositoriesListed, github.EventRunComplete:
		entry.Severity = SeveritySuccess
	case github.EventLabelCreated:
		entry.Severity = SeveritySuccess
		entry.Message = fmt.Sprintf("Added label '%s' to %s", e.Label.Name, e.Repository.FullName())
	case github.EventRepositoryStarted, github.EventRepositoryDone:
		entry.Severity = SeverityProgress
	case github.EventRunFailed:
		entry.Severity = SeverityError
	}

	return entry
}
