package github

import (
	"fmt"
	"strings"
	"time"
)

// EventType identifies a reconciliation event
type EventType string

const (
	EventRunStarted         EventType = "run_started"
	EventRepositoriesListed EventType = "repositories_listed"
	EventRepositoryStarted  EventType = "repository_started"
	EventRepositoryPlanned  EventType = "repository_planned"
	EventLabelCreated       EventType = "label_created"
	EventRepositoryDone     EventType = "repository_done"
	EventRunComplete        EventType = "run_complete"
	EventRunFailed          EventType = "run_failed"
)

// Event is a discrete record of reconciliation progress.
//
// Processed and Total count repositories. For label_created, Added is the
// number of labels created so far in the repository and Missing holds the
// repository's full plan; for repository_done it is the number created in
// the repository; for run_complete it is the number created in the run.
type Event struct {
	Type         EventType     `json:"type"`
	Time         time.Time     `json:"time"`
	Organization string        `json:"organization"`
	Repository   RepositoryRef `json:"repository"`
	Label        Label         `json:"label"`
	Missing      []Label       `json:"missing,omitempty"`
	Processed    int           `json:"processed"`
	Total        int           `json:"total"`
	Added        int           `json:"added"`
	DryRun       bool          `json:"dry_run,omitempty"`
	Err          error         `json:"-"`
}

// Percent returns the share of repositories processed, from 0 to 100
func (e Event) Percent() float64 {
	if e.Total == 0 {
		return 100
	}
	return float64(e.Processed) / float64(e.Total) * 100
}

// Describe renders the event as a single human-readable line
func Describe(e Event) string {
	switch e.Type {
	case EventRunStarted:
		return fmt.Sprintf("Fetching repositories for organization: %s...", e.Organization)
	case EventRepositoriesListed:
		return fmt.Sprintf("Found %d repositories in total.", e.Total)
	case EventRepositoryStarted:
		return fmt.Sprintf("Processing repository %d/%d: %s", e.Processed+1, e.Total, e.Repository.FullName())
	case EventRepositoryPlanned:
		if len(e.Missing) == 0 {
			return fmt.Sprintf("→ Skipping %s - all labels already exist", e.Repository.FullName())
		}
		if e.DryRun {
			return fmt.Sprintf("Would add %d missing labels: %s", len(e.Missing), labelNames(e.Missing))
		}
		return fmt.Sprintf("Found %d missing labels to add.", len(e.Missing))
	case EventLabelCreated:
		return fmt.Sprintf("  ✓ Added label '%s' (%d/%d)", e.Label.Name, e.Added, len(e.Missing))
	case EventRepositoryDone:
		return fmt.Sprintf("Progress: %.2f%% (%d/%d repositories processed)", e.Percent(), e.Processed, e.Total)
	case EventRunComplete:
		if e.DryRun {
			return fmt.Sprintf("Dry run completed. Processed %d repositories, %d labels would be added.", e.Processed, e.Added)
		}
		return fmt.Sprintf("Operation completed successfully! Processed %d repositories, added %d labels.", e.Processed, e.Added)
	case EventRunFailed:
		return fmt.Sprintf("Error: %v", e.Err)
	default:
		return string(e.Type)
	}
}

func labelNames(labels []Label) string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, "'"+label.Name+"'")
	}
	return strings.Join(names, ", ")
}
