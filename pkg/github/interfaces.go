package github

import "context"

// RepositoryLister lists every repository owned by an organization
type RepositoryLister interface {
	ListOrgRepositories(ctx context.Context, org string) ([]RepositoryRef, error)
}

// LabelLister lists every label defined in a repository
type LabelLister interface {
	ListLabels(ctx context.Context, repo RepositoryRef) ([]Label, error)
}

// LabelCreator creates a single label in a repository
type LabelCreator interface {
	CreateLabel(ctx context.Context, repo RepositoryRef, label Label) error
}

// APIClient defines the GitHub API operations needed to reconcile labels
type APIClient interface {
	RepositoryLister
	LabelLister
	LabelCreator
}

// EventSink receives reconciliation events synchronously, in emission order
type EventSink interface {
	HandleEvent(event Event)
}

// EventSinkFunc adapts a function to the EventSink interface
type EventSinkFunc func(event Event)

// HandleEvent calls f(event)
func (f EventSinkFunc) HandleEvent(event Event) {
	f(event)
}

// Reconciler defines the interface for label reconciliation operations
type Reconciler interface {
	Plan(ctx context.Context, repo RepositoryRef, desired []Label) (*ReconciliationPlan, error)
	Apply(ctx context.Context, plan *ReconciliationPlan) ([]Label, error)
	Run(ctx context.Context, org string, desired []Label) (*Summary, error)
}

// ChangeType represents the type of change in a reconciliation plan.
// Reconciliation is additive, so create is the only change ever planned.
type ChangeType string

const (
	ChangeTypeCreate ChangeType = "create"
)

// ReconciliationPlan represents the labels to create in one repository
type ReconciliationPlan struct {
	Repository RepositoryRef `json:"repository"`
	Existing   int           `json:"existing"`
	Labels     []LabelChange `json:"labels,omitempty"`
}

// LabelChange represents a planned change to a single label
type LabelChange struct {
	Type  ChangeType `json:"type"`
	Label Label      `json:"label"`
}

// Missing returns the labels the plan will create, in plan order
func (p *ReconciliationPlan) Missing() []Label {
	labels := make([]Label, 0, len(p.Labels))
	for _, change := range p.Labels {
		labels = append(labels, change.Label)
	}
	return labels
}

// Summary reports the outcome of a run over an organization
type Summary struct {
	Organization          string             `json:"organization"`
	RepositoriesTotal     int                `json:"repositories_total"`
	RepositoriesProcessed int                `json:"repositories_processed"`
	LabelsAdded           int                `json:"labels_added"`
	LabelsPlanned         int                `json:"labels_planned"`
	DryRun                bool               `json:"dry_run"`
	Results               []RepositoryResult `json:"results,omitempty"`
}

// RepositoryResult records the labels created in one repository
type RepositoryResult struct {
	Repository RepositoryRef `json:"repository"`
	Missing    []Label       `json:"missing,omitempty"`
	Added      []Label       `json:"added,omitempty"`
}
