package github

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/pslog"
)

// reconciler implements the Reconciler interface
type reconciler struct {
	repos   RepositoryLister
	labels  LabelLister
	creator LabelCreator
	sink    EventSink
	dryRun  bool
	now     func() time.Time
}

// Option configures a reconciler
type Option func(*reconciler)

// WithDryRun plans every repository without creating any label
func WithDryRun(dryRun bool) Option {
	return func(r *reconciler) {
		r.dryRun = dryRun
	}
}

// WithClock sets the clock used to timestamp events
func WithClock(now func() time.Time) Option {
	return func(r *reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler creates a new reconciler backed by a single API client
func NewReconciler(client APIClient, sink EventSink, opts ...Option) Reconciler {
	return NewReconcilerFromParts(client, client, client, sink, opts...)
}

// NewReconcilerFromParts creates a reconciler from independent listers and creator
func NewReconcilerFromParts(repos RepositoryLister, labels LabelLister, creator LabelCreator, sink EventSink, opts ...Option) Reconciler {
	if sink == nil {
		sink = EventSinkFunc(func(Event) {})
	}

	r := &reconciler{
		repos:   repos,
		labels:  labels,
		creator: creator,
		sink:    sink,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MissingLabels returns the desired labels whose name is absent from existing,
// preserving desired order. Colors are ignored.
func MissingLabels(desired, existing []Label) []Label {
	existingNames := make(map[string]struct{}, len(existing))
	for _, label := range existing {
		existingNames[label.Name] = struct{}{}
	}

	missing := make([]Label, 0, len(desired))
	for _, label := range desired {
		if _, ok := existingNames[label.Name]; !ok {
			missing = append(missing, label)
		}
	}
	return missing
}

// Plan lists the repository's labels and plans a create for every missing one
func (r *reconciler) Plan(ctx context.Context, repo RepositoryRef, desired []Label) (*ReconciliationPlan, error) {
	existing, err := r.labels.ListLabels(ctx, repo)
	if err != nil {
		return nil, err
	}

	plan := &ReconciliationPlan{
		Repository: repo,
		Existing:   len(existing),
	}
	for _, label := range MissingLabels(desired, existing) {
		plan.Labels = append(plan.Labels, LabelChange{
			Type:  ChangeTypeCreate,
			Label: label,
		})
	}

	return plan, nil
}

// Apply creates the planned labels in order and stops at the first failure.
// The labels created before a failure are returned alongside the error.
func (r *reconciler) Apply(ctx context.Context, plan *ReconciliationPlan) ([]Label, error) {
	if plan == nil {
		return nil, fmt.Errorf("reconciliation plan cannot be nil")
	}
	return r.apply(ctx, plan, Event{Repository: plan.Repository})
}

func (r *reconciler) apply(ctx context.Context, plan *ReconciliationPlan, base Event) ([]Label, error) {
	missing := plan.Missing()
	added := make([]Label, 0, len(missing))

	for _, label := range missing {
		if err := r.creator.CreateLabel(ctx, plan.Repository, label); err != nil {
			return added, err
		}
		added = append(added, label)

		event := base
		event.Type = EventLabelCreated
		event.Label = label
		event.Missing = missing
		event.Added = len(added)
		r.emit(event)
	}

	return added, nil
}

// Run ensures every repository of org carries every desired label name.
// Repositories are processed strictly in listing order and the run stops at
// the first failure; the partial summary is returned with the error.
func (r *reconciler) Run(ctx context.Context, org string, desired []Label) (*Summary, error) {
	summary := &Summary{
		Organization: org,
		DryRun:       r.dryRun,
	}

	if err := ValidateLabels(desired); err != nil {
		return summary, err
	}

	log := pslog.Ctx(ctx).With("org", org)

	r.emit(Event{Type: EventRunStarted, Organization: org, DryRun: r.dryRun})

	repos, err := r.repos.ListOrgRepositories(ctx, org)
	if err != nil {
		return summary, r.fail(summary, err)
	}
	summary.RepositoriesTotal = len(repos)
	log.Debug("repositories listed", "count", len(repos))

	r.emit(Event{
		Type:         EventRepositoriesListed,
		Organization: org,
		Total:        len(repos),
		DryRun:       r.dryRun,
	})

	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			return summary, r.fail(summary, err)
		}

		base := Event{
			Organization: org,
			Repository:   repo,
			Processed:    i,
			Total:        len(repos),
			DryRun:       r.dryRun,
		}

		started := base
		started.Type = EventRepositoryStarted
		r.emit(started)

		plan, err := r.Plan(ctx, repo, desired)
		if err != nil {
			return summary, r.fail(summary, err)
		}

		result := RepositoryResult{
			Repository: repo,
			Missing:    plan.Missing(),
		}
		summary.LabelsPlanned += len(result.Missing)

		planned := base
		planned.Type = EventRepositoryPlanned
		planned.Missing = result.Missing
		r.emit(planned)

		if !r.dryRun && len(plan.Labels) > 0 {
			added, err := r.apply(ctx, plan, base)
			result.Added = added
			summary.LabelsAdded += len(added)
			if err != nil {
				summary.Results = append(summary.Results, result)
				return summary, r.fail(summary, err)
			}
		}

		summary.Results = append(summary.Results, result)
		summary.RepositoriesProcessed++
		log.Debug("repository reconciled", "repo", repo.FullName(), "missing", len(result.Missing), "added", len(result.Added))

		done := base
		done.Type = EventRepositoryDone
		done.Processed = i + 1
		done.Added = len(result.Added)
		r.emit(done)
	}

	added := summary.LabelsAdded
	if r.dryRun {
		added = summary.LabelsPlanned
	}
	r.emit(Event{
		Type:         EventRunComplete,
		Organization: org,
		Processed:    summary.RepositoriesProcessed,
		Total:        summary.RepositoriesTotal,
		Added:        added,
		DryRun:       r.dryRun,
	})

	return summary, nil
}

// fail emits run_failed and returns err unchanged
func (r *reconciler) fail(summary *Summary, err error) error {
	r.emit(Event{
		Type:         EventRunFailed,
		Organization: summary.Organization,
		Processed:    summary.RepositoriesProcessed,
		Total:        summary.RepositoriesTotal,
		Added:        summary.LabelsAdded,
		DryRun:       r.dryRun,
		Err:          err,
	})
	return err
}

func (r *reconciler) emit(event Event) {
	event.Time = r.now()
	r.sink.HandleEvent(event)
}
