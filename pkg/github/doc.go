// Package github provides label reconciliation for every repository of a
// GitHub organization.
//
// The package includes:
// - APIClient and its RepositoryLister, LabelLister and LabelCreator parts
// - Client, the go-github implementation of APIClient
// - Reconciler, the additive label reconciliation core
// - Event and EventSink for progress reporting
// - LabelSet loading and validation
package github
