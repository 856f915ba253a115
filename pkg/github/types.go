package github

// Label represents an issue label. Color is six hex digits without a leading '#'.
// The name is the identity key and is compared case-sensitively.
type Label struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// RepositoryRef identifies a repository returned by the organization listing
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the "owner/name" form of the reference
func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// DefaultLabels returns the priority labels synchronized when no label set is configured
func DefaultLabels() []Label {
	return []Label{
		{Name: "Prio: High", Color: "CA49BC"},
		{Name: "Prio: Medium", Color: "AF98C6"},
		{Name: "Prio: Low", Color: "FDF3BF"},
	}
}
