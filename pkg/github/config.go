package github

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxLabelNameLength is the longest label name the GitHub API accepts
const maxLabelNameLength = 50

var labelColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// LabelSet represents a desired set of labels loaded from YAML
type LabelSet struct {
	Labels []Label `yaml:"labels"`
}

// Validate validates the label set
func (s *LabelSet) Validate() error {
	return ValidateLabels(s.Labels)
}

// NormalizeLabel trims whitespace and strips a leading '#' from the color
func NormalizeLabel(label Label) Label {
	return Label{
		Name:  strings.TrimSpace(label.Name),
		Color: strings.TrimPrefix(strings.TrimSpace(label.Color), "#"),
	}
}

// NormalizeLabels returns a normalized copy of labels, preserving order
func NormalizeLabels(labels []Label) []Label {
	normalized := make([]Label, 0, len(labels))
	for _, label := range labels {
		normalized = append(normalized, NormalizeLabel(label))
	}
	return normalized
}

// ValidateLabels checks that labels form a usable desired set: non-empty,
// unique by name, and every color six hex digits without '#'.
func ValidateLabels(labels []Label) error {
	var validationErrors ValidationErrors

	if len(labels) == 0 {
		validationErrors.Add("labels", "", "at least one label is required")
	}

	seen := make(map[string]int, len(labels))
	for i, label := range labels {
		field := fmt.Sprintf("labels[%d]", i)

		if err := validateLabelName(label.Name); err != nil {
			validationErrors.Add(field+".name", label.Name, err.Error())
		} else if first, ok := seen[label.Name]; ok {
			validationErrors.Add(field+".name", label.Name, fmt.Sprintf("duplicate of label %d", first+1))
		} else {
			seen[label.Name] = i
		}

		if !labelColorPattern.MatchString(label.Color) {
			validationErrors.Add(field+".color", label.Color, "color must be six hex digits without a leading '#'")
		}
	}

	if validationErrors.HasErrors() {
		return &GitHubError{
			Type:    ErrorTypeValidation,
			Message: validationErrors.Error(),
			Cause:   validationErrors,
		}
	}

	return nil
}

// validateLabelName validates a label name according to GitHub rules
func validateLabelName(name string) error {
	if name == "" {
		return fmt.Errorf("label name is required")
	}
	if len([]rune(name)) > maxLabelNameLength {
		return fmt.Errorf("label name must be %d characters or less", maxLabelNameLength)
	}
	return nil
}

// ParseLabelSet parses, normalizes and validates a YAML label set
func ParseLabelSet(data []byte) (*LabelSet, error) {
	var set LabelSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	set.Labels = NormalizeLabels(set.Labels)

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("label set validation failed: %w", err)
	}

	return &set, nil
}

// LoadLabelSetFromFile loads a label set from a YAML file
func LoadLabelSetFromFile(filename string) (*LabelSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	return ParseLabelSet(data)
}
