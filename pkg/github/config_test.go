package github

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateLabels(t *testing.T) {
	tests := []struct {
		name    string
		labels  []Label
		wantErr bool
		errMsg  string
	}{
		{
			name:    "default labels",
			labels:  DefaultLabels(),
			wantErr: false,
		},
		{
			name:    "lowercase hex color",
			labels:  []Label{{Name: "bug", Color: "d73a4a"}},
			wantErr: false,
		},
		{
			name:    "empty set",
			labels:  nil,
			wantErr: true,
			errMsg:  "at least one label is required",
		},
		{
			name:    "empty name",
			labels:  []Label{{Name: "", Color: "d73a4a"}},
			wantErr: true,
			errMsg:  "labels[0].name",
		},
		{
			name:    "name too long",
			labels:  []Label{{Name: strings.Repeat("x", 51), Color: "d73a4a"}},
			wantErr: true,
			errMsg:  "label name must be 50 characters or less",
		},
		{
			name:    "color with hash",
			labels:  []Label{{Name: "bug", Color: "#d73a4a"}},
			wantErr: true,
			errMsg:  "labels[0].color",
		},
		{
			name:    "short color",
			labels:  []Label{{Name: "bug", Color: "fff"}},
			wantErr: true,
			errMsg:  "six hex digits",
		},
		{
			name:    "non-hex color",
			labels:  []Label{{Name: "bug", Color: "zzzzzz"}},
			wantErr: true,
			errMsg:  "six hex digits",
		},
		{
			name: "duplicate names",
			labels: []Label{
				{Name: "bug", Color: "d73a4a"},
				{Name: "docs", Color: "0075ca"},
				{Name: "bug", Color: "000000"},
			},
			wantErr: true,
			errMsg:  "labels[2].name' (value: bug): duplicate of label 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabels(tt.labels)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateLabels() expected error but got none")
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateLabels() error = %v, want error containing %v", err, tt.errMsg)
				}
				var ghErr *GitHubError
				if !errors.As(err, &ghErr) || ghErr.Type != ErrorTypeValidation {
					t.Errorf("ValidateLabels() error = %v, want validation GitHubError", err)
				}
			} else if err != nil {
				t.Errorf("ValidateLabels() unexpected error = %v", err)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   Label
		want Label
	}{
		{in: Label{Name: "bug", Color: "d73a4a"}, want: Label{Name: "bug", Color: "d73a4a"}},
		{in: Label{Name: "  Prio: High ", Color: " #CA49BC"}, want: Label{Name: "Prio: High", Color: "CA49BC"}},
		{in: Label{Name: "", Color: "#"}, want: Label{Name: "", Color: ""}},
	}

	for _, tt := range tests {
		if got := NormalizeLabel(tt.in); got != tt.want {
			t.Errorf("NormalizeLabel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLabels_PreservesOrder(t *testing.T) {
	got := NormalizeLabels([]Label{{Name: " b ", Color: "#000000"}, {Name: "a", Color: "ffffff"}})

	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" || got[0].Color != "000000" {
		t.Errorf("NormalizeLabels() = %v", got)
	}
}

func TestParseLabelSet(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantErr   bool
		errMsg    string
		wantCount int
	}{
		{
			name: "valid YAML",
			yaml: `
labels:
  - name: "Prio: High"
    color: "#CA49BC"
  - name: "Prio: Low"
    color: FDF3BF
`,
			wantCount: 2,
		},
		{
			name:    "invalid YAML syntax",
			yaml:    "labels: [",
			wantErr: true,
			errMsg:  "failed to parse YAML",
		},
		{
			name: "invalid label",
			yaml: `
labels:
  - name: ""
    color: FDF3BF
`,
			wantErr: true,
			errMsg:  "label set validation failed",
		},
		{
			name:    "no labels",
			yaml:    "labels: []\n",
			wantErr: true,
			errMsg:  "at least one label is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseLabelSet([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLabelSet() expected error but got none")
					return
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseLabelSet() error = %v, want error containing %v", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseLabelSet() unexpected error = %v", err)
				return
			}
			if len(set.Labels) != tt.wantCount {
				t.Errorf("ParseLabelSet() got %d labels, want %d", len(set.Labels), tt.wantCount)
			}
			if set.Labels[0].Color != "CA49BC" {
				t.Errorf("ParseLabelSet() color = %v, want normalized CA49BC", set.Labels[0].Color)
			}
		})
	}
}

func TestLoadLabelSetFromFile(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "labels.yaml")
	content := `
labels:
  - name: "Prio: Medium"
    color: AF98C6
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write label file: %v", err)
	}

	set, err := LoadLabelSetFromFile(path)
	if err != nil {
		t.Fatalf("LoadLabelSetFromFile() unexpected error = %v", err)
	}
	if len(set.Labels) != 1 || set.Labels[0].Name != "Prio: Medium" {
		t.Errorf("LoadLabelSetFromFile() labels = %v", set.Labels)
	}

	_, err = LoadLabelSetFromFile(filepath.Join(tempDir, "nonexistent.yaml"))
	if err == nil {
		t.Fatalf("LoadLabelSetFromFile() expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "failed to read label file") {
		t.Errorf("LoadLabelSetFromFile() error = %v, want error containing 'failed to read label file'", err)
	}
}
