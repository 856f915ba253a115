//go:build integration && github_e2e

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// TestGitHubE2ESync runs labelsync against a real GitHub organization.
// This test requires:
// - GITHUB_E2E_TESTS=true
// - GITHUB_AUTH_TOKEN with permission to create and delete repositories
// - GITHUB_TEST_ORG naming a disposable test organization
func TestGitHubE2ESync(t *testing.T) {
	if os.Getenv("GITHUB_E2E_TESTS") != "true" {
		t.Skip("Skipping E2E tests. Set GITHUB_E2E_TESTS=true to run.")
	}

	token := os.Getenv("GITHUB_AUTH_TOKEN")
	if token == "" {
		t.Skip("GITHUB_AUTH_TOKEN not set, skipping E2E tests")
	}

	testOrg := os.Getenv("GITHUB_TEST_ORG")
	if testOrg == "" {
		t.Skip("GITHUB_TEST_ORG not set, skipping E2E tests")
	}

	binaryPath := getBinaryPath(t)
	client := newGitHubClient(token)

	testRepoName := fmt.Sprintf("labelsync-test-%d", time.Now().Unix())
	createTestRepository(t, client, testOrg, testRepoName)
	defer cleanupTestRepository(t, client, testOrg, testRepoName)

	labelName := fmt.Sprintf("labelsync-e2e-%d", time.Now().Unix())
	labelsFile := createE2ELabelSet(t, labelName)

	env := isolatedEnv(t, "GITHUB_AUTH_TOKEN="+token, "GITHUB_ORG_NAME="+testOrg)

	t.Run("auth check", func(t *testing.T) {
		cmd := exec.Command(binaryPath, "auth", "check")
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("auth check failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(string(output), "Organization "+testOrg+" is accessible") {
			t.Errorf("Unexpected auth check output: %s", output)
		}
	})

	t.Run("dry-run creates nothing", func(t *testing.T) {
		cmd := exec.Command(binaryPath, "sync", "--dry-run", "--labels", labelsFile, "--fail-on-error")
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		t.Logf("Dry-run output: %s", output)
		if err != nil {
			t.Fatalf("Dry-run failed: %v", err)
		}
		if !strings.Contains(string(output), "Dry run completed.") {
			t.Errorf("Expected dry-run summary, got: %s", output)
		}
		if hasLabel(t, client, testOrg, testRepoName, labelName) {
			t.Errorf("Dry run created label %s", labelName)
		}
	})

	t.Run("sync adds the label", func(t *testing.T) {
		cmd := exec.Command(binaryPath, "sync", "--labels", labelsFile, "--fail-on-error")
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		t.Logf("Sync output: %s", output)
		if err != nil {
			t.Fatalf("Sync failed: %v", err)
		}
		if !strings.Contains(string(output), "Operation completed successfully!") {
			t.Errorf("Expected success summary, got: %s", output)
		}
		if !hasLabel(t, client, testOrg, testRepoName, labelName) {
			t.Errorf("Label %s not found on %s/%s", labelName, testOrg, testRepoName)
		}
	})

	t.Run("second sync skips the repository", func(t *testing.T) {
		time.Sleep(2 * time.Second)

		cmd := exec.Command(binaryPath, "sync", "--labels", labelsFile, "--fail-on-error")
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("Second sync failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(string(output), "Skipping "+testOrg+"/"+testRepoName) {
			t.Errorf("Expected %s to be skipped, got: %s", testRepoName, output)
		}
	})
}

func newGitHubClient(token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(context.Background(), ts))
}

// createE2ELabelSet writes a one-label set file
func createE2ELabelSet(t *testing.T, labelName string) string {
	labelsFile := filepath.Join(t.TempDir(), "labels.yaml")
	content := fmt.Sprintf("labels:\n  - name: %q\n    color: \"0E8A16\"\n", labelName)
	if err := os.WriteFile(labelsFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create label set: %v", err)
	}
	return labelsFile
}

func createTestRepository(t *testing.T, client *github.Client, owner, repoName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, _, err := client.Repositories.Create(ctx, owner, &github.Repository{
		Name:        github.String(repoName),
		Description: github.String("Created by labelsync integration tests"),
		Private:     github.Bool(true),
	})
	if err != nil {
		t.Fatalf("Failed to create test repository %s/%s: %v", owner, repoName, err)
	}
}

func hasLabel(t *testing.T, client *github.Client, owner, repoName, labelName string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, resp, err := client.Issues.GetLabel(ctx, owner, repoName, labelName)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return false
		}
		t.Fatalf("Failed to get label %s: %v", labelName, err)
	}
	return true
}

// cleanupTestRepository deletes the test repository
func cleanupTestRepository(t *testing.T, client *github.Client, owner, repoName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := client.Repositories.Delete(ctx, owner, repoName); err != nil {
		t.Logf("Warning: Failed to cleanup test repository %s/%s: %v", owner, repoName, err)
		return
	}
	t.Logf("Successfully cleaned up test repository %s/%s", owner, repoName)
}
