package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitInfo contains git repository information for a library root.
type GitInfo struct {
	IsGit   bool
	GitRoot string
}

// DetectGit detects if a library root is within a git repository.
func DetectGit(ctx context.Context, root string) GitInfo {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = root

	output, err := cmd.Output()
	if err != nil {
		// Not a git repo or git not available
		return GitInfo{IsGit: false}
	}

	return GitInfo{
		IsGit:   true,
		GitRoot: strings.TrimSpace(string(output)),
	}
}

// GitFileChange represents a file change detected by git.
type GitFileChange struct {
	Path   string
	Status string // "A" (added), "M" (modified), "D" (deleted)
}

// GetGitChanges uses `git status --porcelain` to detect library changes.
// Much faster than walking the filesystem for git-managed libraries.
func GetGitChanges(ctx context.Context, gitRoot string) ([]GitFileChange, error) {
	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	cmd.Dir = gitRoot

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w", err)
	}

	var changes []GitFileChange
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}

		// Porcelain format: XY filename
		status := strings.TrimSpace(line[0:2])
		path := strings.TrimSpace(line[3:])

		// Renames report "old -> new"; the new path is the live one
		if strings.Contains(path, " -> ") {
			parts := strings.Split(path, " -> ")
			if len(parts) == 2 {
				path = parts[1]
			}
		}

		statusCode := "M"
		if strings.Contains(status, "A") || strings.Contains(status, "??") {
			statusCode = "A"
		} else if strings.Contains(status, "D") {
			statusCode = "D"
		}

		changes = append(changes, GitFileChange{
			Path:   path,
			Status: statusCode,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse git status: %w", err)
	}

	return changes, nil
}
