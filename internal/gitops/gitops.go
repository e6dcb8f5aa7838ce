// Package gitops versions a project directory with the git command line.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Identity is the author and committer recorded on commits.
type Identity struct {
	Name  string
	Email string
}

func (id Identity) env() []string {
	return append(os.Environ(),
		"GIT_AUTHOR_NAME="+id.Name,
		"GIT_AUTHOR_EMAIL="+id.Email,
		"GIT_COMMITTER_NAME="+id.Name,
		"GIT_COMMITTER_EMAIL="+id.Email,
	)
}

func run(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	_, err := run(dir, nil, "init", "-q")
	return err
}

// CommitAll stages all files and creates a commit as id. Returns the short
// commit hash.
func CommitAll(dir, message string, id Identity) (string, error) {
	env := id.env()
	if _, err := run(dir, env, "add", "-A"); err != nil {
		return "", err
	}
	if _, err := run(dir, env, "commit", "-q", "-m", message); err != nil {
		return "", err
	}
	return run(dir, env, "rev-parse", "--short", "HEAD")
}

// CommitPaths stages only paths and commits them as id. Nothing staged is
// not an error; the returned hash is then empty.
func CommitPaths(dir, message string, id Identity, paths ...string) (string, error) {
	env := id.env()
	args := append([]string{"add", "--"}, paths...)
	if _, err := run(dir, env, args...); err != nil {
		return "", err
	}
	if _, err := run(dir, env, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}
	if _, err := run(dir, env, "commit", "-q", "-m", message); err != nil {
		return "", err
	}
	return run(dir, env, "rev-parse", "--short", "HEAD")
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
