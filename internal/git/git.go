package git

import (
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
)

// GitInfo contains git repository provenance for a project.
type GitInfo struct {
	Branch    string `json:"branch,omitempty"`
	Commit    string `json:"commit,omitempty"`
	RemoteURL string `json:"remote_url,omitempty"`
}

// GetGitInfo retrieves git repository information for the given path.
// Consider GetGitInfoWithRoot for better performance in recursive scans so
// callers can cache by repo root.
func GetGitInfo(path string) *GitInfo {
	info, _ := GetGitInfoWithRoot(path)
	return info
}

// FindRepoRoot finds the git repository root for a given path. Returns
// empty string if not in a git repository.
func FindRepoRoot(path string) string {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return ""
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return ""
	}
	return worktree.Filesystem.Root()
}

// GetGitInfoWithRoot retrieves git info and returns the repository root
// path, allowing callers to cache by repo root.
func GetGitInfoWithRoot(path string) (*GitInfo, string) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, ""
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, ""
	}
	repoRoot := worktree.Filesystem.Root()

	gitInfo := &GitInfo{}

	head, err := repo.Head()
	if err == nil {
		gitInfo.Commit = head.Hash().String()[:7]
		if head.Name().IsBranch() {
			gitInfo.Branch = head.Name().Short()
		} else {
			gitInfo.Branch = "HEAD"
		}
	}

	// Skipping worktree.Status(): too slow on large workspaces and no
	// consumer needs a dirty-worktree flag.

	remoteConfig, err := repo.Config()
	if err == nil {
		if origin := remoteConfig.Remotes["origin"]; origin != nil {
			if len(origin.URLs) > 0 {
				gitInfo.RemoteURL = sanitizeRemoteURL(origin.URLs[0])
			}
		}
	}

	return gitInfo, repoRoot
}

// normalizeRemoteURL converts various git URL formats to a consistent form.
func normalizeRemoteURL(remote string) string {
	remote = strings.TrimPrefix(remote, "https://")
	remote = strings.TrimPrefix(remote, "http://")
	remote = strings.TrimPrefix(remote, "git@")
	remote = strings.TrimPrefix(remote, "git://")
	remote = strings.TrimSuffix(remote, ".git")

	if strings.Contains(remote, ":") && strings.Contains(remote, "@") {
		remote = strings.Replace(remote, ":", "/", 1)
	}

	return strings.TrimSuffix(remote, "/")
}

// sanitizeRemoteURL removes credentials (userinfo) from a git remote URL so
// tokens and passwords never leak into scan output.
func sanitizeRemoteURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "git@") {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if parsed.User != nil {
		parsed.User = nil
	}

	return parsed.String()
}
