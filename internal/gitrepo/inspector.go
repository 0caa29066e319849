package gitrepo

import (
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

const (
	repositoryOpenErrorTemplateConstant     = "opening repository at %s: %w"
	repositoryConfigErrorTemplateConstant   = "reading configuration of %s: %w"
	repositoryHeadErrorTemplateConstant     = "reading HEAD of %s: %w"
	repositoryNotFoundErrorTemplateConstant = "%w: %s"
	notRepositoryMessageConstant            = "not a git repository"
	detachedHeadBranchLabelConstant         = ""
)

// ErrNotRepository is returned when the inspected path holds no repository.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// RepositorySnapshot captures the inspected state of a single repository.
type RepositorySnapshot struct {
	Path    string            `yaml:"path"`
	Bare    bool              `yaml:"bare"`
	Branch  string            `yaml:"branch,omitempty"`
	Remotes map[string]string `yaml:"remotes,omitempty"`
}

// RemoteNames returns the configured remote names in lexical order.
func (snapshot RepositorySnapshot) RemoteNames() []string {
	remoteNames := make([]string, 0, len(snapshot.Remotes))
	for remoteName := range snapshot.Remotes {
		remoteNames = append(remoteNames, remoteName)
	}
	sort.Strings(remoteNames)
	return remoteNames
}

// RepositoryInspector reads repository state directly from disk.
type RepositoryInspector struct{}

// NewRepositoryInspector constructs a RepositoryInspector.
func NewRepositoryInspector() *RepositoryInspector {
	return &RepositoryInspector{}
}

// Inspect opens the repository at repositoryPath and reports its bare flag, HEAD branch, and remotes.
// The branch is reported even when HEAD points at a branch without commits.
func (inspector *RepositoryInspector) Inspect(repositoryPath string) (RepositorySnapshot, error) {
	repository, openError := gogit.PlainOpenWithOptions(repositoryPath, &gogit.PlainOpenOptions{})
	if openError != nil {
		if errors.Is(openError, gogit.ErrRepositoryNotExists) {
			return RepositorySnapshot{}, fmt.Errorf(repositoryNotFoundErrorTemplateConstant, ErrNotRepository, repositoryPath)
		}
		return RepositorySnapshot{}, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	repositoryConfiguration, configurationError := repository.Config()
	if configurationError != nil {
		return RepositorySnapshot{}, fmt.Errorf(repositoryConfigErrorTemplateConstant, repositoryPath, configurationError)
	}

	snapshot := RepositorySnapshot{
		Path:    repositoryPath,
		Bare:    repositoryConfiguration.Core.IsBare,
		Remotes: make(map[string]string, len(repositoryConfiguration.Remotes)),
	}

	for remoteName, remoteConfiguration := range repositoryConfiguration.Remotes {
		if remoteConfiguration == nil || len(remoteConfiguration.URLs) == 0 {
			continue
		}
		snapshot.Remotes[remoteName] = remoteConfiguration.URLs[0]
	}

	headReference, headError := repository.Reference(plumbing.HEAD, false)
	if headError != nil {
		return RepositorySnapshot{}, fmt.Errorf(repositoryHeadErrorTemplateConstant, repositoryPath, headError)
	}

	snapshot.Branch = detachedHeadBranchLabelConstant
	if headReference.Type() == plumbing.SymbolicReference && headReference.Target().IsBranch() {
		snapshot.Branch = headReference.Target().Short()
	}

	return snapshot, nil
}
