package fixtures

import (
	"path/filepath"
	"strings"
)

const (
	layoutRootFieldConstant        = "fixture root"
	layoutDirectoryFieldTemplate   = " directory"
	layoutNotLocalMessageConstant  = "must be a relative path inside the fixture root"
	layoutDuplicateMessageConstant = "collides with another repository directory"
	defaultRemoteDirectoryConstant = "remote"
	defaultUpstreamRemoteDirectory = "upstream-remote"
	defaultUpstreamLocalDirectory  = "upstream-local"
	defaultWorkingCopyDirectory    = "developer"
	currentDirectoryMarkerConstant = "."
)

// RoleName identifies a repository's purpose within a fixture.
type RoleName string

// Repository roles making up the upstream topology.
const (
	RoleRemote         RoleName = RoleName("remote")
	RoleUpstreamRemote RoleName = RoleName("upstream remote")
	RoleUpstreamLocal  RoleName = RoleName("upstream local")
	RoleWorkingCopy    RoleName = RoleName("working copy")
)

// RepositoryRole maps a role to its on-disk location.
type RepositoryRole struct {
	Name RoleName
	Path string
	Bare bool
}

// LayoutConfiguration names the directories of each role beneath the fixture root.
type LayoutConfiguration struct {
	Remote         string `mapstructure:"remote"`
	UpstreamRemote string `mapstructure:"upstream_remote"`
	UpstreamLocal  string `mapstructure:"upstream_local"`
	WorkingCopy    string `mapstructure:"working_copy"`
}

// DefaultLayoutConfiguration returns the default directory name of every role.
func DefaultLayoutConfiguration() LayoutConfiguration {
	return LayoutConfiguration{
		Remote:         defaultRemoteDirectoryConstant,
		UpstreamRemote: defaultUpstreamRemoteDirectory,
		UpstreamLocal:  defaultUpstreamLocalDirectory,
		WorkingCopy:    defaultWorkingCopyDirectory,
	}
}

// Layout holds the per-scenario repository paths. All paths are absolute,
// distinct, and located inside Root. WorkingCopyPath is the developer clone of the
// remote repository.
type Layout struct {
	Root               string
	RemotePath         string
	UpstreamRemotePath string
	UpstreamLocalPath  string
	WorkingCopyPath    string
}

// NewLayout resolves the role directories beneath root.
func NewLayout(root string, configuration LayoutConfiguration) (Layout, error) {
	trimmedRoot := strings.TrimSpace(root)
	if len(trimmedRoot) == 0 {
		return Layout{}, ConfigurationError{Field: layoutRootFieldConstant, Value: root, Message: emptyValueMessageConstant}
	}
	absoluteRoot, absoluteError := filepath.Abs(trimmedRoot)
	if absoluteError != nil {
		return Layout{}, ConfigurationError{Field: layoutRootFieldConstant, Value: root, Message: absoluteError.Error()}
	}

	directoryNames := []struct {
		role RoleName
		name string
	}{
		{role: RoleRemote, name: configuration.Remote},
		{role: RoleUpstreamRemote, name: configuration.UpstreamRemote},
		{role: RoleUpstreamLocal, name: configuration.UpstreamLocal},
		{role: RoleWorkingCopy, name: configuration.WorkingCopy},
	}

	resolvedPaths := make(map[RoleName]string, len(directoryNames))
	seenPaths := make(map[string]struct{}, len(directoryNames))
	for _, directory := range directoryNames {
		field := string(directory.role) + layoutDirectoryFieldTemplate
		cleanedName := filepath.Clean(strings.TrimSpace(directory.name))
		if len(strings.TrimSpace(directory.name)) == 0 {
			return Layout{}, ConfigurationError{Field: field, Value: directory.name, Message: emptyValueMessageConstant}
		}
		if cleanedName == currentDirectoryMarkerConstant || !filepath.IsLocal(cleanedName) {
			return Layout{}, ConfigurationError{Field: field, Value: directory.name, Message: layoutNotLocalMessageConstant}
		}

		resolvedPath := filepath.Join(absoluteRoot, cleanedName)
		for seenPath := range seenPaths {
			if pathContains(seenPath, resolvedPath) || pathContains(resolvedPath, seenPath) {
				return Layout{}, ConfigurationError{Field: field, Value: directory.name, Message: layoutDuplicateMessageConstant}
			}
		}
		seenPaths[resolvedPath] = struct{}{}
		resolvedPaths[directory.role] = resolvedPath
	}

	return Layout{
		Root:               absoluteRoot,
		RemotePath:         resolvedPaths[RoleRemote],
		UpstreamRemotePath: resolvedPaths[RoleUpstreamRemote],
		UpstreamLocalPath:  resolvedPaths[RoleUpstreamLocal],
		WorkingCopyPath:    resolvedPaths[RoleWorkingCopy],
	}, nil
}

// Roles lists the repository roles in construction order.
func (layout Layout) Roles() []RepositoryRole {
	return []RepositoryRole{
		{Name: RoleRemote, Path: layout.RemotePath},
		{Name: RoleUpstreamRemote, Path: layout.UpstreamRemotePath, Bare: true},
		{Name: RoleUpstreamLocal, Path: layout.UpstreamLocalPath},
		{Name: RoleWorkingCopy, Path: layout.WorkingCopyPath},
	}
}

// Role returns the repository role with the given name.
func (layout Layout) Role(name RoleName) (RepositoryRole, bool) {
	for _, role := range layout.Roles() {
		if role.Name == name {
			return role, true
		}
	}
	return RepositoryRole{}, false
}

// pathContains reports whether candidate equals parent or lies beneath it.
func pathContains(parent string, candidate string) bool {
	relativePath, relativeError := filepath.Rel(parent, candidate)
	if relativeError != nil {
		return false
	}
	return relativePath == currentDirectoryMarkerConstant || filepath.IsLocal(relativePath)
}
