// Package gitrepo contains helpers for reading Git repositories and remote URLs.
//
// ParseRemoteURL and FormatRemoteURL convert between textual and structured
// remote URLs for the HTTPS and SCP-like SSH forms, and RepositoryInspector
// reads on-disk repository state through go-git without spawning processes.
package gitrepo
