package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	defaultSSHUserConstant              = "git"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	sshRemoteURLTemplateConstant        = "%s@%s:%s/%s.git"
	httpsRemoteURLTemplateConstant      = "https://%s/%s/%s.git"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	User       string
	Host       string
	Owner      string
	Repository string
}

// OwnerRepository renders the owner/repository path segment.
func (remote RemoteURL) OwnerRepository() string {
	return remote.Owner + pathSeparatorConstant + remote.Repository
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
// It accepts https://host/owner/repo(.git), ssh://user@host/owner/repo(.git), and user@host:owner/repo(.git).
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(remote, strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHTTPSRemote(remote, strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant):
		return parseSSHRemote(remote, trimmedRemote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

func parseSSHRemote(input string, remote string) (RemoteURL, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	user := remote[:userSplitIndex]
	hostAndPath := remote[userSplitIndex+1:]

	separatorIndex := strings.IndexAny(hostAndPath, sshPathDelimiterConstant+pathSeparatorConstant)
	if separatorIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}

	owner, repository, parseError := splitOwnerAndRepository(input, hostAndPath[separatorIndex+1:])
	if parseError != nil {
		return RemoteURL{}, parseError
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, User: user, Host: hostAndPath[:separatorIndex], Owner: owner, Repository: repository}, nil
}

func parseHTTPSRemote(input string, remote string) (RemoteURL, error) {
	separatorIndex := strings.Index(remote, pathSeparatorConstant)
	if separatorIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}

	host := remote[:separatorIndex]
	if credentialsIndex := strings.LastIndex(host, sshUserDelimiterConstant); credentialsIndex >= 0 {
		host = host[credentialsIndex+1:]
	}

	owner, repository, parseError := splitOwnerAndRepository(input, remote[separatorIndex+1:])
	if parseError != nil {
		return RemoteURL{}, parseError
	}
	return RemoteURL{Protocol: RemoteProtocolHTTPS, Host: host, Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(input string, path string) (string, string, error) {
	segments := strings.Split(strings.Trim(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(segments) != 2 || len(segments[0]) == 0 {
		return "", "", RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}
	return segments[0], repository, nil
}

// FormatRemoteURL creates a textual remote URL from a structured representation.
// SSH remotes use the SCP-like user@host:owner/repo.git form, defaulting the user to git.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	for _, requiredValue := range []string{remote.Host, remote.Owner, remote.Repository} {
		if len(strings.TrimSpace(requiredValue)) == 0 {
			return "", RemoteURLParseError{Input: requiredValue, Message: requiredValueMessageConstant}
		}
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		user := strings.TrimSpace(remote.User)
		if len(user) == 0 {
			user = defaultSSHUserConstant
		}
		return fmt.Sprintf(sshRemoteURLTemplateConstant, user, remote.Host, remote.Owner, remote.Repository), nil
	case RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsRemoteURLTemplateConstant, remote.Host, remote.Owner, remote.Repository), nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}

// RemoteHostname returns the host of a remote URL, or an empty string when it cannot be parsed.
func RemoteHostname(remote string) string {
	parsedRemote, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return ""
	}
	return parsedRemote.Host
}

// RemoteRepositoryName returns the owner/repository path of a remote URL, or an empty string when it cannot be parsed.
func RemoteRepositoryName(remote string) string {
	parsedRemote, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return ""
	}
	return parsedRemote.OwnerRepository()
}
