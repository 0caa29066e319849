package fixtures

import (
	"strings"

	"github.com/temirov/gitfixture/internal/gitrepo"
)

const (
	hostingDomainFieldConstant       = "hosting domain"
	accessProtocolFieldConstant      = "access protocol"
	identityOwnerFieldConstant       = "repository owner"
	identityRepositoryFieldConstant  = "repository name"
	hostFieldTemplateSuffixConstant  = " host"
	unrecognizedValueMessageConstant = "unrecognized value"
	emptyValueMessageConstant        = "value must not be empty"
	httpsURLPrefixConstant           = "https://"
	sshURLPrefixConstant             = "ssh://"
	defaultGitHubHostConstant        = "github.com"
	defaultBitbucketHostConstant     = "bitbucket.org"
)

// HostingDomain names a code hosting service a fixture remote can point to.
type HostingDomain string

// Supported hosting domains.
const (
	HostingDomainGitHub    HostingDomain = HostingDomain("GitHub")
	HostingDomainBitbucket HostingDomain = HostingDomain("Bitbucket")
)

var knownHostingDomains = []HostingDomain{HostingDomainGitHub, HostingDomainBitbucket}

// ParseHostingDomain resolves a hosting domain name case-insensitively.
func ParseHostingDomain(text string) (HostingDomain, error) {
	trimmedText := strings.TrimSpace(text)
	for _, domain := range knownHostingDomains {
		if strings.EqualFold(trimmedText, string(domain)) {
			return domain, nil
		}
	}
	return "", ConfigurationError{Field: hostingDomainFieldConstant, Value: text, Message: unrecognizedValueMessageConstant}
}

// UnmarshalText decodes a hosting domain from configuration text.
func (domain *HostingDomain) UnmarshalText(raw []byte) error {
	parsedDomain, parseError := ParseHostingDomain(string(raw))
	if parseError != nil {
		return parseError
	}
	*domain = parsedDomain
	return nil
}

// AccessProtocol names the transport of a remote URL.
type AccessProtocol string

// Supported access protocols. AccessProtocolLocal only describes existing remotes
// that point at filesystem paths; URLs are never built for it.
const (
	AccessProtocolHTTPS AccessProtocol = AccessProtocol("HTTPS")
	AccessProtocolSSH   AccessProtocol = AccessProtocol("SSH")
	AccessProtocolLocal AccessProtocol = AccessProtocol("local")
)

// ParseAccessProtocol resolves HTTPS or SSH case-insensitively.
func ParseAccessProtocol(text string) (AccessProtocol, error) {
	trimmedText := strings.TrimSpace(text)
	for _, protocol := range []AccessProtocol{AccessProtocolHTTPS, AccessProtocolSSH} {
		if strings.EqualFold(trimmedText, string(protocol)) {
			return protocol, nil
		}
	}
	return "", ConfigurationError{Field: accessProtocolFieldConstant, Value: text, Message: unrecognizedValueMessageConstant}
}

// UnmarshalText decodes an access protocol from configuration text.
func (protocol *AccessProtocol) UnmarshalText(raw []byte) error {
	parsedProtocol, parseError := ParseAccessProtocol(string(raw))
	if parseError != nil {
		return parseError
	}
	*protocol = parsedProtocol
	return nil
}

// DetectAccessProtocol classifies an existing remote URL.
func DetectAccessProtocol(remoteURL string) AccessProtocol {
	trimmedURL := strings.TrimSpace(remoteURL)
	switch {
	case strings.HasPrefix(trimmedURL, httpsURLPrefixConstant):
		return AccessProtocolHTTPS
	case strings.HasPrefix(trimmedURL, sshURLPrefixConstant):
		return AccessProtocolSSH
	}
	if parsedRemote, parseError := gitrepo.ParseRemoteURL(trimmedURL); parseError == nil && parsedRemote.Protocol == gitrepo.RemoteProtocolSSH {
		return AccessProtocolSSH
	}
	return AccessProtocolLocal
}

// URLIdentity is the owner and repository every built URL refers to.
type URLIdentity struct {
	Owner      string
	Repository string
}

// URLBuilder maps hosting domain and protocol pairs to canonical remote URLs.
type URLBuilder struct {
	identity URLIdentity
	hosts    map[HostingDomain]string
}

// NewURLBuilder validates the identity and hosts. Missing hosts fall back to github.com and bitbucket.org.
func NewURLBuilder(identity URLIdentity, hosts map[HostingDomain]string) (*URLBuilder, error) {
	trimmedIdentity := URLIdentity{Owner: strings.TrimSpace(identity.Owner), Repository: strings.TrimSpace(identity.Repository)}
	if len(trimmedIdentity.Owner) == 0 {
		return nil, ConfigurationError{Field: identityOwnerFieldConstant, Value: identity.Owner, Message: emptyValueMessageConstant}
	}
	if len(trimmedIdentity.Repository) == 0 {
		return nil, ConfigurationError{Field: identityRepositoryFieldConstant, Value: identity.Repository, Message: emptyValueMessageConstant}
	}

	resolvedHosts := map[HostingDomain]string{
		HostingDomainGitHub:    defaultGitHubHostConstant,
		HostingDomainBitbucket: defaultBitbucketHostConstant,
	}
	for domain, host := range hosts {
		if _, known := resolvedHosts[domain]; !known {
			return nil, ConfigurationError{Field: hostingDomainFieldConstant, Value: string(domain), Message: unrecognizedValueMessageConstant}
		}
		trimmedHost := strings.TrimSpace(host)
		if len(trimmedHost) == 0 {
			continue
		}
		resolvedHosts[domain] = trimmedHost
	}

	return &URLBuilder{identity: trimmedIdentity, hosts: resolvedHosts}, nil
}

// BuildURLFor returns https://host/owner/repo.git for HTTPS and git@host:owner/repo.git for SSH.
func (builder *URLBuilder) BuildURLFor(domain HostingDomain, protocol AccessProtocol) (string, error) {
	host, knownDomain := builder.hosts[domain]
	if !knownDomain {
		return "", ConfigurationError{Field: hostingDomainFieldConstant, Value: string(domain), Message: unrecognizedValueMessageConstant}
	}

	var remoteProtocol gitrepo.RemoteProtocol
	switch protocol {
	case AccessProtocolHTTPS:
		remoteProtocol = gitrepo.RemoteProtocolHTTPS
	case AccessProtocolSSH:
		remoteProtocol = gitrepo.RemoteProtocolSSH
	default:
		return "", ConfigurationError{Field: accessProtocolFieldConstant, Value: string(protocol), Message: unrecognizedValueMessageConstant}
	}

	formattedURL, formatError := gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   remoteProtocol,
		Host:       host,
		Owner:      builder.identity.Owner,
		Repository: builder.identity.Repository,
	})
	if formatError != nil {
		return "", ConfigurationError{Field: string(domain) + hostFieldTemplateSuffixConstant, Value: host, Message: formatError.Error()}
	}
	return formattedURL, nil
}
