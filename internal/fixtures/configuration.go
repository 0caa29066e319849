package fixtures

import "strings"

const (
	configurationPrimaryBranchKeyConstant     = "primary_branch"
	configurationGitExecutableKeyConstant     = "git_executable"
	configurationWorkingRepositoryKeyConstant = "working_repository"
	configurationLayoutKeyConstant            = "layout"
	configurationLayoutRemoteKeyConstant      = "remote"
	configurationLayoutUpstreamRemoteKey      = "upstream_remote"
	configurationLayoutUpstreamLocalKey       = "upstream_local"
	configurationLayoutWorkingCopyKey         = "working_copy"
	configurationIdentityKeyConstant          = "identity"
	configurationIdentityOwnerKeyConstant     = "owner"
	configurationIdentityRepositoryKey        = "repository"
	configurationHostsKeyConstant             = "hosts"
	configurationHostsGitHubKeyConstant       = "github"
	configurationHostsBitbucketKeyConstant    = "bitbucket"
	configurationOriginKeyConstant            = "origin"
	configurationOriginDomainKeyConstant      = "domain"
	configurationOriginProtocolKeyConstant    = "protocol"
	configurationKeySeparatorConstant         = "."
	defaultGitExecutableConstant              = "git"
	defaultIdentityOwnerConstant              = "fixtures"
	defaultIdentityRepositoryConstant         = "sample"
)

// Configuration captures fixture settings loaded from configuration files and the environment.
type Configuration struct {
	PrimaryBranch     string                `mapstructure:"primary_branch"`
	GitExecutable     string                `mapstructure:"git_executable"`
	WorkingRepository string                `mapstructure:"working_repository"`
	Layout            LayoutConfiguration   `mapstructure:"layout"`
	Identity          IdentityConfiguration `mapstructure:"identity"`
	Hosts             HostsConfiguration    `mapstructure:"hosts"`
	Origin            OriginConfiguration   `mapstructure:"origin"`
}

// OriginConfiguration selects the hosting domain and protocol used when none is given explicitly.
type OriginConfiguration struct {
	Domain   HostingDomain  `mapstructure:"domain"`
	Protocol AccessProtocol `mapstructure:"protocol"`
}

// IdentityConfiguration names the repository built URLs refer to.
type IdentityConfiguration struct {
	Owner      string `mapstructure:"owner"`
	Repository string `mapstructure:"repository"`
}

// HostsConfiguration overrides the host name of each hosting domain.
type HostsConfiguration struct {
	GitHub    string `mapstructure:"github"`
	Bitbucket string `mapstructure:"bitbucket"`
}

// DefaultConfiguration returns baseline fixture settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		PrimaryBranch:     DefaultPrimaryBranch,
		GitExecutable:     defaultGitExecutableConstant,
		WorkingRepository: "",
		Layout:            DefaultLayoutConfiguration(),
		Identity: IdentityConfiguration{
			Owner:      defaultIdentityOwnerConstant,
			Repository: defaultIdentityRepositoryConstant,
		},
		Hosts: HostsConfiguration{
			GitHub:    defaultGitHubHostConstant,
			Bitbucket: defaultBitbucketHostConstant,
		},
		Origin: OriginConfiguration{
			Domain:   HostingDomainGitHub,
			Protocol: AccessProtocolHTTPS,
		},
	}
}

// DefaultConfigurationValues produces Viper defaults nested under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	key := func(segments ...string) string {
		return rootKey + configurationKeySeparatorConstant + strings.Join(segments, configurationKeySeparatorConstant)
	}

	return map[string]any{
		key(configurationPrimaryBranchKeyConstant):                                   defaults.PrimaryBranch,
		key(configurationGitExecutableKeyConstant):                                   defaults.GitExecutable,
		key(configurationWorkingRepositoryKeyConstant):                               defaults.WorkingRepository,
		key(configurationLayoutKeyConstant, configurationLayoutRemoteKeyConstant):    defaults.Layout.Remote,
		key(configurationLayoutKeyConstant, configurationLayoutUpstreamRemoteKey):    defaults.Layout.UpstreamRemote,
		key(configurationLayoutKeyConstant, configurationLayoutUpstreamLocalKey):     defaults.Layout.UpstreamLocal,
		key(configurationLayoutKeyConstant, configurationLayoutWorkingCopyKey):       defaults.Layout.WorkingCopy,
		key(configurationIdentityKeyConstant, configurationIdentityOwnerKeyConstant): defaults.Identity.Owner,
		key(configurationIdentityKeyConstant, configurationIdentityRepositoryKey):    defaults.Identity.Repository,
		key(configurationHostsKeyConstant, configurationHostsGitHubKeyConstant):      defaults.Hosts.GitHub,
		key(configurationHostsKeyConstant, configurationHostsBitbucketKeyConstant):   defaults.Hosts.Bitbucket,
		key(configurationOriginKeyConstant, configurationOriginDomainKeyConstant):    string(defaults.Origin.Domain),
		key(configurationOriginKeyConstant, configurationOriginProtocolKeyConstant):  string(defaults.Origin.Protocol),
	}
}

// Sanitize trims every value and restores defaults for blank required settings.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := Configuration{
		PrimaryBranch:     valueOrDefault(configuration.PrimaryBranch, defaults.PrimaryBranch),
		GitExecutable:     valueOrDefault(configuration.GitExecutable, defaults.GitExecutable),
		WorkingRepository: strings.TrimSpace(configuration.WorkingRepository),
		Layout: LayoutConfiguration{
			Remote:         valueOrDefault(configuration.Layout.Remote, defaults.Layout.Remote),
			UpstreamRemote: valueOrDefault(configuration.Layout.UpstreamRemote, defaults.Layout.UpstreamRemote),
			UpstreamLocal:  valueOrDefault(configuration.Layout.UpstreamLocal, defaults.Layout.UpstreamLocal),
			WorkingCopy:    valueOrDefault(configuration.Layout.WorkingCopy, defaults.Layout.WorkingCopy),
		},
		Identity: IdentityConfiguration{
			Owner:      valueOrDefault(configuration.Identity.Owner, defaults.Identity.Owner),
			Repository: valueOrDefault(configuration.Identity.Repository, defaults.Identity.Repository),
		},
		Hosts: HostsConfiguration{
			GitHub:    valueOrDefault(configuration.Hosts.GitHub, defaults.Hosts.GitHub),
			Bitbucket: valueOrDefault(configuration.Hosts.Bitbucket, defaults.Hosts.Bitbucket),
		},
		Origin: configuration.Origin,
	}
	if len(sanitized.Origin.Domain) == 0 {
		sanitized.Origin.Domain = defaults.Origin.Domain
	}
	if len(sanitized.Origin.Protocol) == 0 {
		sanitized.Origin.Protocol = defaults.Origin.Protocol
	}
	return sanitized
}

// URLBuilder constructs the URL builder described by the identity and hosts settings.
func (configuration Configuration) URLBuilder() (*URLBuilder, error) {
	return NewURLBuilder(
		URLIdentity{Owner: configuration.Identity.Owner, Repository: configuration.Identity.Repository},
		map[HostingDomain]string{
			HostingDomainGitHub:    configuration.Hosts.GitHub,
			HostingDomainBitbucket: configuration.Hosts.Bitbucket,
		},
	)
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
