package fixture

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/gitfixture/internal/fixtures"
)

const (
	domainFlagNameConstant         = "domain"
	domainFlagUsageConstant        = "Hosting domain of the origin URL (GitHub or Bitbucket); defaults to fixture.origin.domain"
	protocolFlagNameConstant       = "protocol"
	protocolFlagUsageConstant      = "Access protocol of the origin URL (HTTPS or SSH); defaults to fixture.origin.protocol"
	hostingDomainFlagTypeConstant  = "domain"
	accessProtocolFlagTypeConstant = "protocol"
)

// hostingDomainValue adapts fixtures.HostingDomain to pflag.Value.
type hostingDomainValue struct {
	domain *fixtures.HostingDomain
}

func (value hostingDomainValue) String() string {
	if value.domain == nil {
		return ""
	}
	return string(*value.domain)
}

func (value hostingDomainValue) Set(text string) error {
	return value.domain.UnmarshalText([]byte(text))
}

func (hostingDomainValue) Type() string {
	return hostingDomainFlagTypeConstant
}

// accessProtocolValue adapts fixtures.AccessProtocol to pflag.Value.
type accessProtocolValue struct {
	protocol *fixtures.AccessProtocol
}

func (value accessProtocolValue) String() string {
	if value.protocol == nil {
		return ""
	}
	return string(*value.protocol)
}

func (value accessProtocolValue) Set(text string) error {
	return value.protocol.UnmarshalText([]byte(text))
}

func (accessProtocolValue) Type() string {
	return accessProtocolFlagTypeConstant
}

var (
	_ pflag.Value = hostingDomainValue{}
	_ pflag.Value = accessProtocolValue{}
)

// originFlags holds the hosting domain and protocol selected on the command line.
type originFlags struct {
	domain   fixtures.HostingDomain
	protocol fixtures.AccessProtocol
}

func (flags *originFlags) register(flagSet *pflag.FlagSet) {
	flagSet.Var(hostingDomainValue{domain: &flags.domain}, domainFlagNameConstant, domainFlagUsageConstant)
	flagSet.Var(accessProtocolValue{protocol: &flags.protocol}, protocolFlagNameConstant, protocolFlagUsageConstant)
}

// resolve applies configured defaults for flags that were not set.
func (flags *originFlags) resolve(command *cobra.Command, configuration fixtures.OriginConfiguration) (fixtures.HostingDomain, fixtures.AccessProtocol) {
	domain := configuration.Domain
	if command.Flags().Changed(domainFlagNameConstant) {
		domain = flags.domain
	}
	protocol := configuration.Protocol
	if command.Flags().Changed(protocolFlagNameConstant) {
		protocol = flags.protocol
	}
	return domain, protocol
}
