package fixture

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	urlUseConstant                 = "url"
	urlShortDescriptionConstant    = "Print the canonical hosting URL for a domain and protocol"
	urlLongDescriptionConstant     = "url prints the GitHub or Bitbucket remote URL of the configured identity without touching any repository."
	urlOutputTemplateConstant      = "%s\n"
	urlUnexpectedArgumentsConstant = "url does not accept positional arguments"
)

var errURLUnexpectedArguments = errors.New(urlUnexpectedArgumentsConstant)

// URLCommandBuilder assembles the url command.
type URLCommandBuilder struct {
	Dependencies
	flags originFlags
}

// Build constructs the url command.
func (builder *URLCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   urlUseConstant,
		Short: urlShortDescriptionConstant,
		Long:  urlLongDescriptionConstant,
		RunE:  builder.run,
	}

	builder.flags.register(command.Flags())

	return command, nil
}

func (builder *URLCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errURLUnexpectedArguments
	}

	settings := builder.resolveSettings()
	domain, protocol := builder.flags.resolve(command, settings.Configuration.Origin)

	urlBuilder, urlBuilderError := settings.Configuration.URLBuilder()
	if urlBuilderError != nil {
		return urlBuilderError
	}

	builtURL, buildError := urlBuilder.BuildURLFor(domain, protocol)
	if buildError != nil {
		return buildError
	}

	fmt.Fprintf(command.OutOrStdout(), urlOutputTemplateConstant, builtURL)
	return nil
}
