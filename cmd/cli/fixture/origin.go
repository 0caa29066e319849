package fixture

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	originUseConstant                 = "origin"
	originShortDescriptionConstant    = "Point the origin remote at a canonical hosting URL"
	originLongDescriptionConstant     = "origin rewrites the origin remote of the working repository to the GitHub or Bitbucket URL of the configured identity over HTTPS or SSH."
	originUpdatedTemplateConstant     = "origin of %s now %s\n"
	originErrorTemplateConstant       = "origin update failed: %w"
	originUnexpectedArgumentsConstant = "origin does not accept positional arguments"
)

var errOriginUnexpectedArguments = errors.New(originUnexpectedArgumentsConstant)

// OriginCommandBuilder assembles the origin command.
type OriginCommandBuilder struct {
	Dependencies
	flags originFlags
}

// Build constructs the origin command.
func (builder *OriginCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   originUseConstant,
		Short: originShortDescriptionConstant,
		Long:  originLongDescriptionConstant,
		RunE:  builder.run,
	}

	builder.flags.register(command.Flags())

	return command, nil
}

func (builder *OriginCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errOriginUnexpectedArguments
	}

	settings := builder.resolveSettings()
	domain, protocol := builder.flags.resolve(command, settings.Configuration.Origin)

	scenario, scenarioError := builder.resolveScenario()
	if scenarioError != nil {
		return scenarioError
	}

	if pointError := scenario.PointOriginAt(command.Context(), domain, protocol); pointError != nil {
		return fmt.Errorf(originErrorTemplateConstant, pointError)
	}

	urlBuilder, urlBuilderError := settings.Configuration.URLBuilder()
	if urlBuilderError != nil {
		return urlBuilderError
	}
	originURL, urlError := urlBuilder.BuildURLFor(domain, protocol)
	if urlError != nil {
		return urlError
	}

	fmt.Fprintf(command.OutOrStdout(), originUpdatedTemplateConstant, scenario.WorkingRepositoryPath(), originURL)
	return nil
}
