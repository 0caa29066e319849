package fixture

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	upstreamUseConstant                 = "upstream"
	upstreamShortDescriptionConstant    = "Create the upstream remote and upstream local repositories"
	upstreamLongDescriptionConstant     = "upstream bare-clones the remote repository, clones an upstream local working copy, checks out the primary branch, and registers the upstream remote in the working repository."
	skipVerifyFlagNameConstant          = "skip-verify"
	skipVerifyFlagUsageConstant         = "Do not inspect the repositories after setup"
	upstreamReadyTemplateConstant       = "upstream topology ready under %s\n"
	upstreamSetupErrorTemplateConstant  = "upstream setup failed: %w"
	upstreamVerifyErrorTemplateConstant = "upstream verification failed: %w"
	upstreamUnexpectedArgumentsConstant = "upstream does not accept positional arguments"
)

var errUpstreamUnexpectedArguments = errors.New(upstreamUnexpectedArgumentsConstant)

// UpstreamCommandBuilder assembles the upstream command.
type UpstreamCommandBuilder struct {
	Dependencies
}

// Build constructs the upstream command.
func (builder *UpstreamCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   upstreamUseConstant,
		Short: upstreamShortDescriptionConstant,
		Long:  upstreamLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Bool(skipVerifyFlagNameConstant, false, skipVerifyFlagUsageConstant)

	return command, nil
}

func (builder *UpstreamCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUpstreamUnexpectedArguments
	}

	scenario, scenarioError := builder.resolveScenario()
	if scenarioError != nil {
		return scenarioError
	}

	if setupError := scenario.SetupUpstreamTopology(command.Context()); setupError != nil {
		return fmt.Errorf(upstreamSetupErrorTemplateConstant, setupError)
	}

	skipVerify, _ := command.Flags().GetBool(skipVerifyFlagNameConstant)
	if !skipVerify {
		if verifyError := scenario.VerifyUpstreamTopology(command.Context()); verifyError != nil {
			return fmt.Errorf(upstreamVerifyErrorTemplateConstant, verifyError)
		}
	}

	fmt.Fprintf(command.OutOrStdout(), upstreamReadyTemplateConstant, scenario.Layout().Root)
	return nil
}
