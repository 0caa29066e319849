package fixture

import (
	"errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	describeUseConstant                 = "describe"
	describeShortDescriptionConstant    = "Print the fixture layout and repository state as YAML"
	describeLongDescriptionConstant     = "describe inspects the remote, upstream remote, and upstream local repositories and prints their bare flag, branch, and remotes."
	describeUnexpectedArgumentsConstant = "describe does not accept positional arguments"
	describeIndentationConstant         = 2
)

var errDescribeUnexpectedArguments = errors.New(describeUnexpectedArgumentsConstant)

// DescribeCommandBuilder assembles the describe command.
type DescribeCommandBuilder struct {
	Dependencies
}

// Build constructs the describe command.
func (builder *DescribeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   describeUseConstant,
		Short: describeShortDescriptionConstant,
		Long:  describeLongDescriptionConstant,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *DescribeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errDescribeUnexpectedArguments
	}

	scenario, scenarioError := builder.resolveScenario()
	if scenarioError != nil {
		return scenarioError
	}

	snapshot, describeError := scenario.Describe()
	if describeError != nil {
		return describeError
	}

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(describeIndentationConstant)
	if encodeError := encoder.Encode(snapshot); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}
