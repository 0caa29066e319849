package fixture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gitfixture/internal/fixtures"
)

const (
	runUseConstant                    = "run <script>"
	runShortDescriptionConstant       = "Run a YAML step script against the fixture layout"
	runLongDescriptionConstant        = "run executes each step of a YAML step script in order, stopping at the first failing step."
	runCompletedTemplateConstant      = "ran %d steps\n"
	runScriptErrorTemplateConstant    = "step script failed: %w"
	scriptPathRequiredMessageConstant = "step script path required"
)

var errScriptPathRequired = errors.New(scriptPathRequiredMessageConstant)

// RunCommandBuilder assembles the run command.
type RunCommandBuilder struct {
	Dependencies
}

// Build constructs the run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   runUseConstant,
		Short: runShortDescriptionConstant,
		Long:  runLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *RunCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errScriptPathRequired
	}

	script, loadError := fixtures.LoadScript(strings.TrimSpace(arguments[0]))
	if loadError != nil {
		return loadError
	}

	scenario, scenarioError := builder.resolveScenario()
	if scenarioError != nil {
		return scenarioError
	}

	if runError := fixtures.RunScript(command.Context(), scenario, fixtures.StepDefinitions(), script); runError != nil {
		return fmt.Errorf(runScriptErrorTemplateConstant, runError)
	}

	fmt.Fprintf(command.OutOrStdout(), runCompletedTemplateConstant, len(script.Steps))
	return nil
}
