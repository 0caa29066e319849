package fixture

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitfixture/internal/execshell"
	"github.com/temirov/gitfixture/internal/fixtures"
	"github.com/temirov/gitfixture/internal/gitrepo"
	"github.com/temirov/gitfixture/internal/ui"
)

const (
	defaultRootConstant = "."
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// Settings carries the resolved fixture configuration and the scenario root.
type Settings struct {
	Root          string
	Configuration fixtures.Configuration
}

// SettingsProvider yields the settings in effect for the current invocation.
type SettingsProvider func() Settings

// Dependencies wires the collaborators shared by every fixture command. Nil fields fall back to
// OS-backed defaults.
type Dependencies struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	SettingsProvider             SettingsProvider
	GitExecutor                  fixtures.GitExecutor
	Inspector                    fixtures.RepositoryInspector
}

func (dependencies Dependencies) resolveSettings() Settings {
	settings := Settings{Root: defaultRootConstant, Configuration: fixtures.DefaultConfiguration()}
	if dependencies.SettingsProvider != nil {
		settings = dependencies.SettingsProvider()
	}
	if len(strings.TrimSpace(settings.Root)) == 0 {
		settings.Root = defaultRootConstant
	}
	settings.Configuration = settings.Configuration.Sanitize()
	return settings
}

func (dependencies Dependencies) resolveGitExecutor(logger *zap.Logger, configuration fixtures.Configuration) (fixtures.GitExecutor, error) {
	if dependencies.GitExecutor != nil {
		return dependencies.GitExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunnerWithExecutables(map[execshell.CommandName]string{
		execshell.CommandGit: configuration.GitExecutable,
	})

	var observer execshell.CommandEventObserver
	if dependencies.HumanReadableLoggingProvider != nil && dependencies.HumanReadableLoggingProvider() {
		observer = ui.NewConsoleCommandEventLogger(resolveLogger(dependencies.ConsoleLoggerProvider))
	}

	return execshell.NewShellExecutorWithObserver(logger, commandRunner, observer)
}

func (dependencies Dependencies) resolveInspector() fixtures.RepositoryInspector {
	if dependencies.Inspector != nil {
		return dependencies.Inspector
	}
	return gitrepo.NewRepositoryInspector()
}

// resolveScenario builds the scenario described by the current settings.
func (dependencies Dependencies) resolveScenario() (*fixtures.Scenario, error) {
	logger := resolveLogger(dependencies.LoggerProvider)
	settings := dependencies.resolveSettings()
	configuration := settings.Configuration

	gitExecutor, executorError := dependencies.resolveGitExecutor(logger, configuration)
	if executorError != nil {
		return nil, executorError
	}

	repositoryBuilder, builderError := fixtures.NewBuilder(gitExecutor, logger)
	if builderError != nil {
		return nil, builderError
	}

	urlBuilder, urlBuilderError := configuration.URLBuilder()
	if urlBuilderError != nil {
		return nil, urlBuilderError
	}

	layout, layoutError := fixtures.NewLayout(settings.Root, configuration.Layout)
	if layoutError != nil {
		return nil, layoutError
	}

	scenario, scenarioError := fixtures.NewScenario(
		fixtures.ScenarioDependencies{
			Builder:    repositoryBuilder,
			URLBuilder: urlBuilder,
			Inspector:  dependencies.resolveInspector(),
			Logger:     logger,
		},
		fixtures.ScenarioOptions{
			Layout:                layout,
			WorkingRepositoryPath: resolveWorkingRepositoryPath(layout, configuration.WorkingRepository),
			PrimaryBranch:         configuration.PrimaryBranch,
		},
	)
	if scenarioError != nil {
		return nil, scenarioError
	}

	return scenario, nil
}

// resolveWorkingRepositoryPath interprets relative working repository paths against the fixture root.
func resolveWorkingRepositoryPath(layout fixtures.Layout, configuredPath string) string {
	trimmedPath := strings.TrimSpace(configuredPath)
	if len(trimmedPath) == 0 || filepath.IsAbs(trimmedPath) {
		return trimmedPath
	}
	return filepath.Join(layout.Root, trimmedPath)
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
