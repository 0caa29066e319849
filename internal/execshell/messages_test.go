package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForBareCloneNamesBothPaths(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"clone", "--bare", "/fixtures/remote", "/fixtures/upstream-remote"},
			WorkingDirectory: "/fixtures",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Cloning /fixtures/remote into bare repository /fixtures/upstream-remote", message)
}

func TestBuildSuccessMessageForCheckoutUsesWorkingDirectory(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"checkout", "main"},
			WorkingDirectory: "/fixtures/upstream-local",
		},
	}

	message := formatter.BuildSuccessMessage(command)

	require.Equal(t, "/fixtures/upstream-local now on branch main", message)
}

func TestBuildFailureMessageForRemoteAddIncludesStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "add", "upstream", "/fixtures/upstream-remote"},
			WorkingDirectory: "/fixtures/remote",
		},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 3, StandardError: "error: remote upstream already exists.\n"})

	require.Equal(t, "Failed to add upstream remote to /fixtures/remote pointing to /fixtures/upstream-remote (exit code 3: error: remote upstream already exists.)", message)
}

func TestBuildExecutionFailureMessageForSetURL(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments: []string{"remote", "set-url", "origin", "git@github.com:fixtures/sample.git"},
		},
	}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("signal: killed"))

	require.Equal(t, "Unable to update origin remote for current directory to git@github.com:fixtures/sample.git: signal: killed", message)
}

func TestBuildMessageFallsBackToGenericTemplate(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "-v"},
			WorkingDirectory: "/fixtures/remote",
		},
	}

	require.Equal(t, "Running git remote -v (in /fixtures/remote)", formatter.BuildStartedMessage(command))
	require.Equal(t, "git remote -v (in /fixtures/remote) failed with exit code 1", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1}))
}
