package execshell_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfixture/internal/execshell"
)

func TestOSCommandRunnerUsesWorkingDirectory(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(string(execshell.CommandGit)); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	repositoryPath := filepath.Join(testInstance.TempDir(), "work tree")
	runner := execshell.NewOSCommandRunner()
	executionContext := context.Background()

	initResult, initError := runner.Run(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"init", "--quiet", repositoryPath}, WorkingDirectory: testInstance.TempDir()},
	})
	require.NoError(testInstance, initError)
	require.Equal(testInstance, 0, initResult.ExitCode)

	topLevelResult, topLevelError := runner.Run(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"rev-parse", "--show-toplevel"}, WorkingDirectory: repositoryPath},
	})
	require.NoError(testInstance, topLevelError)
	resolvedRepositoryPath, resolveError := filepath.EvalSymlinks(repositoryPath)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, resolvedRepositoryPath, strings.TrimSpace(topLevelResult.StandardOutput))

	outsideResult, outsideError := runner.Run(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"remote", "get-url", "origin"}, WorkingDirectory: repositoryPath},
	})
	require.NoError(testInstance, outsideError)
	require.NotEqual(testInstance, 0, outsideResult.ExitCode)
	require.NotEmpty(testInstance, outsideResult.StandardError)
}

func TestOSCommandRunnerExecutableOverrides(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunnerWithExecutables(map[execshell.CommandName]string{
		execshell.CommandGit: filepath.Join(testInstance.TempDir(), "missing-git"),
	})

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"--version"}},
	})
	require.Error(testInstance, runError)
}
