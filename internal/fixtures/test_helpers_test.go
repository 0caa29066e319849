package fixtures_test

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfixture/internal/execshell"
	"github.com/temirov/gitfixture/internal/fixtures"
	"github.com/temirov/gitfixture/internal/gitrepo"
)

const (
	testFailureStandardErrorConstant = "fatal: simulated failure\n"
	testFailureExitCodeConstant      = 128
	testOriginURLConstant            = "https://example.com/original/sample.git"
	remoteListingLineTemplate        = "%s\t%s (fetch)\n%s\t%s (push)\n"
)

// recordingGitExecutor emulates the git subcommands the builder issues and keeps remotes per repository path.
type recordingGitExecutor struct {
	invocations []execshell.CommandDetails
	remotes     map[string]map[string]string
	failures    map[string]bool
}

func newRecordingGitExecutor() *recordingGitExecutor {
	return &recordingGitExecutor{
		remotes:  make(map[string]map[string]string),
		failures: make(map[string]bool),
	}
}

func (executor *recordingGitExecutor) failOn(commandKey string) {
	executor.failures[commandKey] = true
}

func (executor *recordingGitExecutor) setRemote(repositoryPath string, remoteName string, remoteURL string) {
	if executor.remotes[repositoryPath] == nil {
		executor.remotes[repositoryPath] = make(map[string]string)
	}
	executor.remotes[repositoryPath][remoteName] = remoteURL
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, details)

	arguments := details.Arguments
	if executor.failures[commandKey(arguments)] {
		failedResult := execshell.ExecutionResult{StandardError: testFailureStandardErrorConstant, ExitCode: testFailureExitCodeConstant}
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  failedResult,
		}
	}

	switch commandKey(arguments) {
	case "clone":
		sourcePath := arguments[len(arguments)-2]
		destinationPath := arguments[len(arguments)-1]
		if mkdirError := os.MkdirAll(destinationPath, 0o755); mkdirError != nil {
			return execshell.ExecutionResult{}, mkdirError
		}
		if arguments[1] != "--bare" {
			executor.setRemote(destinationPath, fixtures.OriginRemoteName, sourcePath)
		}
	case "remote -v":
		return execshell.ExecutionResult{StandardOutput: executor.listing(details.WorkingDirectory)}, nil
	case "remote add", "remote set-url":
		executor.setRemote(details.WorkingDirectory, arguments[2], arguments[3])
	case "remote remove":
		delete(executor.remotes[details.WorkingDirectory], arguments[2])
	case "remote get-url":
		return execshell.ExecutionResult{StandardOutput: executor.remotes[details.WorkingDirectory][arguments[2]] + "\n"}, nil
	}

	return execshell.ExecutionResult{}, nil
}

// mutatingInvocations drops the remote listings issued as preconditions.
func (executor *recordingGitExecutor) mutatingInvocations() []execshell.CommandDetails {
	filtered := make([]execshell.CommandDetails, 0, len(executor.invocations))
	for _, invocation := range executor.invocations {
		if commandKey(invocation.Arguments) == "remote -v" {
			continue
		}
		filtered = append(filtered, invocation)
	}
	return filtered
}

func (executor *recordingGitExecutor) listing(repositoryPath string) string {
	remoteNames := make([]string, 0, len(executor.remotes[repositoryPath]))
	for remoteName := range executor.remotes[repositoryPath] {
		remoteNames = append(remoteNames, remoteName)
	}
	sort.Strings(remoteNames)

	var builder strings.Builder
	for _, remoteName := range remoteNames {
		remoteURL := executor.remotes[repositoryPath][remoteName]
		builder.WriteString(fmt.Sprintf(remoteListingLineTemplate, remoteName, remoteURL, remoteName, remoteURL))
	}
	return builder.String()
}

func commandKey(arguments []string) string {
	if len(arguments) == 0 {
		return ""
	}
	if arguments[0] == "remote" && len(arguments) > 1 {
		return arguments[0] + " " + arguments[1]
	}
	return arguments[0]
}

// stubRepositoryInspector serves prepared snapshots keyed by path.
type stubRepositoryInspector struct {
	snapshots map[string]gitrepo.RepositorySnapshot
}

func (inspector stubRepositoryInspector) Inspect(repositoryPath string) (gitrepo.RepositorySnapshot, error) {
	snapshot, found := inspector.snapshots[repositoryPath]
	if !found {
		return gitrepo.RepositorySnapshot{}, fmt.Errorf("%w: %s", gitrepo.ErrNotRepository, repositoryPath)
	}
	return snapshot, nil
}

func newTestLayout(testInstance *testing.T) fixtures.Layout {
	testInstance.Helper()

	layout, layoutError := fixtures.NewLayout(testInstance.TempDir(), fixtures.DefaultLayoutConfiguration())
	require.NoError(testInstance, layoutError)
	require.NoError(testInstance, os.MkdirAll(layout.RemotePath, 0o755))
	return layout
}

func newTestURLBuilder(testInstance *testing.T) *fixtures.URLBuilder {
	testInstance.Helper()

	urlBuilder, builderError := fixtures.NewURLBuilder(fixtures.URLIdentity{Owner: "fixtures", Repository: "sample"}, nil)
	require.NoError(testInstance, builderError)
	return urlBuilder
}

func newTestScenario(testInstance *testing.T, executor *recordingGitExecutor, inspector fixtures.RepositoryInspector, layout fixtures.Layout, workingRepositoryPath string) *fixtures.Scenario {
	testInstance.Helper()

	builder, builderError := fixtures.NewBuilder(executor, nil)
	require.NoError(testInstance, builderError)

	scenario, scenarioError := fixtures.NewScenario(
		fixtures.ScenarioDependencies{Builder: builder, URLBuilder: newTestURLBuilder(testInstance), Inspector: inspector},
		fixtures.ScenarioOptions{Layout: layout, WorkingRepositoryPath: workingRepositoryPath},
	)
	require.NoError(testInstance, scenarioError)
	return scenario
}
