package fixtures_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitfixture/internal/execshell"
	"github.com/temirov/gitfixture/internal/fixtures"
	"github.com/temirov/gitfixture/internal/gitrepo"
)

func TestScenarioAgainstGitExecutable(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	executionContext := context.Background()
	workingDirectoryBefore, getwdError := os.Getwd()
	require.NoError(testInstance, getwdError)

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	builder, builderError := fixtures.NewBuilder(shellExecutor, zap.NewNop())
	require.NoError(testInstance, builderError)

	layout, layoutError := fixtures.NewLayout(filepath.Join(testInstance.TempDir(), "my scenario"), fixtures.DefaultLayoutConfiguration())
	require.NoError(testInstance, layoutError)
	seedRemoteRepository(testInstance, builder, layout)

	scenario, scenarioError := fixtures.NewScenario(
		fixtures.ScenarioDependencies{Builder: builder, URLBuilder: newTestURLBuilder(testInstance), Inspector: gitrepo.NewRepositoryInspector()},
		fixtures.ScenarioOptions{Layout: layout},
	)
	require.NoError(testInstance, scenarioError)

	require.NoError(testInstance, scenario.SetupUpstreamTopology(executionContext))
	require.NoError(testInstance, scenario.VerifyUpstreamTopology(executionContext))

	remoteLinks, listError := builder.ListRemotes(executionContext, layout.WorkingCopyPath)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []fixtures.RemoteLink{
		{RepositoryPath: layout.WorkingCopyPath, Name: fixtures.OriginRemoteName, URL: layout.RemotePath, Protocol: fixtures.AccessProtocolLocal},
		{RepositoryPath: layout.WorkingCopyPath, Name: fixtures.UpstreamRemoteName, URL: layout.UpstreamRemotePath, Protocol: fixtures.AccessProtocolLocal},
	}, remoteLinks)

	require.NoError(testInstance, scenario.PointOriginAt(executionContext, fixtures.HostingDomainGitHub, fixtures.AccessProtocolSSH))
	originURL, originError := builder.RemoteURL(executionContext, layout.WorkingCopyPath, fixtures.OriginRemoteName)
	require.NoError(testInstance, originError)
	require.Equal(testInstance, "git@github.com:fixtures/sample.git", originURL)

	upstreamURL, upstreamError := builder.RemoteURL(executionContext, layout.WorkingCopyPath, fixtures.UpstreamRemoteName)
	require.NoError(testInstance, upstreamError)
	require.Equal(testInstance, layout.UpstreamRemotePath, upstreamURL)

	duplicateError := scenario.SetupUpstreamTopology(executionContext)
	require.ErrorIs(testInstance, duplicateError, fixtures.ErrDestinationExists)

	_, checkoutError := builder.RunInRepository(executionContext, layout.UpstreamLocalPath, "checkout", "missing-branch")
	var setupError fixtures.FixtureSetupError
	require.ErrorAs(testInstance, checkoutError, &setupError)
	require.NotEmpty(testInstance, setupError.StandardError)

	workingDirectoryAfter, getwdError := os.Getwd()
	require.NoError(testInstance, getwdError)
	require.Equal(testInstance, workingDirectoryBefore, workingDirectoryAfter)
}

func seedRemoteRepository(testInstance *testing.T, builder *fixtures.Builder, layout fixtures.Layout) {
	testInstance.Helper()

	executionContext := context.Background()
	require.NoError(testInstance, os.MkdirAll(layout.Root, 0o755))
	_, initError := builder.RunInRepository(executionContext, layout.Root, "init", "--quiet", layout.RemotePath)
	require.NoError(testInstance, initError)
	_, headError := builder.RunInRepository(executionContext, layout.RemotePath, "symbolic-ref", "HEAD", "refs/heads/main")
	require.NoError(testInstance, headError)
	_, commitError := builder.RunInRepository(executionContext, layout.RemotePath,
		"-c", "user.name=Fixture", "-c", "user.email=fixture@example.com", "-c", "commit.gpgsign=false",
		"commit", "--quiet", "--allow-empty", "-m", "initial")
	require.NoError(testInstance, commitError)
}
