package gitrepo_test

import (
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitfixture/internal/gitrepo"
)

const (
	testPrimaryBranchConstant = "main"
	testUpstreamURLConstant   = "/tmp/fixtures/upstream-remote"
	testOriginURLConstant     = "git@github.com:fixtures/sample.git"
)

func initializeRepository(testInstance *testing.T, repositoryPath string, bare bool, remotes map[string]string) {
	testInstance.Helper()

	repository, initError := gogit.PlainInit(repositoryPath, bare)
	require.NoError(testInstance, initError)

	headReference := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(testPrimaryBranchConstant))
	require.NoError(testInstance, repository.Storer.SetReference(headReference))

	for remoteName, remoteURL := range remotes {
		_, remoteError := repository.CreateRemote(&config.RemoteConfig{Name: remoteName, URLs: []string{remoteURL}})
		require.NoError(testInstance, remoteError)
	}
}

func TestRepositoryInspectorReportsWorkingRepository(testInstance *testing.T) {
	repositoryPath := filepath.Join(testInstance.TempDir(), "remote")
	initializeRepository(testInstance, repositoryPath, false, map[string]string{
		"origin":   testOriginURLConstant,
		"upstream": testUpstreamURLConstant,
	})

	snapshot, inspectError := gitrepo.NewRepositoryInspector().Inspect(repositoryPath)
	require.NoError(testInstance, inspectError)
	require.False(testInstance, snapshot.Bare)
	require.Equal(testInstance, testPrimaryBranchConstant, snapshot.Branch)
	require.Equal(testInstance, []string{"origin", "upstream"}, snapshot.RemoteNames())
	require.Equal(testInstance, testUpstreamURLConstant, snapshot.Remotes["upstream"])
}

func TestRepositoryInspectorReportsBareRepository(testInstance *testing.T) {
	repositoryPath := filepath.Join(testInstance.TempDir(), "upstream-remote")
	initializeRepository(testInstance, repositoryPath, true, nil)

	snapshot, inspectError := gitrepo.NewRepositoryInspector().Inspect(repositoryPath)
	require.NoError(testInstance, inspectError)
	require.True(testInstance, snapshot.Bare)
	require.Empty(testInstance, snapshot.RemoteNames())
}

func TestRepositoryInspectorRejectsMissingRepository(testInstance *testing.T) {
	_, inspectError := gitrepo.NewRepositoryInspector().Inspect(testInstance.TempDir())
	require.ErrorIs(testInstance, inspectError, gitrepo.ErrNotRepository)
}
