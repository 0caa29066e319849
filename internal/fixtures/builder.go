package fixtures

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitfixture/internal/execshell"
)

const (
	gitCloneSubcommandConstant        = "clone"
	gitBareFlagConstant               = "--bare"
	gitCheckoutSubcommandConstant     = "checkout"
	gitRemoteSubcommandConstant       = "remote"
	gitRemoteVerboseFlagConstant      = "-v"
	gitRemoteAddSubcommandConstant    = "add"
	gitRemoteSetURLSubcommandConstant = "set-url"
	gitRemoteRemoveSubcommandConstant = "remove"
	gitRemoteGetURLSubcommandConstant = "get-url"
	gitRemoteFetchSuffixConstant      = " (fetch)"
	gitRemoteListingSeparatorConstant = "\t"
	notDirectoryDetailConstant        = "not a directory: "
	logFieldSourceConstant            = "source"
	logFieldDestinationConstant       = "destination"
	logFieldBareConstant              = "bare"
	logFieldRepositoryConstant        = "repository"
	logFieldRemoteNameConstant        = "remote"
	logFieldRemoteURLConstant         = "url"
	cloneCompletedMessageConstant     = "cloned fixture repository"
	remoteAddedMessageConstant        = "added fixture remote"
	remoteUpdatedMessageConstant      = "updated fixture remote"
	remoteRemovedMessageConstant      = "removed fixture remote"
)

// GitExecutor exposes the subset of shell execution used by the builder.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CloneOptions configures CloneRepository.
type CloneOptions struct {
	Bare bool
}

// RemoteLink describes a named remote registered in a repository.
type RemoteLink struct {
	RepositoryPath string
	Name           string
	URL            string
	Protocol       AccessProtocol
}

// Builder creates fixture repositories and edits their remotes.
// Each operation blocks until its git subprocess exits.
type Builder struct {
	executor GitExecutor
	logger   *zap.Logger
}

// NewBuilder constructs a Builder. A nil logger disables logging.
func NewBuilder(executor GitExecutor, logger *zap.Logger) (*Builder, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{executor: executor, logger: logger}, nil
}

// CloneRepository clones sourcePath into destinationPath, which must not exist yet.
func (builder *Builder) CloneRepository(executionContext context.Context, sourcePath string, destinationPath string, options CloneOptions) error {
	absoluteSource, sourceError := requireDirectory(OperationClone, sourcePath)
	if sourceError != nil {
		return sourceError
	}

	absoluteDestination, destinationError := filepath.Abs(destinationPath)
	if destinationError != nil {
		return newFixtureSetupError(OperationClone, destinationPath, destinationError)
	}
	if _, statError := os.Lstat(absoluteDestination); statError == nil {
		return newPreconditionError(OperationClone, absoluteDestination, ErrDestinationExists, absoluteDestination)
	} else if !errors.Is(statError, fs.ErrNotExist) {
		return newFixtureSetupError(OperationClone, absoluteDestination, statError)
	}

	arguments := []string{gitCloneSubcommandConstant}
	if options.Bare {
		arguments = append(arguments, gitBareFlagConstant)
	}
	arguments = append(arguments, absoluteSource, absoluteDestination)

	_, cloneError := builder.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: absoluteSource,
	})
	if cloneError != nil {
		return newFixtureSetupError(OperationClone, absoluteDestination, cloneError)
	}

	builder.logger.Debug(
		cloneCompletedMessageConstant,
		zap.String(logFieldSourceConstant, absoluteSource),
		zap.String(logFieldDestinationConstant, absoluteDestination),
		zap.Bool(logFieldBareConstant, options.Bare),
	)
	return nil
}

// RunInRepository runs git with the supplied arguments inside repositoryPath.
// The directory is handed to the subprocess only; the caller's working directory is never changed.
func (builder *Builder) RunInRepository(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	_, executionResult, runError := builder.runInRepository(executionContext, OperationRun, repositoryPath, arguments...)
	return executionResult, runError
}

// CheckoutBranch checks out branchName inside repositoryPath.
func (builder *Builder) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, _, checkoutError := builder.runInRepository(executionContext, OperationCheckout, repositoryPath, gitCheckoutSubcommandConstant, branchName)
	return checkoutError
}

// ListRemotes returns the remotes registered in repositoryPath ordered by name.
func (builder *Builder) ListRemotes(executionContext context.Context, repositoryPath string) ([]RemoteLink, error) {
	absolutePath, executionResult, listError := builder.runInRepository(executionContext, OperationListRemotes, repositoryPath, gitRemoteSubcommandConstant, gitRemoteVerboseFlagConstant)
	if listError != nil {
		return nil, listError
	}
	return parseRemoteListing(absolutePath, executionResult.StandardOutput), nil
}

// RemoteURL returns the URL of remoteName in repositoryPath.
func (builder *Builder) RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if _, existsError := builder.requireRemote(executionContext, OperationGetRemoteURL, repositoryPath, remoteName, true); existsError != nil {
		return "", existsError
	}
	_, executionResult, lookupError := builder.runInRepository(executionContext, OperationGetRemoteURL, repositoryPath, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName)
	if lookupError != nil {
		return "", lookupError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// AddRemote registers remoteName pointing at remoteURL. It fails with ErrRemoteExists when the name is taken.
func (builder *Builder) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	if _, existsError := builder.requireRemote(executionContext, OperationAddRemote, repositoryPath, remoteName, false); existsError != nil {
		return existsError
	}
	if _, _, addError := builder.runInRepository(executionContext, OperationAddRemote, repositoryPath, gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL); addError != nil {
		return addError
	}
	builder.logger.Debug(remoteAddedMessageConstant, zap.String(logFieldRepositoryConstant, repositoryPath), zap.String(logFieldRemoteNameConstant, remoteName), zap.String(logFieldRemoteURLConstant, remoteURL))
	return nil
}

// SetRemoteURL rewrites the URL of an existing remote. It fails with ErrRemoteNotFound when the name is unknown.
func (builder *Builder) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	if _, existsError := builder.requireRemote(executionContext, OperationSetRemoteURL, repositoryPath, remoteName, true); existsError != nil {
		return existsError
	}
	if _, _, setError := builder.runInRepository(executionContext, OperationSetRemoteURL, repositoryPath, gitRemoteSubcommandConstant, gitRemoteSetURLSubcommandConstant, remoteName, remoteURL); setError != nil {
		return setError
	}
	builder.logger.Debug(remoteUpdatedMessageConstant, zap.String(logFieldRepositoryConstant, repositoryPath), zap.String(logFieldRemoteNameConstant, remoteName), zap.String(logFieldRemoteURLConstant, remoteURL))
	return nil
}

// RemoveRemote unregisters an existing remote. It fails with ErrRemoteNotFound when the name is unknown.
func (builder *Builder) RemoveRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	if _, existsError := builder.requireRemote(executionContext, OperationRemoveRemote, repositoryPath, remoteName, true); existsError != nil {
		return existsError
	}
	if _, _, removeError := builder.runInRepository(executionContext, OperationRemoveRemote, repositoryPath, gitRemoteSubcommandConstant, gitRemoteRemoveSubcommandConstant, remoteName); removeError != nil {
		return removeError
	}
	builder.logger.Debug(remoteRemovedMessageConstant, zap.String(logFieldRepositoryConstant, repositoryPath), zap.String(logFieldRemoteNameConstant, remoteName))
	return nil
}

// runInRepository returns the validated absolute repository path along with the git result.
func (builder *Builder) runInRepository(executionContext context.Context, operation string, repositoryPath string, arguments ...string) (string, execshell.ExecutionResult, error) {
	absolutePath, directoryError := requireDirectory(operation, repositoryPath)
	if directoryError != nil {
		return "", execshell.ExecutionResult{}, directoryError
	}
	if len(arguments) == 0 {
		return "", execshell.ExecutionResult{}, FixtureSetupError{Operation: operation, RepositoryPath: absolutePath, Err: ErrGitArgumentsRequired}
	}

	executionResult, executionError := builder.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        append([]string{}, arguments...),
		WorkingDirectory: absolutePath,
	})
	if executionError != nil {
		return "", execshell.ExecutionResult{}, newFixtureSetupError(operation, absolutePath, executionError)
	}
	return absolutePath, executionResult, nil
}

// requireRemote checks the presence of remoteName, failing when its presence differs from mustExist.
func (builder *Builder) requireRemote(executionContext context.Context, operation string, repositoryPath string, remoteName string, mustExist bool) ([]RemoteLink, error) {
	trimmedName := strings.TrimSpace(remoteName)
	if len(trimmedName) == 0 {
		return nil, FixtureSetupError{Operation: operation, RepositoryPath: repositoryPath, Err: ErrRemoteNameRequired}
	}

	remoteLinks, listError := builder.ListRemotes(executionContext, repositoryPath)
	if listError != nil {
		var setupError FixtureSetupError
		if errors.As(listError, &setupError) {
			setupError.Operation = operation
			return nil, setupError
		}
		return nil, listError
	}

	exists := false
	for _, remoteLink := range remoteLinks {
		if remoteLink.Name == trimmedName {
			exists = true
			break
		}
	}

	switch {
	case exists && !mustExist:
		return nil, newPreconditionError(operation, repositoryPath, ErrRemoteExists, trimmedName)
	case !exists && mustExist:
		return nil, newPreconditionError(operation, repositoryPath, ErrRemoteNotFound, trimmedName)
	default:
		return remoteLinks, nil
	}
}

func requireDirectory(operation string, repositoryPath string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(repositoryPath)
	if absoluteError != nil {
		return "", newFixtureSetupError(operation, repositoryPath, absoluteError)
	}

	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return "", newPreconditionError(operation, absolutePath, ErrRepositoryPathMissing, absolutePath)
		}
		return "", newFixtureSetupError(operation, absolutePath, statError)
	}
	if !fileInfo.IsDir() {
		return "", newPreconditionError(operation, absolutePath, ErrRepositoryPathMissing, notDirectoryDetailConstant+absolutePath)
	}
	return absolutePath, nil
}

// parseRemoteListing reads `git remote -v` output, keeping the fetch URL of each remote.
// Lines have the form "<name>\t<url> (fetch)"; URLs may contain spaces.
func parseRemoteListing(repositoryPath string, listing string) []RemoteLink {
	remoteURLs := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		remoteName, remoteLocation, separated := strings.Cut(scanner.Text(), gitRemoteListingSeparatorConstant)
		remoteName = strings.TrimSpace(remoteName)
		if !separated || len(remoteName) == 0 {
			continue
		}
		remoteURL, isFetch := strings.CutSuffix(remoteLocation, gitRemoteFetchSuffixConstant)
		if !isFetch {
			continue
		}
		remoteURLs[remoteName] = strings.TrimSpace(remoteURL)
	}

	remoteLinks := make([]RemoteLink, 0, len(remoteURLs))
	for remoteName, remoteURL := range remoteURLs {
		remoteLinks = append(remoteLinks, RemoteLink{
			RepositoryPath: repositoryPath,
			Name:           remoteName,
			URL:            remoteURL,
			Protocol:       DetectAccessProtocol(remoteURL),
		})
	}
	sort.Slice(remoteLinks, func(leftIndex int, rightIndex int) bool {
		return remoteLinks[leftIndex].Name < remoteLinks[rightIndex].Name
	})
	return remoteLinks
}
