package fixtures

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitfixture/internal/execshell"
)

const (
	fixtureSetupErrorTemplateConstant       = "fixture setup failed: %s in %s: %v"
	fixtureSetupErrorWithoutPathTemplate    = "fixture setup failed: %s: %v"
	configurationErrorTemplateConstant      = "invalid %s %q: %s"
	repositoryPathMissingMessageConstant    = "repository path does not exist"
	destinationExistsMessageConstant        = "destination path already exists"
	remoteExistsMessageConstant             = "remote already exists"
	remoteNotFoundMessageConstant           = "remote does not exist"
	remoteNameRequiredMessageConstant       = "remote name must be provided"
	gitArgumentsRequiredMessageConstant     = "git arguments must be provided"
	topologyMismatchMessageConstant         = "fixture topology does not match expectations"
	gitExecutorNotConfiguredMessageConstant = "fixture builder requires a git executor"
	sentinelDetailTemplateConstant          = "%w: %s"
)

// Operation names recorded on FixtureSetupError.
const (
	OperationClone        = "clone"
	OperationRun          = "run"
	OperationCheckout     = "checkout"
	OperationAddRemote    = "add remote"
	OperationSetRemoteURL = "set remote url"
	OperationRemoveRemote = "remove remote"
	OperationListRemotes  = "list remotes"
	OperationGetRemoteURL = "get remote url"
	OperationVerify       = "verify topology"
)

var (
	// ErrRepositoryPathMissing indicates that a path expected to hold a repository does not exist.
	ErrRepositoryPathMissing = errors.New(repositoryPathMissingMessageConstant)
	// ErrDestinationExists indicates that a clone destination is already occupied.
	ErrDestinationExists = errors.New(destinationExistsMessageConstant)
	// ErrRemoteExists indicates that a remote name is already registered in the repository.
	ErrRemoteExists = errors.New(remoteExistsMessageConstant)
	// ErrRemoteNotFound indicates that a remote name is not registered in the repository.
	ErrRemoteNotFound = errors.New(remoteNotFoundMessageConstant)
	// ErrRemoteNameRequired indicates that an empty remote name was supplied.
	ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)
	// ErrGitArgumentsRequired indicates that RunInRepository received no git arguments.
	ErrGitArgumentsRequired = errors.New(gitArgumentsRequiredMessageConstant)
	// ErrTopologyMismatch indicates that VerifyUpstreamTopology found an unexpected repository state.
	ErrTopologyMismatch = errors.New(topologyMismatchMessageConstant)
	// ErrGitExecutorNotConfigured indicates that NewBuilder received a nil executor.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)
)

// FixtureSetupError reports a failed fixture operation. StandardError holds the
// git output verbatim when the failure came from a non-zero exit code.
type FixtureSetupError struct {
	Operation      string
	RepositoryPath string
	StandardError  string
	Err            error
}

// Error describes the failed operation.
func (setupError FixtureSetupError) Error() string {
	if len(setupError.RepositoryPath) == 0 {
		return fmt.Sprintf(fixtureSetupErrorWithoutPathTemplate, setupError.Operation, setupError.Err)
	}
	return fmt.Sprintf(fixtureSetupErrorTemplateConstant, setupError.Operation, setupError.RepositoryPath, setupError.Err)
}

// Unwrap exposes the underlying cause.
func (setupError FixtureSetupError) Unwrap() error {
	return setupError.Err
}

// ConfigurationError reports an unrecognized or invalid configuration value.
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
}

// Error describes the invalid value.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Field, configurationError.Value, configurationError.Message)
}

func newFixtureSetupError(operation string, repositoryPath string, cause error) FixtureSetupError {
	setupError := FixtureSetupError{Operation: operation, RepositoryPath: repositoryPath, Err: cause}

	var commandFailure execshell.CommandFailedError
	if errors.As(cause, &commandFailure) {
		setupError.StandardError = strings.TrimSpace(commandFailure.Result.StandardError)
	}

	return setupError
}

func newPreconditionError(operation string, repositoryPath string, sentinel error, detail string) FixtureSetupError {
	return FixtureSetupError{Operation: operation, RepositoryPath: repositoryPath, Err: fmt.Errorf(sentinelDetailTemplateConstant, sentinel, detail)}
}
