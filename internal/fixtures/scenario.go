package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitfixture/internal/gitrepo"
)

const (
	// UpstreamRemoteName is the remote the working repository receives during topology setup.
	UpstreamRemoteName = "upstream"
	// OriginRemoteName is the remote rewritten by PointOriginAt.
	OriginRemoteName = "origin"
	// DefaultPrimaryBranch is checked out in the upstream local repository unless configured otherwise.
	DefaultPrimaryBranch = "main"

	scenarioBuilderRequiredMessageConstant    = "scenario requires a fixture builder"
	scenarioURLBuilderRequiredMessageConstant = "scenario requires a URL builder"
	scenarioInspectorRequiredMessageConstant  = "scenario requires a repository inspector"
	expectedBareTemplateConstant              = "%s repository %s must be bare"
	expectedWorkingTreeTemplateConstant       = "%s repository %s must have a working tree"
	expectedBranchTemplateConstant            = "%s repository %s is on branch %q, expected %q"
	expectedRemoteTemplateConstant            = "%s repository %s remote %s points to %q, expected %q"
	topologySetupStartedMessageConstant       = "setting up upstream topology"
	topologySetupCompletedMessageConstant     = "upstream topology ready"
	workingCopyClonedMessageConstant          = "cloned working copy from remote"
	originUpdatedMessageConstant              = "pointed origin at hosting domain"
	logFieldRootConstant                      = "root"
	logFieldWorkingRepositoryConstant         = "working_repository"
	logFieldDomainConstant                    = "domain"
	logFieldProtocolConstant                  = "protocol"
)

const workingRepositoryRole RoleName = "working"

var (
	errScenarioBuilderRequired    = errors.New(scenarioBuilderRequiredMessageConstant)
	errScenarioURLBuilderRequired = errors.New(scenarioURLBuilderRequiredMessageConstant)
	errScenarioInspectorRequired  = errors.New(scenarioInspectorRequiredMessageConstant)
)

// RepositoryInspector reports the on-disk state of a repository.
type RepositoryInspector interface {
	Inspect(repositoryPath string) (gitrepo.RepositorySnapshot, error)
}

// ScenarioDependencies holds the collaborators a Scenario drives.
type ScenarioDependencies struct {
	Builder    *Builder
	URLBuilder *URLBuilder
	Inspector  RepositoryInspector
	Logger     *zap.Logger
}

// ScenarioOptions binds a Scenario to its filesystem layout.
type ScenarioOptions struct {
	Layout                Layout
	WorkingRepositoryPath string
	PrimaryBranch         string
}

// Scenario owns the repositories of a single test scenario.
type Scenario struct {
	builder               *Builder
	urlBuilder            *URLBuilder
	inspector             RepositoryInspector
	logger                *zap.Logger
	layout                Layout
	workingRepositoryPath string
	primaryBranch         string
}

// RoleSnapshot pairs a repository role with its inspected state.
type RoleSnapshot struct {
	Role       RoleName                    `yaml:"role"`
	Path       string                      `yaml:"path"`
	Present    bool                        `yaml:"present"`
	Repository *gitrepo.RepositorySnapshot `yaml:"repository,omitempty"`
}

// ScenarioSnapshot describes every repository of a scenario.
type ScenarioSnapshot struct {
	Root              string         `yaml:"root"`
	WorkingRepository string         `yaml:"working_repository"`
	PrimaryBranch     string         `yaml:"primary_branch"`
	Roles             []RoleSnapshot `yaml:"roles"`
}

// NewScenario validates dependencies. The working repository defaults to the layout's working copy.
func NewScenario(dependencies ScenarioDependencies, options ScenarioOptions) (*Scenario, error) {
	if dependencies.Builder == nil {
		return nil, errScenarioBuilderRequired
	}
	if dependencies.URLBuilder == nil {
		return nil, errScenarioURLBuilderRequired
	}
	if dependencies.Inspector == nil {
		return nil, errScenarioInspectorRequired
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workingRepositoryPath := strings.TrimSpace(options.WorkingRepositoryPath)
	if len(workingRepositoryPath) == 0 {
		workingRepositoryPath = options.Layout.WorkingCopyPath
	} else {
		absolutePath, absoluteError := filepath.Abs(workingRepositoryPath)
		if absoluteError != nil {
			return nil, absoluteError
		}
		workingRepositoryPath = absolutePath
	}

	primaryBranch := strings.TrimSpace(options.PrimaryBranch)
	if len(primaryBranch) == 0 {
		primaryBranch = DefaultPrimaryBranch
	}

	return &Scenario{
		builder:               dependencies.Builder,
		urlBuilder:            dependencies.URLBuilder,
		inspector:             dependencies.Inspector,
		logger:                logger,
		layout:                options.Layout,
		workingRepositoryPath: workingRepositoryPath,
		primaryBranch:         primaryBranch,
	}, nil
}

// Layout returns the scenario layout.
func (scenario *Scenario) Layout() Layout {
	return scenario.layout
}

// WorkingRepositoryPath returns the repository that receives the upstream remote and the rewritten origin.
func (scenario *Scenario) WorkingRepositoryPath() string {
	return scenario.workingRepositoryPath
}

// PrimaryBranch returns the branch checked out in the upstream local repository.
func (scenario *Scenario) PrimaryBranch() string {
	return scenario.primaryBranch
}

// SetupUpstreamTopology bare-clones the remote into the upstream remote, clones that into the
// upstream local, checks out the primary branch there and registers the upstream remote in the
// working repository. A missing working copy is first cloned from the remote, so its origin
// points at the remote. The first failing step aborts the rest.
func (scenario *Scenario) SetupUpstreamTopology(executionContext context.Context) error {
	scenario.logger.Info(
		topologySetupStartedMessageConstant,
		zap.String(logFieldRootConstant, scenario.layout.Root),
		zap.String(logFieldWorkingRepositoryConstant, scenario.workingRepositoryPath),
	)

	if workingCopyError := scenario.ensureWorkingCopy(executionContext); workingCopyError != nil {
		return workingCopyError
	}
	if cloneError := scenario.builder.CloneRepository(executionContext, scenario.layout.RemotePath, scenario.layout.UpstreamRemotePath, CloneOptions{Bare: true}); cloneError != nil {
		return cloneError
	}
	if cloneError := scenario.builder.CloneRepository(executionContext, scenario.layout.UpstreamRemotePath, scenario.layout.UpstreamLocalPath, CloneOptions{}); cloneError != nil {
		return cloneError
	}
	if checkoutError := scenario.builder.CheckoutBranch(executionContext, scenario.layout.UpstreamLocalPath, scenario.primaryBranch); checkoutError != nil {
		return checkoutError
	}
	if remoteError := scenario.builder.AddRemote(executionContext, scenario.workingRepositoryPath, UpstreamRemoteName, scenario.layout.UpstreamRemotePath); remoteError != nil {
		return remoteError
	}

	scenario.logger.Info(topologySetupCompletedMessageConstant, zap.String(logFieldRootConstant, scenario.layout.Root))
	return nil
}

// PointOriginAt rewrites origin in the working repository to the canonical URL for domain and protocol.
func (scenario *Scenario) PointOriginAt(executionContext context.Context, domain HostingDomain, protocol AccessProtocol) error {
	remoteURL, urlError := scenario.urlBuilder.BuildURLFor(domain, protocol)
	if urlError != nil {
		return urlError
	}
	if setError := scenario.builder.SetRemoteURL(executionContext, scenario.workingRepositoryPath, OriginRemoteName, remoteURL); setError != nil {
		return setError
	}

	scenario.logger.Info(
		originUpdatedMessageConstant,
		zap.String(logFieldDomainConstant, string(domain)),
		zap.String(logFieldProtocolConstant, string(protocol)),
		zap.String(logFieldRemoteURLConstant, remoteURL),
	)
	return nil
}

// VerifyUpstreamTopology checks the repositories produced by SetupUpstreamTopology.
func (scenario *Scenario) VerifyUpstreamTopology(executionContext context.Context) error {
	if contextError := executionContext.Err(); contextError != nil {
		return FixtureSetupError{Operation: OperationVerify, RepositoryPath: scenario.layout.Root, Err: contextError}
	}

	upstreamRemote, inspectError := scenario.inspect(scenario.layout.UpstreamRemotePath)
	if inspectError != nil {
		return inspectError
	}
	if !upstreamRemote.Bare {
		return scenario.mismatch(scenario.layout.UpstreamRemotePath, fmt.Sprintf(expectedBareTemplateConstant, RoleUpstreamRemote, scenario.layout.UpstreamRemotePath))
	}

	upstreamLocal, inspectError := scenario.inspect(scenario.layout.UpstreamLocalPath)
	if inspectError != nil {
		return inspectError
	}
	if upstreamLocal.Bare {
		return scenario.mismatch(scenario.layout.UpstreamLocalPath, fmt.Sprintf(expectedWorkingTreeTemplateConstant, RoleUpstreamLocal, scenario.layout.UpstreamLocalPath))
	}
	if upstreamLocal.Branch != scenario.primaryBranch {
		return scenario.mismatch(scenario.layout.UpstreamLocalPath, fmt.Sprintf(expectedBranchTemplateConstant, RoleUpstreamLocal, scenario.layout.UpstreamLocalPath, upstreamLocal.Branch, scenario.primaryBranch))
	}
	if mismatchError := scenario.requireRemotePointsTo(RoleUpstreamLocal, upstreamLocal, OriginRemoteName, scenario.layout.UpstreamRemotePath); mismatchError != nil {
		return mismatchError
	}

	workingRepository, inspectError := scenario.inspect(scenario.workingRepositoryPath)
	if inspectError != nil {
		return inspectError
	}
	return scenario.requireRemotePointsTo(workingRepositoryRole, workingRepository, UpstreamRemoteName, scenario.layout.UpstreamRemotePath)
}

// Describe inspects every role of the layout. Missing repositories are reported as absent.
func (scenario *Scenario) Describe() (ScenarioSnapshot, error) {
	snapshot := ScenarioSnapshot{
		Root:              scenario.layout.Root,
		WorkingRepository: scenario.workingRepositoryPath,
		PrimaryBranch:     scenario.primaryBranch,
	}

	for _, role := range scenario.layout.Roles() {
		roleSnapshot := RoleSnapshot{Role: role.Name, Path: role.Path}
		repositorySnapshot, inspectError := scenario.inspector.Inspect(role.Path)
		switch {
		case inspectError == nil:
			roleSnapshot.Present = true
			roleSnapshot.Repository = &repositorySnapshot
		case errors.Is(inspectError, gitrepo.ErrNotRepository):
		default:
			return ScenarioSnapshot{}, FixtureSetupError{Operation: OperationVerify, RepositoryPath: role.Path, Err: inspectError}
		}
		snapshot.Roles = append(snapshot.Roles, roleSnapshot)
	}

	return snapshot, nil
}

// ensureWorkingCopy clones the remote into the layout's working copy unless another working
// repository was chosen or the working copy already exists.
func (scenario *Scenario) ensureWorkingCopy(executionContext context.Context) error {
	if len(scenario.layout.WorkingCopyPath) == 0 || scenario.workingRepositoryPath != scenario.layout.WorkingCopyPath {
		return nil
	}
	if _, statError := os.Stat(scenario.layout.WorkingCopyPath); statError == nil {
		return nil
	} else if !errors.Is(statError, fs.ErrNotExist) {
		return newFixtureSetupError(OperationClone, scenario.layout.WorkingCopyPath, statError)
	}

	if cloneError := scenario.builder.CloneRepository(executionContext, scenario.layout.RemotePath, scenario.layout.WorkingCopyPath, CloneOptions{}); cloneError != nil {
		return cloneError
	}
	scenario.logger.Info(workingCopyClonedMessageConstant, zap.String(logFieldWorkingRepositoryConstant, scenario.layout.WorkingCopyPath))
	return nil
}

func (scenario *Scenario) inspect(repositoryPath string) (gitrepo.RepositorySnapshot, error) {
	snapshot, inspectError := scenario.inspector.Inspect(repositoryPath)
	if inspectError != nil {
		if errors.Is(inspectError, gitrepo.ErrNotRepository) {
			return gitrepo.RepositorySnapshot{}, newPreconditionError(OperationVerify, repositoryPath, ErrRepositoryPathMissing, repositoryPath)
		}
		return gitrepo.RepositorySnapshot{}, FixtureSetupError{Operation: OperationVerify, RepositoryPath: repositoryPath, Err: inspectError}
	}
	return snapshot, nil
}

func (scenario *Scenario) requireRemotePointsTo(role RoleName, snapshot gitrepo.RepositorySnapshot, remoteName string, expectedPath string) error {
	actualURL := snapshot.Remotes[remoteName]
	if !sameLocation(actualURL, expectedPath) {
		return scenario.mismatch(snapshot.Path, fmt.Sprintf(expectedRemoteTemplateConstant, role, snapshot.Path, remoteName, actualURL, expectedPath))
	}
	return nil
}

func (scenario *Scenario) mismatch(repositoryPath string, detail string) error {
	return newPreconditionError(OperationVerify, repositoryPath, ErrTopologyMismatch, detail)
}

func sameLocation(remoteURL string, expectedPath string) bool {
	if len(remoteURL) == 0 {
		return false
	}
	return filepath.Clean(remoteURL) == filepath.Clean(expectedPath)
}
