package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	gitCloneSubcommandNameConstant        = "clone"
	gitBareFlagConstant                   = "--bare"
	gitCheckoutSubcommandNameConstant     = "checkout"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteAddSubcommandNameConstant    = "add"
	gitRemoteSetURLSubcommandNameConstant = "set-url"
	gitRemoteRemoveSubcommandNameConstant = "remove"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
)

// stageTemplates holds the start, success, failure, and execution failure templates of one operation.
type stageTemplates [4]string

var (
	gitCloneTemplates = stageTemplates{
		"Cloning %s into %s",
		"Cloned %s into %s",
		"Failed to clone %s into %s (exit code %d%s)",
		"Unable to clone %s into %s: %s",
	}
	gitBareCloneTemplates = stageTemplates{
		"Cloning %s into bare repository %s",
		"Cloned %s into bare repository %s",
		"Failed to clone %s into bare repository %s (exit code %d%s)",
		"Unable to clone %s into bare repository %s: %s",
	}
	gitCheckoutTemplates = stageTemplates{
		"Switching %s to branch %s",
		"%s now on branch %s",
		"Failed to switch %s to branch %s (exit code %d%s)",
		"Unable to switch %s to branch %s: %s",
	}
	gitRemoteAddTemplates = stageTemplates{
		"Adding %s remote to %s pointing to %s",
		"Added %s remote to %s pointing to %s",
		"Failed to add %s remote to %s pointing to %s (exit code %d%s)",
		"Unable to add %s remote to %s pointing to %s: %s",
	}
	gitRemoteSetURLTemplates = stageTemplates{
		"Updating %s remote for %s to %s",
		"%s remote for %s now points to %s",
		"Failed to update %s remote for %s to %s (exit code %d%s)",
		"Unable to update %s remote for %s to %s: %s",
	}
	gitRemoteRemoveTemplates = stageTemplates{
		"Removing %s remote from %s",
		"Removed %s remote from %s",
		"Failed to remove %s remote from %s (exit code %d%s)",
		"Unable to remove %s remote from %s: %s",
	}
	gitRemoteGetURLTemplates = stageTemplates{
		"Checking %s remote for %s",
		"Read %s remote for %s",
		"Failed to read %s remote for %s (exit code %d%s)",
		"Unable to read %s remote for %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		if message, described := formatter.describeGitMessage(command, result, failure, stage); described {
			return message
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) (string, bool) {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return emptyStringConstant, false
	}

	repositoryLabel := formatter.workingDirectoryLabel(command)

	switch strings.TrimSpace(arguments[0]) {
	case gitCloneSubcommandNameConstant:
		positionalArguments, bare := splitCloneArguments(arguments[1:])
		if len(positionalArguments) != 2 {
			return emptyStringConstant, false
		}
		templates := gitCloneTemplates
		if bare {
			templates = gitBareCloneTemplates
		}
		return formatter.render(templates, stage, result, failure, positionalArguments[0], positionalArguments[1]), true
	case gitCheckoutSubcommandNameConstant:
		if len(arguments) != 2 {
			return emptyStringConstant, false
		}
		return formatter.render(gitCheckoutTemplates, stage, result, failure, repositoryLabel, arguments[1]), true
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(arguments[1:], repositoryLabel, result, failure, stage)
	default:
		return emptyStringConstant, false
	}
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(arguments []string, repositoryLabel string, result ExecutionResult, failure error, stage messageStage) (string, bool) {
	if len(arguments) < 2 {
		return emptyStringConstant, false
	}

	switch strings.TrimSpace(arguments[0]) {
	case gitRemoteAddSubcommandNameConstant:
		if len(arguments) != 3 {
			return emptyStringConstant, false
		}
		return formatter.render(gitRemoteAddTemplates, stage, result, failure, arguments[1], repositoryLabel, arguments[2]), true
	case gitRemoteSetURLSubcommandNameConstant:
		if len(arguments) != 3 {
			return emptyStringConstant, false
		}
		return formatter.render(gitRemoteSetURLTemplates, stage, result, failure, arguments[1], repositoryLabel, arguments[2]), true
	case gitRemoteRemoveSubcommandNameConstant:
		return formatter.render(gitRemoteRemoveTemplates, stage, result, failure, arguments[1], repositoryLabel), true
	case gitRemoteGetURLSubcommandNameConstant:
		return formatter.render(gitRemoteGetURLTemplates, stage, result, failure, arguments[1], repositoryLabel), true
	default:
		return emptyStringConstant, false
	}
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, stage messageStage, result ExecutionResult, failure error, values ...any) string {
	switch stage {
	case messageStageFailure:
		values = append(values, result.ExitCode, formatter.standardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		values = append(values, formatter.failureDescription(failure))
	}
	return fmt.Sprintf(templates[stage], values...)
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := command.Label()
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		commandLabel += fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.standardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.failureDescription(failure))
	}
}

func (formatter CommandMessageFormatter) workingDirectoryLabel(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) standardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) failureDescription(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func splitCloneArguments(arguments []string) ([]string, bool) {
	positionalArguments := make([]string, 0, len(arguments))
	bare := false
	for _, argument := range arguments {
		if argument == gitBareFlagConstant {
			bare = true
			continue
		}
		if strings.HasPrefix(argument, "-") {
			continue
		}
		positionalArguments = append(positionalArguments, argument)
	}
	return positionalArguments, bare
}
