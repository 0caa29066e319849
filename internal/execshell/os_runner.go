package execshell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	executableOverrides map[CommandName]string
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// NewOSCommandRunnerWithExecutables constructs a runner that resolves command names through the provided overrides.
func NewOSCommandRunnerWithExecutables(executableOverrides map[CommandName]string) *OSCommandRunner {
	duplicatedOverrides := make(map[CommandName]string, len(executableOverrides))
	for commandName, executablePath := range executableOverrides {
		trimmedPath := strings.TrimSpace(executablePath)
		if len(trimmedPath) == 0 {
			continue
		}
		duplicatedOverrides[commandName] = trimmedPath
	}
	return &OSCommandRunner{executableOverrides: duplicatedOverrides}
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, runner.resolveExecutable(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func (runner *OSCommandRunner) resolveExecutable(commandName CommandName) string {
	if runner != nil {
		if executablePath, overridden := runner.executableOverrides[commandName]; overridden {
			return executablePath
		}
	}
	return string(commandName)
}
