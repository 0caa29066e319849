// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with logging, lifecycle observers, and
// typed failures. Every command carries its own working directory so callers
// never change the process-wide current directory. OSCommandRunner is the
// default os/exec backed runner.
package execshell
