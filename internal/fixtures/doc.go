// Package fixtures builds linked on-disk git repositories for behavior-driven tests.
//
// Builder clones repositories and edits their remotes by running git as a
// subprocess whose working directory is passed explicitly, so fixture
// construction never mutates the process working directory. Scenario composes
// those operations into the upstream topology used by test steps, and
// StepDefinitions binds the textual step patterns to Scenario methods for
// callers without a dedicated behavior-driven framework.
package fixtures
