package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	scriptReadErrorTemplateConstant  = "reading step script %s: %w"
	scriptParseErrorTemplateConstant = "parsing step script %s: %w"
	scriptEmptyMessageConstant       = "step script defines no steps"
	scriptEmptyTemplateConstant      = "%w: %s"
)

// ErrEmptyScript is returned when a step script has no steps.
var ErrEmptyScript = errors.New(scriptEmptyMessageConstant)

// Script is an ordered list of step texts.
type Script struct {
	Steps []string `yaml:"steps"`
}

type scriptDocument struct {
	Steps    []string `yaml:"steps"`
	Scenario *Script  `yaml:"scenario"`
}

// LoadScript reads a YAML step script. Steps may sit at the top level or under a scenario key.
func LoadScript(scriptPath string) (Script, error) {
	contents, readError := os.ReadFile(scriptPath)
	if readError != nil {
		return Script{}, fmt.Errorf(scriptReadErrorTemplateConstant, scriptPath, readError)
	}
	return ParseScript(scriptPath, contents)
}

// ParseScript decodes script contents; sourceName only labels errors.
func ParseScript(sourceName string, contents []byte) (Script, error) {
	var document scriptDocument
	if decodeError := yaml.Unmarshal(contents, &document); decodeError != nil {
		return Script{}, fmt.Errorf(scriptParseErrorTemplateConstant, sourceName, decodeError)
	}

	steps := document.Steps
	if document.Scenario != nil {
		steps = append(steps, document.Scenario.Steps...)
	}

	script := Script{}
	for _, step := range steps {
		trimmedStep := strings.TrimSpace(step)
		if len(trimmedStep) == 0 {
			continue
		}
		script.Steps = append(script.Steps, trimmedStep)
	}
	if len(script.Steps) == 0 {
		return Script{}, fmt.Errorf(scriptEmptyTemplateConstant, ErrEmptyScript, sourceName)
	}
	return script, nil
}

// RunScript dispatches each step in order and stops at the first failure.
func RunScript(executionContext context.Context, scenario *Scenario, definitions []StepDefinition, script Script) error {
	for _, step := range script.Steps {
		if dispatchError := Dispatch(executionContext, scenario, definitions, step); dispatchError != nil {
			return dispatchError
		}
	}
	return nil
}
