package fixtures

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	upstreamRepositoryStepPatternConstant = `^my repo has an upstream repo$`
	originHostingStepPatternConstant      = `^my remote origin is on (GitHub|Bitbucket) through (HTTPS|SSH)$`
	undefinedStepMessageConstant          = "undefined step"
	undefinedStepTemplateConstant         = "%w: %q"
	stepFailedTemplateConstant            = "step %q: %w"
)

// ErrUndefinedStep is returned when no step definition matches the step text.
var ErrUndefinedStep = errors.New(undefinedStepMessageConstant)

// StepHandler executes a matched step. Arguments are the regular expression submatches.
type StepHandler func(executionContext context.Context, scenario *Scenario, arguments []string) error

// StepDefinition binds a step pattern to its handler.
type StepDefinition struct {
	Pattern *regexp.Regexp
	Handler StepHandler
}

// StepDefinitions returns the bindings for the fixture steps.
func StepDefinitions() []StepDefinition {
	return []StepDefinition{
		{
			Pattern: regexp.MustCompile(upstreamRepositoryStepPatternConstant),
			Handler: func(executionContext context.Context, scenario *Scenario, _ []string) error {
				return scenario.SetupUpstreamTopology(executionContext)
			},
		},
		{
			Pattern: regexp.MustCompile(originHostingStepPatternConstant),
			Handler: func(executionContext context.Context, scenario *Scenario, arguments []string) error {
				domain, domainError := ParseHostingDomain(arguments[0])
				if domainError != nil {
					return domainError
				}
				protocol, protocolError := ParseAccessProtocol(arguments[1])
				if protocolError != nil {
					return protocolError
				}
				return scenario.PointOriginAt(executionContext, domain, protocol)
			},
		},
	}
}

// Dispatch runs the first definition whose pattern matches stepText.
func Dispatch(executionContext context.Context, scenario *Scenario, definitions []StepDefinition, stepText string) error {
	trimmedText := strings.TrimSpace(stepText)
	for _, definition := range definitions {
		submatches := definition.Pattern.FindStringSubmatch(trimmedText)
		if submatches == nil {
			continue
		}
		if handlerError := definition.Handler(executionContext, scenario, submatches[1:]); handlerError != nil {
			return fmt.Errorf(stepFailedTemplateConstant, trimmedText, handlerError)
		}
		return nil
	}
	return fmt.Errorf(undefinedStepTemplateConstant, ErrUndefinedStep, trimmedText)
}
