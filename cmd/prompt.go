package cmd

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	if defaultValue != "" {
		prompt.Default = defaultValue
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}
