// Package flags provides helpers for binding the commit counter's command-line flags to Cobra commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix        = "<"
	choicePlaceholderSuffix        = ">"
	choiceSeparatorLiteral         = "|"
	choiceUnsupportedErrorTemplate = "unsupported value %q (expected one of %s)"
	choiceUnknownFlagErrorTemplate = "flag %s is not registered"
)

// FormatChoicePlaceholder renders the choices as a placeholder with the default option capitalized.
func FormatChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

// AddChoiceFlag registers a string flag restricted to the provided choices. Values are matched
// case-insensitively and stored lowercased; help shows the placeholder from FormatChoicePlaceholder
// in place of a type name. Read the value back with GetChoice.
func AddChoiceFlag(flagSet *pflag.FlagSet, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := &choiceFlagValue{
		currentValue: normalizeChoice(defaultChoice),
		choices:      distinctChoices(choices),
		placeholder:  FormatChoicePlaceholder(defaultChoice, choices),
	}
	flagSet.Var(value, name, strings.TrimSpace(description))
}

// GetChoice returns the current value of a flag registered with AddChoiceFlag.
func GetChoice(flagSet *pflag.FlagSet, name string) (string, error) {
	flag := flagSet.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf(choiceUnknownFlagErrorTemplate, name)
	}
	return flag.Value.String(), nil
}

type choiceFlagValue struct {
	currentValue string
	choices      []string
	placeholder  string
}

func (value *choiceFlagValue) Set(rawValue string) error {
	normalizedValue := normalizeChoice(rawValue)
	for _, choice := range value.choices {
		if choice == normalizedValue {
			value.currentValue = normalizedValue
			return nil
		}
	}
	return fmt.Errorf(choiceUnsupportedErrorTemplate, rawValue, strings.Join(value.choices, ", "))
}

func (value *choiceFlagValue) String() string {
	return value.currentValue
}

func (value *choiceFlagValue) Type() string {
	return value.placeholder
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := normalizeChoice(defaultChoice)
	highlighted := make([]string, 0, len(choices))
	for _, choice := range distinctChoices(choices) {
		displayValue := choice
		if choice == normalizedDefault {
			displayValue = strings.ToUpper(choice)
		}
		highlighted = append(highlighted, displayValue)
	}
	return highlighted
}

func distinctChoices(choices []string) []string {
	distinct := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		distinct = append(distinct, normalizedChoice)
	}
	return distinct
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}
