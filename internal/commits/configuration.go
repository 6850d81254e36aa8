package commits

import (
	"strings"

	pathutils "github.com/temirov/commitcounter/internal/utils/path"
)

const (
	configurationKeySeparatorConstant      = "."
	configurationRootsKeyConstant          = "roots"
	configurationIdentitySourceKeyConstant = "identity_source"
	defaultRootPathConstant                = "."
)

// CommandConfiguration captures persistent settings for the commit counting command.
type CommandConfiguration struct {
	Roots          []string `mapstructure:"roots"`
	IdentitySource string   `mapstructure:"identity_source"`
}

// DefaultCommandConfiguration returns baseline configuration values for the commit counting command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:          nil,
		IdentitySource: string(IdentitySourceName),
	}
}

// DefaultConfigurationValues exposes the defaults keyed for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationRootsKeyConstant:          defaults.Roots,
		rootKey + configurationKeySeparatorConstant + configurationIdentitySourceKeyConstant: defaults.IdentitySource,
	}
}

// sanitize trims whitespace, expands home shortcuts in roots, and drops empty roots.
func (configuration CommandConfiguration) sanitize(rootSanitizer *pathutils.RootPathSanitizer) CommandConfiguration {
	sanitized := configuration

	sanitized.Roots = rootSanitizer.Sanitize(configuration.Roots)
	sanitized.IdentitySource = strings.TrimSpace(configuration.IdentitySource)

	return sanitized
}

// resolveRoots prefers the positional directory, then configured roots, then the working directory.
func resolveRoots(rootSanitizer *pathutils.RootPathSanitizer, arguments []string, configuredRoots []string) []string {
	argumentRoots := rootSanitizer.Sanitize(arguments)
	if len(argumentRoots) > 0 {
		return argumentRoots
	}
	if len(configuredRoots) > 0 {
		return append([]string{}, configuredRoots...)
	}
	return []string{defaultRootPathConstant}
}
