package commits

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/commitcounter/internal/repos/dependencies"
	"github.com/temirov/commitcounter/internal/repos/shared"
	"github.com/temirov/commitcounter/internal/utils/flags"
	pathutils "github.com/temirov/commitcounter/internal/utils/path"
)

const (
	commandUseConstant                    = "commitcounter [directory]"
	commandShortDescriptionConstant       = "Count commits per author across every Git repository under a directory"
	commandLongDescriptionConstant        = "commitcounter finds Git repositories beneath a directory (the current directory by default), counts the commits reachable from each HEAD per author, and lists every repository's origin URL."
	commandExecutionErrorTemplateConstant = "commit counting failed: %w"
	reportWriteErrorTemplateConstant      = "unable to write report: %w"
	maximumPositionalArgumentsConstant    = 1
	identitySourceFlagNameConstant        = "identity-source"
	identitySourceFlagUsageConstant       = "Group commits by normalized author name or by author email."
	flagReadErrorTemplateConstant         = "unable to read flag %s: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current commit counting configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the commit counting cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Discoverer            shared.RepositoryDiscoverer
	Opener                shared.RepositoryOpener
	RootSanitizer         *pathutils.RootPathSanitizer
}

// Build constructs the cobra command that counts commits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:          commandUseConstant,
		Short:        commandShortDescriptionConstant,
		Long:         commandLongDescriptionConstant,
		Args:         cobra.MaximumNArgs(maximumPositionalArgumentsConstant),
		RunE:         builder.run,
		SilenceUsage: true,
	}

	flags.AddRootFlag(command.Flags())
	flags.AddChoiceFlag(
		command.Flags(),
		identitySourceFlagNameConstant,
		string(IdentitySourceName),
		[]string{string(IdentitySourceName), string(IdentitySourceEmail)},
		identitySourceFlagUsageConstant,
	)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	rootSanitizer := builder.resolveRootSanitizer()
	configuration, flagError := applyFlagOverrides(command, builder.resolveConfiguration(rootSanitizer), rootSanitizer)
	if flagError != nil {
		return flagError
	}

	identitySource, identitySourceError := ParseIdentitySource(configuration.IdentitySource)
	if identitySourceError != nil {
		return identitySourceError
	}

	service := NewService(
		dependencies.ResolveRepositoryDiscoverer(builder.Discoverer),
		dependencies.ResolveRepositoryOpener(builder.Opener),
		builder.resolveLogger(),
		identitySource,
	)

	report, runError := service.Run(command.Context(), resolveRoots(rootSanitizer, arguments, configuration.Roots))
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	if writeError := report.Write(command.OutOrStdout()); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration(rootSanitizer *pathutils.RootPathSanitizer) CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize(rootSanitizer)
}

func applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration, rootSanitizer *pathutils.RootPathSanitizer) (CommandConfiguration, error) {
	commandFlags := command.Flags()

	if commandFlags.Changed(flags.RootFlagName) {
		flagRoots, rootsError := commandFlags.GetStringArray(flags.RootFlagName)
		if rootsError != nil {
			return configuration, fmt.Errorf(flagReadErrorTemplateConstant, flags.RootFlagName, rootsError)
		}
		configuration.Roots = rootSanitizer.Sanitize(flagRoots)
	}

	if commandFlags.Changed(identitySourceFlagNameConstant) {
		identitySource, identityError := flags.GetChoice(commandFlags, identitySourceFlagNameConstant)
		if identityError != nil {
			return configuration, fmt.Errorf(flagReadErrorTemplateConstant, identitySourceFlagNameConstant, identityError)
		}
		configuration.IdentitySource = identitySource
	}

	return configuration, nil
}

func (builder *CommandBuilder) resolveRootSanitizer() *pathutils.RootPathSanitizer {
	if builder.RootSanitizer != nil {
		return builder.RootSanitizer
	}
	return pathutils.NewRootPathSanitizer()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
