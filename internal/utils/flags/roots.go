package flags

import "github.com/spf13/pflag"

const (
	// RootFlagName exposes the repeatable repository root flag name.
	RootFlagName = "root"
	// RootFlagUsage describes the repository root flag purpose.
	RootFlagUsage = "Directory to scan for repositories (repeatable); a positional directory takes precedence"
)

// AddRootFlag registers the repeatable root flag. Read the values back with pflag.FlagSet.GetStringArray.
func AddRootFlag(flagSet *pflag.FlagSet) {
	if flagSet == nil {
		return
	}
	flagSet.StringArray(RootFlagName, nil, RootFlagUsage)
}
