package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant = "~"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RootPathSanitizer normalizes the directories handed to repository discovery.
type RootPathSanitizer struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewRootPathSanitizer constructs a RootPathSanitizer using the operating system home lookup.
func NewRootPathSanitizer() *RootPathSanitizer {
	return NewRootPathSanitizerWithProvider(os.UserHomeDir)
}

// NewRootPathSanitizerWithProvider constructs a RootPathSanitizer with a custom home directory provider.
func NewRootPathSanitizerWithProvider(provider HomeDirectoryProvider) *RootPathSanitizer {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &RootPathSanitizer{homeDirectoryProvider: provider}
}

// Sanitize trims whitespace, expands a leading home shortcut, cleans each path, and drops
// blank and repeated entries while preserving the original order. It returns nil when
// nothing remains.
func (sanitizer *RootPathSanitizer) Sanitize(candidatePaths []string) []string {
	if sanitizer == nil {
		sanitizer = NewRootPathSanitizer()
	}

	seenPaths := make(map[string]struct{}, len(candidatePaths))
	var sanitizedPaths []string
	for _, candidatePath := range candidatePaths {
		trimmedPath := strings.TrimSpace(candidatePath)
		if len(trimmedPath) == 0 {
			continue
		}

		cleanedPath := filepath.Clean(sanitizer.ExpandHome(trimmedPath))
		if _, alreadySeen := seenPaths[cleanedPath]; alreadySeen {
			continue
		}
		seenPaths[cleanedPath] = struct{}{}
		sanitizedPaths = append(sanitizedPaths, cleanedPath)
	}

	return sanitizedPaths
}

// ExpandHome replaces "~" or a leading "~/" with the user's home directory. Paths such as
// "~other" and paths whose home lookup fails are returned unchanged.
func (sanitizer *RootPathSanitizer) ExpandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, homeShortcutConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory := sanitizer.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	return filepath.Join(homeDirectory, remainder)
}

func (sanitizer *RootPathSanitizer) resolveHomeDirectory() string {
	sanitizer.initializationGuard.Do(func() {
		sanitizer.homeDirectory, sanitizer.homeDirectoryError = sanitizer.homeDirectoryProvider()
	})
	if sanitizer.homeDirectoryError != nil {
		return ""
	}
	return sanitizer.homeDirectory
}
