package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/temirov/commitcounter/internal/repos/filesystem"
	"github.com/temirov/commitcounter/internal/repos/shared"
)

const (
	directoryReadErrorTemplateConstant = "unable to read directory %s: %v"
)

// DirectoryReadError reports a directory that could not be listed during a scan.
type DirectoryReadError struct {
	Path  string
	Cause error
}

// Error describes the failed directory listing.
func (readError DirectoryReadError) Error() string {
	return fmt.Sprintf(directoryReadErrorTemplateConstant, readError.Path, readError.Cause)
}

// Unwrap exposes the underlying filesystem error.
func (readError DirectoryReadError) Unwrap() error {
	return readError.Cause
}

// FilesystemRepositoryDiscoverer locates git repositories on disk.
type FilesystemRepositoryDiscoverer struct {
	fileSystem shared.FileSystem
}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by the operating system.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return NewFilesystemRepositoryDiscovererWithFileSystem(filesystem.OSFileSystem{})
}

// NewFilesystemRepositoryDiscovererWithFileSystem constructs a repository discoverer over the provided filesystem.
func NewFilesystemRepositoryDiscovererWithFileSystem(fileSystem shared.FileSystem) *FilesystemRepositoryDiscoverer {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &FilesystemRepositoryDiscoverer{fileSystem: fileSystem}
}

// DiscoverRepositories scans every root and returns the directories containing a .git entry.
// Descent stops at the first repository found on each branch of the tree, so repositories
// nested inside another repository are never reported. Symbolic links to directories are
// followed; each resolved directory is listed at most once per root.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var repositories []string

	for _, root := range roots {
		rootRepositories, scanError := discoverer.scan(root)
		if scanError != nil {
			return nil, scanError
		}
		for _, repositoryPath := range rootRepositories {
			if _, alreadySeen := seen[repositoryPath]; alreadySeen {
				continue
			}
			seen[repositoryPath] = struct{}{}
			repositories = append(repositories, repositoryPath)
		}
	}

	return repositories, nil
}

func (discoverer *FilesystemRepositoryDiscoverer) scan(root string) ([]string, error) {
	if !discoverer.isDirectory(root) {
		return nil, nil
	}

	var repositories []string
	visitedDirectories := make(map[string]struct{})
	pendingDirectories := []pendingDirectory{{path: root, isRoot: true}}

	for len(pendingDirectories) > 0 {
		lastIndex := len(pendingDirectories) - 1
		currentDirectory := pendingDirectories[lastIndex]
		pendingDirectories = pendingDirectories[:lastIndex]

		if !currentDirectory.isRoot && discoverer.containsGitMetadata(currentDirectory.path) {
			repositories = append(repositories, currentDirectory.path)
			continue
		}

		if !discoverer.markVisited(visitedDirectories, currentDirectory.path) {
			continue
		}

		directoryEntries, readError := discoverer.fileSystem.ReadDir(currentDirectory.path)
		if readError != nil {
			return nil, DirectoryReadError{Path: currentDirectory.path, Cause: readError}
		}

		// pushed in reverse so siblings pop in listing order
		for index := len(directoryEntries) - 1; index >= 0; index-- {
			directoryEntry := directoryEntries[index]
			childPath := filepath.Join(currentDirectory.path, directoryEntry.Name())
			if !discoverer.isDirectoryEntry(directoryEntry, childPath) {
				continue
			}
			pendingDirectories = append(pendingDirectories, pendingDirectory{path: childPath})
		}
	}

	return repositories, nil
}

type pendingDirectory struct {
	path   string
	isRoot bool
}

func (discoverer *FilesystemRepositoryDiscoverer) isDirectory(path string) bool {
	fileInfo, statError := discoverer.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}

// isDirectoryEntry reports directories and symbolic links that resolve to directories.
func (discoverer *FilesystemRepositoryDiscoverer) isDirectoryEntry(directoryEntry fs.DirEntry, entryPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	return discoverer.isDirectory(entryPath)
}

// markVisited records the resolved directory and reports whether it was new.
// Symbolic link cycles end here.
func (discoverer *FilesystemRepositoryDiscoverer) markVisited(visitedDirectories map[string]struct{}, directoryPath string) bool {
	resolvedPath, resolveError := discoverer.fileSystem.EvalSymlinks(directoryPath)
	if resolveError != nil {
		resolvedPath = filepath.Clean(directoryPath)
	}
	if _, alreadyVisited := visitedDirectories[resolvedPath]; alreadyVisited {
		return false
	}
	visitedDirectories[resolvedPath] = struct{}{}
	return true
}

func (discoverer *FilesystemRepositoryDiscoverer) containsGitMetadata(directoryPath string) bool {
	_, statError := discoverer.fileSystem.Stat(filepath.Join(directoryPath, shared.GitMetadataEntryNameConstant))
	return statError == nil
}
