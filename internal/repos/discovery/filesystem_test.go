package discovery_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/commitcounter/internal/repos/discovery"
	"github.com/temirov/commitcounter/internal/repos/filesystem"
)

const (
	developerDirectoryName             = "Dev"
	engineeringGroupDirectoryName      = "Group1"
	applicationRepositoryDirectoryName = "Repo1"
	serviceRepositoryDirectoryName     = "Repo2"
	toolsRepositoryDirectoryName       = "Repo3"
	vendoredDirectoryName              = "vendor"
	nestedRepositoryDirectoryName      = "inner"
	plainDirectoryName                 = "notes"
	gitMetadataDirectoryName           = ".git"
	gitMetadataFileContent             = "gitdir: /elsewhere/worktrees/Repo1\n"
	plainFileName                      = "README.md"
	singleRootSubtestTitle             = "discoversRepositoriesFromSingleRoot"
	combinedRootsSubtestTitle          = "discoversRepositoriesFromParentAndNestedRoots"
	repositoryDirectoryPermissions     = 0o755
	repositoryFilePermissions          = 0o644
)

type repositoryDefinition struct {
	directorySegments []string
}

func (definition repositoryDefinition) repositoryPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	return filepath.Join(segments...)
}

func (definition repositoryDefinition) gitMetadataPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	segments = append(segments, gitMetadataDirectoryName)
	return filepath.Join(segments...)
}

type filesystemDiscoveryTestScenario struct {
	title                      string
	rootDirectoriesConstructor func(string) []string
}

func (scenario filesystemDiscoveryTestScenario) execute(
	testFramework *testing.T,
	repositoryDefinitions []repositoryDefinition,
) {
	testFramework.Helper()

	temporaryRootDirectory := testFramework.TempDir()
	for _, repositoryDefinition := range repositoryDefinitions {
		gitMetadataDirectoryPath := repositoryDefinition.gitMetadataPath(temporaryRootDirectory)
		creationError := os.MkdirAll(gitMetadataDirectoryPath, repositoryDirectoryPermissions)
		require.NoError(testFramework, creationError)
	}

	repositoryDiscoverer := discovery.NewFilesystemRepositoryDiscoverer()
	discoveredRepositories, discoveryError := repositoryDiscoverer.DiscoverRepositories(
		scenario.rootDirectoriesConstructor(temporaryRootDirectory),
	)
	require.NoError(testFramework, discoveryError)

	expectedRepositories := make([]string, 0, len(repositoryDefinitions))
	for _, repositoryDefinition := range repositoryDefinitions {
		expectedRepositories = append(expectedRepositories, repositoryDefinition.repositoryPath(temporaryRootDirectory))
	}

	sort.Strings(expectedRepositories)
	sort.Strings(discoveredRepositories)
	require.Equal(testFramework, expectedRepositories, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererDiscoversNestedLayouts(testFramework *testing.T) {
	repositoryDefinitions := []repositoryDefinition{
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, applicationRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, serviceRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, toolsRepositoryDirectoryName}},
	}

	testScenarios := []filesystemDiscoveryTestScenario{
		{
			title: singleRootSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				return []string{rootDirectory}
			},
		},
		{
			title: combinedRootsSubtestTitle,
			rootDirectoriesConstructor: func(rootDirectory string) []string {
				developerDirectoryPath := filepath.Join(rootDirectory, developerDirectoryName)
				engineeringGroupDirectoryPath := filepath.Join(developerDirectoryPath, engineeringGroupDirectoryName)
				return []string{rootDirectory, developerDirectoryPath, engineeringGroupDirectoryPath}
			},
		},
	}

	for _, testScenario := range testScenarios {
		testFramework.Run(testScenario.title, func(testFramework *testing.T) {
			testScenario.execute(testFramework, repositoryDefinitions)
		})
	}
}

func TestFilesystemRepositoryDiscovererStopsAtRepositoryBoundary(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()

	outerRepositoryPath := filepath.Join(rootDirectory, applicationRepositoryDirectoryName)
	nestedRepositoryPath := filepath.Join(outerRepositoryPath, vendoredDirectoryName, nestedRepositoryDirectoryName)
	require.NoError(testFramework, os.MkdirAll(filepath.Join(outerRepositoryPath, gitMetadataDirectoryName), repositoryDirectoryPermissions))
	require.NoError(testFramework, os.MkdirAll(filepath.Join(nestedRepositoryPath, gitMetadataDirectoryName), repositoryDirectoryPermissions))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{outerRepositoryPath}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererAcceptsGitMetadataFile(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()

	worktreePath := filepath.Join(rootDirectory, applicationRepositoryDirectoryName)
	require.NoError(testFramework, os.MkdirAll(worktreePath, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.WriteFile(filepath.Join(worktreePath, gitMetadataDirectoryName), []byte(gitMetadataFileContent), repositoryFilePermissions))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{worktreePath}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererPreservesListingOrder(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()

	orderedRepositories := []string{
		filepath.Join(rootDirectory, "alpha"),
		filepath.Join(rootDirectory, "beta", "gamma"),
		filepath.Join(rootDirectory, "beta", "zeta"),
		filepath.Join(rootDirectory, "delta"),
	}
	for _, repositoryPath := range orderedRepositories {
		require.NoError(testFramework, os.MkdirAll(filepath.Join(repositoryPath, gitMetadataDirectoryName), repositoryDirectoryPermissions))
	}

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, orderedRepositories, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererReturnsEmptyResults(testFramework *testing.T) {
	testCases := []struct {
		name                string
		rootPathConstructor func(testing.TB) string
	}{
		{
			name: "directory_without_repositories",
			rootPathConstructor: func(testFramework testing.TB) string {
				rootDirectory := testFramework.TempDir()
				require.NoError(testFramework, os.MkdirAll(filepath.Join(rootDirectory, plainDirectoryName), repositoryDirectoryPermissions))
				require.NoError(testFramework, os.WriteFile(filepath.Join(rootDirectory, plainFileName), nil, repositoryFilePermissions))
				return rootDirectory
			},
		},
		{
			name: "root_is_a_file",
			rootPathConstructor: func(testFramework testing.TB) string {
				filePath := filepath.Join(testFramework.TempDir(), plainFileName)
				require.NoError(testFramework, os.WriteFile(filePath, nil, repositoryFilePermissions))
				return filePath
			},
		},
		{
			name: "root_does_not_exist",
			rootPathConstructor: func(testFramework testing.TB) string {
				return filepath.Join(testFramework.TempDir(), plainDirectoryName)
			},
		},
	}

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			rootPath := testCase.rootPathConstructor(testFramework)

			discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootPath})
			require.NoError(testFramework, discoveryError)
			require.Empty(testFramework, discoveredRepositories)
		})
	}
}

func TestFilesystemRepositoryDiscovererFailsOnUnreadableDirectory(testFramework *testing.T) {
	if os.Geteuid() == 0 {
		testFramework.Skip("directory permissions are not enforced for root")
	}

	rootDirectory := testFramework.TempDir()
	lockedDirectoryPath := filepath.Join(rootDirectory, plainDirectoryName)
	require.NoError(testFramework, os.MkdirAll(lockedDirectoryPath, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.Chmod(lockedDirectoryPath, 0))
	testFramework.Cleanup(func() {
		_ = os.Chmod(lockedDirectoryPath, repositoryDirectoryPermissions)
	})

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.Error(testFramework, discoveryError)
	require.Nil(testFramework, discoveredRepositories)

	var readError discovery.DirectoryReadError
	require.True(testFramework, errors.As(discoveryError, &readError))
	require.Equal(testFramework, lockedDirectoryPath, readError.Path)
	require.ErrorIs(testFramework, discoveryError, fs.ErrPermission)
}

type failingReadDirFileSystem struct {
	filesystem.OSFileSystem
	failingPath string
	readError   error
}

func (fileSystem failingReadDirFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	if path == fileSystem.failingPath {
		return nil, fileSystem.readError
	}
	return fileSystem.OSFileSystem.ReadDir(path)
}

func TestFilesystemRepositoryDiscovererReportsReadFailuresFromFileSystem(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()
	failingDirectoryPath := filepath.Join(rootDirectory, plainDirectoryName)
	require.NoError(testFramework, os.MkdirAll(failingDirectoryPath, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.MkdirAll(filepath.Join(rootDirectory, applicationRepositoryDirectoryName, gitMetadataDirectoryName), repositoryDirectoryPermissions))

	readError := errors.New("input/output error")
	discoverer := discovery.NewFilesystemRepositoryDiscovererWithFileSystem(failingReadDirFileSystem{
		failingPath: failingDirectoryPath,
		readError:   readError,
	})

	discoveredRepositories, discoveryError := discoverer.DiscoverRepositories([]string{rootDirectory})
	require.ErrorIs(testFramework, discoveryError, readError)
	require.Nil(testFramework, discoveredRepositories)
	require.Contains(testFramework, discoveryError.Error(), failingDirectoryPath)
}

func TestFilesystemRepositoryDiscovererFollowsDirectorySymlinks(testFramework *testing.T) {
	workspaceDirectory := testFramework.TempDir()
	rootDirectory := filepath.Join(workspaceDirectory, "root")
	linkedRepositoryTarget := filepath.Join(workspaceDirectory, "elsewhere", applicationRepositoryDirectoryName)
	require.NoError(testFramework, os.MkdirAll(rootDirectory, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.MkdirAll(filepath.Join(linkedRepositoryTarget, gitMetadataDirectoryName), repositoryDirectoryPermissions))

	linkedRepositoryPath := filepath.Join(rootDirectory, "linked")
	require.NoError(testFramework, os.Symlink(linkedRepositoryTarget, linkedRepositoryPath))
	require.NoError(testFramework, os.Symlink(filepath.Join(workspaceDirectory, "missing"), filepath.Join(rootDirectory, "dangling")))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{linkedRepositoryPath}, discoveredRepositories)
}

func TestFilesystemRepositoryDiscovererStopsAtSymlinkCycles(testFramework *testing.T) {
	rootDirectory := testFramework.TempDir()
	nestedDirectory := filepath.Join(rootDirectory, developerDirectoryName)
	repositoryPath := filepath.Join(nestedDirectory, applicationRepositoryDirectoryName)
	require.NoError(testFramework, os.MkdirAll(filepath.Join(repositoryPath, gitMetadataDirectoryName), repositoryDirectoryPermissions))
	require.NoError(testFramework, os.Symlink(rootDirectory, filepath.Join(nestedDirectory, "loop")))

	discoveredRepositories, discoveryError := discovery.NewFilesystemRepositoryDiscoverer().DiscoverRepositories([]string{rootDirectory})
	require.NoError(testFramework, discoveryError)
	require.Equal(testFramework, []string{repositoryPath}, discoveredRepositories)
}
