// Package testsupport builds on-disk Git repositories for tests.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/commitcounter/internal/repos/shared"
)

const (
	commitFileNameTemplateConstant         = "commit-%03d.txt"
	commitMessageTemplateConstant          = "commit %d"
	commitFilePermissionsConstant          = 0o644
	repositoryDirectoryPermissionsConstant = 0o755
)

var fixtureBaseTime = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

// CommitDefinition describes the author of a single fixture commit.
type CommitDefinition struct {
	AuthorName  string
	AuthorEmail string
}

// RepositoryDefinition describes the commits and origin remote of a fixture repository.
type RepositoryDefinition struct {
	Commits   []CommitDefinition
	OriginURL string
}

// RepeatCommit returns count copies of the commit authored by name and email.
func RepeatCommit(count int, name string, email string) []CommitDefinition {
	commits := make([]CommitDefinition, 0, count)
	for index := 0; index < count; index++ {
		commits = append(commits, CommitDefinition{AuthorName: name, AuthorEmail: email})
	}
	return commits
}

// CreateRepository initializes a non-bare repository at repositoryPath and records the defined commits.
func CreateRepository(testFramework testing.TB, repositoryPath string, definition RepositoryDefinition) *git.Repository {
	testFramework.Helper()

	require.NoError(testFramework, os.MkdirAll(repositoryPath, repositoryDirectoryPermissionsConstant))

	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testFramework, initError)

	if len(definition.OriginURL) > 0 {
		_, remoteError := repository.CreateRemote(&config.RemoteConfig{
			Name: shared.OriginRemoteNameConstant,
			URLs: []string{definition.OriginURL},
		})
		require.NoError(testFramework, remoteError)
	}

	if len(definition.Commits) == 0 {
		return repository
	}

	worktree, worktreeError := repository.Worktree()
	require.NoError(testFramework, worktreeError)

	for commitIndex, commitDefinition := range definition.Commits {
		fileName := fmt.Sprintf(commitFileNameTemplateConstant, commitIndex)
		writeError := os.WriteFile(filepath.Join(repositoryPath, fileName), []byte(fileName), commitFilePermissionsConstant)
		require.NoError(testFramework, writeError)

		_, addError := worktree.Add(fileName)
		require.NoError(testFramework, addError)

		signature := &object.Signature{
			Name:  commitDefinition.AuthorName,
			Email: commitDefinition.AuthorEmail,
			When:  fixtureBaseTime.Add(time.Duration(commitIndex) * time.Minute),
		}
		_, commitError := worktree.Commit(fmt.Sprintf(commitMessageTemplateConstant, commitIndex), &git.CommitOptions{
			Author:    signature,
			Committer: signature,
		})
		require.NoError(testFramework, commitError)
	}

	return repository
}
