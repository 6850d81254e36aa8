package gitrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/temirov/commitcounter/internal/repos/shared"
)

const (
	repositoryOpenErrorTemplateConstant   = "unable to open repository %s: %w"
	headResolutionErrorTemplateConstant   = "unable to resolve HEAD for %s: %w"
	historyTraversalErrorTemplateConstant = "unable to traverse history for %s: %w"
	remoteLookupErrorTemplateConstant     = "unable to look up remote %s for %s: %w"
	remoteNotFoundErrorTemplateConstant   = "%w: %s"
)

// RepositoryOpener opens repositories from the local filesystem.
type RepositoryOpener struct{}

// NewRepositoryOpener constructs a go-git backed repository opener.
func NewRepositoryOpener() *RepositoryOpener {
	return &RepositoryOpener{}
}

// Open opens the repository rooted at repositoryPath without searching parent directories.
func (opener *RepositoryOpener) Open(repositoryPath string) (shared.Repository, error) {
	openOptions := &git.PlainOpenOptions{
		DetectDotGit:          false,
		EnableDotGitCommonDir: true,
	}

	gitRepository, openError := git.PlainOpenWithOptions(repositoryPath, openOptions)
	if openError != nil {
		return nil, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	return &Repository{path: repositoryPath, repository: gitRepository}, nil
}

// Repository adapts a go-git repository to shared.Repository.
type Repository struct {
	path       string
	repository *git.Repository
}

// VisitHeadAuthors walks every commit reachable from HEAD once and reports its author.
// An error returned by visitor stops the walk and is returned unchanged.
func (repository *Repository) VisitHeadAuthors(visitor shared.CommitAuthorVisitor) error {
	headReference, headError := repository.repository.Head()
	if headError != nil {
		return fmt.Errorf(headResolutionErrorTemplateConstant, repository.path, headError)
	}

	commitIterator, logError := repository.repository.Log(&git.LogOptions{From: headReference.Hash()})
	if logError != nil {
		return fmt.Errorf(historyTraversalErrorTemplateConstant, repository.path, logError)
	}
	defer commitIterator.Close()

	var visitorError error
	traversalError := commitIterator.ForEach(func(commit *object.Commit) error {
		visitorError = visitor(shared.CommitAuthor{
			Name:  commit.Author.Name,
			Email: commit.Author.Email,
		})
		return visitorError
	})
	if visitorError != nil {
		return visitorError
	}
	if traversalError != nil {
		return fmt.Errorf(historyTraversalErrorTemplateConstant, repository.path, traversalError)
	}

	return nil
}

// RemoteURL returns the first URL configured for remoteName.
func (repository *Repository) RemoteURL(remoteName string) (string, error) {
	remote, remoteError := repository.repository.Remote(remoteName)
	if errors.Is(remoteError, git.ErrRemoteNotFound) {
		return "", fmt.Errorf(remoteNotFoundErrorTemplateConstant, shared.ErrRemoteNotFound, remoteName)
	}
	if remoteError != nil {
		return "", fmt.Errorf(remoteLookupErrorTemplateConstant, remoteName, repository.path, remoteError)
	}

	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 || len(strings.TrimSpace(remoteURLs[0])) == 0 {
		return "", fmt.Errorf(remoteNotFoundErrorTemplateConstant, shared.ErrRemoteURLMissing, remoteName)
	}

	return remoteURLs[0], nil
}
