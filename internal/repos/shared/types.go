package shared

import (
	"errors"
	"io/fs"
)

const (
	// OriginRemoteNameConstant identifies the remote whose URL is reported for each repository.
	OriginRemoteNameConstant = "origin"
	// GitMetadataEntryNameConstant names the entry that marks a directory as a Git repository.
	GitMetadataEntryNameConstant = ".git"
)

var (
	// ErrRemoteNotFound indicates the requested remote is not configured.
	ErrRemoteNotFound = errors.New("remote not found")
	// ErrRemoteURLMissing indicates the remote exists but has no URL configured.
	ErrRemoteURLMissing = errors.New("remote has no url")
)

// CommitAuthor carries the author signature fields of a single commit.
type CommitAuthor struct {
	Name  string
	Email string
}

// CommitAuthorVisitor receives the author of every commit visited during a history walk.
type CommitAuthorVisitor func(author CommitAuthor) error

// Repository exposes the read-only repository operations used by the commit aggregator.
type Repository interface {
	// VisitHeadAuthors calls visitor once for every commit reachable from HEAD.
	VisitHeadAuthors(visitor CommitAuthorVisitor) error
	// RemoteURL returns the first configured URL of the named remote.
	RemoteURL(remoteName string) (string, error)
}

// RepositoryOpener opens repositories located on disk.
type RepositoryOpener interface {
	Open(repositoryPath string) (Repository, error)
}

// RepositoryDiscoverer locates Git repositories for bulk operations.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// FileSystem exposes the filesystem queries used while scanning for repositories.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	EvalSymlinks(path string) (string, error)
}
