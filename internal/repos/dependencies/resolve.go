package dependencies

import (
	"github.com/temirov/commitcounter/internal/gitrepo"
	"github.com/temirov/commitcounter/internal/repos/discovery"
	"github.com/temirov/commitcounter/internal/repos/shared"
)

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveRepositoryOpener returns the provided opener or a go-git backed default.
func ResolveRepositoryOpener(existing shared.RepositoryOpener) shared.RepositoryOpener {
	if existing != nil {
		return existing
	}
	return gitrepo.NewRepositoryOpener()
}
