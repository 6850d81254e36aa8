package commits

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/commitcounter/internal/repos/shared"
)

const (
	discoveryErrorTemplateConstant        = "unable to discover repositories: %w"
	repositoriesDiscoveredMessageConstant = "repositories discovered"
	repositorySkippedMessageConstant      = "repository skipped"
	historySkippedMessageConstant         = "commit history skipped"
	originMissingMessageConstant          = "origin remote unavailable"
	originLookupFailedMessageConstant     = "origin remote lookup failed"
	repositoryProcessedMessageConstant    = "repository processed"
	logFieldRootsConstant                 = "roots"
	logFieldRepositoryCountConstant       = "repository_count"
	logFieldRepositoryPathConstant        = "repository_path"
	logFieldAuthorCountConstant           = "author_count"
	logFieldOriginURLConstant             = "origin_url"
)

// Service aggregates commit counts across discovered repositories.
type Service struct {
	discoverer     shared.RepositoryDiscoverer
	opener         shared.RepositoryOpener
	logger         *zap.Logger
	identitySource IdentitySource
}

// NewService constructs a Service using the provided collaborators.
func NewService(discoverer shared.RepositoryDiscoverer, opener shared.RepositoryOpener, logger *zap.Logger, identitySource IdentitySource) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(identitySource) == 0 {
		identitySource = IdentitySourceName
	}
	return &Service{
		discoverer:     discoverer,
		opener:         opener,
		logger:         logger,
		identitySource: identitySource,
	}
}

// Run discovers repositories beneath roots and processes each in its own goroutine.
// Only a discovery failure is returned; individual repositories that cannot be read are
// logged and left out of the report.
func (service *Service) Run(executionContext context.Context, roots []string) (Report, error) {
	repositories, discoveryError := service.discoverer.DiscoverRepositories(roots)
	if discoveryError != nil {
		return Report{}, fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
	}

	service.logger.Debug(
		repositoriesDiscoveredMessageConstant,
		zap.Strings(logFieldRootsConstant, roots),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)

	totals := NewCommitTotals()

	var taskGroup errgroup.Group
	for _, repositoryPath := range repositories {
		taskGroup.Go(func() error {
			result, processed := service.processRepository(executionContext, repositoryPath)
			if processed {
				totals.Merge(result)
			}
			return nil
		})
	}
	_ = taskGroup.Wait()

	return totals.Report(), nil
}

func (service *Service) processRepository(executionContext context.Context, repositoryPath string) (RepositoryResult, bool) {
	if contextError := executionContext.Err(); contextError != nil {
		service.logger.Warn(repositorySkippedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(contextError))
		return RepositoryResult{}, false
	}

	repository, openError := service.opener.Open(repositoryPath)
	if openError != nil {
		service.logger.Warn(repositorySkippedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(openError))
		return RepositoryResult{}, false
	}

	result := RepositoryResult{RepositoryPath: repositoryPath}

	commitCounts, countError := service.countCommits(repository)
	if countError != nil {
		service.logger.Debug(historySkippedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(countError))
	} else {
		result.CommitCounts = commitCounts
	}

	originURL, originError := repository.RemoteURL(shared.OriginRemoteNameConstant)
	switch {
	case originError == nil:
		result.OriginURL = originURL
	case errors.Is(originError, shared.ErrRemoteNotFound), errors.Is(originError, shared.ErrRemoteURLMissing):
		service.logger.Debug(originMissingMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(originError))
	default:
		service.logger.Warn(originLookupFailedMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(originError))
	}

	service.logger.Debug(
		repositoryProcessedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.Int(logFieldAuthorCountConstant, len(result.CommitCounts)),
		zap.String(logFieldOriginURLConstant, result.OriginURL),
	)

	return result, true
}

// countCommits builds the complete local count map or fails without a partial result.
func (service *Service) countCommits(repository shared.Repository) (map[string]int, error) {
	commitCounts := make(map[string]int)
	visitError := repository.VisitHeadAuthors(func(author shared.CommitAuthor) error {
		identity, counted := service.identitySource.AuthorIdentity(author)
		if counted {
			commitCounts[identity]++
		}
		return nil
	})
	if visitError != nil {
		return nil, visitError
	}
	return commitCounts, nil
}
