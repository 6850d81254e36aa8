package commits

import (
	"sort"
	"sync"
)

// RepositoryResult holds everything one repository contributes to the totals.
// CommitCounts is nil when the history walk failed; OriginURL is empty when no origin is configured.
type RepositoryResult struct {
	RepositoryPath string
	CommitCounts   map[string]int
	OriginURL      string
}

// CommitTotals accumulates commit counts and origin URLs across repositories.
type CommitTotals struct {
	mutex        sync.Mutex
	commitCounts map[string]int
	originURLs   []string
}

// NewCommitTotals constructs empty totals.
func NewCommitTotals() *CommitTotals {
	return &CommitTotals{commitCounts: make(map[string]int)}
}

// Merge adds one repository's counts and origin as a single critical section.
func (totals *CommitTotals) Merge(result RepositoryResult) {
	totals.mutex.Lock()
	defer totals.mutex.Unlock()

	for identity, commitCount := range result.CommitCounts {
		totals.commitCounts[identity] += commitCount
	}
	if len(result.OriginURL) > 0 {
		totals.originURLs = append(totals.originURLs, result.OriginURL)
	}
}

// CommitCounts returns a copy of the accumulated counts.
func (totals *CommitTotals) CommitCounts() map[string]int {
	totals.mutex.Lock()
	defer totals.mutex.Unlock()

	duplicatedCounts := make(map[string]int, len(totals.commitCounts))
	for identity, commitCount := range totals.commitCounts {
		duplicatedCounts[identity] = commitCount
	}
	return duplicatedCounts
}

// OriginURLs returns the recorded origin URLs in merge order.
func (totals *CommitTotals) OriginURLs() []string {
	totals.mutex.Lock()
	defer totals.mutex.Unlock()

	return append([]string{}, totals.originURLs...)
}

// Report snapshots the totals, sorting authors by descending commit count.
// Equal counts are ordered by identity so repeated runs print identical reports.
func (totals *CommitTotals) Report() Report {
	commitCounts := totals.CommitCounts()

	authorCounts := make([]AuthorCount, 0, len(commitCounts))
	for identity, commitCount := range commitCounts {
		authorCounts = append(authorCounts, AuthorCount{Identity: identity, Commits: commitCount})
	}

	sort.Slice(authorCounts, func(leftIndex int, rightIndex int) bool {
		left := authorCounts[leftIndex]
		right := authorCounts[rightIndex]
		if left.Commits != right.Commits {
			return left.Commits > right.Commits
		}
		return left.Identity < right.Identity
	})

	return Report{
		Authors: authorCounts,
		Origins: totals.OriginURLs(),
	}
}
