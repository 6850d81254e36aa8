// Package commits tallies commits per author across many Git repositories.
//
// Service discovers repositories beneath the configured roots, walks the history
// reachable from each repository's HEAD in its own goroutine, and merges the
// per-repository counts and origin URLs into CommitTotals under a single lock.
// CommandBuilder wires the Service into the Cobra root command, and Report renders
// the sorted totals followed by the collected origin URLs.
package commits
