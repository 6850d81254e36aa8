// Package gitrepo opens Git repositories in-process with go-git and exposes the
// read-only operations the commit aggregator needs: walking the commits
// reachable from HEAD and resolving remote URLs.
package gitrepo
