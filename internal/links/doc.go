// Package links checks the site's internal link graph and repairs known-bad
// references: a checker that resolves every href/src against the file tree,
// and a repairer that applies a configured substitution table and emits
// redirect stub pages for renamed blog posts.
package links
