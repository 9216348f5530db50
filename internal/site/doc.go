// Package site locates the markup documents of a static website on disk,
// walking a root directory while skipping hidden directories and common
// tooling caches.
package site
