package site

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	markupFileExtensionConstant      = ".html"
	hiddenDirectoryPrefixConstant    = "."
	nodeModulesDirectoryNameConstant = "node_modules"
	pythonCacheDirectoryNameConstant = "__pycache__"
	imageBackupDirectoryNameConstant = "images_backup"
)

var skippedDirectoryNames = map[string]struct{}{
	nodeModulesDirectoryNameConstant: {},
	pythonCacheDirectoryNameConstant: {},
	imageBackupDirectoryNameConstant: {},
}

// FilesystemDiscoverer locates markup documents beneath a site root.
type FilesystemDiscoverer struct{}

// NewFilesystemDiscoverer constructs a discoverer backed by filepath.WalkDir.
func NewFilesystemDiscoverer() *FilesystemDiscoverer {
	return &FilesystemDiscoverer{}
}

// DiscoverMarkupFiles walks the site root and returns every markup document,
// matched case-insensitively on extension, in deterministic sorted order.
// Hidden directories and known tooling caches are not descended into.
func (discoverer *FilesystemDiscoverer) DiscoverMarkupFiles(rootDirectory string) ([]string, error) {
	var markupFiles []string

	walkError := filepath.WalkDir(rootDirectory, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}

		if directoryEntry.IsDir() {
			if currentPath == rootDirectory {
				return nil
			}
			if shouldSkipDirectory(directoryEntry.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if strings.EqualFold(filepath.Ext(directoryEntry.Name()), markupFileExtensionConstant) {
			markupFiles = append(markupFiles, currentPath)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Strings(markupFiles)
	return markupFiles, nil
}

func shouldSkipDirectory(directoryName string) bool {
	if strings.HasPrefix(directoryName, hiddenDirectoryPrefixConstant) {
		return true
	}
	_, skipped := skippedDirectoryNames[directoryName]
	return skipped
}
