package links_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/links"
)

type stubDiscoverer struct {
	markupFiles []string
}

func (discoverer stubDiscoverer) DiscoverMarkupFiles(rootDirectory string) ([]string, error) {
	return discoverer.markupFiles, nil
}

type memoryFileSystem struct {
	contents map[string]string
	written  map[string]string
}

func newMemoryFileSystem(contents map[string]string) *memoryFileSystem {
	return &memoryFileSystem{contents: contents, written: map[string]string{}}
}

func (fileSystem *memoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	fileContent, found := fileSystem.contents[filePath]
	if !found {
		return nil, fmt.Errorf("open %s: no such file", filePath)
	}
	return []byte(fileContent), nil
}

func (fileSystem *memoryFileSystem) WriteFile(filePath string, content []byte) error {
	fileSystem.written[filePath] = string(content)
	return nil
}

type stubTargetChecker struct {
	files       map[string]struct{}
	directories map[string]struct{}
}

func (checker stubTargetChecker) TargetExists(targetPath string) (bool, bool) {
	normalizedPath := filepath.ToSlash(targetPath)
	if _, found := checker.directories[normalizedPath]; found {
		return true, true
	}
	if _, found := checker.files[normalizedPath]; found {
		return true, false
	}
	return false, false
}

func pageWithBody(bodyContent string) string {
	return fmt.Sprintf("<!DOCTYPE html><html><head></head><body>%s</body></html>", bodyContent)
}

var internalHosts = []string{"bespoke-bags.com", "www.bespoke-bags.com"}

func runCheck(testInstance *testing.T, fileSystem *memoryFileSystem, targetChecker stubTargetChecker, markupFiles []string, options links.CheckOptions) (links.CheckReport, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	checker := links.NewChecker(stubDiscoverer{markupFiles: markupFiles}, fileSystem, targetChecker, internalHosts, nil, outputBuffer)

	options.ReportFilePath = "report.json"
	runError := checker.Run(context.Background(), options)

	var report links.CheckReport
	reportContent, reportWritten := fileSystem.written["report.json"]
	require.True(testInstance, reportWritten)
	require.NoError(testInstance, json.Unmarshal([]byte(reportContent), &report))
	return report, runError
}

func TestCheckerClassifiesAndResolvesLinks(testInstance *testing.T) {
	pageBody := `<a href="../products.html">Products</a>` +
		`<a href="https://bespoke-bags.com/about/index.html">About</a>` +
		`<a href="https://www.bespoke-bags.com/contact/index.html">Contact</a>` +
		`<a href="https://example.com/elsewhere">Out</a>` +
		`<a href="mailto:sales@bespoke-bags.com">Mail</a>` +
		`<a href="#top">Top</a>` +
		`<img src="../images/bag.webp">`

	fileSystem := newMemoryFileSystem(map[string]string{"site/blog/post.html": pageWithBody(pageBody)})
	targetChecker := stubTargetChecker{files: map[string]struct{}{
		"site/images/bag.webp": {},
	}}

	report, runError := runCheck(testInstance, fileSystem, targetChecker, []string{"site/blog/post.html"}, links.CheckOptions{RootDirectory: "site"})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, 1, report.Summary.TotalFilesChecked)
	require.Equal(testInstance, 7, report.Summary.TotalLinksFound)
	require.Equal(testInstance, 6, report.Summary.InternalLinks)
	require.Equal(testInstance, 1, report.Summary.ExternalLinks)
	require.Equal(testInstance, []string{"https://example.com/elsewhere"}, report.ExternalLinks)

	require.Equal(testInstance, 1, report.Summary.TotalIssues)
	require.Equal(testInstance, 1, report.Summary.MissingFiles)
	require.Equal(testInstance, []string{"site/products.html"}, report.MissingFiles)

	brokenIssue := report.Issues[0]
	require.Equal(testInstance, "missing_file", brokenIssue.Type)
	require.Equal(testInstance, "blog/post.html", brokenIssue.SourceFile)
	require.Equal(testInstance, "../products.html", brokenIssue.Link)
	require.Equal(testInstance, "href", brokenIssue.LinkType)
}

func TestCheckerReportsDirectoryWithoutIndex(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem(map[string]string{"site/index.html": pageWithBody(`<a href="blog/">Blog</a>`)})
	targetChecker := stubTargetChecker{directories: map[string]struct{}{"site/blog": {}}}

	report, runError := runCheck(testInstance, fileSystem, targetChecker, []string{"site/index.html"}, links.CheckOptions{RootDirectory: "site"})
	require.NoError(testInstance, runError)

	require.Len(testInstance, report.Issues, 1)
	require.Equal(testInstance, "missing_index", report.Issues[0].Type)
	require.Equal(testInstance, "blog/", report.Issues[0].Link)
}

func TestCheckerFailOnIssues(testInstance *testing.T) {
	testCases := []struct {
		name          string
		bodyContent   string
		failOnIssues  bool
		expectedError error
	}{
		{
			name:          "broken_link_with_fail_flag",
			bodyContent:   `<a href="gone.html">Gone</a>`,
			failOnIssues:  true,
			expectedError: links.ErrBrokenLinksDetected,
		},
		{
			name:         "broken_link_without_fail_flag",
			bodyContent:  `<a href="gone.html">Gone</a>`,
			failOnIssues: false,
		},
		{
			name:         "clean_page_with_fail_flag",
			bodyContent:  `<a href="#top">Top</a>`,
			failOnIssues: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			fileSystem := newMemoryFileSystem(map[string]string{"site/index.html": pageWithBody(testCase.bodyContent)})

			_, runError := runCheck(subtest, fileSystem, stubTargetChecker{}, []string{"site/index.html"}, links.CheckOptions{
				RootDirectory: "site",
				FailOnIssues:  testCase.failOnIssues,
			})

			if testCase.expectedError != nil {
				require.ErrorIs(subtest, runError, testCase.expectedError)
			} else {
				require.NoError(subtest, runError)
			}
		})
	}
}

func TestCheckerIsolatesUnreadableFiles(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem(map[string]string{"site/good.html": pageWithBody("")})

	report, runError := runCheck(testInstance, fileSystem, stubTargetChecker{}, []string{"site/bad.html", "site/good.html"}, links.CheckOptions{RootDirectory: "site"})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, 2, report.Summary.TotalFilesChecked)
	require.Len(testInstance, report.Issues, 1)
	require.Equal(testInstance, "file_read_error", report.Issues[0].Type)
	require.Equal(testInstance, "bad.html", report.Issues[0].SourceFile)
}
