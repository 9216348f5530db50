package seo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/seo"
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

func completePageMarkup() string {
	return pageMarkup(
		"<title>"+strings.Repeat("t", 45)+"</title>"+
			`<meta name="description" content="`+strings.Repeat("d", 130)+`">`+
			`<meta name="keywords" content="bespoke bags">`+
			`<link rel="canonical" href="https://bespoke-bags.com/good.html">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1.0">`+
			`<meta property="og:title" content="t"><meta property="og:description" content="d">`+
			`<meta property="og:url" content="u"><meta property="og:image" content="i">`+
			`<meta name="twitter:card" content="summary_large_image"><meta name="twitter:title" content="t">`+
			`<meta name="twitter:description" content="d"><meta name="twitter:image" content="i">`+
			`<script type="application/ld+json">{"@type":"WebPage"}</script>`,
		"<h1>Heading</h1>",
	)
}

func runService(testInstance *testing.T, fileSystem *memoryFileSystem, markupFiles []string, options seo.RunOptions) (*bytes.Buffer, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	service := seo.NewService(
		stubDiscoverer{markupFiles: markupFiles},
		fileSystem,
		stubTargetChecker{},
		seo.DefaultBrandSettings(),
		nil,
		outputBuffer,
		outputBuffer,
	)
	return outputBuffer, service.Run(context.Background(), options)
}

func TestServiceRunIsolatesFileFailures(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem(map[string]string{
		"site/good.html":  completePageMarkup(),
		"site/empty.html": pageMarkup("", ""),
	})
	markupFiles := []string{"site/empty.html", "site/good.html", "site/missing.html"}

	_, runError := runService(testInstance, fileSystem, markupFiles, seo.RunOptions{
		RootDirectory:  "site",
		ReportFilePath: "report.json",
	})
	require.NoError(testInstance, runError)

	reportContent, reportWritten := fileSystem.written["report.json"]
	require.True(testInstance, reportWritten)

	var report seo.Report
	require.NoError(testInstance, json.Unmarshal([]byte(reportContent), &report))

	require.Equal(testInstance, 3, report.Summary.TotalFiles)
	require.Equal(testInstance, 1, report.Summary.FilesWithErrors)
	require.Equal(testInstance, 1, report.Summary.FilesWithIssues)
	require.Greater(testInstance, report.Summary.TotalIssues, 0)

	require.Len(testInstance, report.Errors, 1)
	require.Equal(testInstance, "missing.html", report.Errors[0].File)
	require.Equal(testInstance, "read", report.Errors[0].Stage)

	require.Len(testInstance, report.Files, 1)
	require.Equal(testInstance, "empty.html", report.Files[0].File)
}

func TestServiceRunFailOnIssues(testInstance *testing.T) {
	testCases := []struct {
		name          string
		markup        string
		failOnIssues  bool
		expectedError error
	}{
		{
			name:          "issues_with_fail_flag",
			markup:        pageMarkup("", ""),
			failOnIssues:  true,
			expectedError: seo.ErrIssuesDetected,
		},
		{
			name:         "issues_without_fail_flag",
			markup:       pageMarkup("", ""),
			failOnIssues: false,
		},
		{
			name:         "clean_page_with_fail_flag",
			markup:       completePageMarkup(),
			failOnIssues: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			fileSystem := newMemoryFileSystem(map[string]string{"site/page.html": testCase.markup})

			_, runError := runService(subtest, fileSystem, []string{"site/page.html"}, seo.RunOptions{
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

func TestServiceRunAppliesFixes(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem(map[string]string{"site/page.html": pageMarkup("", "<h1>Premium Handcrafted Leather Travel Bags</h1>")})

	_, runError := runService(testInstance, fileSystem, []string{"site/page.html"}, seo.RunOptions{
		RootDirectory:  "site",
		ApplyFixes:     true,
		ReportFilePath: "report.json",
	})
	require.NoError(testInstance, runError)

	writtenContent, pageWritten := fileSystem.written["site/page.html"]
	require.True(testInstance, pageWritten)
	require.Contains(testInstance, writtenContent, "<title>")
	require.Contains(testInstance, writtenContent, `name="description"`)

	var report seo.Report
	require.NoError(testInstance, json.Unmarshal([]byte(fileSystem.written["report.json"]), &report))
	require.Equal(testInstance, 1, report.Summary.FilesFixed)
	require.Greater(testInstance, report.Summary.FixesApplied, 0)
}

func TestServiceRunDryRunLeavesFilesUntouched(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem(map[string]string{"site/page.html": pageMarkup("", "")})

	outputBuffer, runError := runService(testInstance, fileSystem, []string{"site/page.html"}, seo.RunOptions{
		RootDirectory: "site",
		ApplyFixes:    true,
		DryRun:        true,
	})
	require.NoError(testInstance, runError)

	_, pageWritten := fileSystem.written["site/page.html"]
	require.False(testInstance, pageWritten)
	require.Contains(testInstance, outputBuffer.String(), "Total Files")
}
