package seo_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/seo"
)

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

func collectIssues(detectedIssues []seo.Issue, wantedCodes ...seo.IssueCode) []seo.Issue {
	wanted := map[seo.IssueCode]struct{}{}
	for _, wantedCode := range wantedCodes {
		wanted[wantedCode] = struct{}{}
	}
	var filteredIssues []seo.Issue
	for _, detectedIssue := range detectedIssues {
		if _, found := wanted[detectedIssue.Code]; found {
			filteredIssues = append(filteredIssues, detectedIssue)
		}
	}
	return filteredIssues
}

func newTestAuditor(testInstance *testing.T, targetChecker seo.TargetChecker) *seo.Auditor {
	testInstance.Helper()
	ruleTable, tableError := seo.NewRuleTable(seo.DefaultBrandSettings())
	require.NoError(testInstance, tableError)
	return seo.NewAuditor(ruleTable, "site", targetChecker)
}

func TestAuditStructuralChecks(testInstance *testing.T) {
	testCases := []struct {
		name            string
		markup          string
		expectedCode    seo.IssueCode
		expectedDetail  string
		unexpectedCodes []seo.IssueCode
	}{
		{
			name:           "fragment_without_shell",
			markup:         "<p>hello</p>",
			expectedCode:   seo.IssueIncompleteDocumentShell,
			expectedDetail: "document shell incomplete: missing html, head, body",
		},
		{
			name:           "aggregated_missing_alt",
			markup:         pageMarkup("", `<img src="a.jpg"><img src="b.jpg" alt=""><img src="c.jpg" alt="bag">`),
			expectedCode:   seo.IssueImagesMissingAlt,
			expectedDetail: "2 images missing alt text",
		},
		{
			name:           "heading_level_jump",
			markup:         pageMarkup("", "<h1>Top</h1><h3>Deep</h3>"),
			expectedCode:   seo.IssueHeadingLevelJump,
			expectedDetail: "h3 jumps past h2",
		},
		{
			name:            "descending_headings_allowed",
			markup:          pageMarkup("", "<h1>Top</h1><h2>Mid</h2><h1>Back</h1>"),
			unexpectedCodes: []seo.IssueCode{seo.IssueHeadingLevelJump},
		},
	}

	auditor := newTestAuditor(testInstance, stubTargetChecker{})

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			detectedIssues := auditor.Audit(parseMarkup(subtest, testCase.markup), "index.html")

			if len(testCase.expectedCode) > 0 {
				matchingIssues := collectIssues(detectedIssues, testCase.expectedCode)
				require.Len(subtest, matchingIssues, 1)
				require.Equal(subtest, testCase.expectedDetail, matchingIssues[0].Detail)
			}
			for _, unexpectedCode := range testCase.unexpectedCodes {
				require.Empty(subtest, collectIssues(detectedIssues, unexpectedCode))
			}
		})
	}
}

func TestAuditInternalLinks(testInstance *testing.T) {
	testCases := []struct {
		name            string
		relativePath    string
		bodyContent     string
		targetChecker   stubTargetChecker
		expectedCode    seo.IssueCode
		expectedDetail  string
		expectNoFinding bool
	}{
		{
			name:           "relative_parent_link_missing",
			relativePath:   "blog/post.html",
			bodyContent:    `<a href="../products.html">Products</a><a href="https://example.com/">Out</a><a href="mailto:hi@example.com">Mail</a><a href="#top">Top</a>`,
			targetChecker:  stubTargetChecker{},
			expectedCode:   seo.IssueBrokenInternalLink,
			expectedDetail: "missing target: ../products.html",
		},
		{
			name:            "root_relative_link_resolves",
			relativePath:    "blog/post.html",
			bodyContent:     `<a href="/about.html">About</a>`,
			targetChecker:   stubTargetChecker{files: map[string]struct{}{"site/about.html": {}}},
			expectNoFinding: true,
		},
		{
			name:            "query_and_fragment_stripped",
			relativePath:    "index.html",
			bodyContent:     `<a href="products.html?ref=nav#top">Products</a>`,
			targetChecker:   stubTargetChecker{files: map[string]struct{}{"site/products.html": {}}},
			expectNoFinding: true,
		},
		{
			name:           "directory_without_index",
			relativePath:   "index.html",
			bodyContent:    `<a href="blog/">Blog</a>`,
			targetChecker:  stubTargetChecker{directories: map[string]struct{}{"site/blog": {}}},
			expectedCode:   seo.IssueMissingDirectoryIndex,
			expectedDetail: "directory without index.html: blog/",
		},
		{
			name:           "script_source_checked",
			relativePath:   "index.html",
			bodyContent:    `<script src="js/app.js"></script>`,
			targetChecker:  stubTargetChecker{},
			expectedCode:   seo.IssueBrokenInternalLink,
			expectedDetail: "missing target: js/app.js",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			auditor := newTestAuditor(subtest, testCase.targetChecker)
			detectedIssues := auditor.Audit(parseMarkup(subtest, pageMarkup("", testCase.bodyContent)), testCase.relativePath)

			linkIssues := collectIssues(detectedIssues, seo.IssueBrokenInternalLink, seo.IssueMissingDirectoryIndex)
			if testCase.expectNoFinding {
				require.Empty(subtest, linkIssues)
				return
			}
			require.Len(subtest, linkIssues, 1)
			require.Equal(subtest, testCase.expectedCode, linkIssues[0].Code)
			require.Equal(subtest, testCase.expectedDetail, linkIssues[0].Detail)
		})
	}
}
