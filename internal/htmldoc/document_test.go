package htmldoc_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	testSourcePathConstant        = "blog/post.html"
	testSubtestNameTemplate       = "%d_%s"
	testCompletePageConstant      = "<!DOCTYPE html><html><head><title> Travel Bags </title><meta name=\"description\" content=\" Premium bags. \"><link rel=\"canonical\" href=\"https://bespoke-bags.com/blog/post.html\"></head><body><main><h1>Travel Bags</h1><h3>Details</h3><p>Short.</p><img src=\"a.webp\"><img src=\"b.webp\" alt=\"Bag\"><a href=\"../index.html\">Home</a></main></body></html>"
	testFragmentPageConstant      = "<div><p>Loose fragment without a shell.</p></div>"
	testMalformedPageConstant     = "<html><head><title>Broken</head><body><p>Unclosed paragraph<div></body>"
	testSetTitleValueConstant     = "Weekend Bags | Bespoke Bags"
	testDescriptionValueConstant  = "A considerably longer product description for testing purposes."
	testCanonicalValueConstant    = "https://bespoke-bags.com/products/index.html"
	testStructuredDataConstant    = `{"@context": "https://schema.org", "@type": "WebPage"}`
	testInsertedHeadingConstant   = "Weekend Bags"
	testOpenGraphTitlePropertyKey = "og:title"
)

func TestParseShellPresence(testInstance *testing.T) {
	testCases := []struct {
		name          string
		content       string
		expectedShell htmldoc.ShellPresence
	}{
		{
			name:          "complete_shell",
			content:       testCompletePageConstant,
			expectedShell: htmldoc.ShellPresence{HasHTMLTag: true, HasHeadTag: true, HasBodyTag: true},
		},
		{
			name:          "fragment_without_shell",
			content:       testFragmentPageConstant,
			expectedShell: htmldoc.ShellPresence{},
		},
		{
			name:          "malformed_markup_still_parses",
			content:       testMalformedPageConstant,
			expectedShell: htmldoc.ShellPresence{HasHTMLTag: true, HasHeadTag: true, HasBodyTag: true},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedDocument, parseError := htmldoc.Parse([]byte(testCase.content), testSourcePathConstant)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedShell, parsedDocument.Shell())
			require.Equal(testInstance, testCase.expectedShell.Complete(), parsedDocument.Shell().Complete())
		})
	}
}

func TestDocumentFieldAccessors(testInstance *testing.T) {
	parsedDocument, parseError := htmldoc.Parse([]byte(testCompletePageConstant), testSourcePathConstant)
	require.NoError(testInstance, parseError)

	titleText, titlePresent := parsedDocument.Title()
	require.True(testInstance, titlePresent)
	require.Equal(testInstance, "Travel Bags", titleText)

	descriptionText, descriptionPresent := parsedDocument.MetaNameContent("description")
	require.True(testInstance, descriptionPresent)
	require.Equal(testInstance, "Premium bags.", descriptionText)

	_, keywordsPresent := parsedDocument.MetaNameContent("keywords")
	require.False(testInstance, keywordsPresent)

	canonicalTarget, canonicalPresent := parsedDocument.CanonicalHref()
	require.True(testInstance, canonicalPresent)
	require.Equal(testInstance, "https://bespoke-bags.com/blog/post.html", canonicalTarget)

	require.Equal(testInstance, 1, parsedDocument.FirstLevelHeadingCount())
	require.Equal(testInstance, "Travel Bags", parsedDocument.FirstLevelHeadingText())
	require.Equal(testInstance, []int{1, 3}, parsedDocument.HeadingLevels())
	require.Equal(testInstance, 1, parsedDocument.ImagesMissingAlternativeText())
	require.Empty(testInstance, parsedDocument.StructuredDataBlocks())
}

func TestDocumentMutators(testInstance *testing.T) {
	parsedDocument, parseError := htmldoc.Parse([]byte(testFragmentPageConstant), testSourcePathConstant)
	require.NoError(testInstance, parseError)

	parsedDocument.SetTitle(testSetTitleValueConstant)
	parsedDocument.SetMetaName("description", testDescriptionValueConstant)
	parsedDocument.SetMetaProperty(testOpenGraphTitlePropertyKey, testSetTitleValueConstant)
	parsedDocument.SetCanonical(testCanonicalValueConstant)
	parsedDocument.InsertLeadingHeading(testInsertedHeadingConstant)
	parsedDocument.AppendStructuredData(testStructuredDataConstant)

	titleText, titlePresent := parsedDocument.Title()
	require.True(testInstance, titlePresent)
	require.Equal(testInstance, testSetTitleValueConstant, titleText)

	descriptionText, descriptionPresent := parsedDocument.MetaNameContent("description")
	require.True(testInstance, descriptionPresent)
	require.Equal(testInstance, testDescriptionValueConstant, descriptionText)

	openGraphTitle, openGraphPresent := parsedDocument.MetaPropertyContent(testOpenGraphTitlePropertyKey)
	require.True(testInstance, openGraphPresent)
	require.Equal(testInstance, testSetTitleValueConstant, openGraphTitle)

	canonicalTarget, canonicalPresent := parsedDocument.CanonicalHref()
	require.True(testInstance, canonicalPresent)
	require.Equal(testInstance, testCanonicalValueConstant, canonicalTarget)

	require.Equal(testInstance, 1, parsedDocument.FirstLevelHeadingCount())
	require.Equal(testInstance, testInsertedHeadingConstant, parsedDocument.FirstLevelHeadingText())
	require.Len(testInstance, parsedDocument.StructuredDataBlocks(), 1)

	renderedDocument, renderError := parsedDocument.Render()
	require.NoError(testInstance, renderError)
	require.Contains(testInstance, renderedDocument, "<head>")
	require.Contains(testInstance, renderedDocument, "<body>")
	require.Contains(testInstance, renderedDocument, testSetTitleValueConstant)

	reparsedDocument, reparseError := htmldoc.Parse([]byte(renderedDocument), testSourcePathConstant)
	require.NoError(testInstance, reparseError)
	reparsedTitle, reparsedTitlePresent := reparsedDocument.Title()
	require.True(testInstance, reparsedTitlePresent)
	require.Equal(testInstance, testSetTitleValueConstant, reparsedTitle)
	require.True(testInstance, reparsedDocument.Shell().Complete())
}

func TestDocumentReferenceTraversal(testInstance *testing.T) {
	parsedDocument, parseError := htmldoc.Parse([]byte(testCompletePageConstant), testSourcePathConstant)
	require.NoError(testInstance, parseError)

	linkReferences := parsedDocument.LinkReferences()
	referenceValues := make([]string, 0, len(linkReferences))
	for _, linkReference := range linkReferences {
		referenceValues = append(referenceValues, linkReference.Value)
	}
	require.Equal(testInstance, []string{"https://bespoke-bags.com/blog/post.html", "a.webp", "b.webp", "../index.html"}, referenceValues)

	rewrittenCount := parsedDocument.RewriteReferences(func(tagName string, attributeName string, value string) (string, bool) {
		if value == "../index.html" {
			return "../home.html", true
		}
		return "", false
	})
	require.Equal(testInstance, 1, rewrittenCount)

	renderedDocument, renderError := parsedDocument.Render()
	require.NoError(testInstance, renderError)
	require.Contains(testInstance, renderedDocument, "../home.html")
	require.False(testInstance, strings.Contains(renderedDocument, "\"../index.html\""))
}
