package seo_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/htmldoc"
	"github.com/temirov/sitefix/internal/seo"
)

func parseMarkup(testInstance *testing.T, markup string) *htmldoc.Document {
	testInstance.Helper()
	parsedDocument, parseError := htmldoc.Parse([]byte(markup), "test.html")
	require.NoError(testInstance, parseError)
	return parsedDocument
}

func pageMarkup(headContent string, bodyContent string) string {
	return fmt.Sprintf("<!DOCTYPE html><html><head>%s</head><body>%s</body></html>", headContent, bodyContent)
}

func TestNewRuleTableDependencyOrdering(testInstance *testing.T) {
	ruleTable, tableError := seo.NewRuleTable(seo.DefaultBrandSettings())
	require.NoError(testInstance, tableError)

	orderedRules := ruleTable.Rules()
	require.Len(testInstance, orderedRules, 15)

	evaluatedFields := map[seo.FieldKind]struct{}{}
	for _, fieldRule := range orderedRules {
		for _, dependencyField := range fieldRule.DependsOn {
			_, evaluatedEarlier := evaluatedFields[dependencyField]
			require.True(testInstance, evaluatedEarlier, "field %s depends on %s which runs later", fieldRule.Field, dependencyField)
		}
		evaluatedFields[fieldRule.Field] = struct{}{}
	}
}

func TestFieldDetection(testInstance *testing.T) {
	testCases := []struct {
		name              string
		markup            string
		field             seo.FieldKind
		expectedStatus    seo.FieldStatus
		expectedIssueCode seo.IssueCode
	}{
		{
			name:           "title_within_bounds",
			markup:         pageMarkup(fmt.Sprintf("<title>%s</title>", strings.Repeat("t", 45)), ""),
			field:          seo.FieldTitle,
			expectedStatus: seo.FieldStatusPresent,
		},
		{
			name:              "title_too_short",
			markup:            pageMarkup(fmt.Sprintf("<title>%s</title>", strings.Repeat("t", 10)), ""),
			field:             seo.FieldTitle,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueTitleTooShort,
		},
		{
			name:              "title_too_long",
			markup:            pageMarkup(fmt.Sprintf("<title>%s</title>", strings.Repeat("t", 70)), ""),
			field:             seo.FieldTitle,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueTitleTooLong,
		},
		{
			name:              "description_absent",
			markup:            pageMarkup("", ""),
			field:             seo.FieldMetaDescription,
			expectedStatus:    seo.FieldStatusAbsent,
			expectedIssueCode: seo.IssueMissingDescription,
		},
		{
			name:           "description_within_bounds",
			markup:         pageMarkup(fmt.Sprintf(`<meta name="description" content="%s">`, strings.Repeat("d", 130)), ""),
			field:          seo.FieldMetaDescription,
			expectedStatus: seo.FieldStatusPresent,
		},
		{
			name:              "description_too_long",
			markup:            pageMarkup(fmt.Sprintf(`<meta name="description" content="%s">`, strings.Repeat("d", 170)), ""),
			field:             seo.FieldMetaDescription,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueDescriptionTooLong,
		},
		{
			name:              "canonical_empty_href",
			markup:            pageMarkup(`<link rel="canonical" href="">`, ""),
			field:             seo.FieldCanonical,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueEmptyCanonical,
		},
		{
			name:              "multiple_first_level_headings",
			markup:            pageMarkup("", "<h1>First</h1><h1>Second</h1>"),
			field:             seo.FieldH1,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueMultipleH1,
		},
		{
			name:              "viewport_not_responsive",
			markup:            pageMarkup(`<meta name="viewport" content="width=1024">`, ""),
			field:             seo.FieldViewport,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueViewportNotResponsive,
		},
		{
			name:              "structured_data_invalid",
			markup:            pageMarkup(`<script type="application/ld+json">{not json</script>`, ""),
			field:             seo.FieldStructuredData,
			expectedStatus:    seo.FieldStatusMalformed,
			expectedIssueCode: seo.IssueInvalidStructuredData,
		},
		{
			name:              "og_title_absent",
			markup:            pageMarkup("", ""),
			field:             seo.FieldOgTitle,
			expectedStatus:    seo.FieldStatusAbsent,
			expectedIssueCode: seo.IssueMissingOgTitle,
		},
		{
			name:           "twitter_card_present",
			markup:         pageMarkup(`<meta name="twitter:card" content="summary_large_image">`, ""),
			field:          seo.FieldTwitterCard,
			expectedStatus: seo.FieldStatusPresent,
		},
	}

	ruleTable, tableError := seo.NewRuleTable(seo.DefaultBrandSettings())
	require.NoError(testInstance, tableError)

	rulesByField := map[seo.FieldKind]seo.Rule{}
	for _, fieldRule := range ruleTable.Rules() {
		rulesByField[fieldRule.Field] = fieldRule
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			fieldRule, ruleFound := rulesByField[testCase.field]
			require.True(subtest, ruleFound)

			detection := fieldRule.Detect(parseMarkup(subtest, testCase.markup))
			require.Equal(subtest, testCase.field, detection.Field)
			require.Equal(subtest, testCase.expectedStatus, detection.Status)
			if len(testCase.expectedIssueCode) > 0 {
				require.NotNil(subtest, detection.Issue)
				require.Equal(subtest, testCase.expectedIssueCode, detection.Issue.Code)
			} else {
				require.Nil(subtest, detection.Issue)
			}
		})
	}
}
