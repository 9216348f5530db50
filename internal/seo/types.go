package seo

import (
	"path"
	"strings"
)

// FieldKind identifies one SEO-relevant document field.
type FieldKind string

// Fields covered by the audit rule table, in evaluation order.
const (
	FieldTitle              FieldKind = "title"
	FieldMetaDescription    FieldKind = "meta_description"
	FieldMetaKeywords       FieldKind = "meta_keywords"
	FieldCanonical          FieldKind = "canonical"
	FieldH1                 FieldKind = "h1"
	FieldViewport           FieldKind = "viewport"
	FieldOgTitle            FieldKind = "og_title"
	FieldOgDescription      FieldKind = "og_description"
	FieldOgURL              FieldKind = "og_url"
	FieldOgImage            FieldKind = "og_image"
	FieldTwitterCard        FieldKind = "twitter_card"
	FieldTwitterTitle       FieldKind = "twitter_title"
	FieldTwitterDescription FieldKind = "twitter_description"
	FieldTwitterImage       FieldKind = "twitter_image"
	FieldStructuredData     FieldKind = "structured_data"
)

// Supplementary fields repaired outside the rule table.
const (
	FieldDocumentShell FieldKind = "document_shell"
	FieldOgType        FieldKind = "og_type"
	FieldOgSiteName    FieldKind = "og_site_name"
	FieldTwitterSite   FieldKind = "twitter_site"
)

// IssueCode enumerates the audit findings.
type IssueCode string

// Issue codes produced by the field table and the structural checks.
const (
	IssueMissingTitle            IssueCode = "missing_title"
	IssueTitleTooShort           IssueCode = "title_too_short"
	IssueTitleTooLong            IssueCode = "title_too_long"
	IssueMissingDescription      IssueCode = "missing_meta_description"
	IssueDescriptionTooShort     IssueCode = "meta_description_too_short"
	IssueDescriptionTooLong      IssueCode = "meta_description_too_long"
	IssueMissingKeywords         IssueCode = "missing_meta_keywords"
	IssueMissingCanonical        IssueCode = "missing_canonical"
	IssueEmptyCanonical          IssueCode = "empty_canonical"
	IssueMissingH1               IssueCode = "missing_h1"
	IssueMultipleH1              IssueCode = "multiple_h1"
	IssueMissingViewport         IssueCode = "missing_viewport"
	IssueViewportNotResponsive   IssueCode = "viewport_not_responsive"
	IssueMissingOgTitle          IssueCode = "missing_og_title"
	IssueMissingOgDescription    IssueCode = "missing_og_description"
	IssueMissingOgURL            IssueCode = "missing_og_url"
	IssueMissingOgImage          IssueCode = "missing_og_image"
	IssueMissingTwitterCard      IssueCode = "missing_twitter_card"
	IssueMissingTwitterTitle     IssueCode = "missing_twitter_title"
	IssueMissingTwitterDesc      IssueCode = "missing_twitter_description"
	IssueMissingTwitterImage     IssueCode = "missing_twitter_image"
	IssueMissingStructuredData   IssueCode = "missing_structured_data"
	IssueInvalidStructuredData   IssueCode = "invalid_structured_data"
	IssueIncompleteDocumentShell IssueCode = "incomplete_document_shell"
	IssueImagesMissingAlt        IssueCode = "images_missing_alt"
	IssueHeadingLevelJump        IssueCode = "heading_level_jump"
	IssueBrokenInternalLink      IssueCode = "broken_internal_link"
	IssueMissingDirectoryIndex   IssueCode = "missing_directory_index"
)

// Issue is one audit finding. Issues are value types recomputed on every
// audit; report order equals detection order.
type Issue struct {
	Code   IssueCode `json:"code"`
	Detail string    `json:"detail"`
}

// FixRecord documents one applied document mutation.
type FixRecord struct {
	Field    FieldKind `json:"field"`
	OldValue string    `json:"old_value,omitempty"`
	NewValue string    `json:"new_value"`
}

// FieldStatus classifies a field detection outcome.
type FieldStatus string

// Detection outcomes.
const (
	FieldStatusPresent   FieldStatus = "present"
	FieldStatusAbsent    FieldStatus = "absent"
	FieldStatusMalformed FieldStatus = "malformed"
)

// Detection is the result of running one field detector.
type Detection struct {
	Field  FieldKind
	Status FieldStatus
	Value  string
	Issue  *Issue
}

// PageLocation describes where a document lives relative to the site root,
// using forward slashes regardless of platform.
type PageLocation struct {
	RelativePath string
}

// BaseName returns the file name without its extension.
func (location PageLocation) BaseName() string {
	fileName := path.Base(location.RelativePath)
	return strings.TrimSuffix(fileName, path.Ext(fileName))
}

// HumanName returns the base name with separators replaced by spaces.
func (location PageLocation) HumanName() string {
	return strings.ReplaceAll(strings.ReplaceAll(location.BaseName(), "-", " "), "_", " ")
}
