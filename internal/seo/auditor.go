package seo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	fragmentPrefixConstant           = "#"
	mailtoPrefixConstant             = "mailto:"
	telephonePrefixConstant          = "tel:"
	javascriptPrefixConstant         = "javascript:"
	dataPrefixConstant               = "data:"
	httpPrefixConstant               = "http://"
	httpsPrefixConstant              = "https://"
	protocolRelativePrefixConstant   = "//"
	rootRelativePrefixConstant       = "/"
	directoryIndexFileNameConstant   = "index.html"
	querySeparatorConstant           = "?"
	shellDetailTemplateConstant      = "document shell incomplete: missing %s"
	missingAltDetailTemplateConstant = "%d images missing alt text"
	headingJumpDetailTemplate        = "h%d jumps past h%d"
	brokenLinkDetailTemplate         = "missing target: %s"
	missingIndexDetailTemplate       = "directory without index.html: %s"
	htmlTagNameConstant              = "html"
	headTagNameConstant              = "head"
	bodyTagNameConstant              = "body"
)

// TargetChecker answers filesystem existence questions for link resolution.
type TargetChecker interface {
	TargetExists(targetPath string) (exists bool, isDirectory bool)
}

// OSTargetChecker resolves link targets against the real filesystem.
type OSTargetChecker struct{}

// TargetExists reports whether the path exists and whether it is a directory.
func (OSTargetChecker) TargetExists(targetPath string) (bool, bool) {
	fileInformation, statError := os.Stat(targetPath)
	if statError != nil {
		return false, false
	}
	return true, fileInformation.IsDir()
}

// Auditor runs the field rule table and the structural checks over one
// document at a time. Audit never mutates the document.
type Auditor struct {
	ruleTable     *RuleTable
	rootDirectory string
	targetChecker TargetChecker
}

// NewAuditor constructs an Auditor for documents beneath rootDirectory. A nil
// targetChecker falls back to the real filesystem.
func NewAuditor(ruleTable *RuleTable, rootDirectory string, targetChecker TargetChecker) *Auditor {
	if targetChecker == nil {
		targetChecker = OSTargetChecker{}
	}
	return &Auditor{ruleTable: ruleTable, rootDirectory: rootDirectory, targetChecker: targetChecker}
}

// Audit evaluates every field rule in table order, then the structural
// checks: document shell, aggregated image alt coverage, heading hierarchy,
// and internal link targets. Issue order equals detection order.
func (auditor *Auditor) Audit(document *htmldoc.Document, relativePath string) []Issue {
	var detectedIssues []Issue

	for _, fieldRule := range auditor.ruleTable.Rules() {
		detection := fieldRule.Detect(document)
		if detection.Issue != nil {
			detectedIssues = append(detectedIssues, *detection.Issue)
		}
	}

	if shellIssue := auditShell(document); shellIssue != nil {
		detectedIssues = append(detectedIssues, *shellIssue)
	}

	if missingAltCount := document.ImagesMissingAlternativeText(); missingAltCount > 0 {
		detectedIssues = append(detectedIssues, Issue{Code: IssueImagesMissingAlt, Detail: fmt.Sprintf(missingAltDetailTemplateConstant, missingAltCount)})
	}

	detectedIssues = append(detectedIssues, auditHeadingHierarchy(document)...)
	detectedIssues = append(detectedIssues, auditor.auditInternalLinks(document, relativePath)...)

	return detectedIssues
}

func auditShell(document *htmldoc.Document) *Issue {
	shell := document.Shell()
	if shell.Complete() {
		return nil
	}

	var missingTags []string
	if !shell.HasHTMLTag {
		missingTags = append(missingTags, htmlTagNameConstant)
	}
	if !shell.HasHeadTag {
		missingTags = append(missingTags, headTagNameConstant)
	}
	if !shell.HasBodyTag {
		missingTags = append(missingTags, bodyTagNameConstant)
	}
	return &Issue{Code: IssueIncompleteDocumentShell, Detail: fmt.Sprintf(shellDetailTemplateConstant, strings.Join(missingTags, ", "))}
}

// auditHeadingHierarchy flags headings whose level exceeds the previous
// heading's level by more than one.
func auditHeadingHierarchy(document *htmldoc.Document) []Issue {
	var hierarchyIssues []Issue
	previousLevel := 0
	for _, headingLevel := range document.HeadingLevels() {
		if headingLevel > previousLevel+1 {
			hierarchyIssues = append(hierarchyIssues, Issue{Code: IssueHeadingLevelJump, Detail: fmt.Sprintf(headingJumpDetailTemplate, headingLevel, previousLevel+1)})
		}
		previousLevel = headingLevel
	}
	return hierarchyIssues
}

// auditInternalLinks resolves relative and root-relative references against
// the file's directory or the site root and reports missing targets, one
// issue per broken reference, naming the original link value.
func (auditor *Auditor) auditInternalLinks(document *htmldoc.Document, relativePath string) []Issue {
	var linkIssues []Issue

	for _, linkReference := range document.LinkReferences() {
		targetPath, resolvable := auditor.resolveLinkTarget(linkReference.Value, relativePath)
		if !resolvable {
			continue
		}

		targetExists, targetIsDirectory := auditor.targetChecker.TargetExists(targetPath)
		if !targetExists {
			linkIssues = append(linkIssues, Issue{Code: IssueBrokenInternalLink, Detail: fmt.Sprintf(brokenLinkDetailTemplate, linkReference.Value)})
			continue
		}
		if targetIsDirectory {
			indexExists, _ := auditor.targetChecker.TargetExists(filepath.Join(targetPath, directoryIndexFileNameConstant))
			if !indexExists {
				linkIssues = append(linkIssues, Issue{Code: IssueMissingDirectoryIndex, Detail: fmt.Sprintf(missingIndexDetailTemplate, linkReference.Value)})
			}
		}
	}

	return linkIssues
}

// resolveLinkTarget maps an internal reference to a filesystem path. External
// schemes, fragments, and non-navigational references resolve to nothing.
func (auditor *Auditor) resolveLinkTarget(linkValue string, relativePath string) (string, bool) {
	if isExternalReference(linkValue) {
		return "", false
	}

	strippedValue := linkValue
	if queryIndex := strings.Index(strippedValue, querySeparatorConstant); queryIndex >= 0 {
		strippedValue = strippedValue[:queryIndex]
	}
	if fragmentIndex := strings.Index(strippedValue, fragmentPrefixConstant); fragmentIndex >= 0 {
		strippedValue = strippedValue[:fragmentIndex]
	}
	if len(strippedValue) == 0 {
		return "", false
	}

	if strings.HasPrefix(strippedValue, rootRelativePrefixConstant) {
		return filepath.Join(auditor.rootDirectory, filepath.FromSlash(strings.TrimPrefix(strippedValue, rootRelativePrefixConstant))), true
	}

	documentDirectory := filepath.Dir(filepath.FromSlash(relativePath))
	return filepath.Join(auditor.rootDirectory, documentDirectory, filepath.FromSlash(strippedValue)), true
}

func isExternalReference(linkValue string) bool {
	switch {
	case strings.HasPrefix(linkValue, fragmentPrefixConstant),
		strings.HasPrefix(linkValue, mailtoPrefixConstant),
		strings.HasPrefix(linkValue, telephonePrefixConstant),
		strings.HasPrefix(linkValue, javascriptPrefixConstant),
		strings.HasPrefix(linkValue, dataPrefixConstant),
		strings.HasPrefix(linkValue, httpPrefixConstant),
		strings.HasPrefix(linkValue, httpsPrefixConstant),
		strings.HasPrefix(linkValue, protocolRelativePrefixConstant):
		return true
	}
	return false
}
