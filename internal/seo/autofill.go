package seo

import (
	"strings"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	restoredShellValueConstant = "html, head, body"
)

// Autofiller synthesizes default values for missing or malformed fields and
// mutates the document in place. Rules run in table order, which the table
// constructor has validated against the declared field dependencies, so every
// copying rule reads a finalized value. Structural findings (alt coverage,
// heading jumps, broken links) are never fixed here.
type Autofiller struct {
	ruleTable *RuleTable
}

// NewAutofiller constructs an Autofiller over the shared rule table.
func NewAutofiller(ruleTable *RuleTable) *Autofiller {
	return &Autofiller{ruleTable: ruleTable}
}

// Autofill applies every applicable fix and reports the mutations. The
// returned flag indicates whether the document changed and needs writing
// back. Serializing the parsed tree always emits a full document shell, so a
// source missing one is repaired by the write-back itself and recorded here.
func (autofiller *Autofiller) Autofill(document *htmldoc.Document, relativePath string) ([]FixRecord, bool) {
	location := PageLocation{RelativePath: normalizeRelativePath(relativePath)}
	var appliedFixes []FixRecord

	if !document.Shell().Complete() {
		appliedFixes = append(appliedFixes, FixRecord{Field: FieldDocumentShell, NewValue: restoredShellValueConstant})
	}

	for _, fieldRule := range autofiller.ruleTable.Rules() {
		if fieldRule.Fix == nil {
			continue
		}
		detection := fieldRule.Detect(document)
		if detection.Status == FieldStatusPresent {
			continue
		}
		if fixRecord, fixApplied := fieldRule.Fix(document, location, detection); fixApplied {
			appliedFixes = append(appliedFixes, fixRecord)
		}
	}

	appliedFixes = append(appliedFixes, autofiller.applySupplementaryMetadata(document)...)

	return appliedFixes, len(appliedFixes) > 0
}

// applySupplementaryMetadata adds the site-identity tags that accompany the
// social fields: og:type, og:site_name, and the twitter:site handle.
func (autofiller *Autofiller) applySupplementaryMetadata(document *htmldoc.Document) []FixRecord {
	settings := autofiller.ruleTable.Settings()
	var appliedFixes []FixRecord

	if _, present := document.MetaPropertyContent(ogTypePropertyConstant); !present {
		document.SetMetaProperty(ogTypePropertyConstant, settings.OpenGraphType)
		appliedFixes = append(appliedFixes, FixRecord{Field: FieldOgType, NewValue: settings.OpenGraphType})
	}
	if _, present := document.MetaPropertyContent(ogSiteNameProperty); !present {
		document.SetMetaProperty(ogSiteNameProperty, settings.SiteName)
		appliedFixes = append(appliedFixes, FixRecord{Field: FieldOgSiteName, NewValue: settings.SiteName})
	}
	if _, present := document.MetaNameContent(twitterSiteMetaName); !present {
		document.SetMetaName(twitterSiteMetaName, settings.TwitterHandle)
		appliedFixes = append(appliedFixes, FixRecord{Field: FieldTwitterSite, NewValue: settings.TwitterHandle})
	}

	return appliedFixes
}

func normalizeRelativePath(relativePath string) string {
	return strings.ReplaceAll(relativePath, "\\", "/")
}
