package seo

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	titleMinimumLengthConstant       = 30
	titleMaximumLengthConstant       = 60
	titleTruncationLengthConstant    = 57
	descriptionMinimumLengthConstant = 120
	descriptionMaximumLengthConstant = 160
	descriptionTruncationConstant    = 157
	paragraphMinimumLengthConstant   = 50
	ellipsisConstant                 = "..."

	descriptionMetaNameConstant = "description"
	keywordsMetaNameConstant    = "keywords"
	viewportMetaNameConstant    = "viewport"
	ogTitlePropertyConstant     = "og:title"
	ogDescriptionProperty       = "og:description"
	ogURLPropertyConstant       = "og:url"
	ogImagePropertyConstant     = "og:image"
	ogTypePropertyConstant      = "og:type"
	ogSiteNameProperty          = "og:site_name"
	twitterCardMetaName         = "twitter:card"
	twitterTitleMetaName        = "twitter:title"
	twitterDescriptionMetaName  = "twitter:description"
	twitterImageMetaName        = "twitter:image"
	twitterSiteMetaName         = "twitter:site"

	structuredDataContextConstant = "https://schema.org"
	structuredDataTypeConstant    = "WebPage"
	structuredDataPublisherType   = "Organization"
	structuredDataIndentConstant  = "  "

	duplicateRuleFieldTemplateConstant   = "rule table declares field %s twice"
	dependencyOrderErrorTemplateConstant = "rule for field %s depends on %s, which is not evaluated earlier"

	missingTitleDetailConstant          = "title element absent or empty"
	titleLengthDetailTemplateConstant   = "title is %d characters"
	missingDescriptionDetailConstant    = "description meta absent or empty"
	descriptionLengthDetailTemplate     = "meta description is %d characters"
	missingKeywordsDetailConstant       = "keywords meta absent or empty"
	missingCanonicalDetailConstant      = "canonical link absent"
	emptyCanonicalDetailConstant        = "canonical link has an empty href"
	missingH1DetailConstant             = "no h1 element"
	multipleH1DetailTemplateConstant    = "%d h1 elements"
	missingViewportDetailConstant       = "viewport meta absent"
	viewportDetailTemplateConstant      = "viewport content %q lacks width=device-width"
	missingSocialDetailTemplate         = "%s tag absent"
	missingStructuredDataDetailConstant = "no JSON-LD script block"
	invalidStructuredDataDetailTemplate = "JSON-LD block does not parse as a JSON object: %v"
)

// Rule binds one field to its detector and best-effort fixer. DependsOn lists
// fields whose finalized values the fixer copies; the table constructor
// rejects orders that would copy a value before it is finalized.
type Rule struct {
	Field     FieldKind
	DependsOn []FieldKind
	Detect    func(document *htmldoc.Document) Detection
	Fix       func(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool)
}

// RuleTable is the constructed-once, read-only ordered rule list shared by
// the Auditor and the Autofiller.
type RuleTable struct {
	settings BrandSettings
	rules    []Rule
}

// NewRuleTable builds the rule table in its canonical evaluation order and
// validates the field-dependency ordering at construction time.
func NewRuleTable(settings BrandSettings) (*RuleTable, error) {
	generators := newGeneratorContext(settings)

	orderedRules := []Rule{
		{Field: FieldTitle, Detect: detectTitle, Fix: generators.fixTitle},
		{Field: FieldMetaDescription, Detect: detectDescription, Fix: generators.fixDescription},
		{Field: FieldMetaKeywords, Detect: detectKeywords, Fix: generators.fixKeywords},
		{Field: FieldCanonical, Detect: detectCanonical, Fix: generators.fixCanonical},
		{Field: FieldH1, DependsOn: []FieldKind{FieldTitle}, Detect: detectH1, Fix: generators.fixH1},
		{Field: FieldViewport, Detect: detectViewport, Fix: generators.fixViewport},
		{Field: FieldOgTitle, DependsOn: []FieldKind{FieldTitle}, Detect: detectMetaProperty(FieldOgTitle, ogTitlePropertyConstant, IssueMissingOgTitle), Fix: generators.fixOgTitle},
		{Field: FieldOgDescription, DependsOn: []FieldKind{FieldMetaDescription}, Detect: detectMetaProperty(FieldOgDescription, ogDescriptionProperty, IssueMissingOgDescription), Fix: generators.fixOgDescription},
		{Field: FieldOgURL, DependsOn: []FieldKind{FieldCanonical}, Detect: detectMetaProperty(FieldOgURL, ogURLPropertyConstant, IssueMissingOgURL), Fix: generators.fixOgURL},
		{Field: FieldOgImage, Detect: detectMetaProperty(FieldOgImage, ogImagePropertyConstant, IssueMissingOgImage), Fix: generators.fixOgImage},
		{Field: FieldTwitterCard, Detect: detectMetaName(FieldTwitterCard, twitterCardMetaName, IssueMissingTwitterCard), Fix: generators.fixTwitterCard},
		{Field: FieldTwitterTitle, DependsOn: []FieldKind{FieldTitle}, Detect: detectMetaName(FieldTwitterTitle, twitterTitleMetaName, IssueMissingTwitterTitle), Fix: generators.fixTwitterTitle},
		{Field: FieldTwitterDescription, DependsOn: []FieldKind{FieldMetaDescription}, Detect: detectMetaName(FieldTwitterDescription, twitterDescriptionMetaName, IssueMissingTwitterDesc), Fix: generators.fixTwitterDescription},
		{Field: FieldTwitterImage, Detect: detectMetaName(FieldTwitterImage, twitterImageMetaName, IssueMissingTwitterImage), Fix: generators.fixTwitterImage},
		{Field: FieldStructuredData, DependsOn: []FieldKind{FieldTitle, FieldMetaDescription, FieldCanonical}, Detect: detectStructuredData, Fix: generators.fixStructuredData},
	}

	seenFields := make(map[FieldKind]struct{}, len(orderedRules))
	for _, orderedRule := range orderedRules {
		if _, duplicate := seenFields[orderedRule.Field]; duplicate {
			return nil, fmt.Errorf(duplicateRuleFieldTemplateConstant, orderedRule.Field)
		}
		for _, dependencyField := range orderedRule.DependsOn {
			if _, satisfied := seenFields[dependencyField]; !satisfied {
				return nil, fmt.Errorf(dependencyOrderErrorTemplateConstant, orderedRule.Field, dependencyField)
			}
		}
		seenFields[orderedRule.Field] = struct{}{}
	}

	return &RuleTable{settings: settings, rules: orderedRules}, nil
}

// Rules returns the ordered rule list.
func (table *RuleTable) Rules() []Rule {
	duplicatedRules := make([]Rule, len(table.rules))
	copy(duplicatedRules, table.rules)
	return duplicatedRules
}

// Settings returns the brand settings the table was built with.
func (table *RuleTable) Settings() BrandSettings {
	return table.settings
}

// generatorContext carries the brand settings and shared helpers the fixers
// close over.
type generatorContext struct {
	settings   BrandSettings
	titleCaser cases.Caser
}

func newGeneratorContext(settings BrandSettings) *generatorContext {
	return &generatorContext{settings: settings, titleCaser: cases.Title(language.English)}
}

// Detectors.

func detectTitle(document *htmldoc.Document) Detection {
	titleText, titlePresent := document.Title()
	if !titlePresent || len(titleText) == 0 {
		return Detection{Field: FieldTitle, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingTitle, Detail: missingTitleDetailConstant}}
	}

	titleLength := utf8.RuneCountInString(titleText)
	if titleLength < titleMinimumLengthConstant {
		return Detection{Field: FieldTitle, Status: FieldStatusMalformed, Value: titleText, Issue: &Issue{Code: IssueTitleTooShort, Detail: fmt.Sprintf(titleLengthDetailTemplateConstant, titleLength)}}
	}
	if titleLength > titleMaximumLengthConstant {
		return Detection{Field: FieldTitle, Status: FieldStatusMalformed, Value: titleText, Issue: &Issue{Code: IssueTitleTooLong, Detail: fmt.Sprintf(titleLengthDetailTemplateConstant, titleLength)}}
	}
	return Detection{Field: FieldTitle, Status: FieldStatusPresent, Value: titleText}
}

func detectDescription(document *htmldoc.Document) Detection {
	descriptionText, descriptionPresent := document.MetaNameContent(descriptionMetaNameConstant)
	if !descriptionPresent || len(descriptionText) == 0 {
		return Detection{Field: FieldMetaDescription, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingDescription, Detail: missingDescriptionDetailConstant}}
	}

	descriptionLength := utf8.RuneCountInString(descriptionText)
	if descriptionLength < descriptionMinimumLengthConstant {
		return Detection{Field: FieldMetaDescription, Status: FieldStatusMalformed, Value: descriptionText, Issue: &Issue{Code: IssueDescriptionTooShort, Detail: fmt.Sprintf(descriptionLengthDetailTemplate, descriptionLength)}}
	}
	if descriptionLength > descriptionMaximumLengthConstant {
		return Detection{Field: FieldMetaDescription, Status: FieldStatusMalformed, Value: descriptionText, Issue: &Issue{Code: IssueDescriptionTooLong, Detail: fmt.Sprintf(descriptionLengthDetailTemplate, descriptionLength)}}
	}
	return Detection{Field: FieldMetaDescription, Status: FieldStatusPresent, Value: descriptionText}
}

func detectKeywords(document *htmldoc.Document) Detection {
	keywordsText, keywordsPresent := document.MetaNameContent(keywordsMetaNameConstant)
	if !keywordsPresent || len(keywordsText) == 0 {
		return Detection{Field: FieldMetaKeywords, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingKeywords, Detail: missingKeywordsDetailConstant}}
	}
	return Detection{Field: FieldMetaKeywords, Status: FieldStatusPresent, Value: keywordsText}
}

func detectCanonical(document *htmldoc.Document) Detection {
	canonicalTarget, canonicalPresent := document.CanonicalHref()
	if !canonicalPresent {
		return Detection{Field: FieldCanonical, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingCanonical, Detail: missingCanonicalDetailConstant}}
	}
	if len(canonicalTarget) == 0 {
		return Detection{Field: FieldCanonical, Status: FieldStatusMalformed, Issue: &Issue{Code: IssueEmptyCanonical, Detail: emptyCanonicalDetailConstant}}
	}
	return Detection{Field: FieldCanonical, Status: FieldStatusPresent, Value: canonicalTarget}
}

func detectH1(document *htmldoc.Document) Detection {
	headingCount := document.FirstLevelHeadingCount()
	if headingCount == 0 {
		return Detection{Field: FieldH1, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingH1, Detail: missingH1DetailConstant}}
	}
	if headingCount > 1 {
		return Detection{Field: FieldH1, Status: FieldStatusMalformed, Issue: &Issue{Code: IssueMultipleH1, Detail: fmt.Sprintf(multipleH1DetailTemplateConstant, headingCount)}}
	}
	return Detection{Field: FieldH1, Status: FieldStatusPresent, Value: document.FirstLevelHeadingText()}
}

func detectViewport(document *htmldoc.Document) Detection {
	viewportContent, viewportPresent := document.MetaNameContent(viewportMetaNameConstant)
	if !viewportPresent {
		return Detection{Field: FieldViewport, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingViewport, Detail: missingViewportDetailConstant}}
	}
	if !strings.Contains(viewportContent, responsiveViewportMarkerConstant) {
		return Detection{Field: FieldViewport, Status: FieldStatusMalformed, Value: viewportContent, Issue: &Issue{Code: IssueViewportNotResponsive, Detail: fmt.Sprintf(viewportDetailTemplateConstant, viewportContent)}}
	}
	return Detection{Field: FieldViewport, Status: FieldStatusPresent, Value: viewportContent}
}

func detectMetaProperty(field FieldKind, propertyName string, missingCode IssueCode) func(document *htmldoc.Document) Detection {
	return func(document *htmldoc.Document) Detection {
		contentValue, contentPresent := document.MetaPropertyContent(propertyName)
		if !contentPresent {
			return Detection{Field: field, Status: FieldStatusAbsent, Issue: &Issue{Code: missingCode, Detail: fmt.Sprintf(missingSocialDetailTemplate, propertyName)}}
		}
		return Detection{Field: field, Status: FieldStatusPresent, Value: contentValue}
	}
}

func detectMetaName(field FieldKind, metaName string, missingCode IssueCode) func(document *htmldoc.Document) Detection {
	return func(document *htmldoc.Document) Detection {
		contentValue, contentPresent := document.MetaNameContent(metaName)
		if !contentPresent {
			return Detection{Field: field, Status: FieldStatusAbsent, Issue: &Issue{Code: missingCode, Detail: fmt.Sprintf(missingSocialDetailTemplate, metaName)}}
		}
		return Detection{Field: field, Status: FieldStatusPresent, Value: contentValue}
	}
}

func detectStructuredData(document *htmldoc.Document) Detection {
	structuredDataBlocks := document.StructuredDataBlocks()
	if len(structuredDataBlocks) == 0 {
		return Detection{Field: FieldStructuredData, Status: FieldStatusAbsent, Issue: &Issue{Code: IssueMissingStructuredData, Detail: missingStructuredDataDetailConstant}}
	}

	for _, structuredDataBlock := range structuredDataBlocks {
		parsedObject := map[string]any{}
		if unmarshalError := json.Unmarshal([]byte(structuredDataBlock), &parsedObject); unmarshalError != nil {
			return Detection{Field: FieldStructuredData, Status: FieldStatusMalformed, Issue: &Issue{Code: IssueInvalidStructuredData, Detail: fmt.Sprintf(invalidStructuredDataDetailTemplate, unmarshalError)}}
		}
	}
	return Detection{Field: FieldStructuredData, Status: FieldStatusPresent, Value: structuredDataBlocks[0]}
}

// Fixers. Each runs after every rule it depends on, so copied values are
// always final.

func (generators *generatorContext) fixTitle(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Issue == nil {
		return FixRecord{}, false
	}

	switch detection.Issue.Code {
	case IssueMissingTitle:
		synthesizedTitle := generators.synthesizeTitle(document, location)
		document.SetTitle(synthesizedTitle)
		return FixRecord{Field: FieldTitle, NewValue: synthesizedTitle}, true
	case IssueTitleTooShort:
		expandedTitle := detection.Value + generators.settings.ShortTitleSuffix
		document.SetTitle(expandedTitle)
		return FixRecord{Field: FieldTitle, OldValue: detection.Value, NewValue: expandedTitle}, true
	case IssueTitleTooLong:
		shortenedTitle := truncateWithEllipsis(detection.Value, titleTruncationLengthConstant)
		document.SetTitle(shortenedTitle)
		if _, ogTitlePresent := document.MetaPropertyContent(ogTitlePropertyConstant); ogTitlePresent {
			document.SetMetaProperty(ogTitlePropertyConstant, shortenedTitle)
		}
		if _, twitterTitlePresent := document.MetaNameContent(twitterTitleMetaName); twitterTitlePresent {
			document.SetMetaName(twitterTitleMetaName, shortenedTitle)
		}
		return FixRecord{Field: FieldTitle, OldValue: detection.Value, NewValue: shortenedTitle}, true
	}
	return FixRecord{}, false
}

func (generators *generatorContext) fixDescription(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Issue == nil {
		return FixRecord{}, false
	}

	switch detection.Issue.Code {
	case IssueMissingDescription:
		synthesizedDescription := generators.synthesizeDescription(document, location)
		document.SetMetaName(descriptionMetaNameConstant, synthesizedDescription)
		return FixRecord{Field: FieldMetaDescription, NewValue: synthesizedDescription}, true
	case IssueDescriptionTooShort:
		expandedDescription := truncateRunes(detection.Value+generators.settings.DescriptionFiller, descriptionMaximumLengthConstant)
		document.SetMetaName(descriptionMetaNameConstant, expandedDescription)
		return FixRecord{Field: FieldMetaDescription, OldValue: detection.Value, NewValue: expandedDescription}, true
	}
	return FixRecord{}, false
}

func (generators *generatorContext) fixKeywords(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	keywordGroups := []string{generators.settings.BaseKeywords}
	loweredBaseName := strings.ToLower(location.BaseName())
	for _, keywordTrigger := range generators.settings.KeywordTriggers {
		if strings.Contains(loweredBaseName, keywordTrigger.Substring) {
			keywordGroups = append(keywordGroups, keywordTrigger.Keywords)
		}
	}

	keywordsValue := strings.Join(keywordGroups, ", ")
	document.SetMetaName(keywordsMetaNameConstant, keywordsValue)
	return FixRecord{Field: FieldMetaKeywords, NewValue: keywordsValue}, true
}

func (generators *generatorContext) fixCanonical(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status == FieldStatusPresent {
		return FixRecord{}, false
	}

	canonicalURL := generators.settings.PageURL(location.RelativePath)
	document.SetCanonical(canonicalURL)
	return FixRecord{Field: FieldCanonical, NewValue: canonicalURL}, true
}

func (generators *generatorContext) fixH1(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	titleText, titlePresent := document.Title()
	if !titlePresent || len(titleText) == 0 {
		titleText = generators.synthesizeTitle(document, location)
	}
	headingText := generators.settings.StripTitleSuffixes(titleText)
	document.InsertLeadingHeading(headingText)
	return FixRecord{Field: FieldH1, NewValue: headingText}, true
}

func (generators *generatorContext) fixViewport(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	document.SetMetaName(viewportMetaNameConstant, generators.settings.ViewportContent)
	return FixRecord{Field: FieldViewport, NewValue: generators.settings.ViewportContent}, true
}

func (generators *generatorContext) fixOgTitle(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	titleValue := generators.finalTitle(document, location)
	document.SetMetaProperty(ogTitlePropertyConstant, titleValue)
	return FixRecord{Field: FieldOgTitle, NewValue: titleValue}, true
}

func (generators *generatorContext) fixOgDescription(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	descriptionValue := generators.finalDescription(document, location)
	document.SetMetaProperty(ogDescriptionProperty, descriptionValue)
	return FixRecord{Field: FieldOgDescription, NewValue: descriptionValue}, true
}

func (generators *generatorContext) fixOgURL(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	pageURL := generators.finalPageURL(document, location)
	document.SetMetaProperty(ogURLPropertyConstant, pageURL)
	return FixRecord{Field: FieldOgURL, NewValue: pageURL}, true
}

func (generators *generatorContext) fixOgImage(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	document.SetMetaProperty(ogImagePropertyConstant, generators.settings.OpenGraphImageURL)
	return FixRecord{Field: FieldOgImage, NewValue: generators.settings.OpenGraphImageURL}, true
}

func (generators *generatorContext) fixTwitterCard(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	document.SetMetaName(twitterCardMetaName, generators.settings.TwitterCardType)
	return FixRecord{Field: FieldTwitterCard, NewValue: generators.settings.TwitterCardType}, true
}

func (generators *generatorContext) fixTwitterTitle(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	titleValue := generators.finalTitle(document, location)
	document.SetMetaName(twitterTitleMetaName, titleValue)
	return FixRecord{Field: FieldTwitterTitle, NewValue: titleValue}, true
}

func (generators *generatorContext) fixTwitterDescription(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	descriptionValue := generators.finalDescription(document, location)
	document.SetMetaName(twitterDescriptionMetaName, descriptionValue)
	return FixRecord{Field: FieldTwitterDescription, NewValue: descriptionValue}, true
}

func (generators *generatorContext) fixTwitterImage(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	document.SetMetaName(twitterImageMetaName, generators.settings.TwitterImageURL)
	return FixRecord{Field: FieldTwitterImage, NewValue: generators.settings.TwitterImageURL}, true
}

type structuredDataPublisher struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type structuredDataPayload struct {
	Context     string                  `json:"@context"`
	Type        string                  `json:"@type"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	URL         string                  `json:"url"`
	Publisher   structuredDataPublisher `json:"publisher"`
}

func (generators *generatorContext) fixStructuredData(document *htmldoc.Document, location PageLocation, detection Detection) (FixRecord, bool) {
	if detection.Status != FieldStatusAbsent {
		return FixRecord{}, false
	}

	payload := structuredDataPayload{
		Context:     structuredDataContextConstant,
		Type:        structuredDataTypeConstant,
		Name:        generators.finalTitle(document, location),
		Description: generators.finalDescription(document, location),
		URL:         generators.finalPageURL(document, location),
		Publisher: structuredDataPublisher{
			Type: structuredDataPublisherType,
			Name: generators.settings.SiteName,
			URL:  generators.settings.BaseURL,
		},
	}

	encodedPayload, marshalError := json.MarshalIndent(payload, "", structuredDataIndentConstant)
	if marshalError != nil {
		return FixRecord{}, false
	}

	document.AppendStructuredData(string(encodedPayload))
	return FixRecord{Field: FieldStructuredData, NewValue: string(encodedPayload)}, true
}

// Generator helpers.

// synthesizeTitle derives a title from the first h1, falling back to the
// title-cased file name, then applies the brand suffix and the 60-character
// bound.
func (generators *generatorContext) synthesizeTitle(document *htmldoc.Document, location PageLocation) string {
	derivedTitle := document.FirstLevelHeadingText()
	if len(derivedTitle) == 0 {
		derivedTitle = generators.titleCaser.String(location.HumanName())
	}

	if utf8.RuneCountInString(derivedTitle) < titleMaximumLengthConstant {
		derivedTitle += generators.settings.TitleSuffix
	}
	if utf8.RuneCountInString(derivedTitle) > titleMaximumLengthConstant {
		derivedTitle = truncateWithEllipsis(derivedTitle, titleTruncationLengthConstant)
	}
	return derivedTitle
}

// synthesizeDescription derives a description from the first sufficiently
// long paragraph, clamped into the 120-160 band, falling back to the
// templated brand sentence when no paragraph qualifies.
func (generators *generatorContext) synthesizeDescription(document *htmldoc.Document, location PageLocation) string {
	for _, paragraphText := range document.ParagraphTexts() {
		paragraphLength := utf8.RuneCountInString(paragraphText)
		if paragraphLength <= paragraphMinimumLengthConstant {
			continue
		}
		if paragraphLength > descriptionMaximumLengthConstant {
			return truncateWithEllipsis(paragraphText, descriptionTruncationConstant)
		}
		if paragraphLength < descriptionMinimumLengthConstant {
			return truncateRunes(paragraphText+generators.settings.DescriptionFiller, descriptionMaximumLengthConstant)
		}
		return paragraphText
	}

	templatedDescription := fmt.Sprintf(generators.settings.DescriptionTemplate, location.HumanName())
	return truncateRunes(templatedDescription, descriptionMaximumLengthConstant)
}

// finalTitle reads the title after the title rule has run.
func (generators *generatorContext) finalTitle(document *htmldoc.Document, location PageLocation) string {
	if titleText, titlePresent := document.Title(); titlePresent && len(titleText) > 0 {
		return titleText
	}
	return generators.synthesizeTitle(document, location)
}

// finalDescription reads the description after the description rule has run.
func (generators *generatorContext) finalDescription(document *htmldoc.Document, location PageLocation) string {
	if descriptionText, descriptionPresent := document.MetaNameContent(descriptionMetaNameConstant); descriptionPresent && len(descriptionText) > 0 {
		return descriptionText
	}
	return generators.synthesizeDescription(document, location)
}

// finalPageURL prefers the canonical link target after the canonical rule has
// run.
func (generators *generatorContext) finalPageURL(document *htmldoc.Document, location PageLocation) string {
	if canonicalTarget, canonicalPresent := document.CanonicalHref(); canonicalPresent && len(canonicalTarget) > 0 {
		return canonicalTarget
	}
	return generators.settings.PageURL(location.RelativePath)
}

func truncateWithEllipsis(text string, runeLimit int) string {
	return truncateRunes(text, runeLimit) + ellipsisConstant
}

func truncateRunes(text string, runeLimit int) string {
	textRunes := []rune(text)
	if len(textRunes) <= runeLimit {
		return text
	}
	return string(textRunes[:runeLimit])
}
