package htmldoc

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	htmlTagMarkerConstant          = "<html"
	headTagMarkerConstant          = "<head"
	bodyTagMarkerConstant          = "<body"
	headSelectorConstant           = "head"
	bodySelectorConstant           = "body"
	mainSelectorConstant           = "main"
	titleSelectorConstant          = "title"
	firstHeadingSelectorConstant   = "h1"
	headingSelectorConstant        = "h1,h2,h3,h4,h5,h6"
	imageSelectorConstant          = "img"
	canonicalSelectorConstant      = `link[rel="canonical"]`
	structuredDataSelectorConstant = `script[type="application/ld+json"]`
	metaNameSelectorTemplate       = `meta[name=%q]`
	metaPropertySelectorTemplate   = `meta[property=%q]`
	hrefAttributeNameConstant      = "href"
	srcAttributeNameConstant       = "src"
	altAttributeNameConstant       = "alt"
	contentAttributeNameConstant   = "content"
	relAttributeNameConstant       = "rel"
	canonicalRelValueConstant      = "canonical"
	titleElementTemplateConstant   = "<title>%s</title>"
	headingElementTemplate         = "<h1>%s</h1>"
	metaNameElementTemplate        = `<meta name="%s" content="%s">`
	metaPropertyElementTemplate    = `<meta property="%s" content="%s">`
	canonicalElementTemplate       = `<link rel="canonical" href="%s">`
	structuredDataElementTemplate  = `<script type="application/ld+json">%s</script>`
)

// LinkReference identifies one outgoing reference found in a document.
type LinkReference struct {
	TagName       string
	AttributeName string
	Value         string
}

// Document is the parsed, mutable representation of one markup file.
type Document struct {
	document   *goquery.Document
	sourcePath string
	shell      ShellPresence
}

// ShellPresence records which structural tags the raw source actually carried.
// The underlying parser synthesizes html, head, and body nodes for fragments,
// so absence is only observable on the raw content.
type ShellPresence struct {
	HasHTMLTag bool
	HasHeadTag bool
	HasBodyTag bool
}

// Complete reports whether the raw source carried a full document shell.
func (presence ShellPresence) Complete() bool {
	return presence.HasHTMLTag && presence.HasHeadTag && presence.HasBodyTag
}

// Parse builds a Document from raw file content. Markup errors never surface;
// the parser recovers to the closest well-formed tree. Content is decoded to
// UTF-8 using charset detection, falling back to the raw bytes when the
// declared encoding cannot be applied.
func Parse(rawContent []byte, sourcePath string) (*Document, error) {
	decodedContent := decodeToUTF8(rawContent)

	parsedDocument, parseError := goquery.NewDocumentFromReader(bytes.NewReader(decodedContent))
	if parseError != nil {
		return nil, parseError
	}

	loweredContent := strings.ToLower(string(decodedContent))
	shell := ShellPresence{
		HasHTMLTag: strings.Contains(loweredContent, htmlTagMarkerConstant),
		HasHeadTag: strings.Contains(loweredContent, headTagMarkerConstant),
		HasBodyTag: strings.Contains(loweredContent, bodyTagMarkerConstant),
	}

	return &Document{document: parsedDocument, sourcePath: sourcePath, shell: shell}, nil
}

func decodeToUTF8(rawContent []byte) []byte {
	detectedEncoding, _, _ := charset.DetermineEncoding(rawContent, "")
	decodedContent, decodeError := detectedEncoding.NewDecoder().Bytes(rawContent)
	if decodeError != nil {
		if utf8.Valid(rawContent) {
			return rawContent
		}
		return bytes.ToValidUTF8(rawContent, nil)
	}
	return decodedContent
}

// SourcePath returns the path the document was read from.
func (document *Document) SourcePath() string {
	return document.sourcePath
}

// Shell reports which structural tags the raw source carried.
func (document *Document) Shell() ShellPresence {
	return document.shell
}

// Title returns the trimmed title text and whether a title element exists.
func (document *Document) Title() (string, bool) {
	titleSelection := document.document.Find(titleSelectorConstant).First()
	if titleSelection.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(titleSelection.Text()), true
}

// SetTitle replaces the title text, creating the element at the start of the
// head when absent.
func (document *Document) SetTitle(titleText string) {
	titleSelection := document.document.Find(titleSelectorConstant).First()
	if titleSelection.Length() > 0 {
		titleSelection.SetText(titleText)
		return
	}
	document.head().PrependHtml(fmt.Sprintf(titleElementTemplateConstant, html.EscapeString(titleText)))
}

// MetaNameContent returns the trimmed content of a meta tag addressed by name.
func (document *Document) MetaNameContent(metaName string) (string, bool) {
	metaSelection := document.document.Find(fmt.Sprintf(metaNameSelectorTemplate, metaName)).First()
	if metaSelection.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(metaSelection.AttrOr(contentAttributeNameConstant, "")), true
}

// SetMetaName updates a meta tag addressed by name, appending it to the head
// when absent.
func (document *Document) SetMetaName(metaName string, contentValue string) {
	metaSelection := document.document.Find(fmt.Sprintf(metaNameSelectorTemplate, metaName)).First()
	if metaSelection.Length() > 0 {
		metaSelection.SetAttr(contentAttributeNameConstant, contentValue)
		return
	}
	document.head().AppendHtml(fmt.Sprintf(metaNameElementTemplate, html.EscapeString(metaName), html.EscapeString(contentValue)))
}

// MetaPropertyContent returns the trimmed content of a meta tag addressed by
// its property attribute, the addressing scheme Open Graph tags use.
func (document *Document) MetaPropertyContent(propertyName string) (string, bool) {
	metaSelection := document.document.Find(fmt.Sprintf(metaPropertySelectorTemplate, propertyName)).First()
	if metaSelection.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(metaSelection.AttrOr(contentAttributeNameConstant, "")), true
}

// SetMetaProperty updates a property-addressed meta tag, appending it to the
// head when absent.
func (document *Document) SetMetaProperty(propertyName string, contentValue string) {
	metaSelection := document.document.Find(fmt.Sprintf(metaPropertySelectorTemplate, propertyName)).First()
	if metaSelection.Length() > 0 {
		metaSelection.SetAttr(contentAttributeNameConstant, contentValue)
		return
	}
	document.head().AppendHtml(fmt.Sprintf(metaPropertyElementTemplate, html.EscapeString(propertyName), html.EscapeString(contentValue)))
}

// CanonicalHref returns the canonical link target and whether the link exists.
func (document *Document) CanonicalHref() (string, bool) {
	canonicalSelection := document.document.Find(canonicalSelectorConstant).First()
	if canonicalSelection.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(canonicalSelection.AttrOr(hrefAttributeNameConstant, "")), true
}

// SetCanonical updates the canonical link target, appending the link element
// to the head when absent.
func (document *Document) SetCanonical(canonicalURL string) {
	canonicalSelection := document.document.Find(canonicalSelectorConstant).First()
	if canonicalSelection.Length() > 0 {
		canonicalSelection.SetAttr(hrefAttributeNameConstant, canonicalURL)
		return
	}
	document.head().AppendHtml(fmt.Sprintf(canonicalElementTemplate, html.EscapeString(canonicalURL)))
}

// FirstLevelHeadingCount returns the number of h1 elements.
func (document *Document) FirstLevelHeadingCount() int {
	return document.document.Find(firstHeadingSelectorConstant).Length()
}

// FirstLevelHeadingText returns the trimmed text of the first h1 element.
func (document *Document) FirstLevelHeadingText() string {
	return strings.TrimSpace(document.document.Find(firstHeadingSelectorConstant).First().Text())
}

// InsertLeadingHeading places a new h1 at the start of the main element,
// falling back to the body when no main element exists.
func (document *Document) InsertLeadingHeading(headingText string) {
	headingMarkup := fmt.Sprintf(headingElementTemplate, html.EscapeString(headingText))
	mainSelection := document.document.Find(mainSelectorConstant).First()
	if mainSelection.Length() > 0 {
		mainSelection.PrependHtml(headingMarkup)
		return
	}
	document.body().PrependHtml(headingMarkup)
}

// HeadingLevels returns the level of every heading element in document order.
func (document *Document) HeadingLevels() []int {
	var headingLevels []int
	document.document.Find(headingSelectorConstant).Each(func(_ int, headingSelection *goquery.Selection) {
		nodeName := goquery.NodeName(headingSelection)
		if len(nodeName) == 2 {
			headingLevels = append(headingLevels, int(nodeName[1]-'0'))
		}
	})
	return headingLevels
}

// ParagraphTexts returns the trimmed text of every paragraph in document order.
func (document *Document) ParagraphTexts() []string {
	var paragraphTexts []string
	document.document.Find("p").Each(func(_ int, paragraphSelection *goquery.Selection) {
		paragraphTexts = append(paragraphTexts, strings.TrimSpace(paragraphSelection.Text()))
	})
	return paragraphTexts
}

// ImagesMissingAlternativeText counts img elements without a non-empty alt
// attribute.
func (document *Document) ImagesMissingAlternativeText() int {
	missingCount := 0
	document.document.Find(imageSelectorConstant).Each(func(_ int, imageSelection *goquery.Selection) {
		alternativeText, hasAttribute := imageSelection.Attr(altAttributeNameConstant)
		if !hasAttribute || len(strings.TrimSpace(alternativeText)) == 0 {
			missingCount++
		}
	})
	return missingCount
}

// StructuredDataBlocks returns the raw content of every JSON-LD script block.
func (document *Document) StructuredDataBlocks() []string {
	var structuredDataBlocks []string
	document.document.Find(structuredDataSelectorConstant).Each(func(_ int, scriptSelection *goquery.Selection) {
		structuredDataBlocks = append(structuredDataBlocks, strings.TrimSpace(scriptSelection.Text()))
	})
	return structuredDataBlocks
}

// AppendStructuredData appends a JSON-LD script block to the head.
func (document *Document) AppendStructuredData(structuredDataJSON string) {
	document.head().AppendHtml(fmt.Sprintf(structuredDataElementTemplate, structuredDataJSON))
}

// LinkReferences returns every outgoing reference: href values of anchor and
// link elements, src values of img and script elements, in document order.
func (document *Document) LinkReferences() []LinkReference {
	var linkReferences []LinkReference
	document.document.Find("a,link,img,script").Each(func(_ int, referenceSelection *goquery.Selection) {
		tagName := goquery.NodeName(referenceSelection)
		attributeName := referenceAttributeForTag(tagName)
		referenceValue, hasAttribute := referenceSelection.Attr(attributeName)
		if hasAttribute && len(referenceValue) > 0 {
			linkReferences = append(linkReferences, LinkReference{TagName: tagName, AttributeName: attributeName, Value: referenceValue})
		}
	})
	return linkReferences
}

// RewriteReferences applies the rewriter to every outgoing reference and
// updates the attribute whenever the rewriter elects to. It returns the
// number of rewritten references.
func (document *Document) RewriteReferences(rewriter func(tagName string, attributeName string, value string) (string, bool)) int {
	rewrittenCount := 0
	document.document.Find("a,link,img,script").Each(func(_ int, referenceSelection *goquery.Selection) {
		tagName := goquery.NodeName(referenceSelection)
		attributeName := referenceAttributeForTag(tagName)
		referenceValue, hasAttribute := referenceSelection.Attr(attributeName)
		if !hasAttribute || len(referenceValue) == 0 {
			return
		}
		if replacementValue, shouldRewrite := rewriter(tagName, attributeName, referenceValue); shouldRewrite {
			referenceSelection.SetAttr(attributeName, replacementValue)
			rewrittenCount++
		}
	})
	return rewrittenCount
}

func referenceAttributeForTag(tagName string) string {
	switch tagName {
	case "img", "script":
		return srcAttributeNameConstant
	default:
		return hrefAttributeNameConstant
	}
}

// Render serializes the full document, including the shell synthesized by the
// parser when the source lacked one.
func (document *Document) Render() (string, error) {
	return document.document.Html()
}

func (document *Document) head() *goquery.Selection {
	return document.document.Find(headSelectorConstant).First()
}

func (document *Document) body() *goquery.Selection {
	return document.document.Find(bodySelectorConstant).First()
}
