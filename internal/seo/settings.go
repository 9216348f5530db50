package seo

import "strings"

const (
	defaultSiteNameConstant            = "Bespoke Bags"
	defaultSiteBaseURLConstant         = "https://bespoke-bags.com"
	defaultTitleSuffixConstant         = " | Bespoke Bags"
	defaultShortTitleSuffixConstant    = " | Premium Bespoke Bags"
	defaultDescriptionFillerConstant   = " Discover premium bespoke bags and leather goods crafted with excellence."
	defaultDescriptionTemplateConstant = "Explore %s at Bespoke Bags. Premium leather goods and custom bags crafted with traditional techniques and modern innovation."
	defaultBaseKeywordsConstant        = "bespoke bags, leather goods, custom bags, premium leather, handcrafted bags"
	defaultOpenGraphImageURLConstant   = "https://bespoke-bags.com/images/bespoke-bags-og-image.jpg"
	defaultTwitterImageURLConstant     = "https://bespoke-bags.com/images/bespoke-bags-twitter-image.jpg"
	defaultOpenGraphTypeConstant       = "website"
	defaultTwitterCardTypeConstant     = "summary_large_image"
	defaultTwitterHandleConstant       = "@bespokebags"
	defaultViewportContentConstant     = "width=device-width, initial-scale=1.0"
	responsiveViewportMarkerConstant   = "width=device-width"
)

// KeywordTrigger appends a keyword group when the page's base name contains
// the trigger substring.
type KeywordTrigger struct {
	Substring string
	Keywords  string
}

// BrandSettings carry the site identity and the fixed texts the autofill
// generators derive default values from.
type BrandSettings struct {
	SiteName            string
	BaseURL             string
	TitleSuffix         string
	ShortTitleSuffix    string
	DescriptionFiller   string
	DescriptionTemplate string
	BaseKeywords        string
	KeywordTriggers     []KeywordTrigger
	OpenGraphImageURL   string
	TwitterImageURL     string
	OpenGraphType       string
	TwitterCardType     string
	TwitterHandle       string
	ViewportContent     string
}

// DefaultBrandSettings returns the bespoke-bags.com defaults.
func DefaultBrandSettings() BrandSettings {
	return BrandSettings{
		SiteName:            defaultSiteNameConstant,
		BaseURL:             defaultSiteBaseURLConstant,
		TitleSuffix:         defaultTitleSuffixConstant,
		ShortTitleSuffix:    defaultShortTitleSuffixConstant,
		DescriptionFiller:   defaultDescriptionFillerConstant,
		DescriptionTemplate: defaultDescriptionTemplateConstant,
		BaseKeywords:        defaultBaseKeywordsConstant,
		KeywordTriggers: []KeywordTrigger{
			{Substring: "leather", Keywords: "leather care, leather maintenance"},
			{Substring: "customer", Keywords: "customer service, customer satisfaction"},
			{Substring: "carry-on", Keywords: "carry-on bags, travel bags, luggage"},
		},
		OpenGraphImageURL: defaultOpenGraphImageURLConstant,
		TwitterImageURL:   defaultTwitterImageURLConstant,
		OpenGraphType:     defaultOpenGraphTypeConstant,
		TwitterCardType:   defaultTwitterCardTypeConstant,
		TwitterHandle:     defaultTwitterHandleConstant,
		ViewportContent:   defaultViewportContentConstant,
	}
}

// PageURL joins the site base URL with a slash-relative page path.
func (settings BrandSettings) PageURL(relativePath string) string {
	return strings.TrimRight(settings.BaseURL, "/") + "/" + strings.TrimLeft(relativePath, "/")
}

// StripTitleSuffixes removes the brand suffixes from a title.
func (settings BrandSettings) StripTitleSuffixes(titleText string) string {
	stripped := strings.ReplaceAll(titleText, settings.ShortTitleSuffix, "")
	stripped = strings.ReplaceAll(stripped, settings.TitleSuffix, "")
	return strings.TrimSpace(stripped)
}
