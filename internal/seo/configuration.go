package seo

import "strings"

const (
	rootConfigurationKeySuffixConstant          = ".root"
	reportFileConfigurationKeySuffixConstant    = ".report_file"
	failOnIssuesConfigurationKeySuffixConstant  = ".fail_on_issues"
	siteNameConfigurationKeySuffixConstant      = ".site.name"
	siteBaseURLConfigurationKeySuffixConstant   = ".site.base_url"
	ogImageConfigurationKeySuffixConstant       = ".site.og_image"
	twitterImageConfigurationKeySuffixConstant  = ".site.twitter_image"
	twitterHandleConfigurationKeySuffixConstant = ".site.twitter_handle"
)

// SiteConfiguration identifies the site the generators synthesize values for.
type SiteConfiguration struct {
	Name          string `mapstructure:"name"`
	BaseURL       string `mapstructure:"base_url"`
	OgImage       string `mapstructure:"og_image"`
	TwitterImage  string `mapstructure:"twitter_image"`
	TwitterHandle string `mapstructure:"twitter_handle"`
}

// CommandConfiguration captures persistent settings for the audit and fix
// commands.
type CommandConfiguration struct {
	Root         string            `mapstructure:"root"`
	ReportFile   string            `mapstructure:"report_file"`
	FailOnIssues bool              `mapstructure:"fail_on_issues"`
	Site         SiteConfiguration `mapstructure:"site"`
}

// DefaultCommandConfiguration returns baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	defaultSettings := DefaultBrandSettings()
	return CommandConfiguration{
		Root:         defaultRootDirectoryConstant,
		FailOnIssues: true,
		Site: SiteConfiguration{
			Name:          defaultSettings.SiteName,
			BaseURL:       defaultSettings.BaseURL,
			OgImage:       defaultSettings.OpenGraphImageURL,
			TwitterImage:  defaultSettings.TwitterImageURL,
			TwitterHandle: defaultSettings.TwitterHandle,
		},
	}
}

// DefaultConfigurationValues exposes the defaults keyed for the configuration
// loader under the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + rootConfigurationKeySuffixConstant:          defaults.Root,
		configurationPrefix + reportFileConfigurationKeySuffixConstant:    defaults.ReportFile,
		configurationPrefix + failOnIssuesConfigurationKeySuffixConstant:  defaults.FailOnIssues,
		configurationPrefix + siteNameConfigurationKeySuffixConstant:      defaults.Site.Name,
		configurationPrefix + siteBaseURLConfigurationKeySuffixConstant:   defaults.Site.BaseURL,
		configurationPrefix + ogImageConfigurationKeySuffixConstant:       defaults.Site.OgImage,
		configurationPrefix + twitterImageConfigurationKeySuffixConstant:  defaults.Site.TwitterImage,
		configurationPrefix + twitterHandleConfigurationKeySuffixConstant: defaults.Site.TwitterHandle,
	}
}

// sanitize trims whitespace and applies defaults to unset values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	defaults := DefaultCommandConfiguration()

	sanitized.Root = strings.TrimSpace(sanitized.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaults.Root
	}
	sanitized.ReportFile = strings.TrimSpace(sanitized.ReportFile)
	sanitized.Site.Name = strings.TrimSpace(sanitized.Site.Name)
	if len(sanitized.Site.Name) == 0 {
		sanitized.Site.Name = defaults.Site.Name
	}
	sanitized.Site.BaseURL = strings.TrimSpace(sanitized.Site.BaseURL)
	if len(sanitized.Site.BaseURL) == 0 {
		sanitized.Site.BaseURL = defaults.Site.BaseURL
	}
	sanitized.Site.OgImage = strings.TrimSpace(sanitized.Site.OgImage)
	if len(sanitized.Site.OgImage) == 0 {
		sanitized.Site.OgImage = defaults.Site.OgImage
	}
	sanitized.Site.TwitterImage = strings.TrimSpace(sanitized.Site.TwitterImage)
	if len(sanitized.Site.TwitterImage) == 0 {
		sanitized.Site.TwitterImage = defaults.Site.TwitterImage
	}
	sanitized.Site.TwitterHandle = strings.TrimSpace(sanitized.Site.TwitterHandle)
	if len(sanitized.Site.TwitterHandle) == 0 {
		sanitized.Site.TwitterHandle = defaults.Site.TwitterHandle
	}

	return sanitized
}

// BrandSettings converts the configured site identity into generator
// settings, keeping the fixed texts at their defaults.
func (configuration CommandConfiguration) BrandSettings() BrandSettings {
	sanitized := configuration.sanitize()
	settings := DefaultBrandSettings()
	settings.SiteName = sanitized.Site.Name
	settings.BaseURL = sanitized.Site.BaseURL
	settings.OpenGraphImageURL = sanitized.Site.OgImage
	settings.TwitterImageURL = sanitized.Site.TwitterImage
	settings.TwitterHandle = sanitized.Site.TwitterHandle
	return settings
}
