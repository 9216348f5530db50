package links

const (
	defaultBaseURLConstant = "https://bespoke-bags.com"

	rootConfigurationKeySuffixConstant         = ".root"
	reportFileConfigurationKeySuffixConstant   = ".report_file"
	failOnIssuesConfigurationKeySuffixConstant = ".fail_on_issues"
	baseURLConfigurationKeySuffixConstant      = ".base_url"
	hostsConfigurationKeySuffixConstant        = ".internal_hosts"
)

// CommandConfiguration captures persistent settings for the link commands.
type CommandConfiguration struct {
	Root          string            `mapstructure:"root"`
	ReportFile    string            `mapstructure:"report_file"`
	FailOnIssues  bool              `mapstructure:"fail_on_issues"`
	BaseURL       string            `mapstructure:"base_url"`
	InternalHosts []string          `mapstructure:"internal_hosts"`
	Substitutions map[string]string `mapstructure:"substitutions"`
	Redirects     []RedirectRule    `mapstructure:"redirects"`
}

// DefaultCommandConfiguration returns baseline configuration values,
// including the substitution table and blog redirects accumulated from past
// site restructurings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:          defaultRootDirectoryConstant,
		FailOnIssues:  true,
		BaseURL:       defaultBaseURLConstant,
		InternalHosts: []string{"bespoke-bags.com", "www.bespoke-bags.com"},
		Substitutions: DefaultSubstitutions(),
		Redirects:     DefaultRedirects(),
	}
}

// DefaultSubstitutions maps the flat pre-restructuring page paths, with and
// without section anchors, to their directory-per-section replacements.
func DefaultSubstitutions() map[string]string {
	return map[string]string{
		"../products.html": "../products/index.html",
		"../about.html":    "../about/index.html",
		"../blog.html":     "../blog/index.html",
		"../contact.html":  "../contact/index.html",
		"../services.html": "../services/index.html",

		"products.html": "products/index.html",
		"about.html":    "about/index.html",
		"blog.html":     "blog/index.html",
		"contact.html":  "contact/index.html",
		"services.html": "services/index.html",

		"../products.html#business-bags":       "../products/business-bags.html",
		"../products.html#travel-bags":         "../products/travel-bags.html",
		"../products.html#handbags":            "../products/handbags.html",
		"../products.html#backpacks":           "../products/backpacks.html",
		"../products.html#luxury-handbags":     "../products/luxury-handbags.html",
		"../products.html#leather-accessories": "../products/leather-accessories.html",
		"../products.html#evening-bags":        "../products/evening-bags.html",
		"../products.html#custom-collections":  "../products/custom-collections.html",
		"../products.html#travel-luggage":      "../products/travel-luggage.html",

		"../services.html#oem-manufacturing":   "../services/oem-manufacturing.html",
		"../services.html#odm-solutions":       "../services/odm-solutions.html",
		"../services.html#custom-design":       "../services/custom-design.html",
		"../services.html#private-label":       "../services/private-label.html",
		"../services.html#quality-assurance":   "../services/quality-assurance.html",
		"../services.html#packaging-logistics": "../services/packaging-logistics.html",
	}
}

// DefaultRedirects lists the renamed blog posts whose old URLs still receive
// traffic and need stub pages.
func DefaultRedirects() []RedirectRule {
	return []RedirectRule{
		{From: "blog/leather-care-maintenance-guide-2024.html", To: "blog/leather-care-maintenance-guide.html"},
		{From: "blog/traditional-vs-modern-leather-techniques-2024.html", To: "blog/artisan-leather-craftsmanship-techniques-2024.html"},
		{From: "blog/leather-tool-selection-guide-2024.html", To: "blog/bag-materials-selection-guide.html"},
		{From: "blog/luxury-travel-style-guide-2024.html", To: "blog/luxury-travel-bags-guide.html"},
	}
}

// DefaultConfigurationValues exposes the scalar defaults keyed for the
// configuration loader under the provided prefix. The substitution and
// redirect tables only merge from configuration files.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + rootConfigurationKeySuffixConstant:         defaults.Root,
		configurationPrefix + reportFileConfigurationKeySuffixConstant:   defaults.ReportFile,
		configurationPrefix + failOnIssuesConfigurationKeySuffixConstant: defaults.FailOnIssues,
		configurationPrefix + baseURLConfigurationKeySuffixConstant:      defaults.BaseURL,
		configurationPrefix + hostsConfigurationKeySuffixConstant:        defaults.InternalHosts,
	}
}

// sanitize applies defaults to unset values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	defaults := DefaultCommandConfiguration()

	if len(sanitized.Root) == 0 {
		sanitized.Root = defaults.Root
	}
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = defaults.BaseURL
	}
	if len(sanitized.InternalHosts) == 0 {
		sanitized.InternalHosts = defaults.InternalHosts
	}
	if len(sanitized.Substitutions) == 0 {
		sanitized.Substitutions = defaults.Substitutions
	}
	if len(sanitized.Redirects) == 0 {
		sanitized.Redirects = defaults.Redirects
	}

	return sanitized
}
