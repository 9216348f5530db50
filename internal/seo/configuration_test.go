package seo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/seo"
)

func TestDefaultConfigurationValues(testInstance *testing.T) {
	defaultValues := seo.DefaultConfigurationValues("seo")

	require.Equal(testInstance, ".", defaultValues["seo.root"])
	require.Equal(testInstance, true, defaultValues["seo.fail_on_issues"])
	require.Equal(testInstance, "Bespoke Bags", defaultValues["seo.site.name"])
	require.Equal(testInstance, "https://bespoke-bags.com", defaultValues["seo.site.base_url"])
	require.Equal(testInstance, "@bespokebags", defaultValues["seo.site.twitter_handle"])
}

func TestBrandSettingsFromConfiguration(testInstance *testing.T) {
	configuration := seo.CommandConfiguration{
		Site: seo.SiteConfiguration{
			Name:    "  Acme Luggage  ",
			BaseURL: "https://acme.test",
		},
	}

	settings := configuration.BrandSettings()
	require.Equal(testInstance, "Acme Luggage", settings.SiteName)
	require.Equal(testInstance, "https://acme.test", settings.BaseURL)

	// Unset identity fields fall back to the defaults.
	require.Equal(testInstance, "@bespokebags", settings.TwitterHandle)
	require.Equal(testInstance, " | Bespoke Bags", settings.TitleSuffix)
}
