package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

type readmeApplicationConfiguration struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Tools struct {
		Seo struct {
			Root         string `yaml:"root"`
			FailOnIssues bool   `yaml:"fail_on_issues"`
			Site         struct {
				Name          string `yaml:"name"`
				BaseURL       string `yaml:"base_url"`
				TwitterHandle string `yaml:"twitter_handle"`
			} `yaml:"site"`
		} `yaml:"seo"`
		Links struct {
			Root          string            `yaml:"root"`
			FailOnIssues  bool              `yaml:"fail_on_issues"`
			BaseURL       string            `yaml:"base_url"`
			InternalHosts []string          `yaml:"internal_hosts"`
			Substitutions map[string]string `yaml:"substitutions"`
			Redirects     []struct {
				From string `yaml:"from"`
				To   string `yaml:"to"`
			} `yaml:"redirects"`
		} `yaml:"links"`
		Images struct {
			Root          string `yaml:"root"`
			ImagesDir     string `yaml:"images_dir"`
			BackupDir     string `yaml:"backup_dir"`
			JPEGQuality   int    `yaml:"jpeg_quality"`
			MaximumWidth  int    `yaml:"max_width"`
			MaximumHeight int    `yaml:"max_height"`
		} `yaml:"images"`
	} `yaml:"tools"`
}

func TestReadmeConfigurationExampleParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var applicationConfiguration readmeApplicationConfiguration
	unmarshalError := yaml.Unmarshal([]byte(snippetContent), &applicationConfiguration)
	require.NoError(testInstance, unmarshalError)

	require.Equal(testInstance, "info", applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, "structured", applicationConfiguration.Common.LogFormat)

	require.Equal(testInstance, "Bespoke Bags", applicationConfiguration.Tools.Seo.Site.Name)
	require.Equal(testInstance, "https://bespoke-bags.com", applicationConfiguration.Tools.Seo.Site.BaseURL)
	require.True(testInstance, applicationConfiguration.Tools.Seo.FailOnIssues)

	require.Contains(testInstance, applicationConfiguration.Tools.Links.InternalHosts, "bespoke-bags.com")
	require.Equal(testInstance, "../products/index.html", applicationConfiguration.Tools.Links.Substitutions["../products.html"])
	require.Len(testInstance, applicationConfiguration.Tools.Links.Redirects, 1)
	require.Equal(testInstance, "blog/old-post.html", applicationConfiguration.Tools.Links.Redirects[0].From)

	require.Equal(testInstance, 85, applicationConfiguration.Tools.Images.JPEGQuality)
	require.Equal(testInstance, 1920, applicationConfiguration.Tools.Images.MaximumWidth)
	require.Equal(testInstance, 1080, applicationConfiguration.Tools.Images.MaximumHeight)
}
