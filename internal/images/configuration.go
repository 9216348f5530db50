package images

const (
	defaultRootDirectoryConstant = "."
	defaultImagesDirNameConstant = "images"
	defaultBackupDirNameConstant = "images_backup"
	defaultJPEGQualityConstant   = 85
	defaultMaximumWidthConstant  = 1920
	defaultMaximumHeightConstant = 1080

	rootConfigurationKeySuffixConstant       = ".root"
	imagesDirConfigurationKeySuffixConstant  = ".images_dir"
	backupDirConfigurationKeySuffixConstant  = ".backup_dir"
	qualityConfigurationKeySuffixConstant    = ".jpeg_quality"
	maxWidthConfigurationKeySuffixConstant   = ".max_width"
	maxHeightConfigurationKeySuffixConstant  = ".max_height"
	reportFileConfigurationKeySuffixConstant = ".report_file"
)

// CommandConfiguration captures persistent settings for the image commands.
type CommandConfiguration struct {
	Root          string            `mapstructure:"root"`
	ImagesDir     string            `mapstructure:"images_dir"`
	BackupDir     string            `mapstructure:"backup_dir"`
	JPEGQuality   int               `mapstructure:"jpeg_quality"`
	MaximumWidth  int               `mapstructure:"max_width"`
	MaximumHeight int               `mapstructure:"max_height"`
	ReportFile    string            `mapstructure:"report_file"`
	WebpMapping   map[string]string `mapstructure:"webp_mapping"`
}

// DefaultCommandConfiguration returns baseline configuration values,
// including the legacy-name-to-webp mapping accumulated from the webp
// migration.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:          defaultRootDirectoryConstant,
		ImagesDir:     defaultImagesDirNameConstant,
		BackupDir:     defaultBackupDirNameConstant,
		JPEGQuality:   defaultJPEGQualityConstant,
		MaximumWidth:  defaultMaximumWidthConstant,
		MaximumHeight: defaultMaximumHeightConstant,
		WebpMapping:   DefaultWebpMapping(),
	}
}

// DefaultWebpMapping maps the legacy raster file names the markup still
// references to their replacements in the webp library.
func DefaultWebpMapping() map[string]string {
	return map[string]string{
		"logo.png":               "bespoke-bags (1).webp",
		"logo.svg":               "bespoke-bags (1).webp",
		"handbags-hero.jpg":      "bespoke-bags (2).webp",
		"luxury-handbags.jpg":    "bespoke-bags (3).webp",
		"business-handbags.jpg":  "bespoke-bags (4).webp",
		"fashion-handbags.jpg":   "bespoke-bags (5).webp",
		"eco-handbags.jpg":       "bespoke-bags (6).webp",
		"backpacks-hero.jpg":     "bespoke-bags (7).webp",
		"hiking-backpacks.jpg":   "bespoke-bags (8).webp",
		"business-backpacks.jpg": "bespoke-bags (9).webp",
		"travel-backpacks.jpg":   "bespoke-bags (10).webp",
		"school-backpacks.jpg":   "bespoke-bags (11).webp",
		"travel-bags-hero.jpg":   "bespoke-bags (12).webp",
		"carry-on-luggage.jpg":   "bespoke-bags (13).webp",
		"duffel-bags.jpg":        "bespoke-bags (14).webp",
		"rolling-luggage.jpg":    "bespoke-bags (15).webp",
		"garment-bags.jpg":       "bespoke-bags (16).webp",
		"business-travel.jpg":    "bespoke-bags (17).webp",
		"leisure-travel.jpg":     "bespoke-bags (18).webp",
		"adventure-travel.jpg":   "bespoke-bags (19).webp",
		"extended-travel.jpg":    "bespoke-bags (20).webp",
	}
}

// DefaultConfigurationValues exposes the scalar defaults keyed for the
// configuration loader under the provided prefix. The webp mapping only
// merges from configuration files.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + rootConfigurationKeySuffixConstant:       defaults.Root,
		configurationPrefix + imagesDirConfigurationKeySuffixConstant:  defaults.ImagesDir,
		configurationPrefix + backupDirConfigurationKeySuffixConstant:  defaults.BackupDir,
		configurationPrefix + qualityConfigurationKeySuffixConstant:    defaults.JPEGQuality,
		configurationPrefix + maxWidthConfigurationKeySuffixConstant:   defaults.MaximumWidth,
		configurationPrefix + maxHeightConfigurationKeySuffixConstant:  defaults.MaximumHeight,
		configurationPrefix + reportFileConfigurationKeySuffixConstant: defaults.ReportFile,
	}
}

// sanitize applies defaults to unset values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	defaults := DefaultCommandConfiguration()

	if len(sanitized.Root) == 0 {
		sanitized.Root = defaults.Root
	}
	if len(sanitized.ImagesDir) == 0 {
		sanitized.ImagesDir = defaults.ImagesDir
	}
	if len(sanitized.BackupDir) == 0 {
		sanitized.BackupDir = defaults.BackupDir
	}
	if sanitized.JPEGQuality <= 0 || sanitized.JPEGQuality > 100 {
		sanitized.JPEGQuality = defaults.JPEGQuality
	}
	if sanitized.MaximumWidth <= 0 {
		sanitized.MaximumWidth = defaults.MaximumWidth
	}
	if sanitized.MaximumHeight <= 0 {
		sanitized.MaximumHeight = defaults.MaximumHeight
	}
	if len(sanitized.WebpMapping) == 0 {
		sanitized.WebpMapping = defaults.WebpMapping
	}

	return sanitized
}
