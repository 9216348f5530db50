package images

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/site"
)

const (
	imagesCommandNameConstant             = "images"
	imagesCommandShortDescriptionConstant = "Optimize images and relink legacy references"
	optimizeCommandNameConstant           = "optimize [base]"
	optimizeCommandShortDescription       = "Recompress and bound the dimensions of every image"
	optimizeCommandLongDescription        = "Optimize walks the images directory, recompresses JPEG and PNG files, and scales any image larger than the configured bounding box down with Lanczos resampling. The first run copies the images tree aside as a backup."
	relinkCommandNameConstant             = "relink [root]"
	relinkCommandShortDescription         = "Point legacy raster references at the webp library"
	relinkCommandLongDescription          = "Relink rewrites img src references to mapped jpg, png, gif, and svg files so they use the site's webp library, preserving each reference's directory prefix."
	flagReportName                        = "report"
	flagReportDescription                 = "write the JSON report to this file"
	flagSkipBackupName                    = "skip-backup"
	flagSkipBackupDescription             = "do not copy the images tree aside before optimizing"
	flagDryRunName                        = "dry-run"
	flagDryRunDescription                 = "report the rewrites without writing files"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the images command group with configurable
// dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Discoverer            Discoverer
	FileSystem            FileSystem
}

// Build constructs the images parent command with its optimize and relink
// subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	parentCommand := &cobra.Command{
		Use:   imagesCommandNameConstant,
		Short: imagesCommandShortDescriptionConstant,
	}

	optimizeCommand := &cobra.Command{
		Use:   optimizeCommandNameConstant,
		Short: optimizeCommandShortDescription,
		Long:  optimizeCommandLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runOptimize,
	}
	optimizeCommand.Flags().String(flagReportName, "", flagReportDescription)
	optimizeCommand.Flags().Bool(flagSkipBackupName, false, flagSkipBackupDescription)

	relinkCommand := &cobra.Command{
		Use:   relinkCommandNameConstant,
		Short: relinkCommandShortDescription,
		Long:  relinkCommandLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runRelink,
	}
	relinkCommand.Flags().Bool(flagDryRunName, false, flagDryRunDescription)

	parentCommand.AddCommand(optimizeCommand, relinkCommand)
	return parentCommand, nil
}

func (builder *CommandBuilder) runOptimize(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	reportFilePath, _ := command.Flags().GetString(flagReportName)
	if !command.Flags().Changed(flagReportName) {
		reportFilePath = configuration.ReportFile
	}
	skipBackup, _ := command.Flags().GetBool(flagSkipBackupName)

	optimizer := NewOptimizer(builder.resolveLogger(), command.OutOrStdout())
	_, runError := optimizer.Run(command.Context(), OptimizeOptions{
		BaseDirectory:  resolveRootDirectory(arguments, configuration),
		ImagesDirName:  configuration.ImagesDir,
		BackupDirName:  configuration.BackupDir,
		JPEGQuality:    configuration.JPEGQuality,
		MaximumWidth:   configuration.MaximumWidth,
		MaximumHeight:  configuration.MaximumHeight,
		SkipBackup:     skipBackup,
		ReportFilePath: reportFilePath,
	})
	return runError
}

func (builder *CommandBuilder) runRelink(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	dryRun, _ := command.Flags().GetBool(flagDryRunName)

	relinker := NewRelinker(builder.resolveDiscoverer(), builder.FileSystem, builder.resolveLogger(), command.OutOrStdout())
	_, runError := relinker.Run(command.Context(), RelinkOptions{
		RootDirectory: resolveRootDirectory(arguments, configuration),
		Mapping:       configuration.WebpMapping,
		DryRun:        dryRun,
	})
	return runError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveDiscoverer() Discoverer {
	if builder.Discoverer != nil {
		return builder.Discoverer
	}
	return site.NewFilesystemDiscoverer()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveRootDirectory(arguments []string, configuration CommandConfiguration) string {
	if len(arguments) > 0 {
		return arguments[0]
	}
	return configuration.Root
}
