package seo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/site"
)

const (
	auditCommandNameConstant             = "audit [root]"
	auditCommandShortDescriptionConstant = "Audit markup files for metadata completeness"
	auditCommandLongDescriptionConstant  = "Audit walks the site tree, parses every markup file, and reports missing or malformed metadata fields, structural problems, and broken internal links."
	fixCommandNameConstant               = "fix [root]"
	fixCommandShortDescriptionConstant   = "Fill in missing metadata across markup files"
	fixCommandLongDescriptionConstant    = "Fix audits every markup file and synthesizes values for missing or malformed metadata fields, writing the updated documents back in place."
	flagReportName                       = "report"
	flagReportDescription                = "write the JSON report to this file"
	flagFailOnIssuesName                 = "fail-on-issues"
	flagFailOnIssuesDescription          = "exit with an error when issues remain"
	flagDryRunName                       = "dry-run"
	flagDryRunDescription                = "report the fixes without writing files"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved command configuration.
type ConfigurationProvider func() CommandConfiguration

// AuditCommandBuilder assembles the audit cobra command with configurable
// dependencies.
type AuditCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Discoverer            Discoverer
	FileSystem            FileSystem
	TargetChecker         TargetChecker
}

// Build constructs the cobra command for the audit workflow.
func (builder *AuditCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   auditCommandNameConstant,
		Short: auditCommandShortDescriptionConstant,
		Long:  auditCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagReportName, "", flagReportDescription)
	command.Flags().Bool(flagFailOnIssuesName, true, flagFailOnIssuesDescription)

	return command, nil
}

func (builder *AuditCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	reportFilePath, _ := command.Flags().GetString(flagReportName)
	if !command.Flags().Changed(flagReportName) {
		reportFilePath = configuration.ReportFile
	}
	failOnIssues, _ := command.Flags().GetBool(flagFailOnIssuesName)
	if !command.Flags().Changed(flagFailOnIssuesName) {
		failOnIssues = configuration.FailOnIssues
	}

	options := RunOptions{
		RootDirectory:  resolveRootDirectory(arguments, configuration),
		ReportFilePath: reportFilePath,
		FailOnIssues:   failOnIssues,
	}

	service := NewService(
		resolveDiscoverer(builder.Discoverer),
		builder.FileSystem,
		builder.TargetChecker,
		configuration.BrandSettings(),
		resolveLogger(builder.LoggerProvider),
		command.OutOrStdout(),
		command.ErrOrStderr(),
	)
	return service.Run(command.Context(), options)
}

// FixCommandBuilder assembles the fix cobra command with configurable
// dependencies.
type FixCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Discoverer            Discoverer
	FileSystem            FileSystem
	TargetChecker         TargetChecker
}

// Build constructs the cobra command for the fix workflow.
func (builder *FixCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   fixCommandNameConstant,
		Short: fixCommandShortDescriptionConstant,
		Long:  fixCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagReportName, "", flagReportDescription)
	command.Flags().Bool(flagDryRunName, false, flagDryRunDescription)

	return command, nil
}

func (builder *FixCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := resolveConfiguration(builder.ConfigurationProvider)

	reportFilePath, _ := command.Flags().GetString(flagReportName)
	if !command.Flags().Changed(flagReportName) {
		reportFilePath = configuration.ReportFile
	}
	dryRun, _ := command.Flags().GetBool(flagDryRunName)

	options := RunOptions{
		RootDirectory:  resolveRootDirectory(arguments, configuration),
		ApplyFixes:     true,
		DryRun:         dryRun,
		ReportFilePath: reportFilePath,
	}

	service := NewService(
		resolveDiscoverer(builder.Discoverer),
		builder.FileSystem,
		builder.TargetChecker,
		configuration.BrandSettings(),
		resolveLogger(builder.LoggerProvider),
		command.OutOrStdout(),
		command.ErrOrStderr(),
	)
	return service.Run(command.Context(), options)
}

func resolveConfiguration(provider ConfigurationProvider) CommandConfiguration {
	if provider == nil {
		return DefaultCommandConfiguration()
	}
	return provider().sanitize()
}

func resolveRootDirectory(arguments []string, configuration CommandConfiguration) string {
	if len(arguments) > 0 {
		return arguments[0]
	}
	return configuration.Root
}

func resolveDiscoverer(configured Discoverer) Discoverer {
	if configured != nil {
		return configured
	}
	return site.NewFilesystemDiscoverer()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
