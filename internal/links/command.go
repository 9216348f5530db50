package links

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/site"
)

const (
	linksCommandNameConstant             = "links"
	linksCommandShortDescriptionConstant = "Check and repair the internal link graph"
	checkCommandNameConstant             = "check [root]"
	checkCommandShortDescriptionConstant = "Resolve every internal reference against the file tree"
	checkCommandLongDescriptionConstant  = "Check extracts every href and src reference from the markup files, resolves internal ones against the site tree, and reports missing targets and directories without an index page."
	repairCommandNameConstant            = "repair [root]"
	repairCommandShortDescription        = "Rewrite known-bad references and create redirect stubs"
	repairCommandLongDescription         = "Repair applies the configured old-to-new substitution table to anchor, link, image, and script references, and writes meta-refresh stub pages for renamed blog posts whose targets still exist."
	flagReportName                       = "report"
	flagReportDescription                = "write the JSON report to this file"
	flagFailOnIssuesName                 = "fail-on-issues"
	flagFailOnIssuesDescription          = "exit with an error when broken links remain"
	flagDryRunName                       = "dry-run"
	flagDryRunDescription                = "report the repairs without writing files"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the links command group with configurable
// dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Discoverer            Discoverer
	FileSystem            FileSystem
	TargetChecker         TargetChecker
}

// Build constructs the links parent command with its check and repair
// subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	parentCommand := &cobra.Command{
		Use:   linksCommandNameConstant,
		Short: linksCommandShortDescriptionConstant,
	}

	checkCommand := &cobra.Command{
		Use:   checkCommandNameConstant,
		Short: checkCommandShortDescriptionConstant,
		Long:  checkCommandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runCheck,
	}
	checkCommand.Flags().String(flagReportName, "", flagReportDescription)
	checkCommand.Flags().Bool(flagFailOnIssuesName, true, flagFailOnIssuesDescription)

	repairCommand := &cobra.Command{
		Use:   repairCommandNameConstant,
		Short: repairCommandShortDescription,
		Long:  repairCommandLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runRepair,
	}
	repairCommand.Flags().Bool(flagDryRunName, false, flagDryRunDescription)

	parentCommand.AddCommand(checkCommand, repairCommand)
	return parentCommand, nil
}

func (builder *CommandBuilder) runCheck(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	reportFilePath, _ := command.Flags().GetString(flagReportName)
	if !command.Flags().Changed(flagReportName) {
		reportFilePath = configuration.ReportFile
	}
	failOnIssues, _ := command.Flags().GetBool(flagFailOnIssuesName)
	if !command.Flags().Changed(flagFailOnIssuesName) {
		failOnIssues = configuration.FailOnIssues
	}

	checker := NewChecker(
		builder.resolveDiscoverer(),
		builder.FileSystem,
		builder.TargetChecker,
		configuration.InternalHosts,
		builder.resolveLogger(),
		command.OutOrStdout(),
	)
	return checker.Run(command.Context(), CheckOptions{
		RootDirectory:  resolveRootDirectory(arguments, configuration),
		ReportFilePath: reportFilePath,
		FailOnIssues:   failOnIssues,
	})
}

func (builder *CommandBuilder) runRepair(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	dryRun, _ := command.Flags().GetBool(flagDryRunName)

	repairer := NewRepairer(
		builder.resolveDiscoverer(),
		builder.FileSystem,
		builder.TargetChecker,
		builder.resolveLogger(),
		command.OutOrStdout(),
	)
	_, runError := repairer.Run(command.Context(), RepairOptions{
		RootDirectory: resolveRootDirectory(arguments, configuration),
		Substitutions: configuration.Substitutions,
		Redirects:     configuration.Redirects,
		BaseURL:       configuration.BaseURL,
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
