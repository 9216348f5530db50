package links

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	redirectStubTemplateConstant = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Redirecting...</title>
    <meta http-equiv="refresh" content="0; url=%s">
    <link rel="canonical" href="%s" />
</head>
<body>
    <p>If you are not redirected automatically, <a href="%s">click here</a>.</p>
    <script>
        window.location.href = "%s";
    </script>
</body>
</html>`

	repairHeaderFilesModifiedConstant    = "Files Modified"
	repairHeaderLinksRewrittenConstant   = "Links Rewritten"
	repairHeaderRedirectsCreatedConstant = "Redirects Created"
	rewriteLineTemplateConstant          = "%s: %s -> %s\n"
	redirectLineTemplateConstant         = "redirect stub %s -> %s\n"

	repairFailedMessageConstant   = "link repair could not process file"
	redirectFailedMessageConstant = "redirect stub could not be written"
)

// RedirectRule maps a missing page to the surviving page a stub should point
// at. Both paths are slash-relative to the site root and must share a
// directory, since the stub redirects with a sibling-relative URL.
type RedirectRule struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// RewriteRecord documents one applied reference substitution.
type RewriteRecord struct {
	File     string `json:"file"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// RedirectRecord documents one created redirect stub.
type RedirectRecord struct {
	File   string `json:"file"`
	Target string `json:"target"`
}

// RepairReport is the outcome of one repair run.
type RepairReport struct {
	FilesModified    int              `json:"files_modified"`
	LinksRewritten   int              `json:"links_rewritten"`
	RedirectsCreated int              `json:"redirects_created"`
	Rewrites         []RewriteRecord  `json:"rewrites,omitempty"`
	Redirects        []RedirectRecord `json:"redirects,omitempty"`
}

// RepairOptions captures the configurable parameters for one repair run.
type RepairOptions struct {
	RootDirectory string
	Substitutions map[string]string
	Redirects     []RedirectRule
	BaseURL       string
	DryRun        bool
}

// Repairer rewrites known-bad references across the tree and creates
// meta-refresh stubs for renamed pages.
type Repairer struct {
	discoverer    Discoverer
	fileSystem    FileSystem
	targetChecker TargetChecker
	logger        *zap.Logger
	outputWriter  io.Writer
}

// NewRepairer constructs a Repairer. Nil dependencies fall back to the
// OS-backed defaults and a no-op logger.
func NewRepairer(discoverer Discoverer, fileSystem FileSystem, targetChecker TargetChecker, logger *zap.Logger, outputWriter io.Writer) *Repairer {
	if fileSystem == nil {
		fileSystem = osFileSystem{}
	}
	if targetChecker == nil {
		targetChecker = osTargetChecker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repairer{
		discoverer:    discoverer,
		fileSystem:    fileSystem,
		targetChecker: targetChecker,
		logger:        logger,
		outputWriter:  outputWriter,
	}
}

// Run applies the substitution table to every markup file, then creates the
// configured redirect stubs. One file's failure never aborts the batch.
func (repairer *Repairer) Run(executionContext context.Context, options RepairOptions) (RepairReport, error) {
	rootDirectory := options.RootDirectory
	if len(rootDirectory) == 0 {
		rootDirectory = defaultRootDirectoryConstant
	}

	markupFiles, discoveryError := repairer.discoverer.DiscoverMarkupFiles(rootDirectory)
	if discoveryError != nil {
		return RepairReport{}, discoveryError
	}

	report := RepairReport{}
	for _, markupFilePath := range markupFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return report, contextError
		}
		repairer.repairFile(markupFilePath, rootDirectory, options, &report)
	}

	repairer.createRedirectStubs(rootDirectory, options, &report)
	repairer.renderReport(report)

	return report, nil
}

func (repairer *Repairer) repairFile(markupFilePath string, rootDirectory string, options RepairOptions, report *RepairReport) {
	relativePath := relativizePath(rootDirectory, markupFilePath)

	rawContent, readError := repairer.fileSystem.ReadFile(markupFilePath)
	if readError != nil {
		repairer.logger.Warn(repairFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(readError))
		return
	}

	parsedDocument, parseError := htmldoc.Parse(rawContent, markupFilePath)
	if parseError != nil {
		repairer.logger.Warn(repairFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(parseError))
		return
	}

	var fileRewrites []RewriteRecord
	rewrittenCount := parsedDocument.RewriteReferences(func(tagName string, attributeName string, referenceValue string) (string, bool) {
		replacementValue, substitutionFound := options.Substitutions[referenceValue]
		if !substitutionFound {
			return "", false
		}
		fileRewrites = append(fileRewrites, RewriteRecord{File: relativePath, OldValue: referenceValue, NewValue: replacementValue})
		return replacementValue, true
	})
	if rewrittenCount == 0 {
		return
	}

	if !options.DryRun {
		renderedDocument, renderError := parsedDocument.Render()
		if renderError != nil {
			repairer.logger.Warn(repairFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(renderError))
			return
		}
		if writeError := repairer.fileSystem.WriteFile(markupFilePath, []byte(renderedDocument)); writeError != nil {
			repairer.logger.Warn(repairFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(writeError))
			return
		}
	}

	report.FilesModified++
	report.LinksRewritten += rewrittenCount
	report.Rewrites = append(report.Rewrites, fileRewrites...)
}

// createRedirectStubs writes a meta-refresh page for every redirect rule
// whose old path is missing and whose target exists.
func (repairer *Repairer) createRedirectStubs(rootDirectory string, options RepairOptions, report *RepairReport) {
	for _, redirectRule := range options.Redirects {
		missingPath := filepath.Join(rootDirectory, filepath.FromSlash(redirectRule.From))
		targetPath := filepath.Join(rootDirectory, filepath.FromSlash(redirectRule.To))

		missingExists, _ := repairer.targetChecker.TargetExists(missingPath)
		targetExists, targetIsDirectory := repairer.targetChecker.TargetExists(targetPath)
		if missingExists || !targetExists || targetIsDirectory {
			continue
		}

		stubContent := renderRedirectStub(redirectRule, options.BaseURL)
		if !options.DryRun {
			if writeError := repairer.fileSystem.WriteFile(missingPath, []byte(stubContent)); writeError != nil {
				repairer.logger.Warn(redirectFailedMessageConstant, zap.String(logFieldFilePathConstant, redirectRule.From), zap.Error(writeError))
				continue
			}
		}

		report.RedirectsCreated++
		report.Redirects = append(report.Redirects, RedirectRecord{File: redirectRule.From, Target: redirectRule.To})
	}
}

// renderRedirectStub builds the stub page: an instant meta refresh, a
// canonical pointing at the surviving page, and a script fallback.
func renderRedirectStub(redirectRule RedirectRule, baseURL string) string {
	relativeTarget := path.Base(redirectRule.To)
	canonicalURL := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(redirectRule.To, "/")
	return fmt.Sprintf(redirectStubTemplateConstant, relativeTarget, canonicalURL, relativeTarget, relativeTarget)
}

func (repairer *Repairer) renderReport(report RepairReport) {
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(repairer.outputWriter)
	summaryTable.SetStyle(table.StyleLight)
	summaryTable.AppendHeader(table.Row{repairHeaderFilesModifiedConstant, repairHeaderLinksRewrittenConstant, repairHeaderRedirectsCreatedConstant})
	summaryTable.AppendRow(table.Row{report.FilesModified, report.LinksRewritten, report.RedirectsCreated})
	summaryTable.Render()

	for _, rewriteRecord := range report.Rewrites {
		fmt.Fprintf(repairer.outputWriter, rewriteLineTemplateConstant, rewriteRecord.File, rewriteRecord.OldValue, rewriteRecord.NewValue)
	}
	for _, redirectRecord := range report.Redirects {
		fmt.Fprintf(repairer.outputWriter, redirectLineTemplateConstant, redirectRecord.File, redirectRecord.Target)
	}
}
