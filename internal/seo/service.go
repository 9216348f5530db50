package seo

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	defaultRootDirectoryConstant    = "."
	readStageNameConstant           = "read"
	parseStageNameConstant          = "parse"
	writeStageNameConstant          = "write"
	markupFilePermissionsConstant   = 0o644
	fileProcessedMessageConstant    = "file processed"
	fileFailedMessageConstant       = "file processing failed"
	logFieldFilePathConstant        = "file"
	logFieldIssueCountConstant      = "issue_count"
	logFieldFixCountConstant        = "fix_count"
	logFieldStageConstant           = "stage"
)

// ErrIssuesDetected signals that the audit found outstanding issues.
var ErrIssuesDetected = errors.New("seo issues detected")

// Discoverer locates markup documents beneath a root directory.
type Discoverer interface {
	DiscoverMarkupFiles(rootDirectory string) ([]string, error)
}

// FileSystem abstracts file access for the batch pipeline.
type FileSystem interface {
	ReadFile(filePath string) ([]byte, error)
	WriteFile(filePath string, content []byte) error
}

// OSFileSystem implements FileSystem over the real filesystem.
type OSFileSystem struct{}

// ReadFile reads the full file content.
func (OSFileSystem) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// WriteFile replaces the file content in full.
func (OSFileSystem) WriteFile(filePath string, content []byte) error {
	return os.WriteFile(filePath, content, markupFilePermissionsConstant)
}

// RunOptions captures the configurable parameters for one batch run.
type RunOptions struct {
	RootDirectory  string
	ApplyFixes     bool
	DryRun         bool
	ReportFilePath string
	FailOnIssues   bool
}

// Service drives the batch pipeline: discover, read, parse, audit, and
// optionally autofill with full-file write-back. Every file is an
// independent unit of work; one file's failure never aborts the batch.
type Service struct {
	discoverer    Discoverer
	fileSystem    FileSystem
	targetChecker TargetChecker
	settings      BrandSettings
	logger        *zap.Logger
	outputWriter  io.Writer
	errorWriter   io.Writer
}

// NewService constructs a Service using the provided dependencies. Nil
// dependencies fall back to the OS-backed defaults and a no-op logger.
func NewService(discoverer Discoverer, fileSystem FileSystem, targetChecker TargetChecker, settings BrandSettings, logger *zap.Logger, outputWriter io.Writer, errorWriter io.Writer) *Service {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		discoverer:    discoverer,
		fileSystem:    fileSystem,
		targetChecker: targetChecker,
		settings:      settings,
		logger:        logger,
		outputWriter:  outputWriter,
		errorWriter:   errorWriter,
	}
}

// Run executes one batch pass and renders the aggregate report. When fixes
// are disabled and FailOnIssues is set, outstanding issues surface as
// ErrIssuesDetected.
func (service *Service) Run(executionContext context.Context, options RunOptions) error {
	rootDirectory := options.RootDirectory
	if len(rootDirectory) == 0 {
		rootDirectory = defaultRootDirectoryConstant
	}

	ruleTable, tableError := NewRuleTable(service.settings)
	if tableError != nil {
		return tableError
	}

	auditor := NewAuditor(ruleTable, rootDirectory, service.targetChecker)
	autofiller := NewAutofiller(ruleTable)

	markupFiles, discoveryError := service.discoverer.DiscoverMarkupFiles(rootDirectory)
	if discoveryError != nil {
		return discoveryError
	}

	report := NewReport()
	for _, markupFilePath := range markupFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		service.processFile(markupFilePath, rootDirectory, auditor, autofiller, options, report)
	}

	report.RenderConsole(service.outputWriter)

	if len(options.ReportFilePath) > 0 {
		if reportError := service.writeReportFile(options.ReportFilePath, report); reportError != nil {
			return reportError
		}
	}

	if !options.ApplyFixes && options.FailOnIssues && report.Summary.TotalIssues > 0 {
		return ErrIssuesDetected
	}
	return nil
}

// processFile runs the read-parse-audit-fix-write unit for one file. All
// failures are recorded on the report and isolated to the file.
func (service *Service) processFile(markupFilePath string, rootDirectory string, auditor *Auditor, autofiller *Autofiller, options RunOptions, report *Report) {
	relativePath := relativizePath(rootDirectory, markupFilePath)

	rawContent, readError := service.fileSystem.ReadFile(markupFilePath)
	if readError != nil {
		report.RecordError(relativePath, readStageNameConstant, readError)
		service.logger.Warn(fileFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.String(logFieldStageConstant, readStageNameConstant), zap.Error(readError))
		return
	}

	parsedDocument, parseError := htmldoc.Parse(rawContent, markupFilePath)
	if parseError != nil {
		report.RecordError(relativePath, parseStageNameConstant, parseError)
		service.logger.Warn(fileFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.String(logFieldStageConstant, parseStageNameConstant), zap.Error(parseError))
		return
	}

	detectedIssues := auditor.Audit(parsedDocument, relativePath)
	report.RecordFile(relativePath, detectedIssues)

	fixCount := 0
	if options.ApplyFixes {
		appliedFixes, documentModified := autofiller.Autofill(parsedDocument, relativePath)
		fixCount = len(appliedFixes)
		if documentModified {
			if writeBackError := service.writeBack(markupFilePath, parsedDocument, options.DryRun); writeBackError != nil {
				// In-memory fixes are discarded; the original file stays intact.
				report.RecordError(relativePath, writeStageNameConstant, writeBackError)
				service.logger.Warn(fileFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.String(logFieldStageConstant, writeStageNameConstant), zap.Error(writeBackError))
				return
			}
			report.RecordFixes(relativePath, appliedFixes)
		}
	}

	service.logger.Debug(
		fileProcessedMessageConstant,
		zap.String(logFieldFilePathConstant, relativePath),
		zap.Int(logFieldIssueCountConstant, len(detectedIssues)),
		zap.Int(logFieldFixCountConstant, fixCount),
	)
}

func (service *Service) writeBack(markupFilePath string, parsedDocument *htmldoc.Document, dryRun bool) error {
	renderedDocument, renderError := parsedDocument.Render()
	if renderError != nil {
		return renderError
	}
	if dryRun {
		return nil
	}
	return service.fileSystem.WriteFile(markupFilePath, []byte(renderedDocument))
}

func (service *Service) writeReportFile(reportFilePath string, report *Report) error {
	var reportContent strings.Builder
	if encodeError := report.WriteJSON(&reportContent); encodeError != nil {
		return encodeError
	}
	return service.fileSystem.WriteFile(reportFilePath, []byte(reportContent.String()))
}

func relativizePath(rootDirectory string, markupFilePath string) string {
	relativePath, relativeError := filepath.Rel(rootDirectory, markupFilePath)
	if relativeError != nil {
		return markupFilePath
	}
	return filepath.ToSlash(relativePath)
}
