package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	defaultRootDirectoryConstant = "."

	issueTypeMissingFileConstant   = "missing_file"
	issueTypeMissingIndexConstant  = "missing_index"
	issueTypeFileReadErrorConstant = "file_read_error"

	fragmentPrefixConstant         = "#"
	mailtoPrefixConstant           = "mailto:"
	telephonePrefixConstant        = "tel:"
	javascriptPrefixConstant       = "javascript:"
	dataPrefixConstant             = "data:"
	httpPrefixConstant             = "http://"
	httpsPrefixConstant            = "https://"
	protocolRelativePrefixConstant = "//"
	rootRelativePrefixConstant     = "/"
	querySeparatorConstant         = "?"
	directoryIndexFileNameConstant = "index.html"

	reportIndentConstant              = "  "
	summaryHeaderFilesCheckedConstant = "Files Checked"
	summaryHeaderLinksFoundConstant   = "Links Found"
	summaryHeaderInternalConstant     = "Internal"
	summaryHeaderExternalConstant     = "External"
	summaryHeaderIssuesConstant       = "Issues"
	summaryHeaderMissingConstant      = "Missing Files"
	issueLineTemplateConstant         = "%s: %s (%s in %s)\n"

	checkFailedMessageConstant = "link check could not read file"
	logFieldFilePathConstant   = "file"
)

// ErrBrokenLinksDetected signals that the check found outstanding issues.
var ErrBrokenLinksDetected = errors.New("broken links detected")

// Discoverer locates markup documents beneath a root directory.
type Discoverer interface {
	DiscoverMarkupFiles(rootDirectory string) ([]string, error)
}

// FileSystem abstracts file access for the checker and the repairer.
type FileSystem interface {
	ReadFile(filePath string) ([]byte, error)
	WriteFile(filePath string, content []byte) error
}

// TargetChecker answers filesystem existence questions for link resolution.
type TargetChecker interface {
	TargetExists(targetPath string) (exists bool, isDirectory bool)
}

type osFileSystem struct{}

func (osFileSystem) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

func (osFileSystem) WriteFile(filePath string, content []byte) error {
	return os.WriteFile(filePath, content, 0o644)
}

type osTargetChecker struct{}

func (osTargetChecker) TargetExists(targetPath string) (bool, bool) {
	fileInformation, statError := os.Stat(targetPath)
	if statError != nil {
		return false, false
	}
	return true, fileInformation.IsDir()
}

// CheckIssue is one broken reference or unreadable file.
type CheckIssue struct {
	Type       string `json:"type"`
	SourceFile string `json:"source_file,omitempty"`
	Link       string `json:"link,omitempty"`
	TargetPath string `json:"target_path,omitempty"`
	LinkType   string `json:"link_type,omitempty"`
	Message    string `json:"error,omitempty"`
}

// CheckSummary aggregates the checker counters. Link counters count distinct
// link values, matching the set semantics of the report consumers.
type CheckSummary struct {
	TotalFilesChecked int `json:"total_files_checked"`
	TotalLinksFound   int `json:"total_links_found"`
	InternalLinks     int `json:"internal_links"`
	ExternalLinks     int `json:"external_links"`
	TotalIssues       int `json:"total_issues"`
	MissingFiles      int `json:"missing_files"`
}

// CheckReport is the machine-readable outcome of one link check.
type CheckReport struct {
	Summary       CheckSummary `json:"summary"`
	Issues        []CheckIssue `json:"issues"`
	MissingFiles  []string     `json:"missing_files"`
	ExternalLinks []string     `json:"external_links"`
}

// CheckOptions captures the configurable parameters for one check run.
type CheckOptions struct {
	RootDirectory  string
	ReportFilePath string
	FailOnIssues   bool
}

// Checker walks every markup file, extracts its outgoing references, and
// resolves internal ones against the file tree.
type Checker struct {
	discoverer    Discoverer
	fileSystem    FileSystem
	targetChecker TargetChecker
	internalHosts map[string]struct{}
	logger        *zap.Logger
	outputWriter  io.Writer
}

// NewChecker constructs a Checker. Nil dependencies fall back to the
// OS-backed defaults and a no-op logger.
func NewChecker(discoverer Discoverer, fileSystem FileSystem, targetChecker TargetChecker, internalHosts []string, logger *zap.Logger, outputWriter io.Writer) *Checker {
	if fileSystem == nil {
		fileSystem = osFileSystem{}
	}
	if targetChecker == nil {
		targetChecker = osTargetChecker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	hostSet := make(map[string]struct{}, len(internalHosts))
	for _, internalHost := range internalHosts {
		hostSet[strings.ToLower(internalHost)] = struct{}{}
	}
	return &Checker{
		discoverer:    discoverer,
		fileSystem:    fileSystem,
		targetChecker: targetChecker,
		internalHosts: hostSet,
		logger:        logger,
		outputWriter:  outputWriter,
	}
}

// Run executes one check pass over the whole tree and renders the aggregate
// report. Outstanding issues surface as ErrBrokenLinksDetected when the
// options require it.
func (checker *Checker) Run(executionContext context.Context, options CheckOptions) error {
	rootDirectory := options.RootDirectory
	if len(rootDirectory) == 0 {
		rootDirectory = defaultRootDirectoryConstant
	}

	markupFiles, discoveryError := checker.discoverer.DiscoverMarkupFiles(rootDirectory)
	if discoveryError != nil {
		return discoveryError
	}

	accumulator := newCheckAccumulator()
	for _, markupFilePath := range markupFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		checker.checkFile(markupFilePath, rootDirectory, accumulator)
	}

	report := accumulator.buildReport()
	renderCheckReport(checker.outputWriter, report)

	if len(options.ReportFilePath) > 0 {
		if reportError := checker.writeReportFile(options.ReportFilePath, report); reportError != nil {
			return reportError
		}
	}

	if options.FailOnIssues && report.Summary.TotalIssues > 0 {
		return ErrBrokenLinksDetected
	}
	return nil
}

func (checker *Checker) checkFile(markupFilePath string, rootDirectory string, accumulator *checkAccumulator) {
	relativePath := relativizePath(rootDirectory, markupFilePath)

	rawContent, readError := checker.fileSystem.ReadFile(markupFilePath)
	if readError != nil {
		accumulator.recordIssue(CheckIssue{Type: issueTypeFileReadErrorConstant, SourceFile: relativePath, Message: readError.Error()})
		accumulator.countFile()
		checker.logger.Warn(checkFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(readError))
		return
	}

	parsedDocument, parseError := htmldoc.Parse(rawContent, markupFilePath)
	if parseError != nil {
		accumulator.recordIssue(CheckIssue{Type: issueTypeFileReadErrorConstant, SourceFile: relativePath, Message: parseError.Error()})
		accumulator.countFile()
		return
	}

	for _, linkReference := range parsedDocument.LinkReferences() {
		accumulator.recordLink(linkReference.Value)

		if !checker.isInternalLink(linkReference.Value) {
			accumulator.recordExternal(linkReference.Value)
			continue
		}
		accumulator.recordInternal(linkReference.Value)

		targetPath, resolvable := resolveLinkTarget(rootDirectory, relativePath, linkReference.Value)
		if !resolvable {
			continue
		}

		targetExists, targetIsDirectory := checker.targetChecker.TargetExists(targetPath)
		normalizedTarget := filepath.ToSlash(targetPath)
		switch {
		case !targetExists:
			accumulator.recordMissing(normalizedTarget)
			accumulator.recordIssue(CheckIssue{
				Type:       issueTypeMissingFileConstant,
				SourceFile: relativePath,
				Link:       linkReference.Value,
				TargetPath: normalizedTarget,
				LinkType:   linkReference.AttributeName,
			})
		case targetIsDirectory:
			indexExists, _ := checker.targetChecker.TargetExists(filepath.Join(targetPath, directoryIndexFileNameConstant))
			if !indexExists {
				accumulator.recordIssue(CheckIssue{
					Type:       issueTypeMissingIndexConstant,
					SourceFile: relativePath,
					Link:       linkReference.Value,
					TargetPath: normalizedTarget,
					LinkType:   linkReference.AttributeName,
				})
			}
		}
	}

	accumulator.countFile()
}

// isInternalLink treats relative references and same-host absolute URLs as
// internal, including the www host variant.
func (checker *Checker) isInternalLink(linkValue string) bool {
	if strings.HasPrefix(linkValue, httpPrefixConstant) || strings.HasPrefix(linkValue, httpsPrefixConstant) || strings.HasPrefix(linkValue, protocolRelativePrefixConstant) {
		parsedURL, parseError := url.Parse(linkValue)
		if parseError != nil {
			return false
		}
		_, hostIsInternal := checker.internalHosts[strings.ToLower(parsedURL.Hostname())]
		return hostIsInternal
	}
	return true
}

// resolveLinkTarget maps an internal reference to a filesystem path beneath
// the root. Fragments, mail, telephone, and script references resolve to
// nothing.
func resolveLinkTarget(rootDirectory string, relativePath string, linkValue string) (string, bool) {
	switch {
	case strings.HasPrefix(linkValue, fragmentPrefixConstant),
		strings.HasPrefix(linkValue, mailtoPrefixConstant),
		strings.HasPrefix(linkValue, telephonePrefixConstant),
		strings.HasPrefix(linkValue, javascriptPrefixConstant),
		strings.HasPrefix(linkValue, dataPrefixConstant),
		strings.HasPrefix(linkValue, httpPrefixConstant),
		strings.HasPrefix(linkValue, httpsPrefixConstant):
		return "", false
	}

	strippedValue := linkValue
	if queryIndex := strings.Index(strippedValue, querySeparatorConstant); queryIndex >= 0 {
		strippedValue = strippedValue[:queryIndex]
	}
	if fragmentIndex := strings.Index(strippedValue, fragmentPrefixConstant); fragmentIndex >= 0 {
		strippedValue = strippedValue[:fragmentIndex]
	}
	if len(strippedValue) == 0 {
		return "", false
	}

	if strings.HasPrefix(strippedValue, rootRelativePrefixConstant) {
		return filepath.Join(rootDirectory, filepath.FromSlash(strings.TrimPrefix(strippedValue, rootRelativePrefixConstant))), true
	}

	documentDirectory := filepath.Dir(filepath.FromSlash(relativePath))
	return filepath.Join(rootDirectory, documentDirectory, filepath.FromSlash(strippedValue)), true
}

func (checker *Checker) writeReportFile(reportFilePath string, report CheckReport) error {
	var reportContent strings.Builder
	encoder := json.NewEncoder(&reportContent)
	encoder.SetIndent("", reportIndentConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return encodeError
	}
	return checker.fileSystem.WriteFile(reportFilePath, []byte(reportContent.String()))
}

// checkAccumulator collects deduplicated link sets and ordered issues.
type checkAccumulator struct {
	filesChecked  int
	allLinks      map[string]struct{}
	internalLinks map[string]struct{}
	externalLinks map[string]struct{}
	missingFiles  map[string]struct{}
	issues        []CheckIssue
}

func newCheckAccumulator() *checkAccumulator {
	return &checkAccumulator{
		allLinks:      map[string]struct{}{},
		internalLinks: map[string]struct{}{},
		externalLinks: map[string]struct{}{},
		missingFiles:  map[string]struct{}{},
	}
}

func (accumulator *checkAccumulator) countFile()                  { accumulator.filesChecked++ }
func (accumulator *checkAccumulator) recordLink(linkValue string) { accumulator.allLinks[linkValue] = struct{}{} }
func (accumulator *checkAccumulator) recordInternal(linkValue string) {
	accumulator.internalLinks[linkValue] = struct{}{}
}
func (accumulator *checkAccumulator) recordExternal(linkValue string) {
	accumulator.externalLinks[linkValue] = struct{}{}
}
func (accumulator *checkAccumulator) recordMissing(targetPath string) {
	accumulator.missingFiles[targetPath] = struct{}{}
}
func (accumulator *checkAccumulator) recordIssue(checkIssue CheckIssue) {
	accumulator.issues = append(accumulator.issues, checkIssue)
}

func (accumulator *checkAccumulator) buildReport() CheckReport {
	return CheckReport{
		Summary: CheckSummary{
			TotalFilesChecked: accumulator.filesChecked,
			TotalLinksFound:   len(accumulator.allLinks),
			InternalLinks:     len(accumulator.internalLinks),
			ExternalLinks:     len(accumulator.externalLinks),
			TotalIssues:       len(accumulator.issues),
			MissingFiles:      len(accumulator.missingFiles),
		},
		Issues:        accumulator.issues,
		MissingFiles:  sortedKeys(accumulator.missingFiles),
		ExternalLinks: sortedKeys(accumulator.externalLinks),
	}
}

func sortedKeys(stringSet map[string]struct{}) []string {
	keys := make([]string, 0, len(stringSet))
	for key := range stringSet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func renderCheckReport(outputWriter io.Writer, report CheckReport) {
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(outputWriter)
	summaryTable.SetStyle(table.StyleLight)
	summaryTable.AppendHeader(table.Row{
		summaryHeaderFilesCheckedConstant,
		summaryHeaderLinksFoundConstant,
		summaryHeaderInternalConstant,
		summaryHeaderExternalConstant,
		summaryHeaderIssuesConstant,
		summaryHeaderMissingConstant,
	})
	summaryTable.AppendRow(table.Row{
		report.Summary.TotalFilesChecked,
		report.Summary.TotalLinksFound,
		report.Summary.InternalLinks,
		report.Summary.ExternalLinks,
		report.Summary.TotalIssues,
		report.Summary.MissingFiles,
	})
	summaryTable.Render()

	for _, checkIssue := range report.Issues {
		fmt.Fprintf(outputWriter, issueLineTemplateConstant, checkIssue.Type, checkIssue.Link, checkIssue.LinkType, checkIssue.SourceFile)
	}
}

func relativizePath(rootDirectory string, markupFilePath string) string {
	relativePath, relativeError := filepath.Rel(rootDirectory, markupFilePath)
	if relativeError != nil {
		return markupFilePath
	}
	return filepath.ToSlash(relativePath)
}
