package images

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/temirov/sitefix/internal/htmldoc"
)

const (
	imageTagNameConstant = "img"

	relinkHeaderFilesModifiedConstant     = "Files Modified"
	relinkHeaderReferencesUpdatedConstant = "References Updated"
	relinkLineTemplateConstant            = "%s: %s -> %s\n"

	relinkFailedMessageConstant = "image relink could not process file"
	logFieldFilePathConstant    = "file"
)

var legacyImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".svg":  {},
}

// Discoverer locates markup documents beneath a root directory.
type Discoverer interface {
	DiscoverMarkupFiles(rootDirectory string) ([]string, error)
}

// FileSystem abstracts file access for the relinker.
type FileSystem interface {
	ReadFile(filePath string) ([]byte, error)
	WriteFile(filePath string, content []byte) error
}

type osFileSystem struct{}

func (osFileSystem) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

func (osFileSystem) WriteFile(filePath string, content []byte) error {
	return os.WriteFile(filePath, content, 0o644)
}

// RelinkRecord documents one rewritten image reference.
type RelinkRecord struct {
	File     string `json:"file"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// RelinkReport is the outcome of one relink run.
type RelinkReport struct {
	FilesModified     int            `json:"files_modified"`
	ReferencesUpdated int            `json:"references_updated"`
	Records           []RelinkRecord `json:"records,omitempty"`
}

// RelinkOptions captures the configurable parameters for one relink run.
type RelinkOptions struct {
	RootDirectory string
	Mapping       map[string]string
	DryRun        bool
}

// Relinker rewrites legacy raster image references in the markup to the
// site's webp library, preserving each reference's directory prefix. Only
// base names with a configured mapping are touched.
type Relinker struct {
	discoverer   Discoverer
	fileSystem   FileSystem
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewRelinker constructs a Relinker. Nil dependencies fall back to the
// OS-backed defaults and a no-op logger.
func NewRelinker(discoverer Discoverer, fileSystem FileSystem, logger *zap.Logger, outputWriter io.Writer) *Relinker {
	if fileSystem == nil {
		fileSystem = osFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relinker{discoverer: discoverer, fileSystem: fileSystem, logger: logger, outputWriter: outputWriter}
}

// Run rewrites mapped image references across the whole tree. One file's
// failure never aborts the batch.
func (relinker *Relinker) Run(executionContext context.Context, options RelinkOptions) (RelinkReport, error) {
	rootDirectory := options.RootDirectory
	if len(rootDirectory) == 0 {
		rootDirectory = "."
	}

	markupFiles, discoveryError := relinker.discoverer.DiscoverMarkupFiles(rootDirectory)
	if discoveryError != nil {
		return RelinkReport{}, discoveryError
	}

	report := RelinkReport{}
	for _, markupFilePath := range markupFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return report, contextError
		}
		relinker.relinkFile(markupFilePath, rootDirectory, options, &report)
	}

	relinker.renderReport(report)
	return report, nil
}

func (relinker *Relinker) relinkFile(markupFilePath string, rootDirectory string, options RelinkOptions, report *RelinkReport) {
	relativePath := markupFilePath
	if rebased, relativeError := filepath.Rel(rootDirectory, markupFilePath); relativeError == nil {
		relativePath = filepath.ToSlash(rebased)
	}

	rawContent, readError := relinker.fileSystem.ReadFile(markupFilePath)
	if readError != nil {
		relinker.logger.Warn(relinkFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(readError))
		return
	}

	parsedDocument, parseError := htmldoc.Parse(rawContent, markupFilePath)
	if parseError != nil {
		relinker.logger.Warn(relinkFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(parseError))
		return
	}

	var fileRecords []RelinkRecord
	rewrittenCount := parsedDocument.RewriteReferences(func(tagName string, attributeName string, referenceValue string) (string, bool) {
		if tagName != imageTagNameConstant {
			return "", false
		}
		replacementValue, replaceable := replaceImageReference(referenceValue, options.Mapping)
		if !replaceable {
			return "", false
		}
		fileRecords = append(fileRecords, RelinkRecord{File: relativePath, OldValue: referenceValue, NewValue: replacementValue})
		return replacementValue, true
	})
	if rewrittenCount == 0 {
		return
	}

	if !options.DryRun {
		renderedDocument, renderError := parsedDocument.Render()
		if renderError != nil {
			relinker.logger.Warn(relinkFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(renderError))
			return
		}
		if writeError := relinker.fileSystem.WriteFile(markupFilePath, []byte(renderedDocument)); writeError != nil {
			relinker.logger.Warn(relinkFailedMessageConstant, zap.String(logFieldFilePathConstant, relativePath), zap.Error(writeError))
			return
		}
	}

	report.FilesModified++
	report.ReferencesUpdated += rewrittenCount
	report.Records = append(report.Records, fileRecords...)
}

// replaceImageReference swaps a mapped legacy base name for its webp
// replacement, keeping the directory prefix of the original reference.
func replaceImageReference(referenceValue string, mapping map[string]string) (string, bool) {
	if _, legacy := legacyImageExtensions[strings.ToLower(path.Ext(referenceValue))]; !legacy {
		return "", false
	}

	baseName := path.Base(referenceValue)
	replacementName, mapped := mapping[baseName]
	if !mapped {
		return "", false
	}

	directoryPrefix := path.Dir(referenceValue)
	if directoryPrefix == "." {
		return replacementName, true
	}
	return directoryPrefix + "/" + replacementName, true
}

func (relinker *Relinker) renderReport(report RelinkReport) {
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(relinker.outputWriter)
	summaryTable.SetStyle(table.StyleLight)
	summaryTable.AppendHeader(table.Row{relinkHeaderFilesModifiedConstant, relinkHeaderReferencesUpdatedConstant})
	summaryTable.AppendRow(table.Row{report.FilesModified, report.ReferencesUpdated})
	summaryTable.Render()

	for _, relinkRecord := range report.Records {
		fmt.Fprintf(relinker.outputWriter, relinkLineTemplateConstant, relinkRecord.File, relinkRecord.OldValue, relinkRecord.NewValue)
	}
}
