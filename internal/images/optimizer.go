package images

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
)

const (
	jpegExtensionConstant     = ".jpg"
	jpegAltExtensionConstant  = ".jpeg"
	pngExtensionConstant      = ".png"
	gifExtensionConstant      = ".gif"
	bitmapExtensionConstant   = ".bmp"
	tiffExtensionConstant     = ".tif"
	tiffLongExtensionConstant = ".tiff"

	reportIndentConstant = "  "

	summaryHeaderTotalFilesConstant = "Total Files"
	summaryHeaderOptimizedConstant  = "Optimized"
	summaryHeaderFailedConstant     = "Failed"
	summaryHeaderBeforeConstant     = "Size Before"
	summaryHeaderAfterConstant      = "Size After"
	summaryHeaderSavedConstant      = "Space Saved"
	fileLineTemplateConstant        = "%s: %s -> %s (%.1f%%)\n"

	optimizeFailedMessageConstant = "image optimization failed"
	backupCreatedMessageConstant  = "image backup created"
	logFieldImagePathConstant     = "image"
	logFieldDirectoryConstant     = "directory"

	bytesPerUnitConstant     = 1024
	byteUnitSuffixesConstant = "KMGTPE"
)

var supportedImageExtensions = map[string]struct{}{
	jpegExtensionConstant:     {},
	jpegAltExtensionConstant:  {},
	pngExtensionConstant:      {},
	gifExtensionConstant:      {},
	bitmapExtensionConstant:   {},
	tiffExtensionConstant:     {},
	tiffLongExtensionConstant: {},
}

// FileOptimization documents the outcome for one image file.
type FileOptimization struct {
	Path             string  `json:"path"`
	OriginalSize     int64   `json:"original_size"`
	NewSize          int64   `json:"new_size"`
	SpaceSaved       int64   `json:"space_saved"`
	CompressionRatio float64 `json:"compression_ratio"`
	OriginalHuman    string  `json:"original_size_human"`
	NewHuman         string  `json:"new_size_human"`
	Error            string  `json:"error,omitempty"`
}

// OptimizeReport is the machine-readable outcome of one optimization run.
type OptimizeReport struct {
	Timestamp       string             `json:"timestamp"`
	TotalFiles      int                `json:"total_files"`
	OptimizedFiles  int                `json:"optimized_files"`
	FailedFiles     int                `json:"failed_files"`
	TotalSizeBefore int64              `json:"total_size_before"`
	TotalSizeAfter  int64              `json:"total_size_after"`
	SpaceSaved      int64              `json:"space_saved"`
	Files           []FileOptimization `json:"files"`
}

// OptimizeOptions captures the configurable parameters for one run.
type OptimizeOptions struct {
	BaseDirectory  string
	ImagesDirName  string
	BackupDirName  string
	JPEGQuality    int
	MaximumWidth   int
	MaximumHeight  int
	SkipBackup     bool
	ReportFilePath string
}

// Optimizer recompresses every image beneath the images directory in place,
// bounding dimensions to the configured box. A one-time backup copy of the
// tree is taken before the first run.
type Optimizer struct {
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewOptimizer constructs an Optimizer. A nil logger falls back to no-op.
func NewOptimizer(logger *zap.Logger, outputWriter io.Writer) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{logger: logger, outputWriter: outputWriter}
}

// Run optimizes every supported image and renders the aggregate report.
// Per-file failures are recorded and never abort the batch.
func (optimizer *Optimizer) Run(executionContext context.Context, options OptimizeOptions) (OptimizeReport, error) {
	imagesDirectory := filepath.Join(options.BaseDirectory, options.ImagesDirName)
	backupDirectory := filepath.Join(options.BaseDirectory, options.BackupDirName)

	if !options.SkipBackup {
		if backupError := optimizer.createBackup(imagesDirectory, backupDirectory); backupError != nil {
			return OptimizeReport{}, backupError
		}
	}

	imageFiles, discoveryError := discoverImageFiles(imagesDirectory)
	if discoveryError != nil {
		return OptimizeReport{}, discoveryError
	}

	report := OptimizeReport{Timestamp: time.Now().Format(time.RFC3339), TotalFiles: len(imageFiles)}
	for _, imageFilePath := range imageFiles {
		if contextError := executionContext.Err(); contextError != nil {
			return report, contextError
		}
		optimizer.optimizeFile(imageFilePath, options, &report)
	}

	optimizer.renderReport(report)

	if len(options.ReportFilePath) > 0 {
		if reportError := writeOptimizeReport(options.ReportFilePath, report); reportError != nil {
			return report, reportError
		}
	}
	return report, nil
}

// createBackup copies the images tree once. An existing backup directory is
// left untouched so repeated runs never overwrite the originals.
func (optimizer *Optimizer) createBackup(imagesDirectory string, backupDirectory string) error {
	if _, statError := os.Stat(backupDirectory); statError == nil {
		return nil
	}
	if copyError := os.CopyFS(backupDirectory, os.DirFS(imagesDirectory)); copyError != nil {
		return copyError
	}
	optimizer.logger.Info(backupCreatedMessageConstant, zap.String(logFieldDirectoryConstant, backupDirectory))
	return nil
}

func discoverImageFiles(imagesDirectory string) ([]string, error) {
	var imageFiles []string
	walkError := filepath.WalkDir(imagesDirectory, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if _, supported := supportedImageExtensions[strings.ToLower(filepath.Ext(directoryEntry.Name()))]; supported {
			imageFiles = append(imageFiles, currentPath)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	sort.Strings(imageFiles)
	return imageFiles, nil
}

func (optimizer *Optimizer) optimizeFile(imageFilePath string, options OptimizeOptions, report *OptimizeReport) {
	relativePath := imageFilePath
	if rebased, relativeError := filepath.Rel(options.BaseDirectory, imageFilePath); relativeError == nil {
		relativePath = filepath.ToSlash(rebased)
	}

	originalInformation, statError := os.Stat(imageFilePath)
	if statError != nil {
		optimizer.recordFailure(report, relativePath, statError)
		return
	}
	originalSize := originalInformation.Size()

	decodedImage, openError := imaging.Open(imageFilePath, imaging.AutoOrientation(true))
	if openError != nil {
		optimizer.recordFailure(report, relativePath, openError)
		return
	}

	imageBounds := decodedImage.Bounds()
	if imageBounds.Dx() > options.MaximumWidth || imageBounds.Dy() > options.MaximumHeight {
		decodedImage = imaging.Fit(decodedImage, options.MaximumWidth, options.MaximumHeight, imaging.Lanczos)
	}

	saveError := imaging.Save(decodedImage, imageFilePath,
		imaging.JPEGQuality(options.JPEGQuality),
		imaging.PNGCompressionLevel(png.BestCompression),
	)
	if saveError != nil {
		optimizer.recordFailure(report, relativePath, saveError)
		return
	}

	newInformation, newStatError := os.Stat(imageFilePath)
	if newStatError != nil {
		optimizer.recordFailure(report, relativePath, newStatError)
		return
	}
	newSize := newInformation.Size()

	spaceSaved := originalSize - newSize
	compressionRatio := 0.0
	if originalSize > 0 {
		compressionRatio = float64(spaceSaved) / float64(originalSize) * 100
	}

	report.OptimizedFiles++
	report.TotalSizeBefore += originalSize
	report.TotalSizeAfter += newSize
	report.SpaceSaved += spaceSaved
	report.Files = append(report.Files, FileOptimization{
		Path:             relativePath,
		OriginalSize:     originalSize,
		NewSize:          newSize,
		SpaceSaved:       spaceSaved,
		CompressionRatio: compressionRatio,
		OriginalHuman:    humanReadableSize(originalSize),
		NewHuman:         humanReadableSize(newSize),
	})
}

func (optimizer *Optimizer) recordFailure(report *OptimizeReport, relativePath string, failure error) {
	report.FailedFiles++
	report.Files = append(report.Files, FileOptimization{Path: relativePath, Error: failure.Error()})
	optimizer.logger.Warn(optimizeFailedMessageConstant, zap.String(logFieldImagePathConstant, relativePath), zap.Error(failure))
}

func (optimizer *Optimizer) renderReport(report OptimizeReport) {
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(optimizer.outputWriter)
	summaryTable.SetStyle(table.StyleLight)
	summaryTable.AppendHeader(table.Row{
		summaryHeaderTotalFilesConstant,
		summaryHeaderOptimizedConstant,
		summaryHeaderFailedConstant,
		summaryHeaderBeforeConstant,
		summaryHeaderAfterConstant,
		summaryHeaderSavedConstant,
	})
	summaryTable.AppendRow(table.Row{
		report.TotalFiles,
		report.OptimizedFiles,
		report.FailedFiles,
		humanReadableSize(report.TotalSizeBefore),
		humanReadableSize(report.TotalSizeAfter),
		humanReadableSize(report.SpaceSaved),
	})
	summaryTable.Render()

	for _, fileEntry := range report.Files {
		if len(fileEntry.Error) > 0 {
			continue
		}
		fmt.Fprintf(optimizer.outputWriter, fileLineTemplateConstant, fileEntry.Path, fileEntry.OriginalHuman, fileEntry.NewHuman, fileEntry.CompressionRatio)
	}
}

func writeOptimizeReport(reportFilePath string, report OptimizeReport) error {
	var reportContent strings.Builder
	encoder := json.NewEncoder(&reportContent)
	encoder.SetIndent("", reportIndentConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return encodeError
	}
	return os.WriteFile(reportFilePath, []byte(reportContent.String()), 0o644)
}

// humanReadableSize formats a byte count with a binary unit suffix.
func humanReadableSize(byteCount int64) string {
	if byteCount < bytesPerUnitConstant && byteCount > -bytesPerUnitConstant {
		return fmt.Sprintf("%d B", byteCount)
	}
	divisor, exponent := int64(bytesPerUnitConstant), 0
	for scaled := byteCount / bytesPerUnitConstant; scaled >= bytesPerUnitConstant || scaled <= -bytesPerUnitConstant; scaled /= bytesPerUnitConstant {
		divisor *= bytesPerUnitConstant
		exponent++
	}
	return fmt.Sprintf("%.1f %ciB", float64(byteCount)/float64(divisor), byteUnitSuffixesConstant[exponent])
}
