package images_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sitefix/internal/images"
)

func newSiteWithImages(testInstance *testing.T) string {
	testInstance.Helper()
	baseDirectory := testInstance.TempDir()
	imagesDirectory := filepath.Join(baseDirectory, "images")
	require.NoError(testInstance, os.MkdirAll(imagesDirectory, 0o755))

	oversizedImage := imaging.New(2400, 1400, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	require.NoError(testInstance, imaging.Save(oversizedImage, filepath.Join(imagesDirectory, "hero.jpg")))

	smallImage := imaging.New(100, 80, color.NRGBA{R: 20, G: 120, B: 220, A: 255})
	require.NoError(testInstance, imaging.Save(smallImage, filepath.Join(imagesDirectory, "icon.png")))

	return baseDirectory
}

func defaultOptimizeOptions(baseDirectory string) images.OptimizeOptions {
	return images.OptimizeOptions{
		BaseDirectory: baseDirectory,
		ImagesDirName: "images",
		BackupDirName: "images_backup",
		JPEGQuality:   85,
		MaximumWidth:  1920,
		MaximumHeight: 1080,
	}
}

func TestOptimizerBoundsDimensionsAndBacksUp(testInstance *testing.T) {
	baseDirectory := newSiteWithImages(testInstance)
	outputBuffer := &bytes.Buffer{}

	options := defaultOptimizeOptions(baseDirectory)
	options.ReportFilePath = filepath.Join(baseDirectory, "optimize_report.json")

	report, runError := images.NewOptimizer(nil, outputBuffer).Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Equal(testInstance, 2, report.TotalFiles)
	require.Equal(testInstance, 2, report.OptimizedFiles)
	require.Equal(testInstance, 0, report.FailedFiles)
	require.Greater(testInstance, report.TotalSizeBefore, int64(0))

	resizedImage, openError := imaging.Open(filepath.Join(baseDirectory, "images", "hero.jpg"))
	require.NoError(testInstance, openError)
	require.LessOrEqual(testInstance, resizedImage.Bounds().Dx(), 1920)
	require.LessOrEqual(testInstance, resizedImage.Bounds().Dy(), 1080)

	// The backup keeps the originals at their full dimensions.
	backedUpImage, backupOpenError := imaging.Open(filepath.Join(baseDirectory, "images_backup", "hero.jpg"))
	require.NoError(testInstance, backupOpenError)
	require.Equal(testInstance, 2400, backedUpImage.Bounds().Dx())

	reportContent, readError := os.ReadFile(options.ReportFilePath)
	require.NoError(testInstance, readError)
	var decodedReport images.OptimizeReport
	require.NoError(testInstance, json.Unmarshal(reportContent, &decodedReport))
	require.Len(testInstance, decodedReport.Files, 2)
	require.Contains(testInstance, decodedReport.Files[0].OriginalHuman, "B")
}

func TestOptimizerKeepsExistingBackup(testInstance *testing.T) {
	baseDirectory := newSiteWithImages(testInstance)
	outputBuffer := &bytes.Buffer{}
	optimizer := images.NewOptimizer(nil, outputBuffer)

	_, firstRunError := optimizer.Run(context.Background(), defaultOptimizeOptions(baseDirectory))
	require.NoError(testInstance, firstRunError)

	_, secondRunError := optimizer.Run(context.Background(), defaultOptimizeOptions(baseDirectory))
	require.NoError(testInstance, secondRunError)

	// The second run must not overwrite the backup with already-resized files.
	backedUpImage, openError := imaging.Open(filepath.Join(baseDirectory, "images_backup", "hero.jpg"))
	require.NoError(testInstance, openError)
	require.Equal(testInstance, 2400, backedUpImage.Bounds().Dx())
}

func TestOptimizerIsolatesCorruptFiles(testInstance *testing.T) {
	baseDirectory := newSiteWithImages(testInstance)
	require.NoError(testInstance, os.WriteFile(filepath.Join(baseDirectory, "images", "broken.jpg"), []byte("not an image"), 0o644))
	outputBuffer := &bytes.Buffer{}

	options := defaultOptimizeOptions(baseDirectory)
	options.SkipBackup = true

	report, runError := images.NewOptimizer(nil, outputBuffer).Run(context.Background(), options)
	require.NoError(testInstance, runError)

	require.Equal(testInstance, 3, report.TotalFiles)
	require.Equal(testInstance, 2, report.OptimizedFiles)
	require.Equal(testInstance, 1, report.FailedFiles)
}
