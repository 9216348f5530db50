package seo

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	reportIndentConstant              = "  "
	summaryHeaderTotalFilesConstant   = "Total Files"
	summaryHeaderWithIssuesConstant   = "With Issues"
	summaryHeaderWithErrorsConstant   = "With Errors"
	summaryHeaderFixedConstant        = "Fixed"
	summaryHeaderTotalIssuesConstant  = "Total Issues"
	summaryHeaderFixesAppliedConstant = "Fixes Applied"
	breakdownHeaderIssueTypeConstant  = "Issue Type"
	breakdownHeaderCountConstant      = "Count"
	fileListingTemplateConstant       = "\n%s\n"
	issueLineTemplateConstant         = "  - %s: %s\n"
	errorLineTemplateConstant         = "  ! %s error: %s\n"
)

// FileIssues lists the findings for one file.
type FileIssues struct {
	File   string  `json:"file"`
	Issues []Issue `json:"issues"`
}

// FileFixes lists the mutations applied to one file.
type FileFixes struct {
	File  string      `json:"file"`
	Fixes []FixRecord `json:"fixes"`
}

// FileProcessingError records a file that could not complete the pipeline.
// Processing errors are reported separately from detected issues.
type FileProcessingError struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"error"`
}

// Summary aggregates batch counters. Counters combine by summation, so the
// summary is independent of file processing order.
type Summary struct {
	TotalFiles      int               `json:"total_files"`
	FilesWithIssues int               `json:"files_with_issues"`
	FilesWithErrors int               `json:"files_with_errors"`
	FilesFixed      int               `json:"files_fixed"`
	TotalIssues     int               `json:"total_issues"`
	FixesApplied    int               `json:"fixes_applied"`
	IssueTypes      map[IssueCode]int `json:"issue_types"`
}

// Report is the machine-readable outcome of one batch run.
type Report struct {
	Summary Summary               `json:"summary"`
	Files   []FileIssues          `json:"issues"`
	Fixes   []FileFixes           `json:"fixes,omitempty"`
	Errors  []FileProcessingError `json:"errors,omitempty"`
}

// NewReport returns an empty report ready for accumulation.
func NewReport() *Report {
	return &Report{Summary: Summary{IssueTypes: map[IssueCode]int{}}}
}

// RecordFile accumulates one audited file into the report.
func (report *Report) RecordFile(relativePath string, detectedIssues []Issue) {
	report.Summary.TotalFiles++
	if len(detectedIssues) == 0 {
		return
	}

	report.Files = append(report.Files, FileIssues{File: relativePath, Issues: detectedIssues})
	report.Summary.FilesWithIssues++
	report.Summary.TotalIssues += len(detectedIssues)
	for _, detectedIssue := range detectedIssues {
		report.Summary.IssueTypes[detectedIssue.Code]++
	}
}

// RecordFixes accumulates the mutations applied to one file.
func (report *Report) RecordFixes(relativePath string, appliedFixes []FixRecord) {
	if len(appliedFixes) == 0 {
		return
	}
	report.Fixes = append(report.Fixes, FileFixes{File: relativePath, Fixes: appliedFixes})
	report.Summary.FilesFixed++
	report.Summary.FixesApplied += len(appliedFixes)
}

// RecordError accumulates a per-file processing failure. The file counts
// toward the batch total but never toward the issue counters.
func (report *Report) RecordError(relativePath string, processingStage string, processingError error) {
	report.Summary.TotalFiles++
	report.Summary.FilesWithErrors++
	report.Errors = append(report.Errors, FileProcessingError{File: relativePath, Stage: processingStage, Message: processingError.Error()})
}

// WriteJSON serializes the report.
func (report *Report) WriteJSON(outputWriter io.Writer) error {
	encoder := json.NewEncoder(outputWriter)
	encoder.SetIndent("", reportIndentConstant)
	return encoder.Encode(report)
}

// issueTypeCount pairs an issue code with its frequency for sorting.
type issueTypeCount struct {
	code  IssueCode
	count int
}

// RenderConsole writes the human-readable listing: a summary table, the
// issue-type breakdown sorted by descending frequency, and the per-file
// issue and error lists.
func (report *Report) RenderConsole(outputWriter io.Writer) {
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(outputWriter)
	summaryTable.SetStyle(table.StyleLight)
	summaryTable.AppendHeader(table.Row{
		summaryHeaderTotalFilesConstant,
		summaryHeaderWithIssuesConstant,
		summaryHeaderWithErrorsConstant,
		summaryHeaderFixedConstant,
		summaryHeaderTotalIssuesConstant,
		summaryHeaderFixesAppliedConstant,
	})
	summaryTable.AppendRow(table.Row{
		report.Summary.TotalFiles,
		report.Summary.FilesWithIssues,
		report.Summary.FilesWithErrors,
		report.Summary.FilesFixed,
		report.Summary.TotalIssues,
		report.Summary.FixesApplied,
	})
	summaryTable.Render()

	if len(report.Summary.IssueTypes) > 0 {
		breakdownTable := table.NewWriter()
		breakdownTable.SetOutputMirror(outputWriter)
		breakdownTable.SetStyle(table.StyleLight)
		breakdownTable.AppendHeader(table.Row{breakdownHeaderIssueTypeConstant, breakdownHeaderCountConstant})
		for _, breakdownEntry := range report.sortedIssueTypes() {
			breakdownTable.AppendRow(table.Row{string(breakdownEntry.code), breakdownEntry.count})
		}
		breakdownTable.Render()
	}

	for _, fileListing := range report.Files {
		fmt.Fprintf(outputWriter, fileListingTemplateConstant, fileListing.File)
		for _, detectedIssue := range fileListing.Issues {
			fmt.Fprintf(outputWriter, issueLineTemplateConstant, detectedIssue.Code, detectedIssue.Detail)
		}
	}

	for _, processingError := range report.Errors {
		fmt.Fprintf(outputWriter, fileListingTemplateConstant, processingError.File)
		fmt.Fprintf(outputWriter, errorLineTemplateConstant, processingError.Stage, processingError.Message)
	}
}

// sortedIssueTypes orders the breakdown by descending count, then by code for
// a stable listing.
func (report *Report) sortedIssueTypes() []issueTypeCount {
	breakdownEntries := make([]issueTypeCount, 0, len(report.Summary.IssueTypes))
	for issueCode, issueCount := range report.Summary.IssueTypes {
		breakdownEntries = append(breakdownEntries, issueTypeCount{code: issueCode, count: issueCount})
	}
	sort.Slice(breakdownEntries, func(firstIndex, secondIndex int) bool {
		if breakdownEntries[firstIndex].count != breakdownEntries[secondIndex].count {
			return breakdownEntries[firstIndex].count > breakdownEntries[secondIndex].count
		}
		return breakdownEntries[firstIndex].code < breakdownEntries[secondIndex].code
	})
	return breakdownEntries
}
