// Package types defines core data structures shared across organizer modules.
package types

import (
	"fmt"
	"math"
	"time"
)

// FileEntry represents a scanned file with its metadata.
type FileEntry struct {
	// Path is the absolute path to the source file.
	Path string
	// Name is the base filename.
	Name string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file modification time.
	ModTime time.Time
	// Extension is the lowercase file extension without dot (e.g., "jpg", "pdf").
	Extension string
}

// OrganizeMode selects how files are grouped into destination folders.
type OrganizeMode string

const (
	// OrganizeByType groups files into category folders (Documents, Images, ...).
	OrganizeByType OrganizeMode = "type"
	// OrganizeByDate groups files into date-named folders.
	OrganizeByDate OrganizeMode = "date"
)

// ParseOrganizeMode converts a CLI/config string into an OrganizeMode.
func ParseOrganizeMode(s string) (OrganizeMode, error) {
	switch OrganizeMode(s) {
	case OrganizeByType, OrganizeByDate:
		return OrganizeMode(s), nil
	}
	return "", fmt.Errorf("invalid organize mode: %q (expected type or date)", s)
}

// ConflictStrategy defines how to handle destination filename conflicts.
type ConflictStrategy string

const (
	ConflictSkip        ConflictStrategy = "skip"
	ConflictRename      ConflictStrategy = "rename"
	ConflictOverwrite   ConflictStrategy = "overwrite"
	ConflictBackup      ConflictStrategy = "backup"
	ConflictSizeCompare ConflictStrategy = "size_compare"
	ConflictDateCompare ConflictStrategy = "date_compare"
	ConflictHashCompare ConflictStrategy = "hash_compare"
)

// ParseConflictStrategy converts a CLI/config string into a ConflictStrategy.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch ConflictStrategy(s) {
	case ConflictSkip, ConflictRename, ConflictOverwrite, ConflictBackup,
		ConflictSizeCompare, ConflictDateCompare, ConflictHashCompare:
		return ConflictStrategy(s), nil
	}
	return "", fmt.Errorf("invalid conflict strategy: %q", s)
}

// DateSource identifies which timestamp is used when organizing by date.
type DateSource string

const (
	// DateSourceAuto picks the best available source per file.
	DateSourceAuto         DateSource = "auto"
	DateSourceEXIF         DateSource = "exif"
	DateSourceFilename     DateSource = "filename"
	DateSourceCreation     DateSource = "creation"
	DateSourceModification DateSource = "modification"
	DateSourceAccess       DateSource = "access"
	// DateSourceUnknown is recorded when no real source was available.
	DateSourceUnknown DateSource = "unknown"
)

// ParseDateSource converts a CLI/config string into a DateSource.
func ParseDateSource(s string) (DateSource, error) {
	switch DateSource(s) {
	case DateSourceAuto, DateSourceEXIF, DateSourceFilename,
		DateSourceCreation, DateSourceModification, DateSourceAccess:
		return DateSource(s), nil
	}
	return "", fmt.Errorf("invalid date source: %q", s)
}

// DateFormat selects the folder naming scheme for date organization.
type DateFormat string

const (
	FormatYear              DateFormat = "YYYY"
	FormatYearMonth         DateFormat = "YYYY-MM"
	FormatYearMonthDay      DateFormat = "YYYY-MM-DD"
	FormatYearQuarter       DateFormat = "YYYY-QQ"
	FormatYearWeek          DateFormat = "YYYY-WW"
	FormatMonthYear         DateFormat = "MM-YYYY"
	FormatMonthNameYear     DateFormat = "MMM-YYYY"
	FormatYearMonthName     DateFormat = "YYYY-MMM"
	FormatYearFullMonthName DateFormat = "YYYY-MMMM"
	// FormatCustom interprets the custom format string as a Go time layout.
	FormatCustom DateFormat = "custom"
)

// ParseDateFormat converts a CLI/config string into a DateFormat.
func ParseDateFormat(s string) (DateFormat, error) {
	switch DateFormat(s) {
	case FormatYear, FormatYearMonth, FormatYearMonthDay, FormatYearQuarter,
		FormatYearWeek, FormatMonthYear, FormatMonthNameYear,
		FormatYearMonthName, FormatYearFullMonthName, FormatCustom:
		return DateFormat(s), nil
	}
	return "", fmt.Errorf("invalid date format: %q", s)
}

// OperationType identifies a single file operation in a batch.
type OperationType string

const (
	OpMove OperationType = "move"
	OpCopy OperationType = "copy"
)

// Operation describes one move or copy in a batch request.
type Operation struct {
	Type        OperationType `json:"type" yaml:"type"`
	Source      string        `json:"source" yaml:"source"`
	Destination string        `json:"destination" yaml:"destination"`
}

// FileError records a per-file failure inside a larger operation.
type FileError struct {
	Path    string `json:"file"`
	Message string `json:"error"`
}

// GroupResult accumulates processed counts for one destination group.
type GroupResult struct {
	Count int   `json:"count"`
	Size  int64 `json:"size"`
}

// OrganizationResult collects the outcome of one organize/batch run.
type OrganizationResult struct {
	// OperationID uniquely identifies the run in logs and exports.
	OperationID string `json:"operation_id"`
	// Mode is the grouping mode the run used.
	Mode OrganizeMode `json:"mode"`
	// TotalFiles is the number of files found by the initial scan.
	TotalFiles int `json:"total_files"`
	// ProcessedFiles is the number of files moved or copied successfully.
	ProcessedFiles int `json:"processed_files"`
	// SkippedFiles counts files intentionally left in place.
	SkippedFiles int `json:"skipped_files"`
	// ErrorFiles counts files that failed; details are in Errors.
	ErrorFiles int `json:"error_files"`
	// FoldersCreated counts destination folders that did not exist before.
	FoldersCreated int `json:"folders_created"`
	// ConflictsResolved counts destination collisions that were resolved.
	ConflictsResolved int `json:"conflicts_resolved"`
	// TotalSizeMoved is the byte total of processed files.
	TotalSizeMoved int64 `json:"total_size_moved"`
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
	// DryRun marks a simulated run that changed nothing on disk.
	DryRun bool `json:"dry_run"`
	// Errors lists per-file failures, in encounter order.
	Errors []FileError `json:"errors"`
	// Groups maps destination group names to per-group totals.
	Groups map[string]*GroupResult `json:"groups"`
}

// NewResult builds an empty result for one run.
func NewResult(mode OrganizeMode, dryRun bool) *OrganizationResult {
	return &OrganizationResult{
		Mode:   mode,
		DryRun: dryRun,
		Groups: make(map[string]*GroupResult),
	}
}

// AddError records a per-file failure.
func (r *OrganizationResult) AddError(path, message string) {
	r.Errors = append(r.Errors, FileError{Path: path, Message: message})
	r.ErrorFiles++
}

// AddProcessed records a successfully processed file.
func (r *OrganizationResult) AddProcessed(group string, size int64) {
	r.ProcessedFiles++
	r.TotalSizeMoved += size
	g := r.Groups[group]
	if g == nil {
		g = &GroupResult{}
		r.Groups[group] = g
	}
	g.Count++
	g.Size += size
}

// Summary is the export-friendly view of an OrganizationResult.
type Summary struct {
	OperationID       string                  `json:"operation_id"`
	Mode              OrganizeMode            `json:"mode"`
	TotalFiles        int                     `json:"total_files"`
	ProcessedFiles    int                     `json:"processed_files"`
	SkippedFiles      int                     `json:"skipped_files"`
	ErrorFiles        int                     `json:"error_files"`
	SuccessRate       float64                 `json:"success_rate"`
	FoldersCreated    int                     `json:"folders_created"`
	ConflictsResolved int                     `json:"conflicts_resolved"`
	TotalSizeMB       float64                 `json:"total_size_mb"`
	OperationTime     float64                 `json:"operation_time_seconds"`
	DryRun            bool                    `json:"dry_run"`
	Groups            map[string]*GroupResult `json:"groups"`
	Errors            []FileError             `json:"errors,omitempty"`
}

// Summary derives the rounded, percentage-bearing view of the result.
func (r *OrganizationResult) Summary() Summary {
	var rate float64
	if r.TotalFiles > 0 {
		rate = math.Round(float64(r.ProcessedFiles)/float64(r.TotalFiles)*1000) / 10
	}
	return Summary{
		OperationID:       r.OperationID,
		Mode:              r.Mode,
		TotalFiles:        r.TotalFiles,
		ProcessedFiles:    r.ProcessedFiles,
		SkippedFiles:      r.SkippedFiles,
		ErrorFiles:        r.ErrorFiles,
		SuccessRate:       rate,
		FoldersCreated:    r.FoldersCreated,
		ConflictsResolved: r.ConflictsResolved,
		TotalSizeMB:       math.Round(float64(r.TotalSizeMoved)/(1024*1024)*100) / 100,
		OperationTime:     math.Round(r.Elapsed.Seconds()*100) / 100,
		DryRun:            r.DryRun,
		Groups:            r.Groups,
		Errors:            r.Errors,
	}
}

// CategoryStats holds aggregate numbers for one category bucket.
type CategoryStats struct {
	FileCount         int     `json:"file_count"`
	Percentage        float64 `json:"percentage"`
	TotalSize         int64   `json:"total_size_bytes"`
	TotalSizeMB       float64 `json:"total_size_mb"`
	AccessibleFiles   int     `json:"accessible_files"`
	InaccessibleFiles int     `json:"inaccessible_files"`
}

// LargeFile flags a file above the safety-scan size threshold.
type LargeFile struct {
	Path   string  `json:"path"`
	SizeMB float64 `json:"size_mb"`
}

// SafetyReport summarizes a pre-organization directory scan.
type SafetyReport struct {
	TotalFiles      int         `json:"total_files"`
	AccessibleFiles int         `json:"accessible_files"`
	LockedFiles     int         `json:"locked_files"`
	HiddenFiles     int         `json:"hidden_files"`
	SystemFiles     int         `json:"system_files"`
	LargeFiles      []LargeFile `json:"large_files"`
	Warnings        []string    `json:"warnings"`
}

// ConflictRecommendation suggests how one analyzed conflict should be handled.
type ConflictRecommendation string

const (
	RecommendSkipIdentical   ConflictRecommendation = "skip_identical"
	RecommendOverwriteLarger ConflictRecommendation = "overwrite_larger"
	RecommendOverwriteNewer  ConflictRecommendation = "overwrite_newer"
	RecommendRenameSafe      ConflictRecommendation = "rename_safe"
)

// ConflictDetail describes one source/destination collision found by analysis.
type ConflictDetail struct {
	Source         string                 `json:"source"`
	Destination    string                 `json:"destination"`
	SourceSize     int64                  `json:"source_size"`
	DestSize       int64                  `json:"dest_size"`
	Identical      bool                   `json:"identical"`
	Recommendation ConflictRecommendation `json:"recommendation"`
}

// ConflictAnalysis is the read-only report of potential destination collisions.
type ConflictAnalysis struct {
	TotalFiles          int              `json:"total_files"`
	Conflicts           int              `json:"conflicts"`
	IdenticalFiles      int              `json:"identical_files"`
	SizeConflicts       int              `json:"size_conflicts"`
	DateConflicts       int              `json:"date_conflicts"`
	PotentialOverwrites int              `json:"potential_overwrites"`
	Details             []ConflictDetail `json:"details"`
}

// ConflictStats reports resolver usage counters.
type ConflictStats struct {
	TotalConflicts int            `json:"total_conflicts"`
	ByStrategy     map[string]int `json:"resolution_strategies"`
	// BackupDir is set only once the backup directory exists on disk.
	BackupDir string `json:"backup_directory,omitempty"`
}

// DateAnalysis reports how file dates are distributed across a directory.
type DateAnalysis struct {
	TotalFiles        int            `json:"total_files"`
	FilesWithDates    int            `json:"files_with_dates"`
	FilesWithoutDates int            `json:"files_without_dates"`
	Earliest          *time.Time     `json:"earliest,omitempty"`
	Latest            *time.Time     `json:"latest,omitempty"`
	Sources           map[string]int `json:"date_sources"`
	ByYear            map[int]int    `json:"yearly_distribution"`
	ByMonth           map[string]int `json:"monthly_distribution"`
	Problematic       []string       `json:"problematic_files,omitempty"`
}

// DateRange bounds date filtering; nil ends are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Preview describes what an organize run would do, without touching disk.
type Preview struct {
	Mode OrganizeMode `json:"mode"`
	// TotalFiles is the number of files the run would consider.
	TotalFiles int `json:"total_files"`
	// EstimatedFolders is the number of destination folders the run would use.
	EstimatedFolders int `json:"estimated_folders"`
	// Groups maps destination group names to their aggregate stats.
	Groups map[string]CategoryStats `json:"groups"`
	// Mappings maps destination group names to the files routed there.
	Mappings map[string][]string `json:"file_mappings"`
}

// RollbackEntry records a completed move so it can be reversed later.
type RollbackEntry struct {
	Operation OperationType `json:"operation"`
	// CurrentPath is where the file lives after the move.
	CurrentPath string `json:"current_path"`
	// OriginalPath is where the file was moved from.
	OriginalPath string    `json:"original_path"`
	At           time.Time `json:"at"`
}
