// Package engine orchestrates scanning, grouping, conflict resolution and
// the per-file move loop for organize runs. All components are injected;
// the engine owns only the run loop and the rollback log.
package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/category"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/conflict"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/dates"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/scan"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/validate"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// ProgressFunc receives a completion fraction in [0,1] after each file,
// along with the file just handled and its destination group.
type ProgressFunc func(fraction float64, path, group string)

// Components holds the collaborators an engine needs. All fields are
// required.
type Components struct {
	Validator  *validate.Validator
	Classifier *category.Classifier
	Dates      *dates.Organizer
	Resolver   *conflict.Resolver
	Scanner    *scan.Scanner
}

// Options carries run-independent engine settings.
type Options struct {
	// VerifyCopies re-reads both sides after every copy and compares
	// digests.
	VerifyCopies bool
}

type Engine struct {
	validator  *validate.Validator
	classifier *category.Classifier
	dates      *dates.Organizer
	resolver   *conflict.Resolver
	scanner    *scan.Scanner
	log        zerolog.Logger
	opts       Options

	mu       sync.Mutex
	rollback []types.RollbackEntry
}

func New(c Components, opts Options, log zerolog.Logger) *Engine {
	return &Engine{
		validator:  c.Validator,
		classifier: c.Classifier,
		dates:      c.Dates,
		resolver:   c.Resolver,
		scanner:    c.Scanner,
		log:        log,
		opts:       opts,
	}
}

// TypeOptions configures one organize-by-type run.
type TypeOptions struct {
	DryRun bool
	// CreateSubdirs routes files into category folders; when false files
	// go straight into the destination root and uncategorized files are
	// skipped.
	CreateSubdirs bool
	OnProgress    ProgressFunc
}

// DateOptions configures one organize-by-date run.
type DateOptions struct {
	DryRun       bool
	Source       types.DateSource
	Format       types.DateFormat
	CustomFormat string
	Range        *types.DateRange
	OnProgress   ProgressFunc
}

// OrganizeByType groups every file under sourceDir by category and moves
// it into a category folder under destDir. An empty destDir organizes in
// place. The run never fails as a whole once scanning succeeds: per-file
// problems are recorded in the result and the loop continues.
func (e *Engine) OrganizeByType(ctx context.Context, sourceDir, destDir string, opts TypeOptions) *types.OrganizationResult {
	result := types.NewResult(types.OrganizeByType, opts.DryRun)
	result.OperationID = uuid.New().String()
	start := time.Now()

	e.log.Info().Str("operation", result.OperationID).Str("source", sourceDir).
		Bool("dry_run", opts.DryRun).Msg("organizing files by type")

	dest, entries, ok := e.prepare(sourceDir, destDir, result)
	if !ok || result.TotalFiles == 0 {
		result.Elapsed = time.Since(start)
		return result
	}

	paths, sizes := pathsAndSizes(entries)
	groups := e.classifier.ClassifyAll(paths)

	e.processGroups(ctx, groups, dest, sizes, opts.DryRun, opts.CreateSubdirs, opts.OnProgress, result)

	result.Elapsed = time.Since(start)
	e.logResult(result)
	return result
}

// OrganizeByDate groups every file under sourceDir into date-named
// folders under destDir. Files excluded by the date range count as
// skipped.
func (e *Engine) OrganizeByDate(ctx context.Context, sourceDir, destDir string, opts DateOptions) *types.OrganizationResult {
	result := types.NewResult(types.OrganizeByDate, opts.DryRun)
	result.OperationID = uuid.New().String()
	start := time.Now()

	e.log.Info().Str("operation", result.OperationID).Str("source", sourceDir).
		Bool("dry_run", opts.DryRun).Msg("organizing files by date")

	dest, entries, ok := e.prepare(sourceDir, destDir, result)
	if !ok || result.TotalFiles == 0 {
		result.Elapsed = time.Since(start)
		return result
	}

	paths, sizes := pathsAndSizes(entries)
	groups := e.dates.Organize(paths, opts.Source, opts.Format, opts.Range, opts.CustomFormat)

	// Files the date range filtered out never reach a group.
	var grouped int
	for _, files := range groups {
		grouped += len(files)
	}
	result.SkippedFiles += result.TotalFiles - grouped

	e.processGroups(ctx, groups, dest, sizes, opts.DryRun, true, opts.OnProgress, result)

	result.Elapsed = time.Since(start)
	e.logResult(result)
	return result
}

// prepare validates directories and scans the source. On failure it
// records a single top-level error and reports false.
func (e *Engine) prepare(sourceDir, destDir string, result *types.OrganizationResult) (string, []types.FileEntry, bool) {
	src, err := e.validator.SourceDirectory(sourceDir)
	if err != nil {
		result.AddError(sourceDir, err.Error())
		return "", nil, false
	}

	dest := src
	if destDir != "" {
		dest, err = e.validator.DestinationDirectory(destDir, true)
		if err != nil {
			result.AddError(destDir, err.Error())
			return "", nil, false
		}
	}

	entries, err := e.scanner.Scan(src)
	if err != nil {
		result.AddError(src, "scan failed: "+err.Error())
		return "", nil, false
	}

	result.TotalFiles = len(entries)
	if len(entries) == 0 {
		e.log.Info().Str("source", src).Msg("no files found to organize")
	}

	return dest, entries, true
}

// processGroups runs the sequential per-file loop. Cancellation is
// honored between files, never in the middle of one.
func (e *Engine) processGroups(ctx context.Context, groups map[string][]string, dest string,
	sizes map[string]int64, dryRun, createSubdirs bool, onProgress ProgressFunc,
	result *types.OrganizationResult) {

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, group := range names {
		files := groups[group]

		if !createSubdirs && group == category.Uncategorized {
			result.SkippedFiles += len(files)
			e.log.Info().Int("files", len(files)).Msg("skipping uncategorized files")
			continue
		}

		groupDir := dest
		if createSubdirs {
			groupDir = filepath.Join(dest, group)
			if err := e.ensureGroupDir(groupDir, dryRun, result); err != nil {
				for _, f := range files {
					result.AddError(f, "cannot create folder: "+err.Error())
				}
				continue
			}
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				result.AddError(file, "operation cancelled")
				e.log.Warn().Str("operation", result.OperationID).Msg("organize cancelled")
				return
			}

			e.processOne(file, groupDir, group, sizes[file], dryRun, result)
			reportProgress(onProgress, result, file, group)
		}
	}
}

// ensureGroupDir creates the group folder and counts the creation only
// when the folder did not exist before. The existence check races with
// other writers by nature; MkdirAll tolerates losing that race.
func (e *Engine) ensureGroupDir(dir string, dryRun bool, result *types.OrganizationResult) error {
	if dryRun {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	result.FoldersCreated++
	return nil
}

// processOne moves a single file into groupDir, resolving a destination
// collision first when there is one.
func (e *Engine) processOne(file, groupDir, group string, size int64, dryRun bool, result *types.OrganizationResult) {
	destPath := filepath.Join(groupDir, filepath.Base(file))

	finalPath := destPath
	if _, err := os.Stat(destPath); err == nil {
		resolved, rerr := e.resolver.Resolve(file, destPath, dryRun)
		if rerr != nil {
			if errors.Is(rerr, conflict.ErrUnresolvable) {
				result.SkippedFiles++
				e.log.Info().Str("file", file).Str("reason", rerr.Error()).Msg("file left in place")
			} else {
				result.AddError(file, rerr.Error())
			}
			return
		}
		finalPath = resolved
		result.ConflictsResolved++
	}

	if err := e.moveFile(file, finalPath, dryRun); err != nil {
		result.AddError(file, err.Error())
		return
	}

	result.AddProcessed(group, size)
}

func reportProgress(onProgress ProgressFunc, result *types.OrganizationResult, path, group string) {
	if onProgress == nil || result.TotalFiles == 0 {
		return
	}
	done := result.ProcessedFiles + result.SkippedFiles + result.ErrorFiles
	fraction := float64(done) / float64(result.TotalFiles)
	if fraction > 1 {
		fraction = 1
	}
	onProgress(fraction, path, group)
}

func (e *Engine) logResult(result *types.OrganizationResult) {
	summary := result.Summary()
	e.log.Info().
		Str("operation", result.OperationID).
		Int("total", summary.TotalFiles).
		Int("processed", summary.ProcessedFiles).
		Int("skipped", summary.SkippedFiles).
		Int("errors", summary.ErrorFiles).
		Int("folders_created", summary.FoldersCreated).
		Int("conflicts_resolved", summary.ConflictsResolved).
		Float64("success_rate", summary.SuccessRate).
		Float64("elapsed_seconds", summary.OperationTime).
		Bool("dry_run", summary.DryRun).
		Msg("organize run finished")

	for i, fe := range result.Errors {
		if i == 5 {
			e.log.Warn().Int("more", len(result.Errors)-5).Msg("additional errors omitted")
			break
		}
		e.log.Warn().Str("file", fe.Path).Str("error", fe.Message).Msg("file failed")
	}
}

func pathsAndSizes(entries []types.FileEntry) ([]string, map[string]int64) {
	paths := make([]string, len(entries))
	sizes := make(map[string]int64, len(entries))
	for i, entry := range entries {
		paths[i] = entry.Path
		sizes[entry.Path] = entry.Size
	}
	return paths, sizes
}
