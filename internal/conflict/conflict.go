// Package conflict resolves destination filename collisions using a set of
// configurable strategies, from plain skip/rename up to content-aware
// comparison.
package conflict

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// ErrUnresolvable marks resolutions that keep the existing file in place.
// Callers treat it as a skip, not a failure.
var ErrUnresolvable = errors.New("conflict unresolvable")

const maxRenameAttempts = 9999

// Resolver applies conflict strategies and keeps usage counters. One
// resolver serves one run; its backup directory is stamped at
// construction so all backups of a run land together.
type Resolver struct {
	strategy  types.ConflictStrategy
	backupDir string
	workers   int
	log       zerolog.Logger

	mu         sync.Mutex
	total      int
	byStrategy map[string]int
}

func New(strategy types.ConflictStrategy, backupRoot string, workers int, log zerolog.Logger) *Resolver {
	if backupRoot == "" {
		backupRoot = "backup"
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Resolver{
		strategy:   strategy,
		backupDir:  filepath.Join(backupRoot, time.Now().Format("20060102_150405")),
		workers:    workers,
		log:        log,
		byStrategy: make(map[string]int),
	}
}

// Resolve handles a collision at dst using the resolver's default
// strategy. See ResolveWith.
func (r *Resolver) Resolve(src, dst string, dryRun bool) (string, error) {
	return r.ResolveWith(src, dst, r.strategy, dryRun)
}

// ResolveWith returns the final destination path for src. When dst does
// not exist it is returned unchanged and no counters move. A real
// collision bumps the conflict counters even in dry-run mode; only disk
// mutations are suppressed then. Resolutions that keep the existing file
// return an error wrapping ErrUnresolvable.
func (r *Resolver) ResolveWith(src, dst string, strategy types.ConflictStrategy, dryRun bool) (string, error) {
	info := NewInfo(src, dst)
	if !info.DestExists {
		return dst, nil
	}

	r.mu.Lock()
	r.total++
	r.byStrategy[string(strategy)]++
	r.mu.Unlock()

	r.log.Warn().Str("dest", dst).Str("strategy", string(strategy)).Msg("file conflict detected")

	switch strategy {
	case types.ConflictSkip:
		return "", fmt.Errorf("%w: file skipped", ErrUnresolvable)
	case types.ConflictRename:
		return r.resolveRename(info)
	case types.ConflictOverwrite:
		return r.resolveOverwrite(info, dryRun)
	case types.ConflictBackup:
		return r.resolveBackup(info, dryRun)
	case types.ConflictSizeCompare:
		return r.resolveSizeCompare(info, dryRun)
	case types.ConflictDateCompare:
		return r.resolveDateCompare(info, dryRun)
	case types.ConflictHashCompare:
		return r.resolveHashCompare(info)
	default:
		return "", fmt.Errorf("unknown conflict strategy: %q", strategy)
	}
}

func (r *Resolver) resolveRename(info *Info) (string, error) {
	dir := filepath.Dir(info.Destination)
	ext := filepath.Ext(info.Destination)
	stem := strings.TrimSuffix(filepath.Base(info.Destination), ext)

	for n := 1; n <= maxRenameAttempts; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			r.log.Info().Str("dest", candidate).Msg("renamed to avoid conflict")
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: cannot generate unique filename for %s", ErrUnresolvable, info.Destination)
}

func (r *Resolver) resolveOverwrite(info *Info, dryRun bool) (string, error) {
	if dryRun {
		r.log.Info().Str("dest", info.Destination).Msg("would overwrite")
		return info.Destination, nil
	}

	if err := os.Remove(info.Destination); err != nil {
		return "", fmt.Errorf("cannot overwrite %s: %w", info.Destination, err)
	}
	r.log.Info().Str("dest", info.Destination).Msg("overwriting existing file")
	return info.Destination, nil
}

func (r *Resolver) resolveBackup(info *Info, dryRun bool) (string, error) {
	if dryRun {
		r.log.Info().Str("dest", info.Destination).Msg("would backup and overwrite")
		return info.Destination, nil
	}

	if err := os.MkdirAll(r.backupDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create backup directory: %w", err)
	}

	ext := filepath.Ext(info.Destination)
	stem := strings.TrimSuffix(filepath.Base(info.Destination), ext)
	stamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(r.backupDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))

	if err := copyPreserving(info.Destination, backupPath); err != nil {
		return "", fmt.Errorf("cannot create backup: %w", err)
	}
	if err := os.Remove(info.Destination); err != nil {
		return "", fmt.Errorf("cannot remove original after backup: %w", err)
	}

	r.log.Info().Str("backup", backupPath).Msg("created backup")
	return info.Destination, nil
}

func (r *Resolver) resolveSizeCompare(info *Info, dryRun bool) (string, error) {
	switch {
	case info.SourceSize > info.DestSize:
		r.log.Info().Int64("source", info.SourceSize).Int64("dest", info.DestSize).
			Msg("keeping larger source file")
		return r.resolveOverwrite(info, dryRun)
	case info.SourceSize < info.DestSize:
		return "", fmt.Errorf("%w: destination file is larger", ErrUnresolvable)
	default:
		// Same size, compare content.
		return r.resolveHashCompare(info)
	}
}

func (r *Resolver) resolveDateCompare(info *Info, dryRun bool) (string, error) {
	if info.SourceModTime.IsZero() || info.DestModTime.IsZero() {
		r.log.Warn().Msg("cannot compare file dates, falling back to rename")
		return r.resolveRename(info)
	}

	switch {
	case info.SourceModTime.After(info.DestModTime):
		r.log.Info().Time("source", info.SourceModTime).Time("dest", info.DestModTime).
			Msg("keeping newer source file")
		return r.resolveOverwrite(info, dryRun)
	case info.SourceModTime.Before(info.DestModTime):
		return "", fmt.Errorf("%w: destination file is newer", ErrUnresolvable)
	default:
		return r.resolveHashCompare(info)
	}
}

func (r *Resolver) resolveHashCompare(info *Info) (string, error) {
	if info.Identical() {
		return "", fmt.Errorf("%w: files are identical", ErrUnresolvable)
	}
	return r.resolveRename(info)
}

// SafeFilename returns a name that does not collide inside dir, appending
// _N and falling back to a millisecond timestamp suffix once the counter
// is exhausted.
func (r *Resolver) SafeFilename(name string, dir string) string {
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return name
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 1; n <= maxRenameAttempts; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}

	stamp := strings.ReplaceAll(time.Now().Format("20060102_150405.000"), ".", "_")
	fallback := fmt.Sprintf("%s_%s%s", stem, stamp, ext)
	r.log.Warn().Str("filename", fallback).Msg("using timestamp fallback filename")
	return fallback
}

// Stats reports resolver usage. The backup directory appears only after
// it was actually created.
func (r *Resolver) Stats() types.ConflictStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := types.ConflictStats{
		TotalConflicts: r.total,
		ByStrategy:     make(map[string]int, len(r.byStrategy)),
	}
	for k, v := range r.byStrategy {
		stats.ByStrategy[k] = v
	}
	if _, err := os.Stat(r.backupDir); err == nil {
		stats.BackupDir = r.backupDir
	}
	return stats
}

// SetBackupDirectory overrides the stamped backup location.
func (r *Resolver) SetBackupDirectory(dir string) {
	r.mu.Lock()
	r.backupDir = dir
	r.mu.Unlock()
	r.log.Info().Str("dir", dir).Msg("backup directory set")
}

// copyPreserving copies src to dst and carries the modification time over.
func copyPreserving(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Chtimes(dst, time.Now(), info.ModTime())
}
