package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/conflict"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/hash"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// MoveFile validates and moves a single file, resolving a destination
// collision with the configured strategy first.
func (e *Engine) MoveFile(ctx context.Context, src, dst string, dryRun bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, dst, err := e.validator.MoveOperation(src, dst)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dst); err == nil {
		dst, err = e.resolver.Resolve(src, dst, dryRun)
		if err != nil {
			return err
		}
	}

	return e.moveFile(src, dst, dryRun)
}

// CopyFile validates and copies a single file. The copy lands under a
// temporary name and is renamed into place only once fully written.
func (e *Engine) CopyFile(ctx context.Context, src, dst string, dryRun bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, dst, err := e.validator.CopyOperation(src, dst)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dst); err == nil {
		dst, err = e.resolver.Resolve(src, dst, dryRun)
		if err != nil {
			return err
		}
	}

	if dryRun {
		e.log.Info().Str("source", src).Str("destination", dst).Msg("would copy file")
		return nil
	}

	if err := e.copyFile(src, dst); err != nil {
		return err
	}

	if e.opts.VerifyCopies {
		if err := hash.Verify(src, dst); err != nil {
			os.Remove(dst)
			return fmt.Errorf("copy verification failed: %w", err)
		}
	}

	e.recordRollback(types.OpCopy, dst, src)
	return nil
}

// Batch executes a prepared list of operations sequentially. A failing
// operation is recorded and the batch continues.
func (e *Engine) Batch(ctx context.Context, ops []types.Operation, dryRun bool, onProgress ProgressFunc) *types.OrganizationResult {
	result := types.NewResult(types.OrganizeByType, dryRun)
	result.OperationID = uuid.New().String()
	result.TotalFiles = len(ops)
	start := time.Now()

	e.log.Info().Str("operation", result.OperationID).Int("operations", len(ops)).
		Bool("dry_run", dryRun).Msg("executing batch")

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			result.AddError(op.Source, "operation cancelled")
			break
		}

		size := fileSize(op.Source)

		var err error
		switch op.Type {
		case types.OpMove:
			err = e.MoveFile(ctx, op.Source, op.Destination, dryRun)
		case types.OpCopy:
			err = e.CopyFile(ctx, op.Source, op.Destination, dryRun)
		default:
			err = fmt.Errorf("unknown operation type: %s", op.Type)
		}

		if err != nil {
			if errors.Is(err, conflict.ErrUnresolvable) {
				result.SkippedFiles++
			} else {
				result.AddError(op.Source, err.Error())
			}
		} else {
			result.AddProcessed(string(op.Type), size)
		}

		reportProgress(onProgress, result, op.Source, string(op.Type))
	}

	result.Elapsed = time.Since(start)
	e.logResult(result)
	return result
}

// RollbackLog returns the moves and copies performed so far, newest
// last. Dry runs record nothing.
func (e *Engine) RollbackLog() []types.RollbackEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.RollbackEntry, len(e.rollback))
	copy(out, e.rollback)
	return out
}

func (e *Engine) recordRollback(op types.OperationType, current, original string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollback = append(e.rollback, types.RollbackEntry{
		Operation:    op,
		CurrentPath:  current,
		OriginalPath: original,
		At:           time.Now(),
	})
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func (e *Engine) moveFile(src, dst string, dryRun bool) error {
	if dryRun {
		e.log.Info().Str("source", src).Str("destination", dst).Msg("would move file")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("cannot create destination directory: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) {
			return err
		}
		if err := e.copyFile(src, dst); err != nil {
			return err
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("copied but cannot remove source: %w", err)
		}
	}

	e.recordRollback(types.OpMove, dst, src)
	return nil
}

// copyFile writes to a .part file next to the destination and renames
// it into place, so a crash never leaves a half-written destination.
func (e *Engine) copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("cannot create destination directory: %w", err)
	}

	partPath := dst + ".part"
	if err := atomicCopy(src, partPath, dst); err != nil {
		os.Remove(partPath)
		return err
	}
	return nil
}

func atomicCopy(src, partDest, finalDest string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(partDest)
	if err != nil {
		return err
	}

	_, err = io.Copy(dstFile, srcFile)
	if closeErr := dstFile.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	// Preserve modification time
	if info, err := srcFile.Stat(); err == nil {
		mod := info.ModTime()
		os.Chtimes(partDest, mod, mod)
	}

	return os.Rename(partDest, finalDest)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
