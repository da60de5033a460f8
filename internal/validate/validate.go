// Package validate performs the filesystem checks that guard every
// organize, move and copy operation.
package validate

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// Error describes a failed validation for one path.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Reason
}

const (
	largeFileBytes = 100 * 1024 * 1024
	maxWarnings    = 100
)

// systemDirs marks paths whose files count as system files on unix.
var systemDirs = []string{"/bin", "/sbin", "/usr/bin", "/usr/sbin", "/etc"}

// Validator bundles the path checks shared by the engine and the CLI.
type Validator struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Validator {
	return &Validator{log: log}
}

// SourceDirectory checks that path is an existing, readable, listable
// directory and returns its absolute form.
func (v *Validator) SourceDirectory(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &Error{Path: path, Reason: "cannot resolve path: " + err.Error()}
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &Error{Path: abs, Reason: "source directory does not exist"}
		}
		return "", &Error{Path: abs, Reason: "cannot access source directory: " + err.Error()}
	}
	if !info.IsDir() {
		return "", &Error{Path: abs, Reason: "source path is not a directory"}
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", &Error{Path: abs, Reason: "no read permission for directory"}
	}
	_, err = f.Readdirnames(1)
	f.Close()
	if err != nil && err != io.EOF {
		return "", &Error{Path: abs, Reason: "directory contents are not listable: " + err.Error()}
	}

	v.log.Debug().Str("path", abs).Msg("source directory validated")
	return abs, nil
}

// DestinationDirectory checks that path is a writable directory, creating
// it first when createIfMissing is set.
func (v *Validator) DestinationDirectory(path string, createIfMissing bool) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &Error{Path: path, Reason: "cannot resolve path: " + err.Error()}
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if !createIfMissing {
			return "", &Error{Path: abs, Reason: "destination directory does not exist"}
		}
		if err := os.MkdirAll(abs, 0755); err != nil {
			return "", &Error{Path: abs, Reason: "cannot create destination directory: " + err.Error()}
		}
		v.log.Info().Str("path", abs).Msg("created destination directory")
	case err != nil:
		return "", &Error{Path: abs, Reason: "cannot access destination directory: " + err.Error()}
	case !info.IsDir():
		return "", &Error{Path: abs, Reason: "destination path is not a directory"}
	}

	if !writable(abs) {
		return "", &Error{Path: abs, Reason: "no write permission for directory"}
	}

	return abs, nil
}

// FilePath checks that path is an existing, openable regular file and
// returns its absolute form.
func (v *Validator) FilePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &Error{Path: path, Reason: "cannot resolve path: " + err.Error()}
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &Error{Path: abs, Reason: "file does not exist"}
		}
		return "", &Error{Path: abs, Reason: "cannot access file: " + err.Error()}
	}
	if !info.Mode().IsRegular() {
		return "", &Error{Path: abs, Reason: "path is not a regular file"}
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", &Error{Path: abs, Reason: "file cannot be opened for reading"}
	}
	f.Close()

	return abs, nil
}

// MoveOperation validates a single file move and returns the absolute
// source and destination paths. An existing destination only warns; the
// conflict resolver decides what happens to it.
func (v *Validator) MoveOperation(src, dst string) (string, string, error) {
	absSrc, err := v.FilePath(src)
	if err != nil {
		return "", "", err
	}

	dstDir, err := v.DestinationDirectory(filepath.Dir(dst), true)
	if err != nil {
		return "", "", err
	}
	absDst := filepath.Join(dstDir, filepath.Base(dst))

	srcDir := filepath.Dir(absSrc)
	if !writable(srcDir) {
		return "", "", &Error{Path: srcDir, Reason: "no permission to move files out of directory"}
	}

	if _, err := os.Stat(absDst); err == nil {
		v.log.Warn().Str("dest", absDst).Msg("destination file already exists")
	}

	return absSrc, absDst, nil
}

// CopyOperation validates a single file copy, including a free-space check
// on the destination filesystem. The copy needs the source size plus ten
// percent headroom; when free space cannot be determined the copy is
// allowed to proceed.
func (v *Validator) CopyOperation(src, dst string) (string, string, error) {
	absSrc, err := v.FilePath(src)
	if err != nil {
		return "", "", err
	}

	dstDir, err := v.DestinationDirectory(filepath.Dir(dst), true)
	if err != nil {
		return "", "", err
	}
	absDst := filepath.Join(dstDir, filepath.Base(dst))

	info, err := os.Stat(absSrc)
	if err != nil {
		return "", "", &Error{Path: absSrc, Reason: "cannot determine file size: " + err.Error()}
	}

	free, err := freeSpace(dstDir)
	if err != nil {
		v.log.Debug().Str("path", dstDir).Err(err).Msg("free space check unavailable")
	} else if need := uint64(float64(info.Size()) * 1.1); free < need {
		return "", "", &Error{
			Path:   dstDir,
			Reason: fmt.Sprintf("insufficient disk space: need %d bytes, have %d", need, free),
		}
	}

	return absSrc, absDst, nil
}

// ScanDirectorySafety walks dir and counts files that could make a bulk
// operation risky. The walk never fails; problems become warnings.
func (v *Validator) ScanDirectorySafety(dir string) *types.SafetyReport {
	report := &types.SafetyReport{}
	warn := func(msg string) {
		if len(report.Warnings) < maxWarnings {
			report.Warnings = append(report.Warnings, msg)
		}
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warn("scan error: " + err.Error())
			return nil
		}
		if d.IsDir() {
			return nil
		}

		report.TotalFiles++

		if f, err := os.Open(path); err != nil {
			report.LockedFiles++
			warn("locked file: " + path)
		} else {
			f.Close()
			report.AccessibleFiles++
		}

		if strings.HasPrefix(d.Name(), ".") {
			report.HiddenFiles++
		}

		if isSystemPath(path) {
			report.SystemFiles++
			warn("system file: " + path)
		}

		if info, err := d.Info(); err == nil && info.Size() > largeFileBytes {
			report.LargeFiles = append(report.LargeFiles, types.LargeFile{
				Path:   path,
				SizeMB: math.Round(float64(info.Size())/(1024*1024)*100) / 100,
			})
		}

		return nil
	})
	if err != nil {
		warn("scan error: " + err.Error())
	}

	return report
}

// IsSafeToOrganize reports whether less than ten percent of files in dir
// are locked or system files. Empty directories are safe.
func (v *Validator) IsSafeToOrganize(dir string) bool {
	return Safe(v.ScanDirectorySafety(dir))
}

// Safe applies the ten percent rule to an existing report.
func Safe(report *types.SafetyReport) bool {
	if report.TotalFiles == 0 {
		return true
	}
	problem := float64(report.LockedFiles + report.SystemFiles)
	return problem/float64(report.TotalFiles) < 0.1
}

func isSystemPath(path string) bool {
	for _, dir := range systemDirs {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
