package conflict

import (
	"os"
	"time"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/hash"
)

// Info captures the comparison facts for one source/destination pair.
// Content digests are computed at most once per side, on first use.
type Info struct {
	Source      string
	Destination string

	SourceExists bool
	DestExists   bool

	SourceSize    int64
	DestSize      int64
	SourceModTime time.Time
	DestModTime   time.Time

	srcSum  uint64
	srcErr  error
	srcDone bool
	dstSum  uint64
	dstErr  error
	dstDone bool
}

// NewInfo stats both paths. Missing files simply leave the corresponding
// fields zeroed.
func NewInfo(src, dst string) *Info {
	info := &Info{Source: src, Destination: dst}

	if fi, err := os.Stat(src); err == nil {
		info.SourceExists = true
		info.SourceSize = fi.Size()
		info.SourceModTime = fi.ModTime()
	}
	if fi, err := os.Stat(dst); err == nil {
		info.DestExists = true
		info.DestSize = fi.Size()
		info.DestModTime = fi.ModTime()
	}

	return info
}

// SourceSum returns the memoized digest of the source file.
func (i *Info) SourceSum() (uint64, error) {
	if !i.srcDone {
		i.srcSum, i.srcErr = hash.File(i.Source)
		i.srcDone = true
	}
	return i.srcSum, i.srcErr
}

// DestSum returns the memoized digest of the destination file.
func (i *Info) DestSum() (uint64, error) {
	if !i.dstDone {
		i.dstSum, i.dstErr = hash.File(i.Destination)
		i.dstDone = true
	}
	return i.dstSum, i.dstErr
}

// Identical reports whether both files exist with equal size and content.
// Sizes are compared first so different-sized files are never hashed.
func (i *Info) Identical() bool {
	if !i.SourceExists || !i.DestExists {
		return false
	}
	if i.SourceSize != i.DestSize {
		return false
	}

	srcSum, err := i.SourceSum()
	if err != nil {
		return false
	}
	dstSum, err := i.DestSum()
	if err != nil {
		return false
	}
	return srcSum == dstSum
}
