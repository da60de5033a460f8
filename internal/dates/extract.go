// Package dates extracts file timestamps from the filesystem, filenames
// and embedded EXIF metadata, and groups files into date-named folders.
package dates

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/djherbis/times"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// FileDate carries every candidate timestamp extracted for one file.
// Best holds the highest-priority candidate: EXIF, then filename, then
// creation, then modification, then the current time.
type FileDate struct {
	Path         string
	Creation     *time.Time
	Modification *time.Time
	Access       *time.Time
	Filename     *time.Time
	Metadata     *time.Time
	Best         *time.Time
	Source       types.DateSource
	// Err records a failed filesystem lookup; extraction still completes.
	Err error
}

// Extract gathers all date candidates for path. It never fails: when the
// file cannot be read the result falls back to the current time with
// DateSourceUnknown.
func Extract(path string) FileDate {
	fd := FileDate{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		fd.Err = err
		fd.resolveBest()
		return fd
	}

	mod := info.ModTime()
	fd.Modification = &mod

	ts := times.Get(info)
	access := ts.AccessTime()
	fd.Access = &access
	if ts.HasBirthTime() {
		birth := ts.BirthTime()
		fd.Creation = &birth
	} else if ts.HasChangeTime() {
		change := ts.ChangeTime()
		fd.Creation = &change
	}

	fd.Filename = fromFilename(filepath.Base(path))
	if hasEXIF(path) {
		fd.Metadata = fromEXIF(path)
	}

	fd.resolveBest()
	return fd
}

func (fd *FileDate) resolveBest() {
	switch {
	case fd.Metadata != nil:
		fd.Best, fd.Source = fd.Metadata, types.DateSourceEXIF
	case fd.Filename != nil:
		fd.Best, fd.Source = fd.Filename, types.DateSourceFilename
	case fd.Creation != nil:
		fd.Best, fd.Source = fd.Creation, types.DateSourceCreation
	case fd.Modification != nil:
		fd.Best, fd.Source = fd.Modification, types.DateSourceModification
	default:
		now := time.Now()
		fd.Best, fd.Source = &now, types.DateSourceUnknown
	}
}

// Get returns the date for an explicit source; auto resolves to Best.
// Unavailable explicit sources return nil.
func (fd FileDate) Get(source types.DateSource) *time.Time {
	switch source {
	case types.DateSourceAuto:
		return fd.Best
	case types.DateSourceEXIF:
		return fd.Metadata
	case types.DateSourceFilename:
		return fd.Filename
	case types.DateSourceCreation:
		return fd.Creation
	case types.DateSourceModification:
		return fd.Modification
	case types.DateSourceAccess:
		return fd.Access
	default:
		return fd.Best
	}
}

type patternKind int

const (
	patternDay patternKind = iota
	patternMonth
	patternTimestamp
)

// filenamePatterns is probed in order; the first pattern yielding a valid
// calendar date wins. The full timestamp comes first so the plain
// YYYY-MM-DD pattern cannot swallow its date part and drop the time.
var filenamePatterns = []struct {
	re   *regexp.Regexp
	kind patternKind
}{
	{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})_(\d{2})-(\d{2})-(\d{2})`), patternTimestamp},
	{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), patternDay},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`), patternDay},
	{regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`), patternDay},
	{regexp.MustCompile(`(\d{2})(\d{2})(\d{4})`), patternDay},
	{regexp.MustCompile(`(\d{4})-(\d{2})`), patternMonth},
	{regexp.MustCompile(`(\d{4})(\d{2})`), patternMonth},
	{regexp.MustCompile(`IMG_(\d{4})(\d{2})(\d{2})`), patternDay},
}

func fromFilename(name string) *time.Time {
	for _, p := range filenamePatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		nums := make([]int, len(m)-1)
		for i, g := range m[1:] {
			nums[i], _ = strconv.Atoi(g)
		}

		var t *time.Time
		switch p.kind {
		case patternTimestamp:
			t = makeDate(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
		case patternDay:
			// Four leading digits mean year-first; otherwise month-first.
			if len(m[1]) == 4 {
				t = makeDate(nums[0], nums[1], nums[2], 0, 0, 0)
			} else {
				t = makeDate(nums[2], nums[0], nums[1], 0, 0, 0)
			}
		case patternMonth:
			t = makeDate(nums[0], nums[1], 1, 0, 0, 0)
		}

		// Invalid calendar dates fall through to the next pattern.
		if t != nil {
			return t
		}
	}

	return nil
}

// makeDate validates components the way a strict date constructor would:
// out-of-range values yield nil instead of normalizing.
func makeDate(year, month, day, hour, min, sec int) *time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	if hour > 23 || min > 59 || sec > 59 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return nil
	}
	return &t
}
