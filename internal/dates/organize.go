package dates

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// Organizer groups files into date-named folders.
type Organizer struct {
	log zerolog.Logger

	// HandleUnknownDates routes files without a usable date into
	// UnknownFolder instead of dropping them.
	HandleUnknownDates bool
	UnknownFolder      string

	mu           sync.Mutex
	sourceCounts map[string]int
	errs         []types.FileError
}

func NewOrganizer(log zerolog.Logger) *Organizer {
	return &Organizer{
		log:                log,
		HandleUnknownDates: true,
		UnknownFolder:      "Unknown-Date",
		sourceCounts:       make(map[string]int),
	}
}

// Organize buckets paths into folder names derived from each file's date.
// Statistics reset at the start of every invocation. Files outside
// dateRange are excluded entirely.
func (o *Organizer) Organize(paths []string, source types.DateSource, format types.DateFormat,
	dateRange *types.DateRange, customFormat string) map[string][]string {

	o.mu.Lock()
	o.sourceCounts = make(map[string]int)
	o.errs = nil
	o.mu.Unlock()

	if source == "" {
		source = types.DateSourceAuto
	}
	if format == "" {
		format = types.FormatYearMonthDay
	}

	o.log.Info().Int("files", len(paths)).Str("date_source", string(source)).
		Str("date_format", string(format)).Msg("organizing files by date")

	groups := make(map[string][]string)
	var grouped int

	for _, path := range paths {
		fd := Extract(path)
		selected := fd.Get(source)

		o.recordSource(effectiveSource(source, fd, selected))
		if fd.Err != nil {
			o.recordError(path, fd.Err.Error())
		}

		if dateRange != nil && selected != nil && !dateRange.Contains(*selected) {
			o.log.Debug().Str("file", filepath.Base(path)).Msg("file outside date range")
			continue
		}

		var folder string
		if selected != nil {
			folder = FolderName(*selected, format, customFormat)
		} else if o.HandleUnknownDates {
			folder = o.UnknownFolder
		} else {
			continue
		}

		groups[folder] = append(groups[folder], path)
		grouped++

		o.log.Debug().Str("file", filepath.Base(path)).Str("folder", folder).Msg("grouped")
	}

	o.log.Info().Int("grouped", grouped).Int("folders", len(groups)).Msg("date grouping complete")
	return groups
}

// effectiveSource resolves which source actually supplied the date for
// statistics: the auto-picked one, the requested one, or unknown when the
// requested source had no value.
func effectiveSource(requested types.DateSource, fd FileDate, selected *time.Time) types.DateSource {
	if requested == types.DateSourceAuto {
		return fd.Source
	}
	if selected == nil {
		return types.DateSourceUnknown
	}
	return requested
}

func (o *Organizer) recordSource(source types.DateSource) {
	o.mu.Lock()
	o.sourceCounts[string(source)]++
	o.mu.Unlock()
}

func (o *Organizer) recordError(path, msg string) {
	o.mu.Lock()
	o.errs = append(o.errs, types.FileError{Path: path, Message: msg})
	o.mu.Unlock()
}

// SourceCounts returns per-source usage counts for the last Organize call.
func (o *Organizer) SourceCounts() map[string]int {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]int, len(o.sourceCounts))
	for k, v := range o.sourceCounts {
		out[k] = v
	}
	return out
}

// Errors returns extraction failures recorded by the last Organize call.
func (o *Organizer) Errors() []types.FileError {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]types.FileError(nil), o.errs...)
}

// FolderName renders a date into a folder name for the given format.
func FolderName(t time.Time, format types.DateFormat, custom string) string {
	switch format {
	case types.FormatCustom:
		if custom != "" {
			return t.Format(custom)
		}
		return t.Format("2006-01-02")
	case types.FormatYear:
		return t.Format("2006")
	case types.FormatYearMonth:
		return t.Format("2006-01")
	case types.FormatYearMonthDay:
		return t.Format("2006-01-02")
	case types.FormatYearQuarter:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
	case types.FormatYearWeek:
		_, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", t.Year(), week)
	case types.FormatMonthYear:
		return t.Format("01-2006")
	case types.FormatMonthNameYear:
		return t.Format("Jan-2006")
	case types.FormatYearMonthName:
		return t.Format("2006-Jan")
	case types.FormatYearFullMonthName:
		return t.Format("2006-January")
	default:
		return t.Format("2006-01-02")
	}
}

// AnalyzeDistribution reports how dates spread across paths. Files whose
// only date is the wall-clock fallback count as dateless.
func (o *Organizer) AnalyzeDistribution(paths []string) *types.DateAnalysis {
	analysis := &types.DateAnalysis{
		TotalFiles: len(paths),
		Sources:    make(map[string]int),
		ByYear:     make(map[int]int),
		ByMonth:    make(map[string]int),
	}

	var earliest, latest time.Time

	for _, path := range paths {
		fd := Extract(path)

		if fd.Source == types.DateSourceUnknown {
			analysis.FilesWithoutDates++
			if fd.Err != nil {
				analysis.Problematic = append(analysis.Problematic, path+": "+fd.Err.Error())
			} else {
				analysis.Problematic = append(analysis.Problematic, path)
			}
			continue
		}

		d := *fd.Best
		analysis.FilesWithDates++
		analysis.Sources[string(fd.Source)]++
		analysis.ByYear[d.Year()]++
		analysis.ByMonth[d.Format("2006-01")]++

		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
		if latest.IsZero() || d.After(latest) {
			latest = d
		}
	}

	if !earliest.IsZero() {
		analysis.Earliest = &earliest
		analysis.Latest = &latest
	}

	return analysis
}

// SuggestFormat proposes a folder format from the date span of paths:
// day folders inside a month, month folders up to three years, year
// folders beyond that.
func (o *Organizer) SuggestFormat(paths []string) types.DateFormat {
	analysis := o.AnalyzeDistribution(paths)
	if analysis.FilesWithDates == 0 || analysis.Earliest == nil || analysis.Latest == nil {
		return types.FormatYearMonthDay
	}

	days := int(analysis.Latest.Sub(*analysis.Earliest).Hours() / 24)
	switch {
	case days <= 31:
		return types.FormatYearMonthDay
	case days <= 365*3:
		return types.FormatYearMonth
	default:
		return types.FormatYear
	}
}

// FilterByRange returns the paths whose date from source falls inside
// [start, end]; nil bounds are open.
func (o *Organizer) FilterByRange(paths []string, start, end *time.Time, source types.DateSource) []string {
	r := types.DateRange{Start: start, End: end}
	var out []string

	for _, path := range paths {
		fd := Extract(path)
		if d := fd.Get(source); d != nil && r.Contains(*d) {
			out = append(out, path)
		}
	}

	o.log.Info().Int("matched", len(out)).Int("total", len(paths)).Msg("filtered files by date range")
	return out
}
