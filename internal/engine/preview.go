package engine

import (
	"fmt"
	"math"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// Preview computes the folder layout an organize run would produce
// without touching any file. Date previews use the automatic source.
func (e *Engine) Preview(sourceDir string, mode types.OrganizeMode, format types.DateFormat, customFormat string) (*types.Preview, error) {
	src, err := e.validator.SourceDirectory(sourceDir)
	if err != nil {
		return nil, err
	}

	entries, err := e.scanner.Scan(src)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	paths, sizes := pathsAndSizes(entries)

	preview := &types.Preview{
		Mode:       mode,
		TotalFiles: len(entries),
	}

	switch mode {
	case types.OrganizeByType:
		groups := e.classifier.ClassifyAll(paths)
		preview.Groups = e.classifier.Stats(groups)
		preview.Mappings = groups
	case types.OrganizeByDate:
		groups := e.dates.Organize(paths, types.DateSourceAuto, format, nil, customFormat)
		preview.Groups = dateStats(groups, sizes, len(entries))
		preview.Mappings = groups
	default:
		return nil, fmt.Errorf("unknown organization mode: %s", mode)
	}

	preview.EstimatedFolders = len(preview.Groups)
	return preview, nil
}

func dateStats(groups map[string][]string, sizes map[string]int64, total int) map[string]types.CategoryStats {
	stats := make(map[string]types.CategoryStats, len(groups))
	for folder, files := range groups {
		var size int64
		for _, f := range files {
			size += sizes[f]
		}
		entry := types.CategoryStats{
			FileCount:       len(files),
			TotalSize:       size,
			TotalSizeMB:     math.Round(float64(size)/1024/1024*100) / 100,
			AccessibleFiles: len(files),
		}
		if total > 0 {
			entry.Percentage = math.Round(float64(len(files))/float64(total)*1000) / 10
		}
		stats[folder] = entry
	}
	return stats
}
