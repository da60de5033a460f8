package conflict

import (
	"os"
	"path/filepath"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/hash"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// Analyze inspects which source files would collide in destDir and what
// each collision looks like. It reads but never writes. Equal-size pairs
// are digested concurrently on the hash pool before recommendations are
// derived.
func (r *Resolver) Analyze(sources []string, destDir string) *types.ConflictAnalysis {
	analysis := &types.ConflictAnalysis{TotalFiles: len(sources)}

	var pairs []*Info
	for _, src := range sources {
		dst := filepath.Join(destDir, filepath.Base(src))
		if _, err := os.Stat(dst); err != nil {
			continue
		}
		pairs = append(pairs, NewInfo(src, dst))
	}

	sums := r.prehashEqualSizePairs(pairs)

	for _, info := range pairs {
		analysis.Conflicts++

		identical := false
		if info.SourceExists && info.SourceSize == info.DestSize {
			srcSum, srcOK := sums[info.Source]
			dstSum, dstOK := sums[info.Destination]
			identical = srcOK && dstOK && srcSum == dstSum
		}

		detail := types.ConflictDetail{
			Source:      info.Source,
			Destination: info.Destination,
			SourceSize:  info.SourceSize,
			DestSize:    info.DestSize,
			Identical:   identical,
		}

		switch {
		case identical:
			analysis.IdenticalFiles++
			detail.Recommendation = types.RecommendSkipIdentical
		case info.SourceSize > info.DestSize:
			analysis.SizeConflicts++
			detail.Recommendation = types.RecommendOverwriteLarger
		case !info.SourceModTime.IsZero() && !info.DestModTime.IsZero() &&
			info.SourceModTime.After(info.DestModTime):
			analysis.DateConflicts++
			detail.Recommendation = types.RecommendOverwriteNewer
		default:
			analysis.PotentialOverwrites++
			detail.Recommendation = types.RecommendRenameSafe
		}

		analysis.Details = append(analysis.Details, detail)
	}

	r.log.Info().Int("files", analysis.TotalFiles).Int("conflicts", analysis.Conflicts).
		Msg("conflict analysis complete")
	return analysis
}

// prehashEqualSizePairs digests both sides of every equal-size pair on
// the worker pool. Only equal sizes can be identical, so nothing else is
// hashed.
func (r *Resolver) prehashEqualSizePairs(pairs []*Info) map[string]uint64 {
	sums := make(map[string]uint64)

	pool, err := hash.NewPool(r.workers)
	if err != nil {
		r.log.Warn().Err(err).Msg("hash pool unavailable, skipping content comparison")
		return sums
	}

	go func() {
		for _, info := range pairs {
			if !info.SourceExists || info.SourceSize != info.DestSize {
				continue
			}
			pool.Add(hash.Task{Path: info.Source, Size: info.SourceSize})
			pool.Add(hash.Task{Path: info.Destination, Size: info.DestSize})
		}
		pool.Close()
	}()

	for res := range pool.Results() {
		if res.Err != nil {
			r.log.Debug().Err(res.Err).Str("file", res.Path).Msg("hashing failed")
			continue
		}
		sums[res.Path] = res.Sum
	}

	return sums
}
