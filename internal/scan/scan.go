// Package scan walks a source directory and collects the regular files an
// organize run will consider.
package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

type Scanner struct {
	includeExt map[string]bool
	log        zerolog.Logger
}

// New builds a scanner. With a non-empty extension list only matching
// files are returned; otherwise every visible regular file is.
func New(extensions []string, log zerolog.Logger) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	return &Scanner{includeExt: extMap, log: log}
}

// Scan returns every matching file under root in walk order. Hidden files
// are skipped and hidden directories are not descended into. Unreadable
// subtrees are logged and skipped; only a failure at root itself is
// returned as an error.
func (s *Scanner) Scan(root string) ([]types.FileEntry, error) {
	var entries []types.FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if len(s.includeExt) > 0 && !s.includeExt[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
			return nil
		}

		entries = append(entries, types.FileEntry{
			Path:      path,
			Name:      d.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Extension: ext,
		})

		return nil
	})

	s.log.Debug().Int("files", len(entries)).Str("root", root).Msg("scan complete")
	return entries, err
}
