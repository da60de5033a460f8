// Package category classifies files into named buckets such as Documents,
// Images or Archives. Detection runs extension first, then filename MIME
// type, then content signature.
package category

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/validate"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

// Uncategorized is the bucket for files no detector can place.
const Uncategorized = "Uncategorized"

const headerSize = 16

// Method identifies which detector produced a classification.
type Method string

const (
	MethodExtension Method = "extension"
	MethodMIME      Method = "mime"
	MethodMagic     Method = "magic"
	MethodUnknown   Method = "unknown"
	MethodError     Method = "error"
)

// Classifier maps files to categories. The category table can be changed
// between runs; Classify holds a read lock so changes never interleave
// with an ongoing classification.
type Classifier struct {
	validator *validate.Validator
	log       zerolog.Logger

	mu         sync.RWMutex
	names      []string
	categories map[string][]string
	extensions map[string]string
}

// New builds a classifier over the built-in table, with overrides merged
// on top. Overridden names replace whole extension lists; new names are
// registered after the built-ins.
func New(v *validate.Validator, overrides map[string][]string, log zerolog.Logger) *Classifier {
	c := &Classifier{
		validator:  v,
		log:        log,
		categories: make(map[string][]string),
	}

	for _, def := range defaultTable() {
		c.names = append(c.names, def.name)
		c.categories[def.name] = normalizeExts(def.exts)
	}
	for name, exts := range overrides {
		if _, ok := c.categories[name]; !ok {
			c.names = append(c.names, name)
		}
		c.categories[name] = normalizeExts(exts)
	}

	c.rebuildLocked()
	return c
}

// Classify determines the category of one file and the detection method
// used. Files that fail validation land in Uncategorized with MethodError.
func (c *Classifier) Classify(path string) (string, Method) {
	abs, err := c.validator.FilePath(path)
	if err != nil {
		c.log.Error().Err(err).Str("file", path).Msg("cannot categorize file")
		return Uncategorized, MethodError
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if cat, ok := c.byExtension(abs); ok {
		return cat, MethodExtension
	}
	if cat, ok := byMIME(abs); ok {
		return cat, MethodMIME
	}
	if cat, ok := byMagic(abs); ok {
		return cat, MethodMagic
	}

	return Uncategorized, MethodUnknown
}

func (c *Classifier) byExtension(path string) (string, bool) {
	suffixes := splitSuffixes(filepath.Base(path))
	if len(suffixes) == 0 {
		return "", false
	}

	// Compound extensions like .tar.gz take precedence.
	if len(suffixes) >= 2 {
		compound := strings.ToLower(suffixes[len(suffixes)-2] + suffixes[len(suffixes)-1])
		if cat, ok := c.extensions[compound]; ok {
			return cat, true
		}
	}

	single := strings.ToLower(suffixes[len(suffixes)-1])
	if cat, ok := c.extensions[single]; ok {
		return cat, true
	}

	return "", false
}

func byMIME(path string) (string, bool) {
	mt := mimeByName(filepath.Base(path))
	if mt == "" {
		return "", false
	}
	for category, list := range mimeTable {
		for _, candidate := range list {
			if mt == candidate {
				return category, true
			}
		}
	}
	return "", false
}

// mimeByName derives a MIME type from the filename alone, preferring the
// filetype database and falling back to the platform MIME registry.
func mimeByName(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return ""
	}
	if kind := filetype.GetType(ext); kind != filetype.Unknown {
		return kind.MIME.Value
	}
	mt := mime.TypeByExtension("." + ext)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

func byMagic(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", false
	}
	header = header[:n]

	for _, rule := range magicRules {
		if bytes.HasPrefix(header, rule.prefix) {
			return rule.category, true
		}
	}

	// ISO media containers carry ftyp at offset 4.
	if len(header) >= 8 && bytes.Equal(header[4:8], []byte("ftyp")) {
		return "Videos", true
	}

	return "", false
}

// ClassifyAll buckets paths by category, preserving input order inside
// each bucket.
func (c *Classifier) ClassifyAll(paths []string) map[string][]string {
	buckets := make(map[string][]string)
	var categorized, uncategorized, failed int

	for _, path := range paths {
		cat, method := c.Classify(path)
		buckets[cat] = append(buckets[cat], path)

		if cat == Uncategorized {
			uncategorized++
		} else {
			categorized++
		}
		if method == MethodError {
			failed++
		}

		c.log.Debug().Str("file", filepath.Base(path)).Str("category", cat).
			Str("method", string(method)).Msg("classified")
	}

	c.log.Info().Int("categorized", categorized).Int("uncategorized", uncategorized).
		Int("errors", failed).Msg("categorization complete")

	return buckets
}

// Stats aggregates per-category counts and sizes for bucketed files.
func (c *Classifier) Stats(buckets map[string][]string) map[string]types.CategoryStats {
	stats := make(map[string]types.CategoryStats, len(buckets))

	var total int
	for _, files := range buckets {
		total += len(files)
	}

	for category, files := range buckets {
		var size int64
		var accessible int
		for _, f := range files {
			if info, err := os.Stat(f); err == nil {
				size += info.Size()
				accessible++
			}
		}

		var pct float64
		if total > 0 {
			pct = math.Round(float64(len(files))/float64(total)*1000) / 10
		}

		stats[category] = types.CategoryStats{
			FileCount:         len(files),
			Percentage:        pct,
			TotalSize:         size,
			TotalSizeMB:       math.Round(float64(size)/(1024*1024)*100) / 100,
			AccessibleFiles:   accessible,
			InaccessibleFiles: len(files) - accessible,
		}
	}

	return stats
}

// AddCategory registers a category or replaces its extension list.
func (c *Classifier) AddCategory(name string, exts []string) error {
	if name == "" {
		return errors.New("category name is required")
	}
	if len(exts) == 0 {
		return fmt.Errorf("category %q: at least one extension is required", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.categories[name]; !ok {
		c.names = append(c.names, name)
	}
	c.categories[name] = normalizeExts(exts)
	c.rebuildLocked()

	c.log.Info().Str("category", name).Int("extensions", len(exts)).Msg("category added")
	return nil
}

// RemoveCategory deletes a category and its extension mappings.
func (c *Classifier) RemoveCategory(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.categories[name]; !ok {
		return fmt.Errorf("category %q not found", name)
	}

	delete(c.categories, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	c.rebuildLocked()

	c.log.Info().Str("category", name).Msg("category removed")
	return nil
}

// Categories returns a copy of the current category table.
func (c *Classifier) Categories() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]string, len(c.categories))
	for name, exts := range c.categories {
		out[name] = append([]string(nil), exts...)
	}
	return out
}

// SupportedExtensions returns the union of all mapped extensions.
func (c *Classifier) SupportedExtensions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.extensions))
	for ext := range c.extensions {
		out = append(out, ext)
	}
	return out
}

// SuggestCategory proposes a category name for an unmapped extension.
func (c *Classifier) SuggestCategory(extension string) (string, bool) {
	ext := strings.ToLower(extension)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	switch {
	case ext == ".txt" || ext == ".md" || ext == ".rst":
		return "Documents", true
	case ext == ".log" || ext == ".cfg" || ext == ".ini":
		return "System", true
	case strings.HasSuffix(ext, "rc") || ext == ".sh" || ext == ".bat" || ext == ".ps1":
		return "Scripts", true
	case ext == ".tmp" || ext == ".temp" || ext == ".bak" || ext == ".old":
		return "Temporary", true
	}

	return "", false
}

// rebuildLocked regenerates the extension reverse map. Callers must hold
// the write lock (or have exclusive access during construction).
func (c *Classifier) rebuildLocked() {
	c.extensions = make(map[string]string)
	for _, name := range c.names {
		for _, ext := range c.categories[name] {
			if prev, ok := c.extensions[ext]; ok && prev != name {
				c.log.Debug().Str("extension", ext).Str("category", name).
					Str("was", prev).Msg("extension remapped")
			}
			c.extensions[ext] = name
		}
	}
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		e := strings.ToLower(strings.TrimSpace(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// splitSuffixes returns the dot suffixes of a filename, mirroring how
// compound extensions are split. A leading dot (hidden file) is not a
// suffix.
func splitSuffixes(name string) []string {
	trimmed := strings.TrimPrefix(name, ".")
	parts := strings.Split(trimmed, ".")
	if len(parts) <= 1 {
		return nil
	}
	suffixes := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		suffixes = append(suffixes, "."+p)
	}
	return suffixes
}
