package conflict

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

func newTestResolver(t *testing.T, strategy types.ConflictStrategy, backupRoot string) *Resolver {
	t.Helper()
	return New(strategy, backupRoot, 2, zerolog.Nop())
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_NoConflict(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "dest", "photo.jpg")
	mustWrite(t, src, "new")

	r := newTestResolver(t, types.ConflictSkip, filepath.Join(tmpDir, "backup"))

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("expected no error without a conflict, got %v", err)
	}
	if got != dst {
		t.Errorf("expected unchanged destination, got %s", got)
	}
	if stats := r.Stats(); stats.TotalConflicts != 0 {
		t.Errorf("no conflict should not bump counters, got %d", stats.TotalConflicts)
	}
}

func TestResolve_Skip(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "existing.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "existing")

	r := newTestResolver(t, types.ConflictSkip, filepath.Join(tmpDir, "backup"))

	_, err := r.Resolve(src, dst, false)
	if !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "existing" {
		t.Error("skip must leave the existing file untouched")
	}
}

func TestResolve_Rename(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "photo_existing.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "existing")

	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "photo_existing_1.jpg")
	if got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestResolve_RenameSequence(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "incoming.txt")
	dst := filepath.Join(tmpDir, "report.txt")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "v0")
	mustWrite(t, filepath.Join(tmpDir, "report_1.txt"), "v1")

	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != filepath.Join(tmpDir, "report_2.txt") {
		t.Errorf("expected report_2.txt, got %s", got)
	}
}

func TestResolve_RenameExhausted(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "incoming.jpg")
	dst := filepath.Join(tmpDir, "photo.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "existing")

	for i := 1; i <= maxRenameAttempts; i++ {
		candidate := filepath.Join(tmpDir, "photo_"+strconv.Itoa(i)+".jpg")
		if err := os.WriteFile(candidate, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create candidate file %d: %v", i, err)
		}
	}

	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))

	_, err := r.Resolve(src, dst, false)
	if !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable when every candidate exists, got %v", err)
	}
}

func TestResolve_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "existing.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "existing")

	r := newTestResolver(t, types.ConflictOverwrite, filepath.Join(tmpDir, "backup"))

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != dst {
		t.Errorf("expected destination path back, got %s", got)
	}

	// The existing file is removed; the caller performs the move.
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("expected existing file to be removed")
	}
}

func TestResolve_Overwrite_DryRun(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "existing.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "existing")

	r := newTestResolver(t, types.ConflictOverwrite, filepath.Join(tmpDir, "backup"))

	if _, err := r.Resolve(src, dst, true); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Error("dry run must not remove the existing file")
	}
	if stats := r.Stats(); stats.TotalConflicts != 1 {
		t.Errorf("dry run still counts the conflict, got %d", stats.TotalConflicts)
	}
}

func TestResolve_Backup(t *testing.T) {
	tmpDir := t.TempDir()
	backupRoot := filepath.Join(tmpDir, "backup")
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "existing.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "precious")

	r := newTestResolver(t, types.ConflictBackup, backupRoot)

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != dst {
		t.Errorf("expected destination path back, got %s", got)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("expected existing file to be moved away")
	}

	stats := r.Stats()
	if stats.BackupDir == "" {
		t.Fatal("expected backup directory to be reported after use")
	}

	entries, err := os.ReadDir(stats.BackupDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one backup file, got %v (%v)", entries, err)
	}

	data, err := os.ReadFile(filepath.Join(stats.BackupDir, entries[0].Name()))
	if err != nil || string(data) != "precious" {
		t.Error("backup content does not match the original file")
	}
}

func TestResolve_Backup_DryRun(t *testing.T) {
	tmpDir := t.TempDir()
	backupRoot := filepath.Join(tmpDir, "backup")
	src := filepath.Join(tmpDir, "photo.jpg")
	dst := filepath.Join(tmpDir, "existing.jpg")
	mustWrite(t, src, "new")
	mustWrite(t, dst, "precious")

	r := newTestResolver(t, types.ConflictBackup, backupRoot)

	if _, err := r.Resolve(src, dst, true); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := os.Stat(backupRoot); !os.IsNotExist(err) {
		t.Error("dry run must not create the backup directory")
	}
	if stats := r.Stats(); stats.BackupDir != "" {
		t.Error("unused backup directory must not be reported")
	}
}

func TestResolve_SizeCompare(t *testing.T) {
	tmpDir := t.TempDir()
	r := newTestResolver(t, types.ConflictSizeCompare, filepath.Join(tmpDir, "backup"))

	// Larger source wins and overwrites.
	src := filepath.Join(tmpDir, "big.bin")
	dst := filepath.Join(tmpDir, "small.bin")
	mustWrite(t, src, "larger content")
	mustWrite(t, dst, "tiny")

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != dst {
		t.Errorf("expected overwrite resolution, got %s", got)
	}

	// Smaller source is kept out.
	src2 := filepath.Join(tmpDir, "small2.bin")
	dst2 := filepath.Join(tmpDir, "big2.bin")
	mustWrite(t, src2, "tiny")
	mustWrite(t, dst2, "much larger content")

	if _, err := r.Resolve(src2, dst2, false); !errors.Is(err, ErrUnresolvable) {
		t.Errorf("expected ErrUnresolvable for a larger destination, got %v", err)
	}
	if _, err := os.Stat(dst2); err != nil {
		t.Error("larger destination must stay in place")
	}
}

func TestResolve_SizeCompare_EqualSizes(t *testing.T) {
	tmpDir := t.TempDir()
	r := newTestResolver(t, types.ConflictSizeCompare, filepath.Join(tmpDir, "backup"))

	// Equal size and equal content resolves to identical.
	src := filepath.Join(tmpDir, "a.bin")
	dst := filepath.Join(tmpDir, "b.bin")
	mustWrite(t, src, "same-bytes")
	mustWrite(t, dst, "same-bytes")

	_, err := r.Resolve(src, dst, false)
	if !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable for identical files, got %v", err)
	}

	// Equal size but different content falls back to rename.
	src2 := filepath.Join(tmpDir, "c.bin")
	dst2 := filepath.Join(tmpDir, "d.bin")
	mustWrite(t, src2, "content-aa")
	mustWrite(t, dst2, "content-bb")

	got, err := r.Resolve(src2, dst2, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != filepath.Join(tmpDir, "d_1.bin") {
		t.Errorf("expected rename resolution, got %s", got)
	}
}

func TestResolve_DateCompare(t *testing.T) {
	tmpDir := t.TempDir()
	r := newTestResolver(t, types.ConflictDateCompare, filepath.Join(tmpDir, "backup"))

	src := filepath.Join(tmpDir, "newer.txt")
	dst := filepath.Join(tmpDir, "older.txt")
	mustWrite(t, src, "new version")
	mustWrite(t, dst, "old version")

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(dst, old, old); err != nil {
		t.Fatal(err)
	}

	got, err := r.Resolve(src, dst, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != dst {
		t.Errorf("newer source should overwrite, got %s", got)
	}

	// The reverse order keeps the newer destination.
	src2 := filepath.Join(tmpDir, "older2.txt")
	dst2 := filepath.Join(tmpDir, "newer2.txt")
	mustWrite(t, src2, "old version")
	mustWrite(t, dst2, "new version")
	if err := os.Chtimes(src2, old, old); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Resolve(src2, dst2, false); !errors.Is(err, ErrUnresolvable) {
		t.Errorf("expected ErrUnresolvable for a newer destination, got %v", err)
	}
}

func TestResolve_HashCompare(t *testing.T) {
	tmpDir := t.TempDir()
	r := newTestResolver(t, types.ConflictHashCompare, filepath.Join(tmpDir, "backup"))

	// Identical content is skipped and both files stay untouched.
	src := filepath.Join(tmpDir, "a.txt")
	dst := filepath.Join(tmpDir, "b.txt")
	mustWrite(t, src, "identical")
	mustWrite(t, dst, "identical")

	_, err := r.Resolve(src, dst, false)
	if !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable for identical content, got %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source must remain after an identical-content skip")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Error("destination must remain after an identical-content skip")
	}

	// Different content gets a renamed destination.
	src2 := filepath.Join(tmpDir, "c.txt")
	dst2 := filepath.Join(tmpDir, "d.txt")
	mustWrite(t, src2, "version one")
	mustWrite(t, dst2, "version two")

	got, err := r.Resolve(src2, dst2, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != filepath.Join(tmpDir, "d_1.txt") {
		t.Errorf("expected rename resolution, got %s", got)
	}
}

func TestResolve_UnknownStrategy(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.txt")
	dst := filepath.Join(tmpDir, "b.txt")
	mustWrite(t, src, "x")
	mustWrite(t, dst, "y")

	r := newTestResolver(t, types.ConflictSkip, filepath.Join(tmpDir, "backup"))

	_, err := r.ResolveWith(src, dst, "merge", false)
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if errors.Is(err, ErrUnresolvable) {
		t.Error("unknown strategy is a real error, not a skip")
	}
}

func TestResolveWith_OverridesDefault(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.txt")
	dst := filepath.Join(tmpDir, "b.txt")
	mustWrite(t, src, "x")
	mustWrite(t, dst, "y")

	r := newTestResolver(t, types.ConflictSkip, filepath.Join(tmpDir, "backup"))

	got, err := r.ResolveWith(src, dst, types.ConflictRename, false)
	if err != nil {
		t.Fatalf("ResolveWith failed: %v", err)
	}
	if got != filepath.Join(tmpDir, "b_1.txt") {
		t.Errorf("expected rename override, got %s", got)
	}
}

func TestStats(t *testing.T) {
	tmpDir := t.TempDir()
	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))

	for i := 0; i < 2; i++ {
		src := filepath.Join(tmpDir, "src"+strconv.Itoa(i)+".txt")
		dst := filepath.Join(tmpDir, "dst"+strconv.Itoa(i)+".txt")
		mustWrite(t, src, "s")
		mustWrite(t, dst, "d")
		if _, err := r.Resolve(src, dst, false); err != nil {
			t.Fatal(err)
		}
	}

	stats := r.Stats()
	if stats.TotalConflicts != 2 {
		t.Errorf("expected 2 conflicts, got %d", stats.TotalConflicts)
	}
	if stats.ByStrategy["rename"] != 2 {
		t.Errorf("expected 2 rename resolutions, got %v", stats.ByStrategy)
	}
	if stats.BackupDir != "" {
		t.Error("backup dir should not be reported when unused")
	}
}

func TestSafeFilename(t *testing.T) {
	tmpDir := t.TempDir()
	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))

	if got := r.SafeFilename("fresh.txt", tmpDir); got != "fresh.txt" {
		t.Errorf("expected unchanged name, got %s", got)
	}

	mustWrite(t, filepath.Join(tmpDir, "taken.txt"), "x")
	if got := r.SafeFilename("taken.txt", tmpDir); got != "taken_1.txt" {
		t.Errorf("expected taken_1.txt, got %s", got)
	}
}

func TestSetBackupDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	custom := filepath.Join(tmpDir, "my-backups")

	src := filepath.Join(tmpDir, "a.txt")
	dst := filepath.Join(tmpDir, "b.txt")
	mustWrite(t, src, "x")
	mustWrite(t, dst, "y")

	r := newTestResolver(t, types.ConflictBackup, filepath.Join(tmpDir, "backup"))
	r.SetBackupDirectory(custom)

	if _, err := r.Resolve(src, dst, false); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	entries, err := os.ReadDir(custom)
	if err != nil || len(entries) != 1 {
		t.Errorf("expected backup in the custom directory, got %v (%v)", entries, err)
	}
}

func TestAnalyze(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	dstDir := filepath.Join(tmpDir, "dst")
	for _, d := range []string{srcDir, dstDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	// Identical pair.
	mustWrite(t, filepath.Join(srcDir, "same.txt"), "equal")
	mustWrite(t, filepath.Join(dstDir, "same.txt"), "equal")

	// Source strictly larger.
	mustWrite(t, filepath.Join(srcDir, "big.txt"), "much longer content")
	mustWrite(t, filepath.Join(dstDir, "big.txt"), "short")

	// No conflict at all.
	mustWrite(t, filepath.Join(srcDir, "free.txt"), "alone")

	sources := []string{
		filepath.Join(srcDir, "same.txt"),
		filepath.Join(srcDir, "big.txt"),
		filepath.Join(srcDir, "free.txt"),
	}

	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))
	analysis := r.Analyze(sources, dstDir)

	if analysis.TotalFiles != 3 {
		t.Errorf("expected 3 files analyzed, got %d", analysis.TotalFiles)
	}
	if analysis.Conflicts != 2 {
		t.Errorf("expected 2 conflicts, got %d", analysis.Conflicts)
	}
	if analysis.IdenticalFiles != 1 {
		t.Errorf("expected 1 identical pair, got %d", analysis.IdenticalFiles)
	}
	if analysis.SizeConflicts != 1 {
		t.Errorf("expected 1 size conflict, got %d", analysis.SizeConflicts)
	}

	recommendations := make(map[string]types.ConflictRecommendation)
	for _, d := range analysis.Details {
		recommendations[filepath.Base(d.Source)] = d.Recommendation
	}
	if recommendations["same.txt"] != types.RecommendSkipIdentical {
		t.Errorf("expected skip recommendation for identical pair, got %s", recommendations["same.txt"])
	}
	if recommendations["big.txt"] != types.RecommendOverwriteLarger {
		t.Errorf("expected overwrite recommendation for larger source, got %s", recommendations["big.txt"])
	}
}

func TestAnalyze_RenameSafeDefault(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	dstDir := filepath.Join(tmpDir, "dst")
	for _, d := range []string{srcDir, dstDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	// Smaller source, older than the destination: nothing recommends an
	// overwrite, so the safe default applies.
	src := filepath.Join(srcDir, "doc.txt")
	dst := filepath.Join(dstDir, "doc.txt")
	mustWrite(t, src, "short")
	mustWrite(t, dst, "quite a bit longer")

	old := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(src, old, old); err != nil {
		t.Fatal(err)
	}

	r := newTestResolver(t, types.ConflictRename, filepath.Join(tmpDir, "backup"))
	analysis := r.Analyze([]string{src}, dstDir)

	if analysis.PotentialOverwrites != 1 {
		t.Errorf("expected 1 potential overwrite, got %d", analysis.PotentialOverwrites)
	}
	if len(analysis.Details) != 1 || analysis.Details[0].Recommendation != types.RecommendRenameSafe {
		t.Errorf("expected rename_safe recommendation, got %+v", analysis.Details)
	}
}
