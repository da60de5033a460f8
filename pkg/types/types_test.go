package types

import (
	"testing"
	"time"
)

func TestParseOrganizeMode(t *testing.T) {
	for _, valid := range []string{"type", "date"} {
		mode, err := ParseOrganizeMode(valid)
		if err != nil {
			t.Errorf("ParseOrganizeMode(%q) failed: %v", valid, err)
		}
		if string(mode) != valid {
			t.Errorf("expected %q, got %q", valid, mode)
		}
	}

	if _, err := ParseOrganizeMode("alphabetical"); err == nil {
		t.Error("expected error for invalid mode")
	}
	if _, err := ParseOrganizeMode(""); err == nil {
		t.Error("expected error for empty mode")
	}
}

func TestParseConflictStrategy(t *testing.T) {
	valid := []string{"skip", "rename", "overwrite", "backup", "size_compare", "date_compare", "hash_compare"}
	for _, s := range valid {
		if _, err := ParseConflictStrategy(s); err != nil {
			t.Errorf("ParseConflictStrategy(%q) failed: %v", s, err)
		}
	}

	if _, err := ParseConflictStrategy("merge"); err == nil {
		t.Error("expected error for invalid strategy")
	}
}

func TestParseDateSource(t *testing.T) {
	valid := []string{"auto", "exif", "filename", "creation", "modification", "access"}
	for _, s := range valid {
		if _, err := ParseDateSource(s); err != nil {
			t.Errorf("ParseDateSource(%q) failed: %v", s, err)
		}
	}

	// "unknown" is an internal marker, not a configurable source.
	if _, err := ParseDateSource("unknown"); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestParseDateFormat(t *testing.T) {
	valid := []string{"YYYY", "YYYY-MM", "YYYY-MM-DD", "YYYY-QQ", "YYYY-WW",
		"MM-YYYY", "MMM-YYYY", "YYYY-MMM", "YYYY-MMMM", "custom"}
	for _, s := range valid {
		if _, err := ParseDateFormat(s); err != nil {
			t.Errorf("ParseDateFormat(%q) failed: %v", s, err)
		}
	}

	if _, err := ParseDateFormat("DD-MM-YYYY"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestResult_AddProcessed(t *testing.T) {
	r := NewResult(OrganizeByType, false)
	r.AddProcessed("Images", 100)
	r.AddProcessed("Images", 50)
	r.AddProcessed("Documents", 10)

	if r.ProcessedFiles != 3 {
		t.Errorf("expected 3 processed, got %d", r.ProcessedFiles)
	}
	if r.TotalSizeMoved != 160 {
		t.Errorf("expected 160 bytes moved, got %d", r.TotalSizeMoved)
	}
	if g := r.Groups["Images"]; g == nil || g.Count != 2 || g.Size != 150 {
		t.Errorf("unexpected Images group: %+v", g)
	}
	if g := r.Groups["Documents"]; g == nil || g.Count != 1 {
		t.Errorf("unexpected Documents group: %+v", g)
	}
}

func TestResult_AddError(t *testing.T) {
	r := NewResult(OrganizeByType, false)
	r.AddError("/tmp/a.txt", "permission denied")

	if r.ErrorFiles != 1 {
		t.Errorf("expected 1 error file, got %d", r.ErrorFiles)
	}
	if len(r.Errors) != 1 || r.Errors[0].Path != "/tmp/a.txt" {
		t.Errorf("unexpected errors: %+v", r.Errors)
	}
}

func TestSummary_SuccessRate(t *testing.T) {
	r := NewResult(OrganizeByType, false)
	r.TotalFiles = 3
	r.AddProcessed("Images", 1024)
	r.AddProcessed("Images", 1024)

	s := r.Summary()
	if s.SuccessRate != 66.7 {
		t.Errorf("expected 66.7, got %v", s.SuccessRate)
	}
}

func TestSummary_EmptyRun(t *testing.T) {
	r := NewResult(OrganizeByDate, true)
	s := r.Summary()

	if s.SuccessRate != 0 {
		t.Errorf("expected 0 success rate, got %v", s.SuccessRate)
	}
	if !s.DryRun {
		t.Error("dry-run flag lost in summary")
	}
}

func TestSummary_SizeRounding(t *testing.T) {
	r := NewResult(OrganizeByType, false)
	r.TotalFiles = 1
	r.AddProcessed("Videos", 1572864) // 1.5 MiB

	s := r.Summary()
	if s.TotalSizeMB != 1.5 {
		t.Errorf("expected 1.5 MB, got %v", s.TotalSizeMB)
	}
}

func TestDateRange_Contains(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	full := DateRange{Start: &start, End: &end}
	if !full.Contains(start) || !full.Contains(end) {
		t.Error("range bounds should be inclusive")
	}
	if !full.Contains(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("mid-range date should be contained")
	}
	if full.Contains(time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("date before range should not be contained")
	}
	if full.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("date after range should not be contained")
	}

	openEnd := DateRange{Start: &start}
	if !openEnd.Contains(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("open-ended range should contain far future dates")
	}

	var unbounded DateRange
	if !unbounded.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("unbounded range should contain everything")
	}
}
