package dates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

func TestFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"photo_2023-05-12.jpg", "2023-05-12 00:00:00"},
		{"IMG_20230512.jpg", "2023-05-12 00:00:00"},
		{"screenshot_2023-05-12_14-30-25.png", "2023-05-12 14:30:25"},
		{"05-12-2023_report.pdf", "2023-05-12 00:00:00"},
		{"12-05-2023_report.pdf", "2023-12-05 00:00:00"},
		{"archive_2023-05.zip", "2023-05-01 00:00:00"},
		{"archive_202305.zip", "2023-05-01 00:00:00"},
	}

	for _, tc := range cases {
		got := fromFilename(tc.name)
		if got == nil {
			t.Errorf("%s: expected a date, got nil", tc.name)
			continue
		}
		if s := got.Format("2006-01-02 15:04:05"); s != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, s)
		}
	}
}

func TestFromFilename_NoDate(t *testing.T) {
	for _, name := range []string{
		"notes.txt",
		"report_final.pdf",
		"2023-13-40.txt",     // invalid month and day
		"file_20231340.txt",  // invalid in every digit grouping
		"version-12-34.docx", // too short for a year
	} {
		if got := fromFilename(name); got != nil {
			t.Errorf("%s: expected nil, got %v", name, got)
		}
	}
}

func TestFromFilename_InvalidFallsThrough(t *testing.T) {
	// 9999-99-99 fails the day pattern but the trailing digits still
	// do not form a valid month, so the result is nil.
	if got := fromFilename("scan_9999-99-99.pdf"); got != nil {
		t.Errorf("expected nil for impossible date, got %v", got)
	}
}

func TestExtract(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plain.txt")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	fd := Extract(path)

	if fd.Err != nil {
		t.Fatalf("unexpected extraction error: %v", fd.Err)
	}
	if fd.Modification == nil {
		t.Error("expected a modification time")
	}
	if fd.Access == nil {
		t.Error("expected an access time")
	}
	if fd.Best == nil {
		t.Fatal("expected a best date")
	}
	if fd.Source != types.DateSourceCreation {
		t.Errorf("expected creation source for an undated name, got %s", fd.Source)
	}
	if fd.Metadata != nil {
		t.Error("plain text file should have no metadata date")
	}
}

func TestExtract_FilenameBeatsModification(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "photo_2019-07-04.txt")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	// Push the modification time far away from the filename date.
	newer := time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, newer, newer); err != nil {
		t.Fatal(err)
	}

	fd := Extract(path)

	if fd.Source != types.DateSourceFilename {
		t.Fatalf("expected filename source, got %s", fd.Source)
	}
	if fd.Best.Year() != 2019 || fd.Best.Month() != time.July || fd.Best.Day() != 4 {
		t.Errorf("expected 2019-07-04, got %v", fd.Best)
	}
}

func TestExtract_Missing(t *testing.T) {
	fd := Extract(filepath.Join(t.TempDir(), "ghost.txt"))

	if fd.Err == nil {
		t.Error("expected an error for a missing file")
	}
	if fd.Source != types.DateSourceUnknown {
		t.Errorf("expected unknown source, got %s", fd.Source)
	}
	if fd.Best == nil {
		t.Error("expected the wall-clock fallback date")
	}
}

func TestExtract_CorruptEXIF(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	fd := Extract(path)

	if fd.Err != nil {
		t.Fatalf("corrupt metadata must not fail extraction: %v", fd.Err)
	}
	if fd.Metadata != nil {
		t.Error("expected no metadata date from a corrupt file")
	}
	if fd.Best == nil {
		t.Error("expected a fallback date")
	}
}

func TestGet_ExplicitSources(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "doc_2022-03-03.txt")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	fd := Extract(path)

	if d := fd.Get(types.DateSourceFilename); d == nil || d.Year() != 2022 {
		t.Errorf("expected filename date 2022, got %v", d)
	}
	if d := fd.Get(types.DateSourceModification); d == nil {
		t.Error("expected a modification date")
	}
	if d := fd.Get(types.DateSourceEXIF); d != nil {
		t.Errorf("expected nil for unavailable exif source, got %v", d)
	}
	if d := fd.Get(types.DateSourceAuto); d == nil || !d.Equal(*fd.Best) {
		t.Error("auto source should return the best date")
	}
}
