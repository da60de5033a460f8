package dates

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifExtensions lists image formats that may carry EXIF capture times.
var exifExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".tiff": true, ".tif": true,
	".raw": true, ".cr2": true, ".nef": true, ".arw": true,
}

func hasEXIF(path string) bool {
	return exifExtensions[strings.ToLower(filepath.Ext(path))]
}

// fromEXIF reads a capture time from EXIF tags. Any failure yields nil;
// a missing or corrupt EXIF block is never an error.
func fromEXIF(path string) *time.Time {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}

	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime, exif.DateTimeDigitized} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		val, err := tag.StringVal()
		if err != nil {
			continue
		}
		if t, err := time.ParseInLocation("2006:01:02 15:04:05", val, time.Local); err == nil {
			return &t
		}
	}

	return nil
}
