package category

// categoryDef pairs a category name with its extensions. Definition order
// matters: when two categories claim the same extension, the later one wins.
type categoryDef struct {
	name string
	exts []string
}

func defaultTable() []categoryDef {
	return []categoryDef{
		{"Documents", []string{
			".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".pages",
			".xls", ".xlsx", ".csv", ".ods", ".numbers",
			".ppt", ".pptx", ".odp", ".key",
			".epub", ".mobi", ".azw", ".azw3",
		}},
		{"Images", []string{
			".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif",
			".svg", ".webp", ".ico", ".raw", ".cr2", ".nef", ".arw",
			".heic", ".heif", ".avif",
		}},
		{"Videos", []string{
			".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm",
			".m4v", ".3gp", ".mpg", ".mpeg", ".m2v", ".asf",
		}},
		{"Audio", []string{
			".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a",
			".opus", ".aiff", ".au", ".ra", ".ape",
		}},
		{"Archives", []string{
			".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz",
			".tar.gz", ".tar.bz2", ".tar.xz", ".dmg", ".iso",
		}},
		{"Code", []string{
			".py", ".js", ".html", ".css", ".cpp", ".c", ".h", ".hpp",
			".java", ".php", ".rb", ".go", ".rs", ".swift", ".kt",
			".ts", ".jsx", ".tsx", ".vue", ".sql", ".json", ".xml",
			".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf",
		}},
		{"Executables", []string{
			".exe", ".msi", ".app", ".deb", ".rpm", ".dmg", ".pkg",
			".apk", ".ipa", ".appx", ".snap",
		}},
		{"Fonts", []string{
			".ttf", ".otf", ".woff", ".woff2", ".eot", ".pfb", ".pfm",
		}},
		{"3D_Models", []string{
			".obj", ".fbx", ".dae", ".3ds", ".blend", ".max", ".ma", ".mb",
			".c4d", ".lwo", ".lws", ".ply", ".stl",
		}},
		{"CAD", []string{
			".dwg", ".dxf", ".step", ".stp", ".iges", ".igs", ".sat",
			".parasolid", ".x_t", ".x_b",
		}},
		{"eBooks", []string{
			".epub", ".mobi", ".azw", ".azw3", ".fb2", ".lit", ".pdb",
		}},
		{"Spreadsheets", []string{
			".xls", ".xlsx", ".csv", ".ods", ".numbers", ".tsv",
		}},
	}
}

// mimeTable routes filename-derived MIME types to categories.
var mimeTable = map[string][]string{
	"Documents": {
		"application/pdf", "application/msword", "text/plain",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.oasis.opendocument.text",
	},
	"Images": {
		"image/jpeg", "image/png", "image/gif", "image/bmp",
		"image/tiff", "image/svg+xml", "image/webp",
	},
	"Videos": {
		"video/mp4", "video/avi", "video/quicktime", "video/x-msvideo",
		"video/webm", "video/x-flv",
	},
	"Audio": {
		"audio/mpeg", "audio/wav", "audio/flac", "audio/aac",
		"audio/ogg", "audio/x-ms-wma",
	},
}

// magicRule matches a file signature prefix in the first bytes of a file.
type magicRule struct {
	prefix   []byte
	category string
}

var magicRules = []magicRule{
	{[]byte("\x89PNG\r\n\x1a\n"), "Images"},
	{[]byte("\xff\xd8\xff"), "Images"}, // JPEG
	{[]byte("GIF87a"), "Images"},
	{[]byte("GIF89a"), "Images"},
	{[]byte("%PDF"), "Documents"},
	{[]byte("PK\x03\x04"), "Archives"},
	{[]byte("Rar!\x1a\x07\x00"), "Archives"},
	{[]byte("7z\xbc\xaf\x27\x1c"), "Archives"},
	{[]byte("\x00\x00\x01\x00"), "Images"}, // ICO
}
