package codec

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
)

// Format is an image container recognised by file extension.
type Format int

const (
	FormatUnknown Format = iota
	JPEG
	PNG
	GIF
	BMP
	TIFF
	WebP
)

var formatExts = map[Format][]string{
	JPEG: {".jpg", ".jpeg"},
	PNG:  {".png"},
	GIF:  {".gif"},
	BMP:  {".bmp"},
	TIFF: {".tif", ".tiff"},
	WebP: {".webp"},
}

var formatNames = map[Format]string{
	JPEG: "JPEG",
	PNG:  "PNG",
	GIF:  "GIF",
	BMP:  "BMP",
	TIFF: "TIFF",
	WebP: "WebP",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "unknown"
}

// FormatFromPath picks the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for f, exts := range formatExts {
		if lo.Contains(exts, ext) {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Extensions returns every recognised extension, lower case with the dot.
func Extensions() []string {
	all := lo.Flatten(lo.Values(formatExts))
	slices.Sort(all)
	return all
}

// imagingFormat maps formats handled by disintegration/imaging.
func imagingFormat(f Format) (imaging.Format, bool) {
	switch f {
	case JPEG:
		return imaging.JPEG, true
	case PNG:
		return imaging.PNG, true
	case GIF:
		return imaging.GIF, true
	case BMP:
		return imaging.BMP, true
	case TIFF:
		return imaging.TIFF, true
	}
	return 0, false
}
