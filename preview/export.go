package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for export extensions without an
// image encoder.
var ErrUnsupportedFormat = errors.New("preview: unsupported export format")

// JPEGQuality is the quality used for jpg exports.
const JPEGQuality = 92

// Encode writes dc as an image in the format named by ext (png, jpg,
// jpeg or gif, with or without a leading dot).
func Encode(w io.Writer, ext string, dc *gg.Context) error {
	switch normalizeExt(ext) {
	case "png":
		return dc.EncodePNG(w)
	case "jpg", "jpeg":
		return dc.EncodeJPEG(w, JPEGQuality)
	case "gif":
		return gif.Encode(w, paletted(dc.Image(), dc.Image().Bounds()), nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SaveFile encodes dc to path, picking the format from the extension.
func SaveFile(path string, dc *gg.Context) error {
	ext := filepath.Ext(path)
	if !Supported(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := Encode(f, ext, dc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Supported reports whether ext can be encoded as an image.
func Supported(ext string) bool {
	switch normalizeExt(ext) {
	case "png", "jpg", "jpeg", "gif":
		return true
	}
	return false
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// paletted scales src into a rectangle of size dst and dithers it to the
// web-safe palette.
func paletted(src image.Image, dst image.Rectangle) *image.Paletted {
	var img image.Image = src
	if dst.Size() != src.Bounds().Size() {
		scaled := image.NewRGBA(dst)
		xdraw.ApproxBiLinear.Scale(scaled, dst, src, src.Bounds(), xdraw.Src, nil)
		img = scaled
	}
	out := image.NewPaletted(dst, palette.WebSafe)
	xdraw.FloydSteinberg.Draw(out, dst, img, img.Bounds().Min)
	return out
}
