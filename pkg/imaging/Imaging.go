/*
Package imaging decodes, orients, scales, and re-encodes uploaded photos.
*/
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

/*
Decode reads a jpeg, png, gif, or webp image. The returned string is the
format name reported by the decoder.
*/
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return nil, "", fmt.Errorf("error decoding image: %w", err)
	}

	return img, format, nil
}

/*
Orientation returns the clockwise rotation, in degrees, recorded in the
image's EXIF data. Images without EXIF data report 0.
*/
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))

	if err != nil || x == nil {
		return 0
	}

	tag, err := x.Get(exif.Orientation)

	if err != nil || tag == nil {
		return 0
	}

	orientation, err := tag.Int(0)

	if err != nil {
		return 0
	}

	/*
	 * Mirrored orientations are treated as their nearest rotation.
	 */
	switch orientation {
	case 3, 4:
		return 180
	case 5, 8:
		return 270
	case 6, 7:
		return 90
	default:
		return 0
	}
}

/*
FitWithin scales width and height down so that the longer side is at most
maxDimension, keeping the aspect ratio. The shorter side is rounded to the
nearest pixel. Dimensions already within bounds are returned unchanged.
*/
func FitWithin(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}

	if width >= height {
		newHeight := int(math.Round(float64(height) * float64(maxDimension) / float64(width)))
		return maxDimension, max(newHeight, 1)
	}

	newWidth := int(math.Round(float64(width) * float64(maxDimension) / float64(height)))
	return max(newWidth, 1), maxDimension
}

/*
Downscale rotates img upright and shrinks it to fit within maxDimension.
*/
func Downscale(img image.Image, rotation, maxDimension int) image.Image {
	img = Rotate(img, rotation)

	bounds := img.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), maxDimension)

	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}

	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

/*
EncodeJPEG encodes img at the given quality (1-100). Transparent areas are
composited onto white first since JPEG has no alpha channel.
*/
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var (
		err error
		buf bytes.Buffer
	)

	quality = min(max(quality, 1), 100)

	if hasAlpha(img) {
		img = flattenOnWhite(img)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("error encoding image as jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64, *image.Alpha, *image.Alpha16, *image.Paletted:
		return true
	default:
		return false
	}
}

func flattenOnWhite(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)

	draw.Draw(dst, bounds, &image.Uniform{C: image.White}, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)

	return dst
}
