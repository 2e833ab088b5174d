package imaging

import (
	"image"
)

/*
Rotate turns img clockwise by 90, 180, or 270 degrees. Any other value
returns img as-is.
*/
func Rotate(img image.Image, degrees int) image.Image {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return rotate(img, true, func(x, y, w, h int) (int, int) { return h - 1 - y, x })
	case 180:
		return rotate(img, false, func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y })
	case 270:
		return rotate(img, true, func(x, y, w, h int) (int, int) { return y, w - 1 - x })
	default:
		return img
	}
}

func rotate(src image.Image, swap bool, target func(x, y, w, h int) (int, int)) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dstRect := image.Rect(0, 0, w, h)

	if swap {
		dstRect = image.Rect(0, 0, h, w)
	}

	dst := image.NewRGBA(dstRect)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := target(x, y, w, h)
			dst.Set(dx, dy, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	return dst
}
