package intake

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// errCannotCompress is returned when no quality/resolution combination brings
// the image under the target. The caller treats it as a size rejection.
var errCannotCompress = errors.New("image cannot be compressed under target size")

// Descending JPEG qualities tried after resizing.
var jpegQualities = []int{85, 75, 65, 55, 45}

// minLongSidePx keeps document photos legible after downscaling.
const minLongSidePx = 800

// compressImage re-encodes an oversized document image as JPEG, resizing if
// re-encoding alone is not enough. Returns the compressed bytes, or
// errCannotCompress when even the lowest acceptable quality stays above the
// target (with a 20% tolerance at the final fallback quality).
func compressImage(data []byte, targetBytes int64) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	encoded, err := encodeJPEG(img, jpegQualities[0])
	if err != nil {
		return nil, err
	}
	if int64(len(encoded)) <= targetBytes {
		return encoded, nil
	}

	// Scale both dimensions by sqrt(target/current) so the pixel count
	// shrinks roughly in proportion to the byte budget.
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(targetBytes) / float64(len(encoded)))
	newW := int(float64(bounds.Dx()) * ratio)
	newH := int(float64(bounds.Dy()) * ratio)
	newW, newH = clampLongSide(bounds.Dx(), bounds.Dy(), newW, newH)

	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)

	for _, q := range jpegQualities {
		encoded, err = encodeJPEG(resized, q)
		if err != nil {
			return nil, err
		}
		if int64(len(encoded)) <= targetBytes {
			return encoded, nil
		}
	}

	encoded, err = encodeJPEG(resized, 40)
	if err != nil {
		return nil, err
	}
	if int64(len(encoded)) <= targetBytes+targetBytes/5 {
		return encoded, nil
	}
	return nil, errCannotCompress
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// clampLongSide enforces the minimum long side while preserving aspect ratio.
func clampLongSide(origW, origH, w, h int) (int, int) {
	if w >= h {
		if w < minLongSidePx && origW > 0 {
			h = origH * minLongSidePx / origW
			w = minLongSidePx
		}
	} else {
		if h < minLongSidePx && origH > 0 {
			w = origW * minLongSidePx / origH
			h = minLongSidePx
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
