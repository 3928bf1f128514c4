// Package imaging renders the placeholder picture shown for records whose
// media could not be resolved.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	"golang.org/x/image/draw"
)

// Placeholder dimension bounds.
const (
	MinDimension = 16
	MaxDimension = 1024

	DefaultWidth  = 640
	DefaultHeight = 480
)

// JPEGQuality is the compression quality for placeholder output.
const JPEGQuality = 85

// baseSize is the resolution the placeholder artwork is drawn at before
// being scaled to the requested size.
const baseSize = 512

var (
	baseOnce sync.Once
	baseImg  *image.RGBA
)

// Placeholder renders a placeholder JPEG at the requested size. Dimensions
// outside [MinDimension, MaxDimension] are clamped; zero or negative values
// fall back to the defaults.
func Placeholder(width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	width = clampDim(width)
	height = clampDim(height)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), base(), base().Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// base draws the placeholder artwork once: a light panel with a darker
// frame and a diagonal cross, the classic "no image" card.
func base() *image.RGBA {
	baseOnce.Do(func() {
		bg := color.RGBA{R: 0xe8, G: 0xea, B: 0xed, A: 0xff}
		fg := color.RGBA{R: 0xb4, G: 0xba, B: 0xc2, A: 0xff}

		img := image.NewRGBA(image.Rect(0, 0, baseSize, baseSize))
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

		const margin = baseSize / 8
		const stroke = baseSize / 64

		// Frame.
		for x := margin; x < baseSize-margin; x++ {
			for s := 0; s < stroke; s++ {
				img.Set(x, margin+s, fg)
				img.Set(x, baseSize-margin-1-s, fg)
			}
		}
		for y := margin; y < baseSize-margin; y++ {
			for s := 0; s < stroke; s++ {
				img.Set(margin+s, y, fg)
				img.Set(baseSize-margin-1-s, y, fg)
			}
		}

		// Diagonals.
		for i := margin; i < baseSize-margin; i++ {
			for s := -stroke / 2; s <= stroke/2; s++ {
				img.Set(i, i+s, fg)
				img.Set(i, baseSize-i-1+s, fg)
			}
		}

		baseImg = img
	})
	return baseImg
}

func clampDim(d int) int {
	if d < MinDimension {
		return MinDimension
	}
	if d > MaxDimension {
		return MaxDimension
	}
	return d
}
