package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	captionFontOnce sync.Once
	captionFont     *truetype.Font
	captionFontErr  error
)

// LoadCaptionFace returns a face of the given size using the bundled Go
// Regular font.
func LoadCaptionFace(size float64) (font.Face, error) {
	captionFontOnce.Do(func() {
		captionFont, captionFontErr = truetype.Parse(goregular.TTF)
	})
	if captionFontErr != nil {
		return nil, fmt.Errorf("parse caption font: %w", captionFontErr)
	}

	return truetype.NewFace(captionFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// DrawCaption draws text centred horizontally with its baseline margin
// pixels above the bottom edge.
func DrawCaption(img *image.RGBA, face font.Face, text string, c color.RGBA, margin int) {
	if text == "" || face == nil {
		return
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	x := img.Bounds().Min.X + (img.Bounds().Dx()-textWidth)/2
	y := img.Bounds().Max.Y - margin

	d.Dot = freetype.Pt(x, y)
	d.DrawString(text)
}
