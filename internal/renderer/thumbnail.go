package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/viseme"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Caption size limits for the poster frame
const (
	thumbnailMaxFontSize = 64.0
	thumbnailMinFontSize = 10.0
)

// GenerateThumbnail writes a PNG poster frame showing pose with the canvas
// caption enlarged to fill the width.
func GenerateThumbnail(outputPath string, canvas Canvas, poses *PoseSet, pose viseme.Pose) error {
	caption := canvas.Caption
	canvas.Caption = ""

	img, err := Render(pose, canvas, poses)
	if err != nil {
		return fmt.Errorf("failed to render thumbnail frame: %w", err)
	}

	if caption != "" {
		if _, err := LoadCaptionFace(config.CaptionFontSize); err != nil {
			return fmt.Errorf("failed to load caption font: %w", err)
		}
		size := findOptimalFontSize(captionFont, caption, canvas.Width-2*config.CaptionMargin)
		face := truetype.NewFace(captionFont, &truetype.Options{
			Size: size,
			DPI:  72,
		})
		defer face.Close()

		DrawCaption(img, face, caption, canvas.CaptionColor, config.CaptionMargin)
	}

	if err := saveThumbnail(img, outputPath); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return nil
}

// findOptimalFontSize finds the largest font size whose rendering of text
// fits within maxWidth
func findOptimalFontSize(parsedFont *truetype.Font, text string, maxWidth int) float64 {
	for size := thumbnailMaxFontSize; size > thumbnailMinFontSize; size -= 2.0 {
		face := truetype.NewFace(parsedFont, &truetype.Options{
			Size: size,
			DPI:  72,
		})
		width, _ := measureText(face, text)
		face.Close()

		if width <= maxWidth {
			return size
		}
	}

	return thumbnailMinFontSize
}

// measureText returns the width and actual bounds of rendered text
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	return width, bounds
}

// saveThumbnail saves the thumbnail image to a PNG file
func saveThumbnail(img *image.RGBA, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := png.Encode(outFile, img); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}
