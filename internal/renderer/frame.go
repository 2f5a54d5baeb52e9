package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/viseme"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Canvas describes the fixed layout every frame is drawn on.
type Canvas struct {
	Width      int
	Height     int
	Anchor     image.Point // Top-left corner of the pose image
	Background color.RGBA

	Caption      string
	CaptionColor color.RGBA
}

// CanvasFromSettings builds the canvas layout from resolved settings.
func CanvasFromSettings(s config.Settings) (Canvas, error) {
	bg, err := s.BackgroundRGBA()
	if err != nil {
		return Canvas{}, err
	}
	captionColor, err := s.CaptionRGBA()
	if err != nil {
		return Canvas{}, err
	}
	return Canvas{
		Width:        s.Width,
		Height:       s.Height,
		Anchor:       image.Pt(s.AnchorX, s.AnchorY),
		Background:   bg,
		Caption:      s.Caption,
		CaptionColor: captionColor,
	}, nil
}

// Bounds returns the canvas rectangle.
func (c Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// Frame renders poses onto a reusable canvas-sized image.
type Frame struct {
	img    *image.RGBA
	canvas Canvas
	poses  *PoseSet
	face   font.Face
}

// NewFrame creates a frame renderer for the canvas. The caption font is only
// loaded when the canvas has a caption.
func NewFrame(canvas Canvas, poses *PoseSet) (*Frame, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", canvas.Width, canvas.Height)
	}

	f := &Frame{
		img:    image.NewRGBA(canvas.Bounds()),
		canvas: canvas,
		poses:  poses,
	}

	if canvas.Caption != "" {
		face, err := LoadCaptionFace(config.CaptionFontSize)
		if err != nil {
			return nil, err
		}
		f.face = face
	}

	return f, nil
}

// Draw replaces the frame contents with pose. The result is available from
// Image until the next call.
func (f *Frame) Draw(pose viseme.Pose) error {
	poseImg, err := f.poses.Get(pose)
	if err != nil {
		return err
	}

	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(f.canvas.Background), image.Point{}, draw.Src)

	dst := poseImg.Bounds().Sub(poseImg.Bounds().Min).Add(f.canvas.Anchor)
	draw.Draw(f.img, dst, poseImg, poseImg.Bounds().Min, draw.Over)

	DrawCaption(f.img, f.face, f.canvas.Caption, f.canvas.CaptionColor, config.CaptionMargin)
	return nil
}

// Image returns the rendered frame. The image is reused by the next Draw.
func (f *Frame) Image() *image.RGBA {
	return f.img
}

// Close releases the caption font face.
func (f *Frame) Close() error {
	if f.face != nil {
		return f.face.Close()
	}
	return nil
}

// Render draws a single pose onto a fresh canvas image.
func Render(pose viseme.Pose, canvas Canvas, poses *PoseSet) (*image.RGBA, error) {
	f, err := NewFrame(canvas, poses)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.Draw(pose); err != nil {
		return nil, err
	}
	return f.Image(), nil
}
