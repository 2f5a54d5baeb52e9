package renderer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/linuxmatters/jawbone/internal/viseme"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MissingPoseImageError reports a pose with no usable image.
type MissingPoseImageError struct {
	Pose viseme.Pose
	Path string // Empty when the pose was never configured
	Err  error
}

func (e *MissingPoseImageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("no image loaded for pose %s", e.Pose)
	}
	return fmt.Sprintf("pose image for %s (%s): %v", e.Pose, e.Path, e.Err)
}

func (e *MissingPoseImageError) Unwrap() error {
	return e.Err
}

// PosePaths names the image file for each pose.
type PosePaths struct {
	Closed string
	Open   string
	Tongue string
}

func (p PosePaths) path(pose viseme.Pose) string {
	switch pose {
	case viseme.Closed:
		return p.Closed
	case viseme.Open:
		return p.Open
	case viseme.Tongue:
		return p.Tongue
	}
	return ""
}

// PoseSet holds the decoded image for each pose. It is read-only once built.
type PoseSet struct {
	images map[viseme.Pose]*image.RGBA
}

// NewPoseSet wraps already-decoded images.
func NewPoseSet(images map[viseme.Pose]*image.RGBA) *PoseSet {
	set := &PoseSet{images: make(map[viseme.Pose]*image.RGBA, len(images))}
	for pose, img := range images {
		set.images[pose] = img
	}
	return set
}

// LoadPoseSet decodes all three pose images, resizing each by scale when it
// is not 1. Any missing or undecodable file is a MissingPoseImageError.
func LoadPoseSet(paths PosePaths, scale float64) (*PoseSet, error) {
	images := make(map[viseme.Pose]*image.RGBA, len(viseme.Poses))

	for _, pose := range viseme.Poses {
		path := paths.path(pose)
		if path == "" {
			return nil, &MissingPoseImageError{Pose: pose}
		}

		img, err := LoadImage(path)
		if err != nil {
			return nil, &MissingPoseImageError{Pose: pose, Path: path, Err: err}
		}
		if scale > 0 && scale != 1 {
			img = ScaleImage(img, scale)
		}
		images[pose] = img
	}

	return NewPoseSet(images), nil
}

// Get returns the image for pose.
func (s *PoseSet) Get(pose viseme.Pose) (*image.RGBA, error) {
	img, ok := s.images[pose]
	if !ok || img == nil {
		return nil, &MissingPoseImageError{Pose: pose}
	}
	return img, nil
}

// LoadImage decodes any registered image format into RGBA.
func LoadImage(filename string) (*image.RGBA, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	return toRGBA(img), nil
}

// toRGBA copies img into a zero-origin RGBA image.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// ScaleImage resizes img by factor using bilinear approximation.
func ScaleImage(img *image.RGBA, factor float64) *image.RGBA {
	bounds := img.Bounds()
	w := max(1, int(float64(bounds.Dx())*factor+0.5))
	h := max(1, int(float64(bounds.Dy())*factor+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
