package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/linuxmatters/jawbone/internal/config"
)

// SplitStatus classifies the outcome of SplitComposite.
type SplitStatus int

const (
	SplitOK SplitStatus = iota
	SplitNotFound
	SplitDecodeError
)

func (s SplitStatus) String() string {
	switch s {
	case SplitOK:
		return "ok"
	case SplitNotFound:
		return "not found"
	case SplitDecodeError:
		return "decode error"
	default:
		return fmt.Sprintf("SplitStatus(%d)", int(s))
	}
}

// SplitResult reports what SplitComposite did. Err is set for any status
// other than SplitOK.
type SplitResult struct {
	Status SplitStatus
	Source string
	Paths  []string // Files written, in closed/open/tongue order
	Err    error
}

// SplitOutputs names the files SplitComposite writes.
type SplitOutputs struct {
	Dir    string
	Closed string
	Open   string
	Tongue string
}

// DefaultSplitOutputs writes the standard pose file names into dir.
func DefaultSplitOutputs(dir string) SplitOutputs {
	return SplitOutputs{
		Dir:    dir,
		Closed: config.ClosedPoseImage,
		Open:   config.OpenPoseImage,
		Tongue: config.TonguePoseImage,
	}
}

// SplitComposite cuts a composite image into three equal-width vertical
// strips (closed, open, tongue from left to right) and writes each as PNG,
// replacing existing files. The last strip absorbs any remainder columns.
func SplitComposite(src string, out SplitOutputs) SplitResult {
	result := SplitResult{Source: src}

	img, err := loadComposite(src)
	if err != nil {
		result.Err = err
		if errors.Is(err, fs.ErrNotExist) {
			result.Status = SplitNotFound
		} else {
			result.Status = SplitDecodeError
		}
		return result
	}

	parts := SplitRects(img.Bounds())
	names := []string{out.Closed, out.Open, out.Tongue}

	if out.Dir != "" {
		if err := os.MkdirAll(out.Dir, 0o755); err != nil {
			result.Status = SplitDecodeError
			result.Err = fmt.Errorf("create output directory: %w", err)
			return result
		}
	}

	for i, rect := range parts {
		path := filepath.Join(out.Dir, names[i])
		if err := writePNG(path, img.SubImage(rect)); err != nil {
			result.Status = SplitDecodeError
			result.Err = fmt.Errorf("write %s: %w", path, err)
			return result
		}
		result.Paths = append(result.Paths, path)
	}

	result.Status = SplitOK
	return result
}

// SplitRects divides bounds into three side-by-side rectangles.
func SplitRects(bounds image.Rectangle) [3]image.Rectangle {
	third := bounds.Dx() / 3
	x0 := bounds.Min.X
	return [3]image.Rectangle{
		image.Rect(x0, bounds.Min.Y, x0+third, bounds.Max.Y),
		image.Rect(x0+third, bounds.Min.Y, x0+2*third, bounds.Max.Y),
		image.Rect(x0+2*third, bounds.Min.Y, bounds.Max.X, bounds.Max.Y),
	}
}

func loadComposite(src string) (*image.RGBA, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return toRGBA(img), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
