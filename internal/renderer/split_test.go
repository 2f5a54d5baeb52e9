package renderer

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func TestSplitCompositeRoundTrip(t *testing.T) {
	for _, width := range []int{300, 301, 302} {
		dir := t.TempDir()
		src := filepath.Join(dir, "composite.png")
		composite := gradient(width, 40)
		if err := writePNG(src, composite); err != nil {
			t.Fatal(err)
		}

		result := SplitComposite(src, DefaultSplitOutputs(filepath.Join(dir, "out")))
		if result.Status != SplitOK {
			t.Fatalf("width %d: status = %s, err = %v", width, result.Status, result.Err)
		}
		if len(result.Paths) != 3 {
			t.Fatalf("width %d: wrote %d files, want 3", width, len(result.Paths))
		}

		offset := 0
		for i, path := range result.Paths {
			part, err := LoadImage(path)
			if err != nil {
				t.Fatalf("reload %s: %v", path, err)
			}
			pb := part.Bounds()
			if pb.Dy() != 40 {
				t.Errorf("part %d height = %d, want 40", i, pb.Dy())
			}
			for y := 0; y < pb.Dy(); y++ {
				for x := 0; x < pb.Dx(); x++ {
					if got, want := part.RGBAAt(x, y), composite.RGBAAt(offset+x, y); got != want {
						t.Fatalf("width %d part %d pixel (%d,%d) = %v, want %v", width, i, x, y, got, want)
					}
				}
			}
			offset += pb.Dx()
		}

		if offset != width {
			t.Errorf("combined width = %d, want %d", offset, width)
		}
	}
}

func TestSplitRectsRemainder(t *testing.T) {
	rects := SplitRects(image.Rect(0, 0, 302, 10))
	widths := []int{rects[0].Dx(), rects[1].Dx(), rects[2].Dx()}
	if widths[0] != 100 || widths[1] != 100 || widths[2] != 102 {
		t.Errorf("widths = %v, want [100 100 102]", widths)
	}
}

func TestSplitCompositeOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "composite.png")
	if err := writePNG(src, gradient(30, 10)); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "mouth_closed.png")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if result := SplitComposite(src, DefaultSplitOutputs(dir)); result.Status != SplitOK {
		t.Fatalf("status = %s, err = %v", result.Status, result.Err)
	}
	if _, err := LoadImage(stale); err != nil {
		t.Errorf("existing file was not replaced with a PNG: %v", err)
	}
}

func TestSplitCompositeNotFound(t *testing.T) {
	dir := t.TempDir()
	result := SplitComposite(filepath.Join(dir, "missing.png"), DefaultSplitOutputs(dir))
	if result.Status != SplitNotFound {
		t.Errorf("status = %s, want %s", result.Status, SplitNotFound)
	}
	if result.Err == nil {
		t.Error("expected an error for a missing source")
	}
	if len(result.Paths) != 0 {
		t.Errorf("wrote %v for a missing source", result.Paths)
	}
}

func TestSplitCompositeDecodeError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(src, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := SplitComposite(src, DefaultSplitOutputs(dir))
	if result.Status != SplitDecodeError {
		t.Errorf("status = %s, want %s", result.Status, SplitDecodeError)
	}
}
