package renderer

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/jawbone/internal/viseme"
)

func TestGenerateThumbnail(t *testing.T) {
	testCases := []struct {
		name    string
		caption string
	}{
		{name: "no caption", caption: ""},
		{name: "short caption", caption: "Hi"},
		{name: "long caption", caption: "A caption far too long to fit at the largest font size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			canvas := defaultCanvas(t)
			canvas.Caption = tc.caption
			outputPath := filepath.Join(t.TempDir(), "thumb.png")

			if err := GenerateThumbnail(outputPath, canvas, testPoseSet(), viseme.Open); err != nil {
				t.Fatalf("failed to generate thumbnail: %v", err)
			}

			img, err := LoadImage(outputPath)
			if err != nil {
				t.Fatalf("thumbnail is not a readable image: %v", err)
			}
			if img.Bounds().Dx() != canvas.Width || img.Bounds().Dy() != canvas.Height {
				t.Errorf("thumbnail size = %v, want %dx%d", img.Bounds(), canvas.Width, canvas.Height)
			}
			if got := img.RGBAAt(110, 110); got != green {
				t.Errorf("pose pixel = %v, want open pose colour", got)
			}
		})
	}
}

func TestFindOptimalFontSizeShrinks(t *testing.T) {
	if _, err := LoadCaptionFace(12); err != nil {
		t.Fatal(err)
	}
	short := findOptimalFontSize(captionFont, "Hi", 352)
	long := findOptimalFontSize(captionFont, "This caption is much wider than the canvas allows", 352)
	if long >= short {
		t.Errorf("long caption size %.0f should be smaller than short %.0f", long, short)
	}
}

// Write and flush failures must reach the caller, not vanish in a deferred
// Close.
func TestSaveThumbnailReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if err := saveThumbnail(img, "/dev/full"); err == nil {
		t.Fatal("saveThumbnail to a full device returned nil")
	}
}

func TestSaveThumbnailMissingDirectory(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path := filepath.Join(t.TempDir(), "missing", "thumb.png")
	if err := saveThumbnail(img, path); err == nil {
		t.Fatal("saveThumbnail into a missing directory returned nil")
	}
}
