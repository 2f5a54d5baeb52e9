package config

import (
	"errors"
	"image/color"
	"strings"
	"testing"
)

// TestParseHexColor_ValidInputs verifies that ParseHexColor correctly parses
// various valid hex colour formats, catching case sensitivity issues,
// prefix handling, and byte ordering bugs.
func TestParseHexColor_ValidInputs(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		wantR uint8
		wantG uint8
		wantB uint8
	}{
		{name: "FFFFFF (default background, no hash)", input: "FFFFFF", wantR: 255, wantG: 255, wantB: 255},
		{name: "#ffffff (lowercase with hash)", input: "#ffffff", wantR: 255, wantG: 255, wantB: 255},
		{name: "#FF0000 (uppercase red, with hash)", input: "#FF0000", wantR: 255, wantG: 0, wantB: 0},
		{name: "Ff00fF (mixed case magenta)", input: "Ff00fF", wantR: 255, wantG: 0, wantB: 255},
		{name: "00FF00 (green)", input: "00FF00", wantR: 0, wantG: 255, wantB: 0},
		{name: "000000 (black)", input: "000000", wantR: 0, wantG: 0, wantB: 0},
		{name: "#202020 (default caption)", input: "#202020", wantR: 32, wantG: 32, wantB: 32},
		{name: "FDFEFF (high values)", input: "FDFEFF", wantR: 253, wantG: 254, wantB: 255},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, g, b, err := ParseHexColor(tc.input)
			if err != nil {
				t.Fatalf("ParseHexColor(%q) returned error: %v", tc.input, err)
			}

			if r != tc.wantR || g != tc.wantG || b != tc.wantB {
				t.Errorf("ParseHexColor(%q) = (%d, %d, %d), want (%d, %d, %d)",
					tc.input, r, g, b, tc.wantR, tc.wantG, tc.wantB)
			}
		})
	}
}

// TestParseHexColor_InvalidInputs verifies that ParseHexColor correctly
// rejects malformed input with appropriate errors.
func TestParseHexColor_InvalidInputs(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "FFF (too short, 3 chars)", input: "FFF"},
		{name: "#FFF (too short with hash)", input: "#FFF"},
		{name: "FFFFFFF (too long)", input: "FFFFFFF"},
		{name: "GGGGGG (invalid hex)", input: "GGGGGG"},
		{name: "FF00GG (mixed valid/invalid)", input: "FF00GG"},
		{name: "Empty string", input: ""},
		{name: "# (just hash)", input: "#"},
		{name: "FF 000 (spaces)", input: "FF 000"},
		{name: "##FF0000 (double hash)", input: "##FF0000"},
		{name: "FF0000\\n (with newline)", input: "FF0000\n"},
		{name: "+FFFFF (sign prefix)", input: "+FFFFF"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := ParseHexColor(tc.input)
			if err == nil {
				t.Fatalf("ParseHexColor(%q) expected error, got nil", tc.input)
			}
			if !errors.Is(err, ErrInvalidHexColor) {
				t.Errorf("ParseHexColor(%q) error %v does not wrap ErrInvalidHexColor", tc.input, err)
			}
		})
	}
}

// TestParseHexColor_ByteOrder verifies correct byte ordering (R, G, B).
// This catches swaps like (B, G, R) which would also swap colours in video.
func TestParseHexColor_ByteOrder(t *testing.T) {
	r, g, b, err := ParseHexColor("AABBCC")
	if err != nil {
		t.Fatalf("ParseHexColor returned error: %v", err)
	}
	if r != 0xAA {
		t.Errorf("Red channel: got 0x%02X, want 0xAA", r)
	}
	if g != 0xBB {
		t.Errorf("Green channel: got 0x%02X, want 0xBB", g)
	}
	if b != 0xCC {
		t.Errorf("Blue channel: got 0x%02X, want 0xCC", b)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	s := Defaults()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings failed validation: %v", err)
	}

	bg, err := s.BackgroundRGBA()
	if err != nil {
		t.Fatalf("BackgroundRGBA() returned error: %v", err)
	}
	if bg != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("default background = %v, want opaque white", bg)
	}
}

func TestFrameRate(t *testing.T) {
	testCases := []struct {
		windowMs int
		wantRate string
		wantFPS  float64
	}{
		{windowMs: 100, wantRate: "1000/100", wantFPS: 10},
		{windowMs: 40, wantRate: "1000/40", wantFPS: 25},
		{windowMs: 30, wantRate: "1000/30", wantFPS: 1000.0 / 30.0},
		{windowMs: 0, wantRate: "1000/0", wantFPS: 0},
	}

	for _, tc := range testCases {
		if got := FrameRate(tc.windowMs); got != tc.wantRate {
			t.Errorf("FrameRate() with %dms = %q, want %q", tc.windowMs, got, tc.wantRate)
		}
		if got := FPS(tc.windowMs); got != tc.wantFPS {
			t.Errorf("FPS() with %dms = %f, want %f", tc.windowMs, got, tc.wantFPS)
		}
	}
}

// TestSettingsValidate checks that each class of bad setting is reported
// with a message naming the offending field.
func TestSettingsValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(s *Settings)
		wantMsg string
	}{
		{
			name:    "zero window",
			mutate:  func(s *Settings) { s.WindowMs = 0 },
			wantMsg: "WindowMs must be at least 1",
		},
		{
			name:    "high threshold not above low",
			mutate:  func(s *Settings) { s.HighThreshold = s.LowThreshold },
			wantMsg: "HighThreshold must be greater than LowThreshold",
		},
		{
			name:    "negative low threshold",
			mutate:  func(s *Settings) { s.LowThreshold = -1 },
			wantMsg: "LowThreshold must be greater than or equal to 0",
		},
		{
			name:    "odd canvas",
			mutate:  func(s *Settings) { s.Width = 401 },
			wantMsg: "even dimensions",
		},
		{
			name:    "anchor outside canvas",
			mutate:  func(s *Settings) { s.AnchorX = 400 },
			wantMsg: "outside the 400x400 canvas",
		},
		{
			name:    "missing pose path",
			mutate:  func(s *Settings) { s.TongueImage = "" },
			wantMsg: "TongueImage is required",
		},
		{
			name:    "bad background",
			mutate:  func(s *Settings) { s.Background = "white" },
			wantMsg: "invalid background",
		},
		{
			name:    "zero pose scale",
			mutate:  func(s *Settings) { s.PoseScale = 0 },
			wantMsg: "PoseScale must be greater than 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Defaults()
			tc.mutate(&s)

			err := s.Validate()
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tc.wantMsg)
			}
		})
	}
}
