package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/samdwyer/cavemosaic/internal/mosaic"
)

func sampleImage() *mosaic.Image {
	img := mosaic.NewImage(3, 2)
	img.Set(0, 0, mosaic.Red)
	img.Set(1, 0, mosaic.White)
	img.Set(2, 0, mosaic.Black)
	img.Set(0, 1, mosaic.Black)
	img.Set(1, 1, mosaic.Red)
	img.Set(2, 1, mosaic.White)
	return img
}

func sameRGB(a, b color.Color) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	return ar>>8 == br>>8 && ag>>8 == bg>>8 && ab>>8 == bb>>8
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"map.png", FormatPNG, true},
		{"out/MAP.PNG", FormatPNG, true},
		{"map.bmp", FormatBMP, true},
		{"map.tif", FormatTIFF, true},
		{"map.tiff", FormatTIFF, true},
		{"map.gif", "", false},
		{"map", "", false},
	}

	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("FormatFor(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFor(%q) should fail with ErrUnsupportedFormat, got %v", tt.path, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := sampleImage()

	for _, name := range []string{"cave.png", "nested/cave.bmp", "cave.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(src, path, 1); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 2 {
				t.Fatalf("bounds = %v", got.Bounds())
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					if !sameRGB(got.At(x, y), src.Pixel(x, y)) {
						t.Errorf("pixel (%d,%d) = %v, want %+v", x, y, got.At(x, y), src.Pixel(x, y))
					}
				}
			}
		})
	}
}

func TestSaveScaled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	src := sampleImage()

	if err := Save(src, path, 4); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 12 || got.Bounds().Dy() != 8 {
		t.Fatalf("scaled bounds = %v, want 12x8", got.Bounds())
	}
	// Every 4x4 block repeats the source pixel.
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			if !sameRGB(got.At(x, y), src.Pixel(x/4, y/4)) {
				t.Fatalf("pixel (%d,%d) does not match source block", x, y)
			}
		}
	}
}

func TestUpscaleMosaicImage(t *testing.T) {
	src := sampleImage()
	got := Upscale(src, 4)

	if got.Bounds().Dx() != 12 || got.Bounds().Dy() != 8 {
		t.Fatalf("bounds = %v, want 12x8", got.Bounds())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			_, _, _, a := got.At(x, y).RGBA()
			if a == 0 {
				t.Fatalf("pixel (%d,%d) is transparent", x, y)
			}
			if !sameRGB(got.At(x, y), src.Pixel(x/4, y/4)) {
				t.Fatalf("pixel (%d,%d) = %v, want %+v", x, y, got.At(x, y), src.Pixel(x/4, y/4))
			}
		}
	}
}

func TestUpscaleIdentity(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if Upscale(src, 1) != image.Image(src) {
		t.Error("scale 1 should return the same image")
	}
	if Upscale(src, 0) != image.Image(src) {
		t.Error("scale 0 should return the same image")
	}
}

func TestSaveUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.jpg")
	if err := Save(sampleImage(), path, 1); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := Encode(&bytes.Buffer{}, sampleImage(), Format("webp")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
