package pietimage

import (
	"image"
	"image/color"
	"testing"
)

func block(img *image.RGBA, x0, y0, size int, c color.Color) {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestDetectCodelSize(t *testing.T) {
	red := color.RGBA{R: 0xFF, A: 0xFF}
	blue := color.RGBA{B: 0xFF, A: 0xFF}

	tests := []struct {
		name string
		size int
		cols int
	}{
		{"single codel pixels", 1, 4},
		{"4x4 codels", 4, 4},
		{"7x7 codels", 7, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tc.cols*tc.size, tc.size))
			for col := 0; col < tc.cols; col++ {
				c := red
				if col%2 == 1 {
					c = blue
				}
				block(img, col*tc.size, 0, tc.size, c)
			}

			if got := DetectCodelSize(img); got != tc.size {
				t.Errorf("DetectCodelSize() = %d, want %d", got, tc.size)
			}
		})
	}
}

func TestDetectCodelSizeDegenerateImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if got := DetectCodelSize(img); got != 1 {
		t.Errorf("DetectCodelSize() = %d, want 1", got)
	}
}
