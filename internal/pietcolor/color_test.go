package pietcolor

import (
	"image/color"
	"testing"
)

func TestHueShiftIdentity(t *testing.T) {
	for c := LightRed; c <= DarkMagenta; c++ {
		h, ok := HueShift(c, c)
		if !ok || h != 0 {
			t.Errorf("HueShift(%s, %s) = %d, %v; want 0, true", c, c, h, ok)
		}
		l, ok := LightnessShift(c, c)
		if !ok || l != 0 {
			t.Errorf("LightnessShift(%s, %s) = %d, %v; want 0, true", c, c, l, ok)
		}
	}
}

func TestShiftsUndefinedForWhiteAndBlack(t *testing.T) {
	cases := []struct {
		from, to Color
	}{
		{White, Red}, {Red, White}, {Black, Red}, {Red, Black}, {White, Black},
	}

	for _, tc := range cases {
		if _, ok := HueShift(tc.from, tc.to); ok {
			t.Errorf("HueShift(%s, %s): want ok=false", tc.from, tc.to)
		}
		if _, ok := LightnessShift(tc.from, tc.to); ok {
			t.Errorf("LightnessShift(%s, %s): want ok=false", tc.from, tc.to)
		}
	}
}

func TestHueLightnessShiftTable(t *testing.T) {
	cases := []struct {
		from, to   Color
		wantH      int
		wantL      int
	}{
		{Red, DarkRed, 0, 1},                  // push, per scenario §8.2
		{Red, Yellow, 1, 0},                   // add
		{LightRed, LightRed, 0, 0},             // nop
		{DarkMagenta, LightRed, 1, 1},          // wraps hue 5->0 and lightness 2->0
	}

	for i, tc := range cases {
		h, ok := HueShift(tc.from, tc.to)
		if !ok || h != tc.wantH {
			t.Errorf("case %d: HueShift(%s, %s) = %d, %v; want %d", i, tc.from, tc.to, h, ok, tc.wantH)
		}
		l, ok := LightnessShift(tc.from, tc.to)
		if !ok || l != tc.wantL {
			t.Errorf("case %d: LightnessShift(%s, %s) = %d, %v; want %d", i, tc.from, tc.to, l, ok, tc.wantL)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		rgba         color.RGBA
		missingBlack bool
		want         Color
		recognized   bool
	}{
		{color.RGBA{0xFF, 0x00, 0x00, 0xFF}, false, Red, true},
		{color.RGBA{0x00, 0x00, 0x00, 0xFF}, false, Black, true},
		{color.RGBA{0x12, 0x34, 0x56, 0xFF}, false, White, false},
		{color.RGBA{0x12, 0x34, 0x56, 0xFF}, true, Black, false},
	}

	for i, tc := range cases {
		got, ok := Classify(tc.rgba, tc.missingBlack)
		if got != tc.want || ok != tc.recognized {
			t.Errorf("case %d: Classify(%v, %v) = %s, %v; want %s, %v", i, tc.rgba, tc.missingBlack, got, ok, tc.want, tc.recognized)
		}
	}
}

func TestRotateCWCycle(t *testing.T) {
	want := []DP{Right, Down, Left, Up, Right}
	d := Right
	for i := 1; i < len(want); i++ {
		d = d.RotateCW()
		if d != want[i] {
			t.Errorf("rotation %d: got %s, want %s", i, d, want[i])
		}
	}
}

func TestRotateCWByNegative(t *testing.T) {
	// Negative pointer scenario, §8.6: Right rotated by -1 should equal
	// 3 clockwise rotations, landing on Up.
	got := Right.RotateCWBy(-1)
	if got != Up {
		t.Errorf("Right.RotateCWBy(-1) = %s, want %s", got, Up)
	}
}

func TestToggle(t *testing.T) {
	if CCLeft.Toggle() != CCRight || CCRight.Toggle() != CCLeft {
		t.Errorf("Toggle() is not an involution")
	}
}
