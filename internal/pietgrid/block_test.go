package pietgrid

import (
	"image"
	"image/color"
	"testing"

	"github.com/frankban/quicktest"

	"github.com/pietlang/pietvm/internal/pietcolor"
)

// rasterize builds a codel_size=1 RGBA image from a row-major slice of
// colors, one row per entry in rows.
func rasterize(rows [][]pietcolor.Color) *image.RGBA {
	h := len(rows)
	w := len(rows[0])
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x, c := range row {
			img.Set(x, y, c.RGBA())
		}
	}
	return img
}

func mustGrid(t *testing.T, rows [][]pietcolor.Color) *Grid {
	t.Helper()
	g, _, err := New(rasterize(rows), 1, MissingColorPolicy{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGridClassifiesExactPalette(t *testing.T) {
	g := mustGrid(t, [][]pietcolor.Color{{pietcolor.Red, pietcolor.White}})
	if g.At(Position{0, 0}) != pietcolor.Red {
		t.Errorf("At(0,0) = %s, want Red", g.At(Position{0, 0}))
	}
	if g.At(Position{0, 1}) != pietcolor.White {
		t.Errorf("At(0,1) = %s, want White", g.At(Position{0, 1}))
	}
}

func TestGridUnrecognizedDefaultsWhite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{0x12, 0x34, 0x56, 0xFF})

	g, report, err := New(img, 1, MissingColorPolicy{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.At(Position{0, 0}) != pietcolor.White {
		t.Errorf("unrecognized pixel classified as %s, want White", g.At(Position{0, 0}))
	}
	if report.UnrecognizedColors[color.RGBA{0x12, 0x34, 0x56, 0xFF}] != 1 {
		t.Errorf("unrecognized color count = %d, want 1", report.UnrecognizedColors[color.RGBA{0x12, 0x34, 0x56, 0xFF}])
	}
}

func TestGridUnrecognizedMissingBlack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{0x12, 0x34, 0x56, 0xFF})

	g, _, err := New(img, 1, MissingColorPolicy{MissingBlack: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.At(Position{0, 0}) != pietcolor.Black {
		t.Errorf("unrecognized pixel classified as %s, want Black", g.At(Position{0, 0}))
	}
}

func TestGridMajorityVote(t *testing.T) {
	// A 2x2 codel where 3 of 4 pixels are Red: majority vote should
	// classify the codel Red (spec §4.1).
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, pietcolor.Red.RGBA())
	img.Set(1, 0, pietcolor.Red.RGBA())
	img.Set(0, 1, pietcolor.Red.RGBA())
	img.Set(1, 1, pietcolor.White.RGBA())

	g, _, err := New(img, 2, MissingColorPolicy{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Rows() != 1 || g.Cols() != 1 {
		t.Fatalf("got %dx%d grid, want 1x1", g.Rows(), g.Cols())
	}
	if g.At(Position{0, 0}) != pietcolor.Red {
		t.Errorf("majority-vote codel = %s, want Red", g.At(Position{0, 0}))
	}
}

func TestSinglePixelBlockEdgesAllPointToItself(t *testing.T) {
	g := mustGrid(t, [][]pietcolor.Color{{pietcolor.Red}})
	bi := Build(g)
	b, ok := bi.BlockAt(Position{0, 0})
	if !ok {
		t.Fatal("BlockAt(0,0) not found")
	}
	for _, dp := range []pietcolor.DP{pietcolor.Right, pietcolor.Down, pietcolor.Left, pietcolor.Up} {
		for _, cc := range []pietcolor.CC{pietcolor.CCLeft, pietcolor.CCRight} {
			if e := b.Edge(dp, cc); e != (Position{0, 0}) {
				t.Errorf("Edge(%s,%s) = %v, want (0,0)", dp, cc, e)
			}
		}
	}
}

func TestBlackExcludedFromIndex(t *testing.T) {
	g := mustGrid(t, [][]pietcolor.Color{{pietcolor.Red, pietcolor.Black}})
	bi := Build(g)
	if _, ok := bi.BlockAt(Position{0, 1}); ok {
		t.Error("BlockAt for a Black codel should report ok=false")
	}
}

func TestEdgeRepresentativeRule(t *testing.T) {
	c := quicktest.New(t)

	// An L-shaped Red block:
	// (0,0) (0,1)
	// (1,0)
	g := mustGrid(t, [][]pietcolor.Color{
		{pietcolor.Red, pietcolor.Red},
		{pietcolor.Red, pietcolor.White},
	})
	bi := Build(g)
	b, ok := bi.BlockAt(Position{0, 0})
	c.Assert(ok, quicktest.Equals, true)
	c.Assert(b.Size(), quicktest.Equals, 3)

	cases := []struct {
		dp   pietcolor.DP
		cc   pietcolor.CC
		want Position
	}{
		{pietcolor.Right, pietcolor.CCLeft, Position{0, 1}},  // max col, tie-break min row
		{pietcolor.Right, pietcolor.CCRight, Position{0, 1}}, // only one member at max col
		{pietcolor.Down, pietcolor.CCLeft, Position{1, 0}},   // max row
		{pietcolor.Left, pietcolor.CCLeft, Position{1, 0}},   // min col, tie-break max row
		{pietcolor.Up, pietcolor.CCLeft, Position{0, 0}},     // min row, tie-break min col
		{pietcolor.Up, pietcolor.CCRight, Position{0, 1}},    // min row, tie-break max col
	}
	for _, tc := range cases {
		got := b.Edge(tc.dp, tc.cc)
		c.Assert(got, quicktest.Equals, tc.want, quicktest.Commentf("Edge(%s,%s)", tc.dp, tc.cc))
	}
}
