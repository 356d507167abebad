// Package pietgrid implements the logical codel grid and the
// connected-component color-block index built over it (spec §4.1,
// §4.2). Grid and BlockIndex are immutable once constructed.
package pietgrid

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pietlang/pietvm/internal/pietcolor"
)

// Position is a (row, col) codel coordinate.
type Position struct {
	Row, Col int
}

// Add returns p shifted by a direction's unit delta.
func (p Position) Add(dp pietcolor.DP) Position {
	dr, dc := dp.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// MissingColorPolicy controls how pixel values outside the canonical
// palette are classified (spec §4.1, §6). It is threaded explicitly
// through Grid construction rather than held as global state, per the
// design note in spec §9.
type MissingColorPolicy struct {
	// MissingBlack maps unrecognized pixels to Black instead of White.
	MissingBlack bool
}

// Grid is the row-major, immutable-after-construction codel array.
type Grid struct {
	rows, cols int
	cells      []pietcolor.Color
}

// Rows returns the number of codel rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of codel columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether p addresses a codel in the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// At returns the color at p. Out-of-bounds positions return Black,
// matching the configurable default for out-of-bounds neighbors
// (spec §3); callers that need the MissingColorPolicy's white default
// for out-of-bounds must check InBounds themselves.
func (g *Grid) At(p Position) pietcolor.Color {
	if !g.InBounds(p) {
		return pietcolor.Black
	}
	return g.cells[p.Row*g.cols+p.Col]
}

// BuildReport carries non-fatal diagnostics produced while lowering
// an image into a Grid (supplemented feature, SPEC_FULL.md item 4:
// aggregated unrecognized-color counts rather than one warning per
// pixel).
type BuildReport struct {
	UnrecognizedColors map[color.RGBA]int
}

// New lowers a decoded image into a Grid at the given codel size
// (spec §4.1). codelSize must be >= 1.
func New(img image.Image, codelSize int, policy MissingColorPolicy) (*Grid, *BuildReport, error) {
	if codelSize < 1 {
		return nil, nil, fmt.Errorf("pietgrid: invalid codel size %d: must be >= 1", codelSize)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, nil, fmt.Errorf("pietgrid: image has zero dimension (%dx%d)", width, height)
	}

	rows, cols := height/codelSize, width/codelSize
	if rows == 0 || cols == 0 {
		return nil, nil, fmt.Errorf("pietgrid: codel size %d too large for %dx%d image", codelSize, width, height)
	}

	report := &BuildReport{UnrecognizedColors: map[color.RGBA]int{}}
	cells := make([]pietcolor.Color, rows*cols)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := classifyCodel(img, b, row, col, codelSize, policy, report)
			cells[row*cols+col] = c
		}
	}

	return &Grid{rows: rows, cols: cols, cells: cells}, report, nil
}

// classifyCodel derives a single codel's color by majority vote over
// its codelSize x codelSize pixel square (spec §4.1). Ties are broken
// deterministically: among the colors with the highest count, the one
// that appears first in the square's row-major scan wins.
func classifyCodel(img image.Image, b image.Rectangle, row, col, codelSize int, policy MissingColorPolicy, report *BuildReport) pietcolor.Color {
	counts := make(map[pietcolor.Color]int)
	order := make([]pietcolor.Color, 0, 4)

	x0, y0 := b.Min.X+col*codelSize, b.Min.Y+row*codelSize
	for dy := 0; dy < codelSize; dy++ {
		for dx := 0; dx < codelSize; dx++ {
			r, g, bl, a := img.At(x0+dx, y0+dy).RGBA()
			rgba := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
			c, recognized := pietcolor.Classify(rgba, policy.MissingBlack)
			if !recognized {
				report.UnrecognizedColors[rgba]++
			}
			if _, seen := counts[c]; !seen {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	best, bestCount := order[0], counts[order[0]]
	for _, c := range order[1:] {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
