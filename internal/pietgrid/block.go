package pietgrid

import (
	"github.com/pietlang/pietvm/internal/pietcolor"
)

// BlockID is an append-only table index identifying a ColorBlock,
// per the "cyclic ownership" design note in spec §9: blocks are
// referenced by integer id rather than shared pointers, and
// byPos never goes stale because merging never happens after
// construction (like the teacher's Mapper registry, which is
// populated once at init() and never mutates either).
type BlockID int

// edgeKey indexes the 8 (DP, CC) edge representatives of a block.
type edgeKey struct {
	dp pietcolor.DP
	cc pietcolor.CC
}

// ColorBlock is a maximal 4-connected region of codels sharing one
// color (spec §3, §4.2).
type ColorBlock struct {
	ID      BlockID
	Color   pietcolor.Color
	Members []Position
	edges   map[edgeKey]Position
}

// Size returns the member count, used directly by the `push`
// instruction (§4.4).
func (b *ColorBlock) Size() int { return len(b.Members) }

// Edge returns the edge representative for (dp, cc) — the unique
// member chosen as the jump-off point when leaving the block in
// direction dp with chooser cc (spec §4.2).
func (b *ColorBlock) Edge(dp pietcolor.DP, cc pietcolor.CC) Position {
	return b.edges[edgeKey{dp: dp, cc: cc}]
}

// BlockIndex maps every non-black position to its ColorBlock handle
// in O(1), per spec §4.2's construction requirement.
type BlockIndex struct {
	blocks []*ColorBlock
	byPos  map[Position]BlockID
}

// BlockAt returns the block containing p, or ok=false if p is out of
// bounds or a Black codel — the traversal engine never needs a block
// for Black (spec §3's invariant on block membership).
func (bi *BlockIndex) BlockAt(p Position) (*ColorBlock, bool) {
	id, ok := bi.byPos[p]
	if !ok {
		return nil, false
	}
	return bi.blocks[id], true
}

// edgeRule encodes one row of the edge-representative tie-break table
// in spec §4.2: pick the member extremal along the primary axis, and
// among ties, extremal along the secondary axis.
type edgeRule struct {
	primaryCol, primaryMax     bool
	secondaryCol, secondaryMax bool
}

var edgeRules = map[edgeKey]edgeRule{
	{pietcolor.Right, pietcolor.CCLeft}:  {primaryCol: true, primaryMax: true, secondaryCol: false, secondaryMax: false},
	{pietcolor.Right, pietcolor.CCRight}: {primaryCol: true, primaryMax: true, secondaryCol: false, secondaryMax: true},
	{pietcolor.Down, pietcolor.CCLeft}:   {primaryCol: false, primaryMax: true, secondaryCol: true, secondaryMax: true},
	{pietcolor.Down, pietcolor.CCRight}:  {primaryCol: false, primaryMax: true, secondaryCol: true, secondaryMax: false},
	{pietcolor.Left, pietcolor.CCLeft}:   {primaryCol: true, primaryMax: false, secondaryCol: false, secondaryMax: true},
	{pietcolor.Left, pietcolor.CCRight}:  {primaryCol: true, primaryMax: false, secondaryCol: false, secondaryMax: false},
	{pietcolor.Up, pietcolor.CCLeft}:     {primaryCol: false, primaryMax: false, secondaryCol: true, secondaryMax: false},
	{pietcolor.Up, pietcolor.CCRight}:    {primaryCol: false, primaryMax: false, secondaryCol: true, secondaryMax: true},
}

func axis(p Position, col bool) int {
	if col {
		return p.Col
	}
	return p.Row
}

// better reports whether candidate is a stronger edge representative
// than current under rule.
func (r edgeRule) better(candidate, current Position) bool {
	cp, cc := axis(candidate, r.primaryCol), axis(current, r.primaryCol)
	switch {
	case r.primaryMax && cp != cc:
		return cp > cc
	case !r.primaryMax && cp != cc:
		return cp < cc
	}

	sp, sc := axis(candidate, r.secondaryCol), axis(current, r.secondaryCol)
	if r.secondaryMax {
		return sp > sc
	}
	return sp < sc
}

func computeEdges(members []Position) map[edgeKey]Position {
	edges := make(map[edgeKey]Position, 8)
	for key, rule := range edgeRules {
		best := members[0]
		for _, p := range members[1:] {
			if rule.better(p, best) {
				best = p
			}
		}
		edges[key] = best
	}
	return edges
}

var neighborDirs = [4]pietcolor.DP{pietcolor.Right, pietcolor.Down, pietcolor.Left, pietcolor.Up}

// Build discovers color blocks by 4-connected flood fill over same
// color adjacency (spec §4.2). Black codels are excluded from the
// index; every other position belongs to exactly one block.
func Build(g *Grid) *BlockIndex {
	rows, cols := g.Rows(), g.Cols()
	visited := make([]bool, rows*cols)
	idx := func(p Position) int { return p.Row*cols + p.Col }

	bi := &BlockIndex{byPos: make(map[Position]BlockID, rows*cols)}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			start := Position{Row: row, Col: col}
			if visited[idx(start)] {
				continue
			}
			color := g.At(start)
			visited[idx(start)] = true
			if color == pietcolor.Black {
				continue
			}

			queue := []Position{start}
			members := []Position{start}
			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				for _, dp := range neighborDirs {
					n := p.Add(dp)
					if !g.InBounds(n) || visited[idx(n)] {
						continue
					}
					if g.At(n) != color {
						continue
					}
					visited[idx(n)] = true
					members = append(members, n)
					queue = append(queue, n)
				}
			}

			id := BlockID(len(bi.blocks))
			block := &ColorBlock{ID: id, Color: color, Members: members}
			block.edges = computeEdges(members)
			bi.blocks = append(bi.blocks, block)
			for _, m := range members {
				bi.byPos[m] = id
			}
		}
	}

	return bi
}
