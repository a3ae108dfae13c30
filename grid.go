package main

import "math"

// GridCellSize is the side length of one grid cell in world units.
// Chosen so that typical bullet extents are well below one cell, which
// makes the 3x3 neighborhood scan sufficient to find every overlap.
const GridCellSize = 160.0

// Bullet is an axis-aligned rectangular projectile as seen by the
// broad phase. Callers must keep the box normalized (X0<=X1, Y0<=Y1)
// and Index unique and stable within one detection call.
type Bullet struct {
	X0, Y0 float64 // min corner
	X1, Y1 float64 // max corner
	Active bool
	Owner  int // faction id; same-owner bullets never clash
	Index  int
}

// Overlaps reports whether two bullet boxes intersect. Closed-interval
// test: boxes that merely touch at an edge count as overlapping.
func (b *Bullet) Overlaps(o *Bullet) bool {
	return b.X1 >= o.X0 && b.X0 <= o.X1 && b.Y1 >= o.Y0 && b.Y0 <= o.Y1
}

// BulletPair is one detected clash. A < B always holds.
type BulletPair struct {
	A, B int
}

// BulletGrid is a sparse spatial hash over 2D space. Cells are
// materialized on demand, so the play field can be arbitrarily large.
// A grid is transient state for one detection pass: populate it, run
// the scan, throw it away (or Clear and reuse). It holds pointers into
// the caller's bullet slice and must not outlive it.
//
// A grid is not safe for concurrent use; concurrent detection over
// independent bullet slices must use one grid per call.
type BulletGrid struct {
	cellSize float64
	rows     map[int]map[int][]*Bullet
}

// NewBulletGrid creates an empty grid with the default cell size.
func NewBulletGrid() *BulletGrid {
	return NewBulletGridSize(GridCellSize)
}

// NewBulletGridSize creates an empty grid with a custom cell size.
func NewBulletGridSize(cellSize float64) *BulletGrid {
	return &BulletGrid{
		cellSize: cellSize,
		rows:     make(map[int]map[int][]*Bullet),
	}
}

// Clear drops all cells so the grid can be repopulated.
func (g *BulletGrid) Clear() {
	g.rows = make(map[int]map[int][]*Bullet)
}

// cellCoord maps a world coordinate to a cell coordinate. Floor, not
// truncation, so negative coordinates land in the right cell.
func (g *BulletGrid) cellCoord(v float64) int {
	return int(math.Floor(v / g.cellSize))
}

// Insert buckets a bullet by its min corner only. A bullet wider or
// taller than one cell can extend past the 3x3 neighborhood of its
// origin cell and miss partners there; that is the accepted broad-phase
// approximation. Use InsertSpan when that trade-off is wrong.
func (g *BulletGrid) Insert(b *Bullet) {
	gx := g.cellCoord(b.X0)
	gy := g.cellCoord(b.Y0)
	row, ok := g.rows[gx]
	if !ok {
		row = make(map[int][]*Bullet)
		g.rows[gx] = row
	}
	row[gy] = append(row[gy], b)
}

// InsertSpan buckets a bullet into every cell its box overlaps. Costs
// more per insert but removes the oversized-bullet blind spot. Do not
// mix with Insert in the same pass: the scan would report duplicates.
func (g *BulletGrid) InsertSpan(b *Bullet) {
	minX := g.cellCoord(b.X0)
	maxX := g.cellCoord(b.X1)
	minY := g.cellCoord(b.Y0)
	maxY := g.cellCoord(b.Y1)
	for gx := minX; gx <= maxX; gx++ {
		row, ok := g.rows[gx]
		if !ok {
			row = make(map[int][]*Bullet)
			g.rows[gx] = row
		}
		for gy := minY; gy <= maxY; gy++ {
			row[gy] = append(row[gy], b)
		}
	}
}

// Populate inserts every active bullet by its origin corner. Inactive
// bullets never enter the grid and can never appear in a result pair.
func (g *BulletGrid) Populate(bullets []Bullet) {
	for i := range bullets {
		if bullets[i].Active {
			g.Insert(&bullets[i])
		}
	}
}

// CollidePairs scans the 3x3 neighborhood of every active bullet's
// origin cell and appends each clash to pairs, which is returned.
// Per pair (a, b): a < b, both active, owners differ, boxes overlap
// under the closed-interval rule, reported exactly once. Pair order is
// deterministic for a given input — ascending outer bullet position,
// then neighbor-cell scan order — but is not a total order; sort the
// result if a canonical ordering is needed.
//
// Candidates with Index <= the current bullet's Index are skipped,
// which both removes self-pairs and guarantees each unordered pair is
// tested from the smaller-index side only.
func (g *BulletGrid) CollidePairs(bullets []Bullet, pairs []BulletPair) []BulletPair {
	for i := range bullets {
		cur := &bullets[i]
		if !cur.Active {
			continue
		}
		gx := g.cellCoord(cur.X0)
		gy := g.cellCoord(cur.Y0)

		for dx := -1; dx <= 1; dx++ {
			row, ok := g.rows[gx+dx]
			if !ok {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for _, cand := range row[gy+dy] {
					if cand.Index <= cur.Index {
						continue
					}
					if !cand.Active {
						continue
					}
					if cand.Owner == cur.Owner {
						continue
					}
					if cur.Overlaps(cand) {
						pairs = append(pairs, BulletPair{A: cur.Index, B: cand.Index})
					}
				}
			}
		}
	}
	return pairs
}

// QueryAABB calls fn for every grid bullet whose box overlaps the
// query box. The cell range is widened by one cell on the min side so
// bullets bucketed in a neighboring cell but extending into the query
// area are still visited. Returning false from fn stops the walk.
func (g *BulletGrid) QueryAABB(x0, y0, x1, y1 float64, fn func(*Bullet) bool) {
	minX := g.cellCoord(x0) - 1
	maxX := g.cellCoord(x1)
	minY := g.cellCoord(y0) - 1
	maxY := g.cellCoord(y1)
	q := Bullet{X0: x0, Y0: y0, X1: x1, Y1: y1}
	for gx := minX; gx <= maxX; gx++ {
		row, ok := g.rows[gx]
		if !ok {
			continue
		}
		for gy := minY; gy <= maxY; gy++ {
			for _, b := range row[gy] {
				if !b.Active {
					continue
				}
				if q.Overlaps(b) {
					if !fn(b) {
						return
					}
				}
			}
		}
	}
}

// Collide is the one-shot entry point: build a private grid, populate
// it from the slice, scan, and return the clash pairs. Safe to call
// concurrently on independent slices since nothing is shared.
func Collide(bullets []Bullet) []BulletPair {
	g := NewBulletGrid()
	g.Populate(bullets)
	return g.CollidePairs(bullets, nil)
}
