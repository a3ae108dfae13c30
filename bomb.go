package main

const (
	BombRadius   = 320.0
	BombCooldown = 1.5 // prevents double-spending the stock on held input
)

// DetonateBomb clears every enemy bullet whose box overlaps the blast
// square around (x, y), using the already-populated broad-phase grid
// to avoid walking the whole pool. Returns the number cleared.
//
// The blast is a square, not a circle: it reuses the same AABB query
// the rest of the collision path uses, and at bomb scale the corners
// are not worth a distance check.
func DetonateBomb(grid *BulletGrid, pool *BulletPool, x, y float64, faction int) int {
	cleared := 0
	grid.QueryAABB(x-BombRadius, y-BombRadius, x+BombRadius, y+BombRadius, func(b *Bullet) bool {
		if b.Owner != faction {
			pool.Deactivate(b.Index)
			cleared++
		}
		return true
	})
	return cleared
}
