package main

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	X0, Y0 float64
	X1, Y1 float64
}

// AABBAround builds a box centered on (x, y) with the given half extents.
func AABBAround(x, y, halfW, halfH float64) AABB {
	return AABB{X0: x - halfW, Y0: y - halfH, X1: x + halfW, Y1: y + halfH}
}

// Overlaps checks two boxes with the closed-interval rule, matching
// the bullet broad phase: touching edges collide.
func (a AABB) Overlaps(b AABB) bool {
	return a.X1 >= b.X0 && a.X0 <= b.X1 && a.Y1 >= b.Y0 && a.Y0 <= b.Y1
}

// Contains checks if a point lies inside the box (edges inclusive).
func (a AABB) Contains(px, py float64) bool {
	return px >= a.X0 && px <= a.X1 && py >= a.Y0 && py <= a.Y1
}

// CheckBulletHit checks a bullet box against a hurtbox.
func CheckBulletHit(b *Bullet, box AABB) bool {
	return box.Overlaps(AABB{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1})
}

// PlayerHurtbox returns the player's collision box. Bullet-hell
// convention: the hurtbox is smaller than the rendered ship.
func PlayerHurtbox(p *Player) AABB {
	return AABBAround(p.X, p.Y, PlayerHurtHalf, PlayerHurtHalf)
}

// GrazeBox returns the larger box used for graze scoring: bullets that
// cross it without touching the hurtbox award graze points.
func GrazeBox(p *Player) AABB {
	return AABBAround(p.X, p.Y, PlayerGrazeHalf, PlayerGrazeHalf)
}
