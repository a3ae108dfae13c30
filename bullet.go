package main

import "math"

const (
	maxBulletsPerGame = 4096
)

// bulletMotion is the per-slot kinematic sidecar. The broad phase only
// sees the Bullet record; velocity and lifetime live here.
type bulletMotion struct {
	VX, VY float64
	Life   float64
	Grazed bool // graze awarded once per bullet
}

// BulletPool owns every bullet slot for one game. Slot index doubles
// as Bullet.Index, which gives the broad phase its unique, stable
// ordering key for free. Freed slots are recycled LIFO.
type BulletPool struct {
	bullets []Bullet
	motion  []bulletMotion
	free    []int
	active  int
}

// NewBulletPool creates a pool with the given slot capacity.
func NewBulletPool(capacity int) *BulletPool {
	bp := &BulletPool{
		bullets: make([]Bullet, capacity),
		motion:  make([]bulletMotion, capacity),
		free:    make([]int, 0, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		bp.bullets[i].Index = i
		bp.free = append(bp.free, i)
	}
	return bp
}

// Spawn activates a slot for a bullet centered on (x, y).
// Returns the slot index, or -1 when the pool is exhausted.
func (bp *BulletPool) Spawn(x, y, vx, vy, halfW, halfH float64, owner int, life float64) int {
	if len(bp.free) == 0 {
		return -1
	}
	idx := bp.free[len(bp.free)-1]
	bp.free = bp.free[:len(bp.free)-1]

	bp.bullets[idx] = Bullet{
		X0:     x - halfW,
		Y0:     y - halfH,
		X1:     x + halfW,
		Y1:     y + halfH,
		Active: true,
		Owner:  owner,
		Index:  idx,
	}
	bp.motion[idx] = bulletMotion{VX: vx, VY: vy, Life: life}
	bp.active++
	return idx
}

// Deactivate retires a slot. Safe to call twice for the same index.
func (bp *BulletPool) Deactivate(idx int) {
	if idx < 0 || idx >= len(bp.bullets) || !bp.bullets[idx].Active {
		return
	}
	bp.bullets[idx].Active = false
	bp.free = append(bp.free, idx)
	bp.active--
}

// Update integrates every active bullet one tick, expires lifetimes,
// and culls bullets that leave the world (plus a margin so bullets
// entering from just outside are not cut off).
func (bp *BulletPool) Update(dt, worldW, worldH float64) {
	const margin = 64.0
	for i := range bp.bullets {
		b := &bp.bullets[i]
		if !b.Active {
			continue
		}
		m := &bp.motion[i]
		m.Life -= dt
		if m.Life <= 0 {
			bp.Deactivate(i)
			continue
		}
		dx := m.VX * dt
		dy := m.VY * dt
		b.X0 += dx
		b.X1 += dx
		b.Y0 += dy
		b.Y1 += dy
		if b.X1 < -margin || b.X0 > worldW+margin || b.Y1 < -margin || b.Y0 > worldH+margin {
			bp.Deactivate(i)
		}
	}
}

// Bullets exposes the backing slice for the broad phase. The slice
// must not be retained past the current tick's detection pass.
func (bp *BulletPool) Bullets() []Bullet {
	return bp.bullets
}

// Motion returns the kinematic sidecar for a slot.
func (bp *BulletPool) Motion(idx int) *bulletMotion {
	return &bp.motion[idx]
}

// ActiveCount returns the number of live bullets.
func (bp *BulletPool) ActiveCount() int {
	return bp.active
}

// FireVolley spawns one volley from (x, y) aimed along angle for the
// given owner faction, shaped by the emitter definition and power
// level. Returns how many bullets were actually spawned (the pool can
// run dry mid-volley).
func (bp *BulletPool) FireVolley(def EmitterDef, power int, x, y, angle float64, owner int) int {
	count := def.VolleyCount(power)
	spawned := 0
	for i := 0; i < count; i++ {
		a := angle
		ox, oy := 0.0, 0.0
		switch {
		case def.Radial:
			// Radial burst uses the aim angle only as phase
			a = angle + 2*math.Pi*float64(i)/float64(count)
		case def.Spread > 0 && count > 1:
			a += def.Spread * (float64(i)/float64(count-1) - 0.5)
		case def.Parallel > 0:
			// Offset shots perpendicular to the firing direction
			off := def.Parallel * (float64(i) - float64(count-1)/2)
			ox = -math.Sin(angle) * off
			oy = math.Cos(angle) * off
		}
		vx := math.Cos(a) * def.Speed
		vy := math.Sin(a) * def.Speed
		if bp.Spawn(x+ox, y+oy, vx, vy, def.HalfW, def.HalfH, owner, def.Life) < 0 {
			break
		}
		spawned++
	}
	return spawned
}
