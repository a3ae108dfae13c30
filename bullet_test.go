package main

import (
	"math"
	"testing"
)

func TestBulletPoolSpawn(t *testing.T) {
	bp := NewBulletPool(8)
	idx := bp.Spawn(100, 100, 50, 0, 5, 5, FactionRed, 2.0)
	if idx < 0 {
		t.Fatal("spawn should succeed on an empty pool")
	}
	b := &bp.Bullets()[idx]
	if !b.Active || b.Owner != FactionRed || b.Index != idx {
		t.Errorf("bad bullet record: %+v", b)
	}
	if b.X0 != 95 || b.X1 != 105 || b.Y0 != 95 || b.Y1 != 105 {
		t.Errorf("box not centered: %+v", b)
	}
	if bp.ActiveCount() != 1 {
		t.Errorf("expected 1 active, got %d", bp.ActiveCount())
	}
}

func TestBulletPoolExhaustion(t *testing.T) {
	bp := NewBulletPool(2)
	if bp.Spawn(0, 0, 0, 0, 1, 1, FactionRed, 1) < 0 {
		t.Fatal("first spawn should succeed")
	}
	if bp.Spawn(0, 0, 0, 0, 1, 1, FactionRed, 1) < 0 {
		t.Fatal("second spawn should succeed")
	}
	if bp.Spawn(0, 0, 0, 0, 1, 1, FactionRed, 1) != -1 {
		t.Error("exhausted pool should refuse to spawn")
	}
}

func TestBulletPoolSlotReuse(t *testing.T) {
	bp := NewBulletPool(2)
	a := bp.Spawn(0, 0, 0, 0, 1, 1, FactionRed, 1)
	bp.Deactivate(a)
	if bp.ActiveCount() != 0 {
		t.Fatalf("expected 0 active after deactivate, got %d", bp.ActiveCount())
	}
	// Double deactivate must not corrupt the freelist
	bp.Deactivate(a)
	b := bp.Spawn(10, 10, 0, 0, 1, 1, FactionBlue, 1)
	c := bp.Spawn(20, 20, 0, 0, 1, 1, FactionBlue, 1)
	if b < 0 || c < 0 {
		t.Fatal("freed slot should be reusable")
	}
	if bp.Spawn(0, 0, 0, 0, 1, 1, FactionRed, 1) != -1 {
		t.Error("pool capacity must not grow from double deactivation")
	}
}

func TestBulletPoolUpdateMoves(t *testing.T) {
	bp := NewBulletPool(4)
	idx := bp.Spawn(100, 100, 60, 0, 5, 5, FactionRed, 10)
	bp.Update(1.0, WorldWidth, WorldHeight)
	b := &bp.Bullets()[idx]
	if math.Abs(b.X0-155) > 0.001 || math.Abs(b.X1-165) > 0.001 {
		t.Errorf("bullet should have moved 60 units right: %+v", b)
	}
}

func TestBulletPoolUpdateExpires(t *testing.T) {
	bp := NewBulletPool(4)
	idx := bp.Spawn(100, 100, 0, 0, 5, 5, FactionRed, 0.05)
	bp.Update(0.1, WorldWidth, WorldHeight)
	if bp.Bullets()[idx].Active {
		t.Error("bullet should expire when lifetime runs out")
	}
}

func TestBulletPoolUpdateCullsOutOfWorld(t *testing.T) {
	bp := NewBulletPool(4)
	idx := bp.Spawn(WorldWidth+100, 100, 100, 0, 5, 5, FactionRed, 10)
	bp.Update(1.0/60, WorldWidth, WorldHeight)
	if bp.Bullets()[idx].Active {
		t.Error("bullet far outside the world should be culled")
	}
}

func TestFireVolleyStraight(t *testing.T) {
	bp := NewBulletPool(16)
	def := GetEmitterDef(EmitterStraight)
	n := bp.FireVolley(def, 0, 100, 100, 0, FactionRed)
	if n != 1 {
		t.Fatalf("expected 1 bullet, got %d", n)
	}
	b := bp.Bullets()
	var fired *Bullet
	for i := range b {
		if b[i].Active {
			fired = &b[i]
			break
		}
	}
	m := bp.Motion(fired.Index)
	if math.Abs(m.VX-def.Speed) > 0.001 || math.Abs(m.VY) > 0.001 {
		t.Errorf("straight shot at angle 0 should fly +X: %+v", m)
	}
}

func TestFireVolleyFanSpread(t *testing.T) {
	bp := NewBulletPool(16)
	def := GetEmitterDef(EmitterFan)
	n := bp.FireVolley(def, 0, 100, 100, 0, FactionBlue)
	if n != def.Count {
		t.Fatalf("expected %d bullets, got %d", def.Count, n)
	}
	// Velocity angles must span the configured spread
	minA, maxA := math.Inf(1), math.Inf(-1)
	for i := range bp.Bullets() {
		b := &bp.Bullets()[i]
		if !b.Active {
			continue
		}
		m := bp.Motion(b.Index)
		a := math.Atan2(m.VY, m.VX)
		minA = math.Min(minA, a)
		maxA = math.Max(maxA, a)
	}
	if math.Abs((maxA-minA)-def.Spread) > 0.001 {
		t.Errorf("fan should span %.2f rad, got %.2f", def.Spread, maxA-minA)
	}
}

func TestFireVolleyPowerWidens(t *testing.T) {
	def := GetEmitterDef(EmitterFan)
	if def.VolleyCount(2) != def.Count+2 {
		t.Errorf("power 2 should add 2 bullets, got %d", def.VolleyCount(2))
	}
	if def.VolleyCount(maxPowerLevel+5) != def.Count+maxPowerLevel {
		t.Error("volley growth must cap at max power")
	}
	if def.VolleyCount(-1) != def.Count {
		t.Error("negative power must not shrink the volley")
	}
}

func TestFireVolleyRing(t *testing.T) {
	bp := NewBulletPool(32)
	def := GetEmitterDef(EmitterRing)
	n := bp.FireVolley(def, 0, 500, 500, 0.5, FactionRed)
	if n != def.Count {
		t.Fatalf("expected full ring of %d, got %d", def.Count, n)
	}
	// A full ring's velocities should sum to ~zero
	var sx, sy float64
	for i := range bp.Bullets() {
		b := &bp.Bullets()[i]
		if !b.Active {
			continue
		}
		m := bp.Motion(b.Index)
		sx += m.VX
		sy += m.VY
	}
	if math.Abs(sx) > 0.001 || math.Abs(sy) > 0.001 {
		t.Errorf("ring velocities should cancel, got (%f, %f)", sx, sy)
	}
}

func TestFireVolleyPoolRunsDry(t *testing.T) {
	bp := NewBulletPool(3)
	def := GetEmitterDef(EmitterFan) // wants 5
	n := bp.FireVolley(def, 0, 100, 100, 0, FactionRed)
	if n != 3 {
		t.Errorf("expected 3 spawned from a pool of 3, got %d", n)
	}
}
