package main

const (
	TurretHalf    = 24.0
	TurretMaxHP   = 40
	TurretRespawn = 20.0
	TurretKillPts = 3
)

// Turret is a stationary hazard emitter. It belongs to a faction and
// sprays ring volleys; enemy bullets can destroy it for points.
type Turret struct {
	ID       string
	X, Y     float64
	Faction  int
	HP       int
	Alive    bool
	FireCD   float64
	RespawnT float64
	Phase    float64 // rotates the ring a little each volley
}

// NewTurret places a turret for the given faction
func NewTurret(x, y float64, faction int) *Turret {
	return &Turret{
		ID:      GenerateID(4),
		X:       x,
		Y:       y,
		Faction: faction,
		HP:      TurretMaxHP,
		Alive:   true,
	}
}

// Hurtbox returns the turret's collision box
func (t *Turret) Hurtbox() AABB {
	return AABBAround(t.X, t.Y, TurretHalf, TurretHalf)
}

// Update ticks cooldowns and fires ring volleys into the pool.
// Returns the number of bullets spawned this tick.
func (t *Turret) Update(dt float64, pool *BulletPool) int {
	if !t.Alive {
		t.RespawnT -= dt
		if t.RespawnT <= 0 {
			t.Alive = true
			t.HP = TurretMaxHP
		}
		return 0
	}
	t.FireCD -= dt
	if t.FireCD > 0 {
		return 0
	}
	def := GetEmitterDef(EmitterRing)
	t.FireCD = def.Cooldown
	t.Phase += 0.37 // offset successive rings so gaps drift
	return pool.FireVolley(def, 0, t.X, t.Y, t.Phase, t.Faction)
}

// TakeDamage applies bullet damage, returns true if the turret fell
func (t *Turret) TakeDamage(dmg int) bool {
	if !t.Alive {
		return false
	}
	t.HP -= dmg
	if t.HP <= 0 {
		t.HP = 0
		t.Alive = false
		t.RespawnT = TurretRespawn
		return true
	}
	return false
}

// ToState converts to protocol state
func (t *Turret) ToState() TurretState {
	return TurretState{
		ID:      t.ID,
		X:       round1(t.X),
		Y:       round1(t.Y),
		Faction: t.Faction,
		HP:      t.HP,
		Alive:   t.Alive,
	}
}

// placeTurrets builds the default turret layout: n per faction, spaced
// vertically on each side's third of the arena.
func placeTurrets(n int) []*Turret {
	if n <= 0 {
		return nil
	}
	turrets := make([]*Turret, 0, n*2)
	for i := 0; i < n; i++ {
		y := WorldHeight * (float64(i) + 1) / (float64(n) + 1)
		turrets = append(turrets, NewTurret(WorldWidth*0.3, y, FactionRed))
		turrets = append(turrets, NewTurret(WorldWidth*0.7, y, FactionBlue))
	}
	return turrets
}
