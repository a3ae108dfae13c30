package main

import (
	"crypto/rand"
	"math"
)

const (
	PlayerMaxHP     = 3 // bullet-hell: few hits, small hurtbox
	PlayerAccel     = 900.0
	PlayerMaxSpeed  = 420.0
	PlayerFriction  = 0.9 // velocity multiplier per tick
	PlayerFocusMul  = 0.45
	PlayerHurtHalf  = 6.0
	PlayerGrazeHalf = 26.0
	RespawnTime     = 2.5
	InvulnTime      = 2.0 // spawn protection, seconds
	WorldWidth      = 2400.0
	WorldHeight     = 1600.0
	TurnSpeed       = 10.0
	maxPowerLevel   = 3
	BombStock       = 3
)

// Player is one pilot in the arena
type Player struct {
	ID       string
	Name     string
	AuthID   int64 // account id, 0 for guests
	Faction  int // FactionRed or FactionBlue; also the bullet owner id
	X, Y     float64
	VX, VY   float64
	Rotation float64
	HP       int
	Power    int // pickup level, widens volleys
	Bombs    int
	Score    int
	Grazes   int
	Alive    bool
	Invuln   float64 // remaining spawn protection
	FireCD   float64
	BombCD   float64
	RespawnT float64
	Emitter  EmitterClass
	TargetR  float64
	Firing   bool
	Focusing bool // slow precise movement
	BombReq  bool // bomb requested this tick
	TargetX  float64
	TargetY  float64

	// Per-match counters, flushed to stats at match end
	MatchFired  int
	MatchHits   int
	MatchGrazes int
}

// NewPlayer creates a new player on the given faction
func NewPlayer(id, name string, faction int, emitter EmitterClass) *Player {
	p := &Player{
		ID:      id,
		Name:    name,
		Faction: faction,
		HP:      PlayerMaxHP,
		Bombs:   BombStock,
		Alive:   true,
		Invuln:  InvulnTime,
		Emitter: emitter,
	}
	p.X, p.Y = factionSpawn(faction)
	return p
}

// Update moves the player one tick (dt in seconds)
func (p *Player) Update(dt float64) {
	if !p.Alive {
		p.RespawnT -= dt
		if p.RespawnT <= 0 {
			p.Respawn()
		}
		return
	}

	if p.Invuln > 0 {
		p.Invuln -= dt
	}

	// Rotate toward target
	diff := NormalizeAngle(p.TargetR - p.Rotation)
	maxTurn := TurnSpeed * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	p.Rotation += diff

	// Accelerate toward the pointer; focusing trades speed for precision
	dist := Distance(p.X, p.Y, p.TargetX, p.TargetY)
	accel := PlayerAccel * dt
	maxSpd := PlayerMaxSpeed
	if p.Focusing {
		accel *= PlayerFocusMul
		maxSpd *= PlayerFocusMul
	}
	const deadZone = 12.0
	if dist <= deadZone {
		accel = 0
	}
	p.VX += math.Cos(p.Rotation) * accel
	p.VY += math.Sin(p.Rotation) * accel

	p.VX *= PlayerFriction
	p.VY *= PlayerFriction

	speed := math.Sqrt(p.VX*p.VX + p.VY*p.VY)
	if speed > maxSpd {
		scale := maxSpd / speed
		p.VX *= scale
		p.VY *= scale
	}

	p.X += p.VX * dt
	p.Y += p.VY * dt

	// Arena walls: clamp, don't wrap — a wrapped bullet-hell field
	// would let players dodge through the seam
	p.X = Clamp(p.X, PlayerHurtHalf, WorldWidth-PlayerHurtHalf)
	p.Y = Clamp(p.Y, PlayerHurtHalf, WorldHeight-PlayerHurtHalf)

	if p.FireCD > 0 {
		p.FireCD -= dt
	}
	if p.BombCD > 0 {
		p.BombCD -= dt
	}
}

// Respawn resets the player after death. Power drops one level.
func (p *Player) Respawn() {
	p.X, p.Y = factionSpawn(p.Faction)
	p.VX = 0
	p.VY = 0
	p.HP = PlayerMaxHP
	p.Alive = true
	p.Invuln = InvulnTime
	p.FireCD = 0
	p.RespawnT = 0
	if p.Power > 0 {
		p.Power--
	}
}

// TakeHit applies one bullet hit and returns true if the player died.
// Hits during spawn protection are ignored.
func (p *Player) TakeHit() bool {
	if !p.Alive || p.Invuln > 0 {
		return false
	}
	p.HP--
	p.MatchHits++
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		p.RespawnT = RespawnTime
		return true
	}
	return false
}

// CanFire returns true if the player can fire a volley
func (p *Player) CanFire() bool {
	return p.Alive && p.Firing && p.FireCD <= 0
}

// CanBomb returns true if a requested bomb can go off
func (p *Player) CanBomb() bool {
	return p.Alive && p.BombReq && p.Bombs > 0 && p.BombCD <= 0
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:      p.ID,
		Name:    p.Name,
		Faction: p.Faction,
		X:       round1(p.X),
		Y:       round1(p.Y),
		R:       round1(p.Rotation),
		HP:      p.HP,
		Power:   p.Power,
		Bombs:   p.Bombs,
		Score:   p.Score,
		Grazes:  p.Grazes,
		Alive:   p.Alive,
		Invuln:  p.Invuln > 0,
	}
}

// factionSpawn returns a randomized spawn point on the faction's side
func factionSpawn(faction int) (float64, float64) {
	y := WorldHeight*0.2 + randFloat()*WorldHeight*0.6
	if faction == FactionBlue {
		return WorldWidth*0.75 + randFloat()*WorldWidth*0.15, y
	}
	return WorldWidth*0.1 + randFloat()*WorldWidth*0.15, y
}

// randFloat returns a random float64 in [0, 1). Xorshift seeded from
// crypto/rand; game randomness doesn't need to be cryptographic.
var randSrc uint64

func randFloat() float64 {
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	return float64(randSrc%10000) / 10000.0
}

func init() {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}
