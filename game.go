package main

import (
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const turretBulletDamage = 5

// Broadcaster is the outbound side of a connected client
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game holds the state for one arena
type Game struct {
	mu      sync.RWMutex
	players map[string]*Player
	clients map[string]Broadcaster
	pool    *BulletPool
	grid    *BulletGrid
	turrets []*Turret
	pickups map[string]*Pickup
	match   MatchState
	pairs   []BulletPair // scratch, reused across ticks
	pickupT float64
	tick    uint64
	running bool
	stop    chan struct{}
	nextEmt int

	// Optional backends, nil in tests and for pure-guest arenas
	db        *DB
	analytics *Analytics
	arenaID   string
}

// NewGame creates a new Game with the given match configuration
func NewGame(cfg MatchConfig) *Game {
	return &Game{
		players: make(map[string]*Player),
		clients: make(map[string]Broadcaster),
		pool:    NewBulletPool(maxBulletsPerGame),
		grid:    NewBulletGrid(),
		turrets: placeTurrets(cfg.Turrets),
		pickups: make(map[string]*Pickup),
		match:   NewMatchState(cfg),
		stop:    make(chan struct{}),
	}
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddPlayer adds a new player to the game, balancing factions.
// Returns nil when the arena is full.
func (g *Game) AddPlayer(name string, authID int64) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= g.match.Config.MaxPlayers {
		return nil
	}

	id := GenerateID(4)
	faction := AssignFaction(g.players)
	emitter := EmitterClass(g.nextEmt % 3) // ring is turret-only
	g.nextEmt++
	player := NewPlayer(id, name, faction, emitter)
	player.AuthID = authID
	g.players[id] = player
	return player
}

// RemovePlayer removes a player from the game
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.players, id)
	delete(g.clients, id)
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// HandleInput processes input from a player
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return
	}
	dx := input.MX - p.X
	dy := input.MY - p.Y
	if dx*dx+dy*dy > 25 { // ignore jitter when pointer sits on the ship
		p.TargetR = math.Atan2(dy, dx)
	}
	p.Firing = input.Fire
	p.Focusing = input.Focus
	if input.Bomb {
		p.BombReq = true // latched until the tick consumes it
	}
	p.TargetX = Clamp(input.MX, 0, WorldWidth)
	p.TargetY = Clamp(input.MY, 0, WorldHeight)
}

// RequestStart moves a lobby arena into countdown
func (g *Game) RequestStart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.bothFactionsPresent() {
		g.startMatch()
	}
}

// startMatch begins the countdown; caller holds the lock
func (g *Game) startMatch() {
	if g.match.Phase != PhaseLobby {
		return
	}
	g.match.Start()
	if g.analytics != nil {
		g.analytics.Track(EvtMatchStart, 0, g.arenaID, "")
	}
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// Phase returns the current match phase
func (g *Game) Phase() MatchPhase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.match.Phase
}

func (g *Game) bothFactionsPresent() bool {
	red, blue := false, false
	for _, p := range g.players {
		switch p.Faction {
		case FactionRed:
			red = true
		case FactionBlue:
			blue = true
		}
	}
	return red && blue
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	g.tick++

	if g.match.Phase == PhaseLobby && g.bothFactionsPresent() {
		g.startMatch()
	}
	if g.match.Tick(dt) {
		g.settleMatch()
	}

	playing := g.match.Phase == PhasePlaying

	for _, p := range g.players {
		p.Update(dt)
		if playing && p.CanFire() {
			def := GetEmitterDef(p.Emitter)
			n := g.pool.FireVolley(def, p.Power, p.X, p.Y, p.Rotation, p.Faction)
			p.MatchFired += n
			p.FireCD = def.Cooldown
		}
	}

	if playing {
		for _, t := range g.turrets {
			t.Update(dt, g.pool)
		}
		g.updatePickups(dt)
	}

	g.pool.Update(dt, WorldWidth, WorldHeight)

	// One broad-phase pass per tick: the grid is transient and fully
	// rebuilt from the pool before anything queries it
	g.grid.Clear()
	g.grid.Populate(g.pool.Bullets())

	g.applyBombs()
	g.resolveClashes()
	g.resolvePlayerHits()
	g.resolveTurretHits()

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// applyBombs detonates requested bombs against the populated grid
func (g *Game) applyBombs() {
	for _, p := range g.players {
		if !p.CanBomb() {
			p.BombReq = false
			continue
		}
		p.BombReq = false
		p.Bombs--
		p.BombCD = BombCooldown
		cleared := DetonateBomb(g.grid, g.pool, p.X, p.Y, p.Faction)
		if g.analytics != nil {
			g.analytics.Track(EvtBomb, p.AuthID, g.arenaID, strconv.Itoa(cleared))
		}
	}
}

// resolveClashes runs the bullet-vs-bullet broad phase and cancels
// both bullets of every reported pair
func (g *Game) resolveClashes() {
	g.pairs = g.grid.CollidePairs(g.pool.Bullets(), g.pairs[:0])
	for _, pair := range g.pairs {
		// A bullet can appear in several pairs in one pass; Deactivate
		// tolerates the repeats, the clash count does not double-count
		// already-dead bullets
		bullets := g.pool.Bullets()
		if !bullets[pair.A].Active || !bullets[pair.B].Active {
			continue
		}
		g.pool.Deactivate(pair.A)
		g.pool.Deactivate(pair.B)
		g.match.Clashes++
	}
}

// resolvePlayerHits checks every enemy bullet near each player against
// their hurtbox, and awards grazes for near misses
func (g *Game) resolvePlayerHits() {
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		hurt := PlayerHurtbox(p)
		graze := GrazeBox(p)
		var hitBy int
		g.grid.QueryAABB(graze.X0, graze.Y0, graze.X1, graze.Y1, func(b *Bullet) bool {
			if b.Owner == p.Faction {
				return true
			}
			if CheckBulletHit(b, hurt) {
				g.pool.Deactivate(b.Index)
				if p.Invuln <= 0 {
					hitBy = b.Owner
				}
				return true
			}
			m := g.pool.Motion(b.Index)
			if !m.Grazed {
				m.Grazed = true
				p.Grazes++
				p.MatchGrazes++
			}
			return true
		})

		if hitBy != FactionNone && p.TakeHit() {
			g.match.Scores[hitBy]++
			g.creditFaction(hitBy, 1)
			g.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
				VictimID:   p.ID,
				VictimName: p.Name,
				ByFaction:  hitBy,
			}})
			if client, ok := g.clients[p.ID]; ok {
				client.SendJSON(Envelope{T: MsgDeath, Data: DeathMsg{ByFaction: hitBy}})
			}
			if g.analytics != nil {
				g.analytics.Track(EvtPlayerDown, p.AuthID, g.arenaID, "")
			}
		}
	}
}

// creditFaction awards points to every pilot on the scoring faction.
// Bullets only carry their faction, so downs and turret kills cannot be
// attributed to one shooter; the whole side shares the credit.
func (g *Game) creditFaction(faction, pts int) {
	for _, p := range g.players {
		if p.Faction == faction {
			p.Score += pts
		}
	}
}

// resolveTurretHits damages turrets hit by enemy bullets
func (g *Game) resolveTurretHits() {
	for _, t := range g.turrets {
		if !t.Alive {
			continue
		}
		box := t.Hurtbox()
		fell := false
		g.grid.QueryAABB(box.X0, box.Y0, box.X1, box.Y1, func(b *Bullet) bool {
			if b.Owner == t.Faction {
				return true
			}
			g.pool.Deactivate(b.Index)
			if t.TakeDamage(turretBulletDamage) {
				fell = true
				return false
			}
			return true
		})
		if fell {
			scorer := OpposingFaction(t.Faction)
			g.match.Scores[scorer] += TurretKillPts
			g.creditFaction(scorer, TurretKillPts)
		}
	}
}

// updatePickups ages, spawns and collects power orbs
func (g *Game) updatePickups(dt float64) {
	g.pickupT -= dt
	if g.pickupT <= 0 && len(g.pickups) < maxPickups {
		pk := NewPickup()
		g.pickups[pk.ID] = pk
		g.pickupT = PickupInterval
	}
	for id, pk := range g.pickups {
		pk.Update(dt)
		if !pk.Alive {
			delete(g.pickups, id)
			continue
		}
		box := pk.Box()
		for _, p := range g.players {
			if !p.Alive || !box.Overlaps(PlayerHurtbox(p)) {
				continue
			}
			if p.Power < maxPowerLevel {
				p.Power++
			}
			pk.Alive = false
			delete(g.pickups, id)
			break
		}
	}
}

// settleMatch broadcasts the result and persists per-player stats
func (g *Game) settleMatch() {
	ms := &g.match
	g.broadcastMsg(Envelope{T: MsgMatchOver, Data: MatchOverMsg{
		Winner:    ms.Winner,
		RedScore:  ms.Scores[FactionRed],
		BlueScore: ms.Scores[FactionBlue],
		Clashes:   ms.Clashes,
	}})

	duration := ms.Config.TimeLimit - ms.TimeLeft
	if g.db != nil {
		matchID, err := g.db.RecordMatch(duration, ms.Winner, ms.Scores[FactionRed], ms.Scores[FactionBlue], ms.Clashes)
		if err != nil {
			log.Printf("record match: %v", err)
			matchID = 0
		}
		for _, p := range g.players {
			if p.AuthID == 0 {
				continue
			}
			won := p.Faction == ms.Winner
			xp := MatchXP(p.Score, p.MatchGrazes, won)
			if matchID != 0 {
				if err := g.db.RecordMatchPlayer(matchID, p.AuthID, p.Faction, p.Score, p.MatchGrazes, p.MatchHits, xp); err != nil {
					log.Printf("record match player: %v", err)
				}
			}
			if _, _, err := g.db.UpdateStatsAfterMatch(p.AuthID, p.MatchFired, ms.Clashes, p.MatchGrazes, p.MatchHits, won, duration, xp); err != nil {
				log.Printf("update stats: %v", err)
			}
			for _, def := range CheckAchievements(g.db, p.AuthID, p.MatchGrazes, p.MatchHits, won) {
				if client, ok := g.clients[p.ID]; ok {
					client.SendJSON(Envelope{T: MsgUnlocked, Data: UnlockedMsg{ID: def.ID, Name: def.Name}})
				}
			}
		}
	}
	if g.analytics != nil {
		g.analytics.Track(EvtMatchEnd, 0, g.arenaID, "")
	}

	// Reset per-match player state for the next round
	for _, p := range g.players {
		p.Score = 0
		p.Grazes = 0
		p.MatchFired = 0
		p.MatchHits = 0
		p.MatchGrazes = 0
		p.Bombs = BombStock
		p.Respawn()
	}
}

// broadcastState sends the current frame to all clients as msgpack
func (g *Game) broadcastState() {
	state := GameState{
		Tick:      g.tick,
		Phase:     int(g.match.Phase),
		TimeLeft:  round1(g.match.TimeLeft),
		Countdown: round1(g.match.CountdownT),
		RedScore:  g.match.Scores[FactionRed],
		BlueScore: g.match.Scores[FactionBlue],
		Clashes:   g.match.Clashes,
		Players:   make([]PlayerState, 0, len(g.players)),
		Turrets:   make([]TurretState, 0, len(g.turrets)),
		Pickups:   make([]PickupState, 0, len(g.pickups)),
	}

	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}
	bullets := g.pool.Bullets()
	state.Bullets = make([]BulletState, 0, g.pool.ActiveCount())
	for i := range bullets {
		b := &bullets[i]
		if !b.Active {
			continue
		}
		state.Bullets = append(state.Bullets, BulletState{
			I: b.Index,
			X: round1((b.X0 + b.X1) / 2),
			Y: round1((b.Y0 + b.Y1) / 2),
			H: (b.X1 - b.X0) / 2,
			O: b.Owner,
		})
	}
	for _, t := range g.turrets {
		state.Turrets = append(state.Turrets, t.ToState())
	}
	for _, pk := range g.pickups {
		state.Pickups = append(state.Pickups, pk.ToState())
	}

	data, err := msgpack.Marshal(&state)
	if err != nil {
		log.Printf("state encode: %v", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a control message to all clients in the arena
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}

func (g *Game) snapshotTick() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tick
}
