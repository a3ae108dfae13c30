package main

import "sync"

const maxArenas = 50

// Arena is one joinable game with its own loop
type Arena struct {
	ID   string
	Name string
	Game *Game
}

// ArenaManager handles creation and lookup of arenas
type ArenaManager struct {
	mu        sync.RWMutex
	arenas    map[string]*Arena
	db        *DB
	analytics *Analytics
}

// NewArenaManager creates a new ArenaManager. db and analytics may be
// nil; arenas then run without persistence.
func NewArenaManager(db *DB, analytics *Analytics) *ArenaManager {
	return &ArenaManager{
		arenas:    make(map[string]*Arena),
		db:        db,
		analytics: analytics,
	}
}

// CreateArena creates a new arena. Returns nil if the limit is reached.
func (am *ArenaManager) CreateArena(name string) *Arena {
	am.mu.Lock()
	defer am.mu.Unlock()

	if len(am.arenas) >= maxArenas {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(DefaultMatchConfig())
	game.db = am.db
	game.analytics = am.analytics
	game.arenaID = id

	arena := &Arena{ID: id, Name: name, Game: game}
	am.arenas[id] = arena
	go game.Run()

	if am.analytics != nil {
		am.analytics.Track(EvtArenaCreate, 0, id, name)
		am.analytics.SetActiveArenas(len(am.arenas))
	}
	return arena
}

// GetArena returns an arena by ID
func (am *ArenaManager) GetArena(id string) *Arena {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return am.arenas[id]
}

// RemovePlayer removes a player from an arena and reaps it when empty
func (am *ArenaManager) RemovePlayer(arenaID, playerID string) {
	am.mu.RLock()
	arena, ok := am.arenas[arenaID]
	am.mu.RUnlock()
	if !ok {
		return
	}
	arena.Game.RemovePlayer(playerID)

	if arena.Game.PlayerCount() == 0 {
		arena.Game.Stop()
		am.mu.Lock()
		delete(am.arenas, arenaID)
		n := len(am.arenas)
		am.mu.Unlock()
		if am.analytics != nil {
			am.analytics.Track(EvtArenaClose, 0, arenaID, "")
			am.analytics.SetActiveArenas(n)
		}
	}
}

// ListArenas returns info about all active arenas
func (am *ArenaManager) ListArenas() []ArenaInfo {
	am.mu.RLock()
	defer am.mu.RUnlock()

	list := make([]ArenaInfo, 0, len(am.arenas))
	for _, arena := range am.arenas {
		list = append(list, ArenaInfo{
			ID:      arena.ID,
			Name:    arena.Name,
			Players: arena.Game.PlayerCount(),
			Phase:   int(arena.Game.Phase()),
		})
	}
	return list
}
