package main

import (
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtMatchStart   = "match_start"
	EvtMatchEnd     = "match_end"
	EvtPlayerDown   = "player_down"
	EvtBomb         = "bomb"
	EvtArenaCreate  = "arena_create"
	EvtArenaClose   = "arena_close"
	EvtLogin        = "login"
	EvtRegister     = "register"
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	PlayerID  int64
	ArenaID   string
	Data      string // optional payload, e.g. bullets cleared by a bomb
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes so
// the 60Hz game loop never waits on SQLite.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu           sync.RWMutex
	activeArenas int
	onlinePilots int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(evtType string, playerID int64, arenaID, data string) {
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		ArenaID:   arenaID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full — drop the event rather than stalling a tick
	}
}

// SetActiveArenas updates the live arena count metric
func (a *Analytics) SetActiveArenas(n int) {
	a.mu.Lock()
	a.activeArenas = n
	a.mu.Unlock()
}

// SetOnlinePilots updates the live connection count metric
func (a *Analytics) SetOnlinePilots(n int) {
	a.mu.Lock()
	a.onlinePilots = n
	a.mu.Unlock()
}

// LiveMetrics returns (onlinePilots, activeArenas)
func (a *Analytics) LiveMetrics() (int, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.onlinePilots, a.activeArenas
}

// Stop flushes and shuts down the writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer batches events and writes them to the DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := a.db.InsertEvents(batch); err != nil {
			log.Printf("analytics flush: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-a.stop:
			// Drain whatever is queued before exiting
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					flush()
					return
				}
			}
		}
	}
}
