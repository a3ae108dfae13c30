package main

import "testing"

func TestAnalyticsFlushOnStop(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)

	a.Track(EvtLogin, 1, "", "")
	a.Track(EvtBomb, 1, "arena1", "3")
	a.Stop() // drains the queue before returning

	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 flushed events, got %d", count)
	}
}

func TestAnalyticsLiveMetrics(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)
	defer a.Stop()

	a.SetOnlinePilots(12)
	a.SetActiveArenas(3)
	pilots, arenas := a.LiveMetrics()
	if pilots != 12 || arenas != 3 {
		t.Errorf("expected (12, 3), got (%d, %d)", pilots, arenas)
	}
}
