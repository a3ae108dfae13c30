package main

// AchievementDef describes one unlockable achievement
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_win", "First Victory", "Win your first match"},
	{"storm_breaker", "Storm Breaker", "Be part of 1000 bullet clashes"},
	{"wall_of_lead", "Wall of Lead", "Fire 10000 bullets"},
	{"graze_artist", "Graze Artist", "Graze 50 bullets in one match"},
	{"thread_needle", "Thread the Needle", "Reach 500 lifetime grazes"},
	{"untouchable", "Untouchable", "Win a match without getting hit"},
	{"veteran", "Veteran", "Reach level 10"},
	{"ace", "Ace", "Reach level 25"},
	{"marathon", "Marathon", "Play for 1 hour total"},
}

// CheckAchievements checks for newly earned achievements after a
// match. Returns the defs that were just unlocked.
func CheckAchievements(db *DB, playerID int64, matchGrazes, matchHits int, won bool) []AchievementDef {
	if db == nil || playerID == 0 {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}
	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, id := range existing {
		has[id] = true
	}

	earned := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_win":
			return stats.Wins >= 1
		case "storm_breaker":
			return stats.Clashes >= 1000
		case "wall_of_lead":
			return stats.BulletsFired >= 10000
		case "graze_artist":
			return matchGrazes >= 50
		case "thread_needle":
			return stats.Grazes >= 500
		case "untouchable":
			return won && matchHits == 0
		case "veteran":
			return stats.Level >= 10
		case "ace":
			return stats.Level >= 25
		case "marathon":
			return stats.Playtime >= 3600
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if earned(def.ID) {
			if isNew, err := db.UnlockAchievement(playerID, def.ID); err == nil && isNew {
				unlocked = append(unlocked, def)
			}
		}
	}
	return unlocked
}
