package main

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhaseLobby     MatchPhase = 0
	PhaseCountdown MatchPhase = 1
	PhasePlaying   MatchPhase = 2
	PhaseResult    MatchPhase = 3
)

// Faction ids. These double as the bullet Owner field, which is what
// the broad phase filters on: same-faction bullets pass through each
// other, opposing bullets clash.
const (
	FactionNone = 0
	FactionRed  = 1
	FactionBlue = 2
)

const (
	CountdownLen  = 3.0  // seconds
	ResultLen     = 8.0  // seconds before returning to lobby
	MatchTimeDflt = 180.0
	ScoreLimit    = 15
)

// MatchConfig holds settings for a match
type MatchConfig struct {
	TimeLimit  float64
	ScoreLimit int
	MaxPlayers int
	Turrets    int // neutral hazard turrets per side
}

// DefaultMatchConfig returns the standard duel configuration
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		TimeLimit:  MatchTimeDflt,
		ScoreLimit: ScoreLimit,
		MaxPlayers: 8,
		Turrets:    2,
	}
}

// MatchState tracks phase, clock and faction scores for one match
type MatchState struct {
	Phase      MatchPhase
	Config     MatchConfig
	TimeLeft   float64
	CountdownT float64
	ResultT    float64
	Scores     [3]int // indexed by faction id
	Clashes    int    // bullet-vs-bullet cancellations this match
	Winner     int    // valid in PhaseResult
}

// NewMatchState creates a lobby-phase match
func NewMatchState(config MatchConfig) MatchState {
	return MatchState{
		Phase:    PhaseLobby,
		Config:   config,
		TimeLeft: config.TimeLimit,
	}
}

// AssignFaction balances a new player onto the smaller faction
func AssignFaction(players map[string]*Player) int {
	red, blue := 0, 0
	for _, p := range players {
		switch p.Faction {
		case FactionRed:
			red++
		case FactionBlue:
			blue++
		}
	}
	if red <= blue {
		return FactionRed
	}
	return FactionBlue
}

// OpposingFaction returns the enemy faction id
func OpposingFaction(faction int) int {
	if faction == FactionRed {
		return FactionBlue
	}
	return FactionRed
}

// Tick advances the match clock. Returns true when the playing phase
// just ended, so the game can settle the result exactly once.
func (ms *MatchState) Tick(dt float64) bool {
	switch ms.Phase {
	case PhaseCountdown:
		ms.CountdownT -= dt
		if ms.CountdownT <= 0 {
			ms.Phase = PhasePlaying
			ms.TimeLeft = ms.Config.TimeLimit
		}
	case PhasePlaying:
		ms.TimeLeft -= dt
		if ms.TimeLeft <= 0 || ms.scoreLimitHit() {
			ms.finish()
			return true
		}
	case PhaseResult:
		ms.ResultT -= dt
		if ms.ResultT <= 0 {
			*ms = NewMatchState(ms.Config)
		}
	}
	return false
}

// Start moves a lobby match into countdown
func (ms *MatchState) Start() {
	if ms.Phase != PhaseLobby {
		return
	}
	ms.Phase = PhaseCountdown
	ms.CountdownT = CountdownLen
	ms.Scores = [3]int{}
	ms.Clashes = 0
	ms.Winner = FactionNone
}

func (ms *MatchState) scoreLimitHit() bool {
	if ms.Config.ScoreLimit <= 0 {
		return false
	}
	return ms.Scores[FactionRed] >= ms.Config.ScoreLimit ||
		ms.Scores[FactionBlue] >= ms.Config.ScoreLimit
}

func (ms *MatchState) finish() {
	ms.Phase = PhaseResult
	ms.ResultT = ResultLen
	switch {
	case ms.Scores[FactionRed] > ms.Scores[FactionBlue]:
		ms.Winner = FactionRed
	case ms.Scores[FactionBlue] > ms.Scores[FactionRed]:
		ms.Winner = FactionBlue
	default:
		ms.Winner = FactionNone // draw
	}
}
