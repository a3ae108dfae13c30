package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin        = "join"
	MsgLeave       = "leave"
	MsgInput       = "input"
	MsgCreate      = "create" // create arena
	MsgList        = "list"   // list arenas
	MsgCheck       = "check"  // check if arena exists
	MsgStart       = "start"  // request match start from lobby
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgAuth        = "auth" // resume with token
	MsgLeaderboard = "leaderboard"
)

// Server -> Client message types
const (
	MsgWelcome     = "welcome"
	MsgCreated     = "created"
	MsgArenas      = "arenas"
	MsgChecked     = "checked"
	MsgError       = "error"
	MsgDeath       = "death"
	MsgKill        = "kill"
	MsgMatchOver   = "match_over"
	MsgAuthOK      = "auth_ok"
	MsgRanks       = "ranks"
	MsgUnlocked    = "unlocked" // achievement unlocked
)

// Envelope wraps all outgoing control messages with a type field.
// Game state does not use it: state goes out as binary msgpack frames.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the client at 20Hz
type ClientInput struct {
	MX    float64 `json:"mx"` // pointer X (world coords)
	MY    float64 `json:"my"` // pointer Y (world coords)
	Fire  bool    `json:"fire"`
	Focus bool    `json:"focus"` // slow precise movement
	Bomb  bool    `json:"bomb"`
}

// JoinMsg is sent when a player wants to join an arena
type JoinMsg struct {
	Name    string `json:"name"`
	ArenaID string `json:"aid"`
}

// CreateMsg is sent when a player wants to create an arena
type CreateMsg struct {
	Name      string `json:"name"`
	ArenaName string `json:"aname"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates an account
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg resumes a session from a stored token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"u"`
	Token    string `json:"tok"`
}

// PlayerState is broadcast per player each state frame
type PlayerState struct {
	ID      string  `json:"id" msgpack:"id"`
	Name    string  `json:"n" msgpack:"n"`
	Faction int     `json:"f" msgpack:"f"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	R       float64 `json:"r" msgpack:"r"`
	HP      int     `json:"hp" msgpack:"hp"`
	Power   int     `json:"pw" msgpack:"pw"`
	Bombs   int     `json:"bm" msgpack:"bm"`
	Score   int     `json:"sc" msgpack:"sc"`
	Grazes  int     `json:"gz" msgpack:"gz"`
	Alive   bool    `json:"a" msgpack:"a"`
	Invuln  bool    `json:"iv" msgpack:"iv"`
}

// BulletState is broadcast per active bullet. I is the pool slot,
// stable for the bullet's whole flight, so clients can tween.
type BulletState struct {
	I int     `json:"i" msgpack:"i"`
	X float64 `json:"x" msgpack:"x"` // box center
	Y float64 `json:"y" msgpack:"y"`
	H float64 `json:"h" msgpack:"h"` // half extent (bullets are square)
	O int     `json:"o" msgpack:"o"` // owner faction
}

// TurretState is broadcast per turret
type TurretState struct {
	ID      string  `json:"id" msgpack:"id"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	Faction int     `json:"f" msgpack:"f"`
	HP      int     `json:"hp" msgpack:"hp"`
	Alive   bool    `json:"a" msgpack:"a"`
}

// PickupState is broadcast per pickup
type PickupState struct {
	ID string  `json:"id" msgpack:"id"`
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
}

// GameState is the full state frame, msgpack-encoded and sent as a
// binary websocket message (control traffic stays JSON).
type GameState struct {
	Tick      uint64        `json:"tick" msgpack:"tick"`
	Phase     int           `json:"ph" msgpack:"ph"`
	TimeLeft  float64       `json:"tl" msgpack:"tl"`
	Countdown float64       `json:"cd" msgpack:"cd"`
	RedScore  int           `json:"rs" msgpack:"rs"`
	BlueScore int           `json:"bs" msgpack:"bs"`
	Clashes   int           `json:"cl" msgpack:"cl"`
	Players   []PlayerState `json:"p" msgpack:"p"`
	Bullets   []BulletState `json:"b" msgpack:"b"`
	Turrets   []TurretState `json:"tu" msgpack:"tu"`
	Pickups   []PickupState `json:"pk" msgpack:"pk"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID      string `json:"id"`
	Faction int    `json:"f"`
	Emitter int    `json:"e"`
}

// DeathMsg notifies a player they died. Bullets carry only their
// faction, so attribution is per-faction, not per-shooter.
type DeathMsg struct {
	ByFaction int `json:"bf"`
}

// KillMsg is broadcast to all players in an arena
type KillMsg struct {
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
	ByFaction  int    `json:"bf"`
}

// MatchOverMsg is broadcast when the playing phase ends
type MatchOverMsg struct {
	Winner    int `json:"w"` // FactionNone on draw
	RedScore  int `json:"rs"`
	BlueScore int `json:"bs"`
	Clashes   int `json:"cl"`
}

// ArenaInfo is used in the arena list
type ArenaInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	Phase   int    `json:"ph"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by a client to check if an arena exists
type CheckMsg struct {
	AID string `json:"aid"`
}

// CheckedMsg is the response to an arena check
type CheckedMsg struct {
	AID     string `json:"aid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// UnlockedMsg announces a new achievement to its owner
type UnlockedMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
