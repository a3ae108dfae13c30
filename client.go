package main

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string
	arenaID    string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state, zero values = guest
	authPlayerID int64
	authUsername string
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection. Frames with a
// 0xFF marker byte (from SendBinary) go out as binary, the rest as text.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON marshals and queues a control message (non-blocking)
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.trySend(data)
}

// SendBinary queues a binary frame, marked so WritePump picks the
// right websocket message type
func (c *Client) SendBinary(data []byte) {
	framed := make([]byte, 0, len(data)+1)
	framed = append(framed, 0xFF)
	framed = append(framed, data...)
	c.trySend(framed)
}

func (c *Client) trySend(data []byte) {
	defer func() { recover() }() // send channel may be closed by the hub
	select {
	case c.send <- data:
	default:
		// Slow consumer: drop the frame, the next state frame supersedes it
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage dispatches one incoming control message
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	switch env.T {
	case MsgInput:
		var input ClientInput
		if err := json.Unmarshal(env.D, &input); err != nil {
			return
		}
		if arena := c.hub.arenas.GetArena(c.arenaID); arena != nil {
			arena.Game.HandleInput(c.playerID, input)
		}

	case MsgJoin:
		var msg JoinMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		c.handleJoin(msg)

	case MsgCreate:
		var msg CreateMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		c.handleCreate(msg)

	case MsgList:
		c.SendJSON(Envelope{T: MsgArenas, Data: c.hub.arenas.ListArenas()})

	case MsgCheck:
		var msg CheckMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		resp := CheckedMsg{AID: msg.AID}
		if arena := c.hub.arenas.GetArena(msg.AID); arena != nil {
			resp.Exists = true
			resp.Name = arena.Name
			resp.Players = arena.Game.PlayerCount()
		}
		c.SendJSON(Envelope{T: MsgChecked, Data: resp})

	case MsgStart:
		if arena := c.hub.arenas.GetArena(c.arenaID); arena != nil {
			arena.Game.RequestStart()
		}

	case MsgLeave:
		if c.arenaID != "" {
			c.hub.arenas.RemovePlayer(c.arenaID, c.playerID)
			c.arenaID = ""
			c.playerID = ""
		}

	case MsgRegister:
		var msg RegisterMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		c.handleRegister(msg)

	case MsgLogin:
		var msg LoginMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		c.handleLogin(msg)

	case MsgAuth:
		var msg AuthMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		c.handleAuth(msg)

	case MsgLeaderboard:
		c.handleLeaderboard(env.D)
	}
}

func (c *Client) handleJoin(msg JoinMsg) {
	if c.arenaID != "" {
		c.sendError("already in an arena")
		return
	}
	arena := c.hub.arenas.GetArena(msg.ArenaID)
	if arena == nil {
		c.sendError("arena not found")
		return
	}

	name := c.cleanName(msg.Name)
	player := arena.Game.AddPlayer(name, c.authPlayerID)
	if player == nil {
		c.sendError("arena is full")
		return
	}

	c.playerID = player.ID
	c.arenaID = arena.ID
	arena.Game.SetClient(player.ID, c)

	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ID:      player.ID,
		Faction: player.Faction,
		Emitter: int(player.Emitter),
	}})
}

func (c *Client) handleCreate(msg CreateMsg) {
	arenaName := strings.TrimSpace(msg.ArenaName)
	if arenaName == "" {
		arenaName = "Arena " + GenerateID(2)
	}
	arena := c.hub.arenas.CreateArena(arenaName)
	if arena == nil {
		c.sendError("server is full")
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: ArenaInfo{ID: arena.ID, Name: arena.Name}})
}

func (c *Client) handleRegister(msg RegisterMsg) {
	if c.hub.db == nil {
		c.sendError("accounts are disabled")
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.setAuthed(id, msg.Username, token)
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtRegister, id, "", "")
	}
}

func (c *Client) handleLogin(msg LoginMsg) {
	if c.hub.db == nil {
		c.sendError("accounts are disabled")
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if c.hub.IsOnline(id) {
		c.sendError("account already connected")
		return
	}
	c.setAuthed(id, msg.Username, token)
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtLogin, id, "", "")
	}
}

func (c *Client) handleAuth(msg AuthMsg) {
	if c.hub.db == nil {
		c.sendError("accounts are disabled")
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	if c.hub.IsOnline(id) {
		c.sendError("account already connected")
		return
	}
	c.setAuthed(id, username, msg.Token)
}

func (c *Client) setAuthed(id int64, username, token string) {
	c.authPlayerID = id
	c.authUsername = username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		PlayerID: id,
		Username: username,
		Token:    token,
	}})
}

func (c *Client) handleLeaderboard(raw json.RawMessage) {
	if c.hub.db == nil {
		c.sendError("leaderboard is disabled")
		return
	}
	var req struct {
		By string `json:"by"`
	}
	_ = json.Unmarshal(raw, &req) // empty request defaults to xp
	entries, err := c.hub.db.GetLeaderboard(req.By, 20)
	if err != nil {
		c.sendError("leaderboard unavailable")
		return
	}
	c.SendJSON(Envelope{T: MsgRanks, Data: entries})
}

func (c *Client) cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if c.authUsername != "" {
			return c.authUsername
		}
		return GenerateGuestName()
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}
