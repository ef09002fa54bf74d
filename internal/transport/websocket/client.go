package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect-four/internal/service/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Client is one socket watching one game. Only the write pump writes to conn.
type Client struct {
	conn    *websocket.Conn
	gameID  string
	canPlay bool
	send    chan ServerMessage
}

func newClient(conn *websocket.Conn, gameID string, canPlay bool) *Client {
	return &Client{
		conn:    conn,
		gameID:  gameID,
		canPlay: canPlay,
		send:    make(chan ServerMessage, sendBuffer),
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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

// ConnectionManager tracks the clients of every game.
type ConnectionManager struct {
	games map[string]map[*Client]struct{}
	mu    sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{games: make(map[string]map[*Client]struct{})}
}

func (cm *ConnectionManager) AddConnection(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	clients, ok := cm.games[c.gameID]
	if !ok {
		clients = make(map[*Client]struct{})
		cm.games[c.gameID] = clients
	}
	clients[c] = struct{}{}
}

// RemoveConnection unregisters c and stops its write pump.
func (cm *ConnectionManager) RemoveConnection(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	clients, ok := cm.games[c.gameID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(cm.games, c.gameID)
	}
}

// SendMessage queues msg for c. A client whose buffer is full is disconnected.
func (cm *ConnectionManager) SendMessage(c *Client, msg ServerMessage) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if _, ok := cm.games[c.gameID][c]; ok {
		cm.queueLocked(c, msg)
	}
}

// Broadcast sends a snapshot to every client of its game. It is the session
// manager's listener.
func (cm *ConnectionManager) Broadcast(s game.Snapshot) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	msg := stateMessage(s)
	for c := range cm.games[s.GameID] {
		cm.queueLocked(c, msg)
	}
}

func (cm *ConnectionManager) queueLocked(c *Client, msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
		// the read loop notices and unregisters
		c.conn.Close()
	}
}

func (cm *ConnectionManager) Count(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}
