// handlers/board_ws.go - Live board event stream
//
// Clients subscribe to a project board over a websocket and receive
// JSON events for every task/column mutation. Fanout is best-effort:
// a client that can't keep up is dropped.
package handlers

import (
	"log"
	"sync"

	"taskflow/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const sendBufferSize = 64

type BoardEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type boardClient struct {
	id        string
	projectID uint
	send      chan BoardEvent
	quit      chan struct{}
	closeOnce sync.Once
}

// close signals the connection loop to exit. The send channel is
// never closed, so a concurrent broadcast can't panic on it.
func (c *boardClient) close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}

var boardHub = struct {
	sync.RWMutex
	rooms map[uint]map[*boardClient]bool
}{rooms: make(map[uint]map[*boardClient]bool)}

func subscribeBoard(client *boardClient) {
	boardHub.Lock()
	defer boardHub.Unlock()

	room, ok := boardHub.rooms[client.projectID]
	if !ok {
		room = make(map[*boardClient]bool)
		boardHub.rooms[client.projectID] = room
	}
	room[client] = true
}

func unsubscribeBoard(client *boardClient) {
	boardHub.Lock()
	defer boardHub.Unlock()

	if room, ok := boardHub.rooms[client.projectID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(boardHub.rooms, client.projectID)
		}
	}
	client.close()
}

// BroadcastBoardEvent pushes an event to every subscriber of the
// project's board. Slow subscribers are disconnected rather than
// blocking the mutating request.
func BroadcastBoardEvent(projectID uint, event BoardEvent) {
	boardHub.RLock()
	room := boardHub.rooms[projectID]
	clients := make([]*boardClient, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	boardHub.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- event:
		default:
			log.Printf("Board subscriber %s too slow, dropping", client.id)
			unsubscribeBoard(client)
		}
	}
}

// BoardUpgrade gates the websocket route: it requires an upgrade
// request and team membership for the project, then stashes the
// project id for the socket handler.
func BoardUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}
	projectID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	if _, err := projectService.GetProject(projectID, userID); err != nil {
		return serviceError(c, err)
	}

	c.Locals("projectId", projectID)
	return c.Next()
}

// BoardSocket runs one subscriber connection.
var BoardSocket = websocket.New(func(conn *websocket.Conn) {
	projectID, ok := conn.Locals("projectId").(uint)
	if !ok {
		_ = conn.Close()
		return
	}

	client := &boardClient{
		id:        uuid.New().String()[:8],
		projectID: projectID,
		send:      make(chan BoardEvent, sendBufferSize),
		quit:      make(chan struct{}),
	}
	subscribeBoard(client)
	defer unsubscribeBoard(client)

	// Reader drains inbound frames and detects disconnects. The
	// stream is one-way; inbound payloads are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-client.send:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-client.quit:
			return
		case <-done:
			return
		}
	}
})
