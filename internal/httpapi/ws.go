// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ledgrid/ledctl/internal/eventbus"
	"github.com/ledgrid/ledctl/internal/zonestate"
	"go.uber.org/zap"
)

// pushMessage is the envelope every server->client WebSocket frame uses:
// {"type": "...", "payload": ...}.
type pushMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// clientRequest is the envelope every client->server WebSocket frame uses.
type clientRequest struct {
	Type string `json:"type"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // CORS permissive by default
}

// hub is the WebSocket broadcast hub, modeled on the pack's own LED
// state-broadcast hub: a client registry plus a per-client outbound queue so
// one slow reader cannot block a broadcast to the others.
type hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	log     *zap.SugaredLogger
}

type client struct {
	conn *websocket.Conn
	send chan pushMessage
}

func newHub(log *zap.SugaredLogger) *hub {
	return &hub{clients: map[*client]bool{}, log: log}
}

func (h *hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()
}

func (h *hub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	close(cl.send)
}

func (h *hub) broadcast(msg pushMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			// Slow client; drop rather than block the broadcaster.
		}
	}
}

// onZoneSnapshotUpdated pushes a zone:snapshot frame whenever the zone
// store publishes ZONE_SNAPSHOT_UPDATED.
func (s *Server) onZoneSnapshotUpdated(ev eventbus.Event) error {
	zc, ok := ev.Payload.(zonestate.ZoneCombined)
	if !ok {
		return nil
	}
	s.hub.broadcast(pushMessage{Type: "zone:snapshot", Payload: toZoneDTO(zc)})
	return nil
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("websocket upgrade failed", "err", err)
		}
		return
	}
	cl := &client{conn: conn, send: make(chan pushMessage, 32)}
	s.hub.register(cl)

	go s.writePump(cl)
	s.pushInitial(cl)
	s.readPump(cl)

	s.hub.unregister(cl)
	conn.Close()
}

// pushInitial sends the connect-time snapshot per the external interface
// contract: zones:snapshot, tasks:all, logs:history.
func (s *Server) pushInitial(cl *client) {
	zones := s.store.AllZones()
	zoneDTOs := make([]zoneDTO, len(zones))
	for i, zc := range zones {
		zoneDTOs[i] = toZoneDTO(zc)
	}
	cl.send <- pushMessage{Type: "zones:snapshot", Payload: zoneDTOs}

	tasks := s.runtime.Tasks()
	taskDTOs := make([]taskDTO, len(tasks))
	for i, t := range tasks {
		taskDTOs[i] = toTaskDTO(t)
	}
	cl.send <- pushMessage{Type: "tasks:all", Payload: taskDTOs}

	var history []eventbus.Event
	if s.bus != nil {
		history = s.bus.Recent()
	}
	cl.send <- pushMessage{Type: "logs:history", Payload: history}
}

func (s *Server) writePump(cl *client) {
	for msg := range cl.send {
		if err := cl.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump services client-initiated requests: task_get_all, task_get_active,
// task_get_stats, logs_request_history. It returns when the connection
// closes or send errors.
func (s *Server) readPump(cl *client) {
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}
		var req clientRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		s.handleClientRequest(cl, req)
	}
}

func (s *Server) handleClientRequest(cl *client, req clientRequest) {
	switch req.Type {
	case "task_get_all", "task_get_active":
		tasks := s.runtime.Tasks()
		out := make([]taskDTO, len(tasks))
		for i, t := range tasks {
			out[i] = toTaskDTO(t)
		}
		cl.send <- pushMessage{Type: "tasks:all", Payload: out}
	case "task_get_stats":
		tasks := s.runtime.Tasks()
		cl.send <- pushMessage{Type: "tasks:stats", Payload: gin.H{"running": len(tasks)}}
	case "logs_request_history":
		var history []eventbus.Event
		if s.bus != nil {
			history = s.bus.Recent()
		}
		cl.send <- pushMessage{Type: "logs:history", Payload: history}
	}
}
