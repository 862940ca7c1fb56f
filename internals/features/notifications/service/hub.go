package service

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Event real-time yang dikirim lewat socket.
const (
	EventNotificationNew        = "notification:new"
	EventNotificationUpdate     = "notification:update"
	EventNotificationBulkUpdate = "notification:bulk_update"
)

type socketEvent struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// SocketHub menyimpan koneksi websocket aktif: channel per-user + channel
// admin bersama. Emit best-effort: koneksi yang gagal ditulis langsung
// di-drop, tidak mempengaruhi penerima lain.
type SocketHub struct {
	mu         sync.Mutex
	userConns  map[uuid.UUID]map[*websocket.Conn]bool
	adminConns map[*websocket.Conn]bool
}

var Hub = NewSocketHub()

func NewSocketHub() *SocketHub {
	return &SocketHub{
		userConns:  make(map[uuid.UUID]map[*websocket.Conn]bool),
		adminConns: make(map[*websocket.Conn]bool),
	}
}

func (h *SocketHub) Register(userID uuid.UUID, isAdmin bool, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*websocket.Conn]bool)
	}
	h.userConns[userID][conn] = true
	if isAdmin {
		h.adminConns[conn] = true
	}
	log.Printf("[WS] user %s connected (admin=%v, total conn user=%d)", userID, isAdmin, len(h.userConns[userID]))
}

func (h *SocketHub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.userConns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConns, userID)
		}
	}
	delete(h.adminConns, conn)
	log.Printf("[WS] user %s disconnected", userID)
}

// EmitToUser mengirim event ke semua koneksi aktif milik satu user.
func (h *SocketHub) EmitToUser(userID uuid.UUID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	evt := socketEvent{Event: event, Payload: payload, Timestamp: time.Now()}
	for conn := range h.userConns[userID] {
		if err := conn.WriteJSON(evt); err != nil {
			log.Printf("[WS] gagal kirim ke user %s: %v", userID, err)
			delete(h.userConns[userID], conn)
			delete(h.adminConns, conn)
		}
	}
}

// EmitToAdmins mengirim event ke channel admin bersama.
func (h *SocketHub) EmitToAdmins(event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	evt := socketEvent{Event: event, Payload: payload, Timestamp: time.Now()}
	for conn := range h.adminConns {
		if err := conn.WriteJSON(evt); err != nil {
			log.Printf("[WS] gagal kirim ke admin channel: %v", err)
			delete(h.adminConns, conn)
		}
	}
}
