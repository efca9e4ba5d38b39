package display

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
)

// Event types
const (
	EventBatchUpdate         = "batch_update"
	EventTransactionRecorded = "transaction_recorded"
	EventLowStock            = "low_stock"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client punya antrian kirim sendiri; hanya writePump yang menulis ke conn
type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// Hub menampung semua layar bar/kasir yang terhubung dan menyiarkan perubahan ke semuanya.
// It satisfies services.Notifier. Broadcast never waits on a socket write.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register -> menambahkan connection ke set dengan role dan menjalankan writer-nya
func (h *Hub) Register(conn *websocket.Conn, role string) {
	go h.writePump(h.add(conn, role))
}

func (h *Hub) add(conn *websocket.Conn, role string) *client {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = c
	return c
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.removeLocked(c)
	}
}

// removeLocked expects h.mutex to be held.
func (h *Hub) removeLocked(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
	c.conn.Close()
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{"role": c.role}).Warnf("Error sending message to client: %v", err)
			h.Unregister(c.conn)
			return
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) BatchChanged(batch models.OrderBatch) {
	h.Broadcast(Message{Event: EventBatchUpdate, Data: batch})
}

func (h *Hub) TransactionRecorded(txn models.Transaction) {
	h.Broadcast(Message{Event: EventTransactionRecorded, Data: txn})
}

func (h *Hub) LowStock(bev models.Beverage) {
	h.Broadcast(Message{
		Event: EventLowStock,
		Data: map[string]interface{}{
			"id":        bev.ID,
			"name":      bev.Name,
			"inventory": bev.Inventory,
		},
	})
}

// Broadcast queues msg for every client. A client whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.WithFields(logrus.Fields{"role": c.role}).Warn("display client too slow, dropping")
			h.removeLocked(c)
		}
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("display broadcast")
}
