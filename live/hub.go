package live

import (
	"encoding/json"
	"sync"

	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/utils"
	"github.com/gorilla/websocket"
)

// Event types
const (
	EventVisitCreated   = "visit_created"
	EventLockerReturned = "locker_returned"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi dashboard yang menerima event kunjungan real-time
type Hub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var dashboardHub = Hub{
	clients: make(map[*websocket.Conn]bool),
}

func RegisterClient(conn *websocket.Conn) {
	dashboardHub.mutex.Lock()
	defer dashboardHub.mutex.Unlock()
	dashboardHub.clients[conn] = true
}

func UnregisterClient(conn *websocket.Conn) {
	dashboardHub.mutex.Lock()
	defer dashboardHub.mutex.Unlock()
	delete(dashboardHub.clients, conn)
	conn.Close()
}

// BroadcastVisitCreated -> siarkan batch kunjungan baru (hasil fan-out satu submit)
func BroadcastVisitCreated(visits []models.Visit) {
	broadcast(Message{
		Event: EventVisitCreated,
		Data:  visits,
	})
}

// BroadcastLockerReturned -> siarkan pengembalian loker
func BroadcastLockerReturned(visit models.Visit) {
	broadcast(Message{
		Event: EventLockerReturned,
		Data:  visit,
	})
}

func broadcast(msg Message) {
	dashboardHub.mutex.Lock()
	defer dashboardHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling live message: %v", err)
		return
	}

	for conn := range dashboardHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending live message: %v", err)
			continue
		}
	}
}
