package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"sewago/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// HandleOrderWS subscribes a client to live updates for one order.
func HandleOrderWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[orderID] = append(subscribers[orderID], conn)
	mu.Unlock()

	for {
		// Keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Clean up on disconnect
	mu.Lock()
	conns := subscribers[orderID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[orderID] = newList
	mu.Unlock()

	conn.Close()
}

func broadcast(orderID string, val []byte) {
	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[orderID]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	subscribers[orderID] = newList
}

// StartEventBridge pumps redis order events into connected websockets.
func StartEventBridge(ctx context.Context) {
	mq.SubscribeOrderEvents(ctx, func(evt mq.OrderEvent) {
		data, err := json.Marshal(evt)
		if err != nil {
			return
		}
		broadcast(evt.OrderID, data)
	})
}
