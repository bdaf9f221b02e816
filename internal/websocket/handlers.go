// internal/websocket/handlers.go
// WebSocket connection handler

package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConnection upgrades an HTTP request to a websocket connection
// and registers it with hub.
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, _ := c.Get("operator_id")
		operatorIDStr, _ := operatorID.(string)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		client := NewClient(hub, conn, operatorIDStr)

		welcomeMsg := Message{
			Type: "welcome",
			Data: map[string]interface{}{
				"message": "connected to tournament updates",
			},
		}
		if data, err := json.Marshal(welcomeMsg); err == nil {
			client.send <- data
		}
	}
}

// Message types the hub emits for tournament lifecycle events.
const (
	MessageRoundClosed        = "round_closed"
	MessageTiebreakStarted    = "tiebreak_started"
	MessageTournamentFinished = "tournament_finished"
)
