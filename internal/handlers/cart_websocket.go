package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"chrono_store_front/internal/cache"
	"chrono_store_front/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse le panier recalculé à chaque mutation de la session
// (publication Redis "updated"/"cleared" sur le canal de synchro).
func CartWebSocket(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session requise"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := cache.RedisClient.Subscribe(ctx, "cartsync:"+sess.ID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg := <-ch:
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			cart, err := CartStore.Fetch(ctx, sess)
			response := map[string]interface{}{
				"type":  "cart_updated",
				"items": cart.Items,
				"total": cart.TotalPrice(),
				"count": cart.TotalItems(),
			}
			if err != nil {
				response["items"] = []interface{}{}
				response["total"] = 0
				response["count"] = 0
			}

			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
