package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/bar-pos/display"
	"github.com/yeremiapane/bar-pos/middlewares"
	"github.com/yeremiapane/bar-pos/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // layar bar berjalan di jaringan lokal
	},
}

// DisplayHandler -> GET /ws/display, live feed of batches, sales and low stock
func DisplayHandler(hub *display.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := "display"
		if v, ok := c.Get(middlewares.RoleKey); ok {
			if s, ok := v.(string); ok && s != "" {
				role = s
			}
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.ErrorLogger.Warnf("websocket upgrade failed: %v", err)
			return
		}

		hub.Register(ws, role)

		// client tidak mengirim apa-apa; loop ini hanya mendeteksi disconnect
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unregister(ws)
	}
}
