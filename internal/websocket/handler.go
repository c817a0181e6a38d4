package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection with hub and pumps frames until the peer
// goes away or the hub stops.
func ServeWs(hub *Hub, c *websocket.Conn, subject string) {
	client := NewClient(hub, c, subject)
	if !hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
