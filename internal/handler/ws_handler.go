package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"hackhub/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades HTTP connections into websocket clients.
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades the request and serves the client until it disconnects.
// The client identifies itself afterwards with a join event.
func (h *WSHandler) Connect(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}

	client := ws.NewClient(h.hub, conn)
	client.Serve()
	return nil
}
