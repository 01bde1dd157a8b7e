package game

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

type GameHandler struct {
	service     *Service
	registry    *Registry
	joinBaseURL string
	upgrader    websocket.Upgrader
}

func NewGameHandler(service *Service, registry *Registry, joinBaseURL string) *GameHandler {
	return &GameHandler{
		service:     service,
		registry:    registry,
		joinBaseURL: joinBaseURL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are filtered by the router middleware before the
			// upgrade is reached.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ConnectHandler upgrades the request and hands the connection to the
// service; all game actions flow over this socket afterwards.
func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("ws upgrade failed")
		return
	}

	h.service.Connect(NewWebsocketConnection(conn))
}

// JoinQRHandler renders the join link for an active game as a QR code.
func (h *GameHandler) JoinQRHandler(ctx *gin.Context) {
	code := ctx.Param("code")

	g, ok := h.registry.FindByCode(code)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "game-not-found"})
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/join/%s", h.joinBaseURL, g.Code()), qrcode.Medium, 256)
	if err != nil {
		log.Error().Err(err).Str("game", g.Id()).Msg("could not render join qr")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}
