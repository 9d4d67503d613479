package realtime

import (
	"net/http"

	"fittrack_backend/internal/logger"
	"fittrack_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: сузить до списка разрешенных origin перед продом
	},
}

type Handler struct {
	registry       *Registry
	sendBufferSize int
}

func NewHandler(registry *Registry, sendBufferSize int) *Handler {
	return &Handler{
		registry:       registry,
		sendBufferSize: sendBufferSize,
	}
}

// ServeWS апгрейдит HTTP-запрос до websocket и регистрирует соединение
// в реестре доставки. Требует пройденного AuthMiddleware.
func (h *Handler) ServeWS(c *gin.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "websocket upgrade failed", err)
		return
	}

	client := NewClient(memberID, conn, h.registry, h.sendBufferSize)
	h.registry.Register(memberID, client)

	go client.writePump()
	go client.readPump()
}
