package ws

import (
	"net/http"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // продакшн: проверка origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	Manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{Manager: manager}
}

// ServeWS апгрейдит соединение и запускает клиентские насосы.
// Аутентификацию уже выполнили GatewayMiddleware и RequireAuth.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	gw := middleware.GetGateway(c)
	if userID == "" || gw == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Не удалось апгрейдить WS-соединение", "error", err)
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan any, 256),
		gw:      gw,
		manager: h.Manager,
		subs:    make(map[string]gateway.Subscription),
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
