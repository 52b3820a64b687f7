package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// notificationsTopic subscribes the caller to their own inbox pushes
const notificationsTopic = "notifications"

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type LiveHandler struct {
	broker  client.LiveBroker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewLiveHandler creates the handler. A nil broker disables the endpoint.
func NewLiveHandler(broker client.LiveBroker, m *metrics.Metrics, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		broker:  broker,
		metrics: m,
		logger:  logger,
	}
}

// Subscribe godoc
// @Summary      Live updates
// @Description  Upgrades to a websocket that forwards change notices for a thread (post:{id}), a folder (folder:{id} or folder:root) or the caller's notifications
// @Tags         live
// @Param        topic query string true "Topic"
// @Param        token query string false "JWT when the Authorization header cannot be set"
// @Success      101 {string} string "Switching Protocols"
// @Failure      400 {object} response.ErrorResponse
// @Failure      503 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /live [get]
func (h *LiveHandler) Subscribe(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	if h.broker == nil {
		response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeUnavailable, "Live updates are not available")
		return
	}

	topic := c.Query("topic")
	var channel string
	switch {
	case topic == notificationsTopic:
		channel = service.NotificationChannel(actor.ID)
	case service.ValidLiveTopic(topic):
		channel = service.LiveChannel(topic)
	default:
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid topic")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	// The request context ends when the handler returns; the subscription
	// lives as long as the socket.
	ctx, cancel := context.WithCancel(context.Background())
	messages, sub, err := h.broker.Subscribe(ctx, channel)
	if err != nil {
		cancel()
		h.logger.Error("Failed to subscribe", zap.String("channel", channel), zap.Error(err))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"))
		conn.Close()
		return
	}

	h.metrics.LiveSubscriberConnected()
	h.logger.Info("Live subscriber connected",
		zap.String("topic", topic),
		zap.String("user_id", actor.ID),
	)

	go h.writePump(conn, messages, cancel)
	go h.readPump(conn, sub, cancel)
}

// readPump discards client frames and ends the subscription on close
func (h *LiveHandler) readPump(conn *websocket.Conn, sub io.Closer, cancel context.CancelFunc) {
	defer func() {
		cancel()
		sub.Close()
		conn.Close()
		h.metrics.LiveSubscriberDisconnected()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Live connection closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *LiveHandler) writePump(conn *websocket.Conn, messages <-chan []byte, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-messages:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
