package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.SSEClient
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

// Stream holds one connection per user; a new stream replaces any
// existing one. Every stream is subscribed to the user's own channel.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	userID := rd.UserID

	h.mu.Lock()
	if existing, ok := h.clients[userID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, userID)
	}
	client := h.hub.NewSSEClient(userID)
	h.clients[userID] = client
	h.mu.Unlock()

	h.hub.AddChannel(client, sse.UserChannel(userID))

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	// A replacing stream may have already closed this client; only the
	// request that still owns the slot tears it down.
	h.mu.Lock()
	owned := h.clients[userID] == client
	if owned {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	if owned {
		h.hub.CloseClient(client)
	}
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	h.changeSubscription(c, h.hub.AddChannel, "subscribed")
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	h.changeSubscription(c, h.hub.RemoveChannel, "unsubscribed")
}

func (h *SSEHandler) changeSubscription(c *gin.Context, apply func(*sse.SSEClient, string), verb string) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}

	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		RespondError(c, http.StatusBadRequest, "invalid_channel", fmt.Errorf("invalid channel"))
		return
	}

	h.mu.RLock()
	client, exists := h.clients[rd.UserID]
	h.mu.RUnlock()
	if !exists {
		RespondError(c, http.StatusConflict, "no_stream", fmt.Errorf("no active SSE connection"))
		return
	}

	apply(client, req.Channel)
	RespondOK(c, gin.H{"message": verb, "channel": req.Channel})
}
