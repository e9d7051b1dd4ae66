package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/feedwire/feedwire/internal/realtime"
)

// RealtimeModule exposes the websocket upgrade endpoint on the same port
// as the HTTP surface. Connecting does not require authentication.
type RealtimeModule struct {
	Hub *realtime.Hub
}

func NewRealtimeModule(h *realtime.Hub) *RealtimeModule {
	return &RealtimeModule{Hub: h}
}

func (m *RealtimeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/socket", m.Hub.Handle)
}
