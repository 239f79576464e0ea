package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/updogjp/infinichess/internal/agent"
	"github.com/updogjp/infinichess/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
	Agents  *agent.Controller
}

func NewDebugHandler(s *engine.GameService, agents *agent.Controller) *DebugHandler {
	return &DebugHandler{Service: s, Agents: agents}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/world", h.handleWorld)
	g.GET("/actors", h.handleActors)
	g.GET("/agents", h.handleAgents)
	g.GET("/sessions", h.handleSessions)
	g.GET("/leaderboard", h.handleLeaderboard)
}

// /debug/world - размер мира и состояние роутера
func (h *DebugHandler) handleWorld(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Stats())
}

// /debug/actors - подключенные игроки со счетом и иммунитетом
func (h *DebugHandler) handleActors(c *gin.Context) {
	writeList(c, h.Service.Actors())
}

// /debug/agents - автономные фигуры и время их следующего решения
func (h *DebugHandler) handleAgents(c *gin.Context) {
	if h.Agents == nil {
		writeList(c, []agent.Agent(nil))
		return
	}
	writeList(c, h.Agents.Agents())
}

// /debug/sessions - только число: токены наружу не отдаем
func (h *DebugHandler) handleSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pending": h.Service.Stats().Pending})
}

func (h *DebugHandler) handleLeaderboard(c *gin.Context) {
	online, entries := h.Service.Leaderboard()
	c.JSON(http.StatusOK, gin.H{"online": online, "entries": entries})
}

// writeList - пустой список отдается как [], а не null
func writeList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
