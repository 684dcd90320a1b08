package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

// SwapRequest is the body of POST /api/boards/:id/swap.
type SwapRequest struct {
	From board.Coord `json:"from"`
	To   board.Coord `json:"to"`
}

// NewRouter wires the board API onto a gin engine.
func NewRouter(m *Manager, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	api := r.Group("/api")
	api.POST("/boards", CreateBoardHandler(m))
	api.GET("/boards", ListBoardsHandler(m))
	api.GET("/boards/:id", GetBoardHandler(m))
	api.POST("/boards/:id/swap", SwapHandler(m))
	api.DELETE("/boards/:id", DeleteBoardHandler(m))
	api.GET("/boards/:id/ws", StreamHandler(m, logger))

	return r
}

// requestLogger logs every request at debug level.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// CreateBoardHandler starts a room and returns its first snapshot.
func CreateBoardHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		room, err := m.Create(req)
		switch {
		case errors.Is(err, ErrTooManyRooms):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		snap, err := room.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, snap)
	}
}

// ListBoardsHandler returns the ids of the live rooms.
func ListBoardsHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"boards": m.List()})
	}
}

// GetBoardHandler returns a snapshot of one room.
func GetBoardHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := m.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		snap, err := room.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// SwapHandler proposes a swap. 202 means the resolver took it; the result
// follows on the websocket stream.
func SwapHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := m.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		var req SwapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		err := room.Swap(c.Request.Context(), req.From, req.To)
		switch {
		case err == nil:
			c.JSON(http.StatusAccepted, gin.H{"accepted": true})
		case errors.Is(err, board.ErrInvalidSwap):
			c.JSON(http.StatusConflict, gin.H{"accepted": false, "error": err.Error()})
		case errors.Is(err, ErrRoomClosed):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

// DeleteBoardHandler closes a room.
func DeleteBoardHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Close(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
