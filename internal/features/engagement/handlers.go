package engagement

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shaxe.ru/shaxe-backend/internal/common"
)

// Handlers — HTTP-слой реакций.
type Handlers struct {
	svc *Service
}

// NewHandlers создаёт обработчики реакций.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

type reactRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// React — POST /api/posts/:id/reactions
func (h *Handlers) React(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id поста"})
		return
	}
	userID := c.GetInt64("user_id")

	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	reaction, err := h.svc.React(c.Request.Context(), postID, userID, Kind(req.Kind))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if reaction == nil {
		// Дубликат реакции — отвечаем успехом, ничего не изменилось
		c.JSON(http.StatusOK, gin.H{"status": "already_reacted"})
		return
	}
	c.JSON(http.StatusCreated, reaction)
}

// Unreact — DELETE /api/posts/:id/reactions/:kind
func (h *Handlers) Unreact(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id поста"})
		return
	}
	userID := c.GetInt64("user_id")

	if err := h.svc.Unreact(c.Request.Context(), postID, userID, Kind(c.Param("kind"))); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats — GET /api/posts/:id/reactions
func (h *Handlers) Stats(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id поста"})
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), postID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// UserKinds — GET /api/posts/:id/reactions/mine
func (h *Handlers) UserKinds(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id поста"})
		return
	}
	userID := c.GetInt64("user_id")

	kinds, err := h.svc.UserKinds(c.Request.Context(), postID, userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if kinds == nil {
		kinds = []Kind{}
	}
	c.JSON(http.StatusOK, gin.H{"kinds": kinds})
}
