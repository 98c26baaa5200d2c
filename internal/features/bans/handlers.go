package bans

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shaxe.ru/shaxe-backend/internal/common"
)

// Handlers — HTTP-слой банов. Статус своего бана видит сам
// пользователь; история банов любого пользователя — только админ.
type Handlers struct {
	svc *Service
}

// NewHandlers создаёт обработчики банов.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// MyStatus — GET /api/bans/me
func (h *Handlers) MyStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")

	banned, until, err := h.svc.IsBanned(c.Request.Context(), userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	resp := gin.H{"banned": banned}
	if until != nil {
		resp["until"] = until
	}
	c.JSON(http.StatusOK, resp)
}

// History — GET /api/admin/users/:id/bans
func (h *Handlers) History(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id пользователя"})
		return
	}

	history, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if history == nil {
		history = []*Ban{}
	}
	c.JSON(http.StatusOK, gin.H{"bans": history})
}
