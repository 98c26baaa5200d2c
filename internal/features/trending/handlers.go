package trending

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shaxe.ru/shaxe-backend/internal/common"
)

// Handlers — HTTP-слой трендов и залов.
type Handlers struct {
	svc *Service
}

// NewHandlers создаёт обработчики трендов.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// pagination разбирает limit/offset из query с разумными границами.
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List — GET /api/trending?period=day&limit=20&offset=0
func (h *Handlers) List(c *gin.Context) {
	period, err := ParsePeriod(c.DefaultQuery("period", "day"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	limit, offset := pagination(c)

	items, err := h.svc.List(c.Request.Context(), period, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if items == nil {
		items = []*ListedPost{}
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "posts": items})
}

// Score — GET /api/posts/:id/score
func (h *Handlers) Score(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id поста"})
		return
	}

	snap, cached, err := h.svc.Get(c.Request.Context(), postID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap, "cached": cached})
}

// HallOfFame — GET /api/hall-of-fame?period=week
func (h *Handlers) HallOfFame(c *gin.Context) {
	h.hall(c, h.svc.HallOfFame)
}

// HallOfShame — GET /api/hall-of-shame?period=week
func (h *Handlers) HallOfShame(c *gin.Context) {
	h.hall(c, h.svc.HallOfShame)
}

type hallLister func(ctx context.Context, period Period, limit, offset int) ([]*HallEntry, error)

func (h *Handlers) hall(c *gin.Context, list hallLister) {
	period, err := ParsePeriod(c.DefaultQuery("period", "all-time"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	limit, offset := pagination(c)

	entries, err := list(c.Request.Context(), period, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if entries == nil {
		entries = []*HallEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "entries": entries})
}
