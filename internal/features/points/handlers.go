package points

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shaxe.ru/shaxe-backend/internal/common"
)

// Handlers — HTTP-слой экономики очков.
type Handlers struct {
	svc *Service
}

// NewHandlers создаёт обработчики очков.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// Balance — GET /api/points/balance
func (h *Handlers) Balance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	account, err := h.svc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

type transferRequest struct {
	ToUserID int64 `json:"to_user_id" binding:"required"`
	Amount   int64 `json:"amount" binding:"required"`
}

// Transfer — POST /api/points/transfer
func (h *Handlers) Transfer(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	if err := h.svc.Transfer(c.Request.Context(), userID, req.ToUserID, req.Amount); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type purchaseRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Purchase — POST /api/points/purchase
func (h *Handlers) Purchase(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	account, err := h.svc.Purchase(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// Shield — POST /api/posts/:id/shield
func (h *Handlers) Shield(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный id поста"})
		return
	}
	userID := c.GetInt64("user_id")

	until, err := h.svc.ShieldPost(c.Request.Context(), userID, postID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "shielded", "until": until})
}

// Transactions — GET /api/points/transactions?limit=50
func (h *Handlers) Transactions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transactions, err := h.svc.Transactions(c.Request.Context(), userID, limit)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if transactions == nil {
		transactions = []*Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
