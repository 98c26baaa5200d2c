package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusOf отображает доменные ошибки на HTTP-статусы.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrInvalidPeriod),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSelfTransfer),
		errors.Is(err, ErrUnknownProduct):
		return http.StatusBadRequest
	case errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotVerified),
		errors.Is(err, ErrBanned),
		errors.Is(err, ErrNotAdmin),
		errors.Is(err, ErrAdultsOnly):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyShielded):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError завершает запрос с правильным статусом.
// Внутренние ошибки наружу не отдаются, только в лог.
func AbortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("Внутренняя ошибка запроса")
		c.AbortWithStatusJSON(status, gin.H{"error": "внутренняя ошибка сервера"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
