package handlers

import (
	"log/slog"
	"net/http"

	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSession issues an anonymous cart session. The token's subject is a
// fresh cart id; the browser holds the token the way it used to hold the
// cart in local storage.
func (h *Handler) CreateSession(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	cartID := uuid.NewString()
	token, err := h.keys.GenerateToken(cartID)
	if err != nil {
		slog.Error("error generating session token", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}

	slog.Info("cart session created", slog.String(logkey.TraceID, traceId), slog.String(logkey.CartID, cartID))
	c.JSON(http.StatusOK, gin.H{"token": token, "cart_id": cartID})
}
