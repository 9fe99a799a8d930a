package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/checkout"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// PlaceOrder is the checkout submission. Validation failures come back as
// a field-level error map with no write attempted; a CMS write failure
// leaves the cart and discount untouched so the shopper can resubmit.
func (h *Handler) PlaceOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	cartID, ok := cartIDOfRequest(c)
	if !ok {
		return
	}

	// Check if the size of the request body exceeds 5 KB
	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var billing checkout.BillingDetails
	if err := c.ShouldBindJSON(&billing); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	order, fieldErrs, err := h.checkout.PlaceOrder(c.Request.Context(), cartID, billing)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrValidation):
			slog.Error("billing validation failed", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.CartID, cartID))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message":      "Please fill in all required fields.",
				"field_errors": fieldErrs,
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			slog.Error("checkout with empty cart", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.CartID, cartID))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
		default:
			slog.Error("error creating order", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.ERROR, err.Error()), slog.String(logkey.CartID, cartID))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": "Failed to place order. Please try again."})
		}
		return
	}

	slog.Info("order placed", slog.String(logkey.TraceID, traceId), slog.String(logkey.CartID, cartID))
	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}
