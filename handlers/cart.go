package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	cartID, ok := cartIDOfRequest(c)
	if !ok {
		return
	}

	totals, err := h.cart.Totals(c.Request.Context(), cartID)
	if err != nil {
		slog.Error("error fetching cart items", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String(logkey.CartID, cartID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart items"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	cartID, ok := cartIDOfRequest(c)
	if !ok {
		return
	}

	var request struct {
		ProductID string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.ProductID == "" {
		slog.Error("missing product id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	// Snapshot the product at the fetch boundary; the cart line carries a
	// validated copy of its identity and price.
	product, err := h.catalog.ProductByID(c.Request.Context(), request.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", request.ProductID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		slog.Error("error fetching product details", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", request.ProductID))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": "Failed to fetch product details"})
		return
	}

	err = h.cart.Add(c.Request.Context(), cartID, cart.AddedProduct{
		ID:    product.ID,
		Title: product.Title,
		Price: product.Price,
		Slug:  product.Slug.Current,
	})
	if err != nil {
		slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", request.ProductID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product to cart"})
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", request.ProductID), slog.String(logkey.CartID, cartID))
	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart successfully"})
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	cartID, ok := cartIDOfRequest(c)
	if !ok {
		return
	}

	productID := c.Param("productID")
	var request struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.cart.SetQuantity(c.Request.Context(), cartID, productID, request.Quantity); err != nil {
		slog.Error("error updating cart quantity", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update quantity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated"})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	cartID, ok := cartIDOfRequest(c)
	if !ok {
		return
	}

	productID := c.Param("productID")
	if err := h.cart.Remove(c.Request.Context(), cartID, productID); err != nil {
		slog.Error("error removing cart item", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// ApplyDiscount stores a discount amount to be taken off the order total
// at checkout.
func (h *Handler) ApplyDiscount(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	cartID, ok := cartIDOfRequest(c)
	if !ok {
		return
	}

	var request struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Amount < 0 {
		slog.Error("invalid discount payload", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Discount amount must be a non-negative number"})
		return
	}

	if err := h.cart.ApplyDiscount(c.Request.Context(), cartID, request.Amount); err != nil {
		slog.Error("error applying discount", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String(logkey.CartID, cartID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to apply discount"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Discount applied"})
}
