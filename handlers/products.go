package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"storefront-service/internal/catalog"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// ListProducts serves the catalog listing. Filters and a free-text search
// term combine; with neither set the default bounded page is returned, or
// the whole catalog with view=all. A CMS failure degrades to an empty
// list, never an error response.
func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	searchTerm := c.Query("search")
	expanded := c.Query("view") == "all"

	var criteria catalog.FilterCriteria
	criteria.Tag = c.Query("tag")
	criteria.DiscountOnly = c.Query("discountOnly") == "true"
	criteria.NewOnly = c.Query("newOnly") == "true"

	if raw := c.Query("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			slog.Error("invalid maxPrice parameter", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid maxPrice parameter"})
			return
		}
		criteria.PriceCeiling = maxPrice
	}

	products := h.catalog.Browse(c.Request.Context(), criteria, searchTerm, expanded)

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// GetProductBySlug serves the product detail page lookup.
func (h *Handler) GetProductBySlug(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	slug := c.Param("slug")
	product, err := h.catalog.ProductBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("Slug", slug))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			slog.Error("error in retrieving product", slog.String(logkey.TraceID, traceId),
				slog.String("Slug", slug), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}
