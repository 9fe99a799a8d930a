package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/middleware"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	keys     *auth.Keys
	catalog  *catalog.Conf
	cart     cart.Conf
	checkout *checkout.Conf
}

func NewHandler(keys *auth.Keys, catalogConf *catalog.Conf, cartConf cart.Conf, checkoutConf *checkout.Conf) *Handler {
	return &Handler{
		keys:     keys,
		catalog:  catalogConf,
		cart:     cartConf,
		checkout: checkoutConf,
	}
}

func API(endpointPrefix string, keys *auth.Keys, catalogConf *catalog.Conf,
	cartConf cart.Conf, checkoutConf *checkout.Conf, allowedOrigins []string) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(keys)
	if err != nil {
		panic(err)
	}
	h := NewHandler(keys, catalogConf, cartConf, checkoutConf)

	r.Use(middleware.Logger(), gin.Recovery())
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	r.GET("/ping", healthCheck)
	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/session", h.CreateSession)
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:slug", h.GetProductBySlug)

		v1.Use(m.Authentication())
		v1.GET("/cart", h.GetCart)
		v1.POST("/cart/items", h.AddToCart)
		v1.PUT("/cart/items/:productID", h.UpdateQuantity)
		v1.DELETE("/cart/items/:productID", h.RemoveCartItem)
		v1.POST("/cart/discount", h.ApplyDiscount)
		v1.POST("/checkout", h.PlaceOrder)
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// cartIDOfRequest pulls the cart id out of the session claims stored by
// the authentication middleware.
func cartIDOfRequest(c *gin.Context) (string, bool) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return claims.Subject, true
}
