package api

import (
	"net/http"
	"strconv"
	"time"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"
	"tienda-api/internal/redisclient"
	"tienda-api/internal/service"
	"tienda-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	auth      *service.AuthService
	users     *service.UserService
	catalog   *service.CatalogService
	cart      *service.CartService
	orders    *service.OrderService
	inventory *service.InventoryService
	admin     *service.AdminService
	reviews   *service.ReviewService
	account   *service.AccountService
	support   *service.SupportService

	store   *store.Store
	redis   *redisclient.Client
	issuer  *auth.TokenIssuer
	uploads *UploadStore
}

// NewHandler creates a new HTTP handler
func NewHandler(deps *service.Dependencies, issuer *auth.TokenIssuer, st *store.Store, redis *redisclient.Client, uploads *UploadStore) *Handler {
	return &Handler{
		auth:      deps.Auth,
		users:     deps.Users,
		catalog:   deps.Catalog,
		cart:      deps.Cart,
		orders:    deps.Orders,
		inventory: deps.Inventory,
		admin:     deps.Admin,
		reviews:   deps.Reviews,
		account:   deps.Account,
		support:   deps.Support,
		store:     st,
		redis:     redis,
		issuer:    issuer,
		uploads:   uploads,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/uploads", h.uploads.Dir())

	authRequired := AuthRequired(h.issuer)
	staffOnly := RequireRoles(models.RoleAdmin, models.RoleAgente)
	adminOnly := RequireRoles(models.RoleAdmin)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(RateLimit(h.redis, "10-M"))
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	api.GET("/faqs", h.listFAQs)
	api.GET("/categories", h.listCategories)
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/products/:id/reviews", h.listProductReviews)

	me := api.Group("/users/me", authRequired)
	{
		me.GET("", h.getProfile)
		me.PUT("", h.updateProfile)
		me.PUT("/password", h.changePassword)
		me.POST("/avatar", h.uploadAvatar)
		me.DELETE("/avatar", h.deleteAvatar)
		me.POST("/last-session", h.touchLastSession)
	}

	cart := api.Group("/cart", authRequired)
	{
		cart.GET("", h.listCart)
		cart.POST("", h.addCartItem)
		cart.PUT("/:productId", h.updateCartItem)
		cart.DELETE("/:productId", h.removeCartItem)
		cart.DELETE("", h.clearCart)
	}

	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listMyOrders)
		orders.GET("/:id", h.getOrder)
		orders.POST("/:id/return", h.requestReturn)
		orders.GET("/:id/return", h.getOrderReturn)
		orders.GET("/:id/reviewable", h.listReviewableItems)
	}

	reviews := api.Group("/reviews", authRequired)
	{
		reviews.POST("", h.createReview)
		reviews.POST("/:id/vote", h.voteReview)
	}

	wishlist := api.Group("/wishlist", authRequired)
	{
		wishlist.GET("", h.listWishlist)
		wishlist.POST("", h.addToWishlist)
		wishlist.DELETE("/:productId", h.removeFromWishlist)
	}

	addresses := api.Group("/addresses", authRequired)
	{
		addresses.GET("", h.listAddresses)
		addresses.POST("", h.createAddress)
		addresses.PUT("/:id", h.updateAddress)
		addresses.PUT("/:id/principal", h.setPrincipalAddress)
		addresses.DELETE("/:id", h.deleteAddress)
	}

	support := api.Group("/support", authRequired)
	{
		support.GET("/tickets", h.listTickets)
		support.POST("/tickets", h.createTicket)
		support.GET("/tickets/:id", h.getTicket)
		support.POST("/tickets/:id/messages", h.addTicketMessage)
		support.PUT("/tickets/:id/status", staffOnly, h.updateTicketStatus)
	}

	admin := api.Group("/admin", authRequired)
	{
		admin.GET("/stats/overview", staffOnly, h.overviewStats)
		admin.GET("/orders", staffOnly, h.listAllOrders)
		admin.GET("/orders/:id", staffOnly, h.getOrder)
		admin.PATCH("/orders/:id/status", staffOnly, h.updateOrderStatus)
		admin.GET("/returns", staffOnly, h.listReturns)
		admin.PATCH("/returns/:id/status", staffOnly, h.resolveReturn)

		admin.GET("/users", adminOnly, h.listUsers)
		admin.POST("/users", adminOnly, h.createUser)
		admin.DELETE("/users/:id", adminOnly, h.deleteUser)

		admin.POST("/products", adminOnly, h.createProduct)
		admin.PUT("/products/:id", adminOnly, h.updateProduct)
		admin.DELETE("/products/:id", adminOnly, h.deleteProduct)
		admin.PUT("/products/:id/stock", adminOnly, h.adjustStock)
		admin.POST("/products/:id/lot", adminOnly, h.registerLot)
		admin.GET("/products/:id/inventory", staffOnly, h.productInventory)
		admin.POST("/products/:id/images", adminOnly, h.uploadProductImages)
		admin.PUT("/products/:id/images/:imageId/principal", adminOnly, h.setPrincipalImage)
		admin.DELETE("/products/:id/images/:imageId", adminOnly, h.deleteProductImage)
		admin.POST("/products/batch-discount", adminOnly, h.applyBatchDiscount)

		admin.POST("/categories", adminOnly, h.createCategory)
		admin.DELETE("/categories/:id", adminOnly, h.deleteCategory)

		admin.GET("/inventory/history", staffOnly, h.movementHistory)
		admin.GET("/inventory/history/export", staffOnly, h.exportMovements)
		admin.GET("/inventory/low-stock", staffOnly, h.lowStock)

		admin.GET("/promotions", adminOnly, h.listPromotions)
		admin.POST("/promotions", adminOnly, h.createPromotion)
		admin.GET("/promotions/:id/products", adminOnly, h.promotionProducts)
		admin.PUT("/promotions/:id/toggle", adminOnly, h.togglePromotion)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck verifies the database and cache are reachable.
func (h *Handler) readinessCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "database": err.Error()})
		return
	}
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "redis": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
