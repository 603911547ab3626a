package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"street-bites-go/config"
	"street-bites-go/services"
	"street-bites-go/utils"
)

// Shared collaborators, wired once by SetupRouter.
var (
	DB     *gorm.DB
	Orders *services.OrderService
	Cfg    *config.Config
)

// SetupRouter builds the full API router and stores the shared collaborators
// the handlers use.
func SetupRouter(cfg *config.Config, db *gorm.DB, orders *services.OrderService) *gin.Engine {
	Cfg = cfg
	DB = db
	Orders = orders
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTExpiration)

	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/", apiIndexHandler)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", RegisterHandler)
		authGroup.POST("/login", LoginHandler)
	}

	menuGroup := router.Group("/api/menu")
	{
		menuGroup.GET("/categories", ListCategoriesHandler)
		menuGroup.GET("/items", ListMenuItemsHandler)
		menuGroup.GET("/items/category/:id", ListMenuItemsByCategoryHandler)

		menuAdmin := menuGroup.Group("", AuthMiddleware())
		{
			menuAdmin.POST("/categories", CreateCategoryHandler)
			menuAdmin.PUT("/categories/:id", UpdateCategoryHandler)
			menuAdmin.DELETE("/categories/:id", DeleteCategoryHandler)

			menuAdmin.POST("/items", CreateMenuItemHandler)
			menuAdmin.PUT("/items/:id", UpdateMenuItemHandler)
			menuAdmin.DELETE("/items/:id", DeleteMenuItemHandler)
		}
	}

	locationGroup := router.Group("/api/locations")
	{
		locationGroup.GET("", ListLocationsHandler)
		locationGroup.GET("/active", ActiveLocationsHandler)
		locationGroup.GET("/:id", GetLocationHandler)

		locationAdmin := locationGroup.Group("", AuthMiddleware())
		{
			locationAdmin.POST("", CreateLocationHandler)
			locationAdmin.PUT("/:id", UpdateLocationHandler)
			locationAdmin.DELETE("/:id", DeleteLocationHandler)
		}
	}

	orderGroup := router.Group("/api/orders")
	{
		orderGroup.POST("", PlaceOrderHandler)
		orderGroup.GET("/:orderNumber", GetOrderByNumberHandler)

		orderAdmin := orderGroup.Group("", AuthMiddleware())
		{
			orderAdmin.GET("", ListOrdersHandler)
			orderAdmin.PUT("/:id/status", UpdateOrderStatusHandler)
			orderAdmin.PUT("/:id", UpdateOrderHandler)
			orderAdmin.DELETE("/:id", DeleteOrderHandler)
		}
	}

	// Fetch by internal id lives under /api/admin to keep the public
	// :orderNumber wildcard free of segment conflicts in gin's route tree.
	adminGroup := router.Group("/api/admin", AuthMiddleware())
	{
		adminGroup.GET("/orders/:id", GetOrderHandler)
		adminGroup.GET("/profile", ProfileHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Endpoint not found")
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	if cfg.IsDevelopment() {
		// Development: Allow all origins
		return cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}
	}

	// Production: Be specific and secure
	return cors.Config{
		AllowOrigins:     []string{"https://streetbites.example.com"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func apiIndexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Street Bites Food Truck API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"auth": gin.H{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
			},
			"menu": gin.H{
				"categories":      "GET /api/menu/categories",
				"items":           "GET /api/menu/items",
				"itemsByCategory": "GET /api/menu/items/category/:id",
			},
			"orders": gin.H{
				"create":       "POST /api/orders",
				"getByNumber":  "GET /api/orders/:orderNumber",
				"getAll":       "GET /api/orders",
				"getById":      "GET /api/admin/orders/:id",
				"updateStatus": "PUT /api/orders/:id/status",
			},
			"locations": gin.H{
				"getAll":    "GET /api/locations",
				"getActive": "GET /api/locations/active",
			},
		},
	})
}
