package routes

import (
	"chrono_store_front/internal/config"
	"chrono_store_front/internal/handlers"
	"chrono_store_front/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, cfg config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")

	// Auth (déléguée au service distant)
	auth := api.Group("/auth")
	auth.POST("/login", middleware.SessionOptional(), middleware.LoginRateLimit(), handlers.Login)
	auth.POST("/register", middleware.SessionOptional(), middleware.RegisterRateLimit(), handlers.Register)
	auth.GET("/me", middleware.SessionRequired(), handlers.Me)
	auth.POST("/logout", middleware.SessionRequired(), handlers.Logout)

	// Catalogue (public)
	api.GET("/watches", handlers.ListWatches)
	api.GET("/watches/:id", middleware.SessionOptional(), handlers.GetWatch)

	// Panneau admin
	admin := api.Group("/watches", middleware.SessionRequired(), middleware.AuthRequired(), middleware.RequireAdmin)
	admin.POST("/create-watches", handlers.CreateWatch)
	admin.PUT("/:id", handlers.UpdateWatch)
	admin.DELETE("/:id", handlers.DeleteWatch)

	// Panier (session invitée créée à la première action)
	cart := api.Group("/cart", middleware.SessionOptional())
	cart.GET("", handlers.GetCart)
	cart.POST("/add", handlers.AddToCart)
	cart.POST("/addItemToCart", handlers.AddItemsToCart)
	cart.PUT("/update", handlers.UpdateCartItem)
	cart.DELETE("/remove/:itemId", handlers.RemoveFromCart)
	cart.DELETE("/clear", handlers.ClearCart)
	cart.GET("/ws", handlers.CartWebSocket)

	// Checkout / paiement (connexion requise)
	cart.POST("/initialize-payment", middleware.AuthRequired(), handlers.InitializePayment)
	checkout := api.Group("/checkout", middleware.SessionRequired(), middleware.AuthRequired())
	checkout.POST("/order", handlers.PlaceOrder)
	checkout.GET("/callback", handlers.PaymentCallback)

	// Commandes (écrans de confirmation)
	api.GET("/orders/:id", middleware.SessionRequired(), middleware.AuthRequired(), handlers.GetOrder)
}
