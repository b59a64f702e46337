package main

import (
	"context"
	"log"
	"time"

	"chrono_store_front/internal/cache"
	"chrono_store_front/internal/cart"
	"chrono_store_front/internal/checkout"
	"chrono_store_front/internal/config"
	"chrono_store_front/internal/handlers"
	"chrono_store_front/internal/routes"
	"chrono_store_front/internal/session"
	"chrono_store_front/internal/upstream"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	cfg := config.Get()

	session.Init(cfg.JWTSecret)

	if err := cache.InitRedis(cfg.RedisHost, cfg.RedisPassword); err != nil {
		log.Fatalf("❌ Échec initialisation Redis: %v", err)
	}
	defer cache.CloseRedis()

	client := upstream.New(cfg.UpstreamBaseURL)
	warmupUpstream(client)

	store := cart.NewStore(client, cache.RedisGuestCarts{}, cache.RedisSessions{})
	flow := checkout.NewFlow(client, cache.RedisPendingPayments{})
	handlers.Init(client, store, flow, cfg.FrontendURL)

	r := gin.Default()
	routes.RegisterRoutes(r, cfg)

	log.Println("🚀 Boutique lancée sur le port", cfg.Port)
	r.Run(":" + cfg.Port)
}

// warmupUpstream vérifie que le service catalogue répond ; on démarre quand
// même s'il est indisponible, les handlers rattraperont.
func warmupUpstream(client *upstream.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Printf("⚠️ Service distant injoignable au démarrage: %v", err)
		return
	}
	log.Println("✅ Service catalogue distant joignable")
}
