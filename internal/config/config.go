package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration injectée du service.
// L'origine de l'API distante est configurable ici — plus aucune URL en dur
// dans les handlers.
type Config struct {
	Port            string
	UpstreamBaseURL string
	FrontendURL     string
	RedisHost       string
	RedisPassword   string
	JWTSecret       string
}

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Get lit la configuration depuis l'environnement.
func Get() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		UpstreamBaseURL: strings.TrimRight(os.Getenv("UPSTREAM_BASE_URL"), "/"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
	}

	if cfg.UpstreamBaseURL == "" {
		log.Fatal("❌ UPSTREAM_BASE_URL manquant dans .env")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET manquant dans .env")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
