package middleware

import (
	"net/http"
	"strings"

	"chrono_store_front/internal/models"
	"chrono_store_front/internal/session"

	"github.com/gin-gonic/gin"
)

// bearerToken extrait le JWT du header Authorization.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Le websocket du navigateur ne peut pas poser de header.
		return c.Query("token")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// SessionRequired exige une session valide (invitée ou authentifiée).
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
			c.Abort()
			return
		}

		sess, err := session.Resolve(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalide ou expirée"})
			c.Abort()
			return
		}

		c.Set("session", sess)
		c.Set("session_id", sess.ID)
		c.Set("role", sess.Role)
		c.Next()
	}
}

// SessionOptional attache la session si le client en présente une ; sinon on
// continue en anonyme (le handler panier créera une session invitée au
// besoin).
func SessionOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if sess, err := session.Resolve(token); err == nil {
				c.Set("session", sess)
				c.Set("session_id", sess.ID)
				c.Set("role", sess.Role)
			}
		}
		c.Next()
	}
}

// CurrentSession relit la session posée par le middleware.
func CurrentSession(c *gin.Context) *models.Session {
	value, exists := c.Get("session")
	if !exists {
		return nil
	}
	sess, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

// AuthRequired exige en plus un credential du service distant.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if !sess.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Connexion requise"})
			c.Abort()
			return
		}
		c.Next()
	}
}
