package handlers

import (
	"log"
	"net/http"

	"chrono_store_front/internal/cache"
	"chrono_store_front/internal/middleware"
	"chrono_store_front/internal/models"
	"chrono_store_front/internal/session"
	"chrono_store_front/internal/upstream"

	"github.com/gin-gonic/gin"
)

// ================== AUTH (déléguée au service distant) ==================

type authInput struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType"`
}

//
// 🟢 POST /api/auth/login
//
func Login(c *gin.Context) {
	var input authInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email et mot de passe requis"})
		return
	}

	var (
		auth *upstream.AuthResult
		err  error
	)
	if input.UserType == "admin" {
		auth, err = Upstream.AdminLogin(c.Request.Context(), input.Email, input.Password)
	} else {
		auth, err = Upstream.Login(c.Request.Context(), input.Email, input.Password)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	finishAuth(c, auth)
}

//
// 🟢 POST /api/auth/register
//
func Register(c *gin.Context) {
	var input authInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nom d'utilisateur, email et mot de passe requis"})
		return
	}

	var (
		auth *upstream.AuthResult
		err  error
	)
	if input.UserType == "admin" {
		auth, err = Upstream.AdminRegister(c.Request.Context(), input.Username, input.Email, input.Password)
	} else {
		auth, err = Upstream.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	finishAuth(c, auth)
}

// finishAuth promeut la session courante (ou en crée une), réconcilie le
// panier invité avec le panier serveur, et remet le JWT de session au
// client.
func finishAuth(c *gin.Context, auth *upstream.AuthResult) {
	sess := middleware.CurrentSession(c)
	hadGuestCart := sess != nil
	if sess == nil {
		var err error
		sess, err = session.NewGuest()
		if err != nil {
			respondError(c, err)
			return
		}
	}

	if err := session.Promote(sess, auth); err != nil {
		respondError(c, err)
		return
	}

	// Le panier invité est rejoué contre le panier serveur ; l'échec partiel
	// n'empêche pas la connexion.
	var summary models.ReconcileSummary
	if hadGuestCart {
		var err error
		summary, err = CartStore.Reconcile(c.Request.Context(), sess)
		if err != nil {
			log.Printf("⚠️ Réconciliation panier invité impossible pour %s: %v", sess.ID, err)
		}
		if summary.Synced > 0 {
			cache.PublishCartEvent(sess.ID, "updated")
		}
	}

	token, err := session.IssueToken(sess)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("✅ Connexion %s (%s)", sess.Email, sess.Role)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"name":  sess.Name,
			"email": sess.Email,
			"role":  sess.Role,
		},
		"cart_sync": summary,
	})
}

//
// 🟢 GET /api/auth/me
//
func Me(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"name":          sess.Name,
			"email":         sess.Email,
			"role":          sess.Role,
			"authenticated": sess.IsAuthenticated(),
		},
	})
}

//
// 🧹 POST /api/auth/logout
//
func Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := session.Destroy(sess.ID); err != nil {
		respondError(c, err)
		return
	}
	cache.PublishCartEvent(sess.ID, "cleared")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Déconnexion réussie"})
}
