package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"chrono_store_front/internal/middleware"
	"chrono_store_front/internal/models"

	"github.com/gin-gonic/gin"
)

//
// 🟢 GET /api/watches?q=
//
func ListWatches(c *gin.Context) {
	watches, err := Upstream.ListWatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if q := c.Query("q"); q != "" {
		watches = FilterWatches(watches, q)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    watches,
		"count":   len(watches),
	})
}

//
// 🟢 GET /api/watches/:id
//
func GetWatch(c *gin.Context) {
	watch, err := Upstream.GetWatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"success": true, "data": watch}
	if sess := middleware.CurrentSession(c); sess != nil {
		// Quantité déjà au panier, pour le bouton d'ajout.
		if cart, err := CartStore.Fetch(c.Request.Context(), sess); err == nil {
			resp["in_cart"] = cart.ItemQuantity(watch.ID)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// FilterWatches applique la recherche de la boutique : sous-chaîne
// insensible à la casse sur nom, marque, type, description et prix, sur la
// page déjà chargée.
func FilterWatches(watches []models.Watch, q string) []models.Watch {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return watches
	}

	filtered := make([]models.Watch, 0, len(watches))
	for _, w := range watches {
		price := strconv.FormatFloat(w.Price, 'f', -1, 64)
		if strings.Contains(strings.ToLower(w.Name), q) ||
			strings.Contains(strings.ToLower(w.Brand), q) ||
			strings.Contains(strings.ToLower(w.Type), q) ||
			strings.Contains(strings.ToLower(w.Description), q) ||
			strings.Contains(strings.ToLower(price), q) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}
