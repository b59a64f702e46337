package handlers

import (
	"log"
	"net/http"

	"chrono_store_front/internal/middleware"
	"chrono_store_front/internal/upstream"

	"github.com/gin-gonic/gin"
)

// ================== PANNEAU ADMIN (CRUD catalogue) ==================
// Le formulaire est retransmis en multipart au service distant, image
// comprise ; les messages métier reviennent tels quels.

// watchFormFields relit les champs texte du formulaire admin.
func watchFormFields(c *gin.Context) map[string]string {
	fields := map[string]string{}
	for _, key := range []string{"name", "brand", "type", "description", "price"} {
		if value := c.PostForm(key); value != "" {
			fields[key] = value
		}
	}
	return fields
}

// watchFormImage relit l'image du formulaire (absente = pas de changement).
func watchFormImage(c *gin.Context) (*upstream.Upload, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	return &upstream.Upload{FileName: header.Filename, Content: file}, nil
}

//
// 🟢 POST /api/watches/create-watches
//
func CreateWatch(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	fields := watchFormFields(c)
	if fields["name"] == "" || fields["price"] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nom et prix obligatoires"})
		return
	}

	image, err := watchFormImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image illisible"})
		return
	}

	watch, err := Upstream.CreateWatch(c.Request.Context(), sess.UpstreamToken, fields, image)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("✅ Montre créée: %s (%s)", watch.Name, watch.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": watch, "message": "Montre créée avec succès"})
}

//
// 🟢 PUT /api/watches/:id
//
func UpdateWatch(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	image, err := watchFormImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image illisible"})
		return
	}

	watch, err := Upstream.UpdateWatch(c.Request.Context(), sess.UpstreamToken, c.Param("id"), watchFormFields(c), image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": watch, "message": "Montre mise à jour avec succès"})
}

//
// ❌ DELETE /api/watches/:id
//
func DeleteWatch(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if err := Upstream.DeleteWatch(c.Request.Context(), sess.UpstreamToken, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	log.Printf("🧹 Montre supprimée: %s", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Montre supprimée avec succès"})
}
