package checkout

import (
	"testing"

	"chrono_store_front/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateDeliveryInfo(t *testing.T) {
	cases := []struct {
		name    string
		address string
		phone   string
		ok      bool
	}{
		{"valide nigérian", "12 Broad Street, Lagos", "08012345678", true},
		{"valide nigérian international", "12 Broad Street, Lagos", "+2348012345678", true},
		{"valide étranger", "10 rue de la Paix, Paris", "+33612345678901", true},
		{"adresse vide", "", "08012345678", false},
		{"téléphone vide", "12 Broad Street, Lagos", "", false},
		{"adresse trop courte", "Lagos", "08012345678", false},
		{"téléphone trop court", "12 Broad Street, Lagos", "0801234", false},
		{"dix chiffres seulement", "12 Broad Street, Lagos", "0801234567", false},
		{"préfixe nigérian invalide", "12 Broad Street, Lagos", "06012345678", false},
		{"espaces tolérés", "12 Broad Street, Lagos", "0801 234 5678", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDeliveryInfo(models.DeliveryInfo{
				DeliveryAddress: tc.address,
				DeliveryPhone:   tc.phone,
			})
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}
