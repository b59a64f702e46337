package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chrono_store_front/internal/models"
)

// Validation purement locale : une saisie manifestement invalide est rejetée
// sans aucun aller-retour réseau.

const (
	minAddressLength = 10
	minPhoneDigits   = 11
)

var ErrValidation = errors.New("informations de livraison invalides")

// Format nigérian hérité de la boutique historique : +234 ou 0, puis
// opérateur mobile, puis 8 chiffres.
var nigerianPhone = regexp.MustCompile(`^(?:\+234|0)[789][01]\d{8}$`)

var digitsOnly = regexp.MustCompile(`\d`)

// ValidateDeliveryInfo vérifie adresse et téléphone avant toute soumission.
func ValidateDeliveryInfo(info models.DeliveryInfo) error {
	address := strings.TrimSpace(info.DeliveryAddress)
	phone := strings.TrimSpace(info.DeliveryPhone)

	if address == "" || phone == "" {
		return fmt.Errorf("%w: adresse et téléphone sont obligatoires", ErrValidation)
	}
	if len(address) < minAddressLength {
		return fmt.Errorf("%w: adresse trop courte (minimum %d caractères)", ErrValidation, minAddressLength)
	}

	compact := strings.NewReplacer(" ", "", "-", "", ".", "").Replace(phone)
	if len(digitsOnly.FindAllString(compact, -1)) < minPhoneDigits {
		return fmt.Errorf("%w: numéro de téléphone trop court (minimum %d chiffres)", ErrValidation, minPhoneDigits)
	}
	if (strings.HasPrefix(compact, "+234") || strings.HasPrefix(compact, "0")) && !nigerianPhone.MatchString(compact) {
		return fmt.Errorf("%w: numéro de téléphone invalide", ErrValidation)
	}
	return nil
}
