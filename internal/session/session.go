package session

import (
	"errors"
	"fmt"
	"time"

	"chrono_store_front/internal/cache"
	"chrono_store_front/internal/models"
	"chrono_store_front/internal/upstream"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Cycle de vie des sessions : créées au login (ou à la première action
// panier pour un invité), détruites au logout ou dès que l'API distante
// rejette le credential. Le client ne porte qu'un JWT signé par la
// passerelle ; l'état (token distant, profil, panier invité) reste en Redis.

var jwtSecret []byte

var ErrInvalidToken = errors.New("token de session invalide")

// Init fixe le secret de signature des tokens de session.
func Init(secret string) {
	jwtSecret = []byte(secret)
}

// NewGuest crée une session anonyme, pour porter un panier invité.
func NewGuest() (*models.Session, error) {
	s := &models.Session{
		ID:        uuid.NewString(),
		GuestID:   uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := cache.SaveSession(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Promote rattache une session au compte authentifié par le service distant.
// Le GuestID est conservé le temps de la réconciliation du panier invité.
func Promote(s *models.Session, auth *upstream.AuthResult) error {
	if s == nil {
		return errors.New("session absente")
	}
	s.UpstreamToken = auth.Token
	s.Role = auth.Role
	s.Email = auth.Email
	s.Name = auth.Name
	return cache.SaveSession(s)
}

// Destroy supprime la session côté Redis.
func Destroy(sessionID string) error {
	return cache.DeleteSession(sessionID)
}

// IssueToken signe le JWT remis au client : uniquement l'identifiant de
// session et le rôle, jamais le token distant.
func IssueToken(s *models.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": s.ID,
		"role":       s.Role,
		"exp":        time.Now().Add(cache.SessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken vérifie la signature et retourne l'identifiant de session.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}

// Resolve retrouve la session Redis associée à un JWT client.
func Resolve(tokenString string) (*models.Session, error) {
	sessionID, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	s, err := cache.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrInvalidToken
	}
	return s, nil
}
