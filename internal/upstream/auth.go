package upstream

import (
	"context"
	"net/http"
)

// AuthResult porte le token Bearer opaque délivré par le service distant et
// le profil associé. Aucune expiration n'est interprétée côté passerelle :
// seul un 401 ultérieur fait foi.
type AuthResult struct {
	Token string
	Role  string
	Email string
	Name  string
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Admin   *struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"admin"`
	Data struct {
		Token string `json:"token"`
		User  *struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Role     string `json:"role"`
		} `json:"user"`
		Admin *struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"admin"`
	} `json:"data"`
}

// toResult normalise les deux emplacements possibles du token et du profil
// selon la version du service distant.
func (r authResponse) toResult(fallbackRole string) (*AuthResult, error) {
	token := r.Token
	if token == "" {
		token = r.Data.Token
	}
	if token == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "Aucun token reçu du service distant"}
	}

	result := &AuthResult{Token: token, Role: fallbackRole}
	switch {
	case r.Admin != nil:
		result.Name = r.Admin.Username
		result.Email = r.Admin.Email
	case r.Data.Admin != nil:
		result.Name = r.Data.Admin.Username
		result.Email = r.Data.Admin.Email
	case r.Data.User != nil:
		result.Name = r.Data.User.Username
		result.Email = r.Data.User.Email
		if r.Data.User.Role != "" {
			result.Role = r.Data.User.Role
		}
	}
	return result, nil
}

func (c *Client) authenticate(ctx context.Context, path string, payload map[string]string, role string) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, "", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: resp.Message}
	}
	return resp.toResult(role)
}

// Login authentifie un client de la boutique.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "user")
}

// Register crée un compte client.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "user")
}

// AdminLogin authentifie un administrateur du catalogue.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/admin/login", map[string]string{
		"email":    email,
		"password": password,
	}, "admin")
}

// AdminRegister crée un compte administrateur.
func (c *Client) AdminRegister(ctx context.Context, username, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/admin/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "admin")
}
