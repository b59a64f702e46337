package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	requestTimeout = 30 * time.Second

	// Image de secours quand la montre n'a aucune photo (même placeholder
	// que le front historique).
	placeholderImage = "https://via.placeholder.com/100x100?text=No+Image"
)

// Client parle au service catalogue/commandes distant. Toutes les réponses
// suivent l'enveloppe { success, data / message } ; le token Bearer est
// transmis tel quel, jamais interprété ici.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// BaseURL retourne l'origine configurée du service distant.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveImageURL transforme une référence d'image relative en URL absolue
// servie par le service distant.
func (c *Client) ResolveImageURL(image string) string {
	if image == "" {
		return placeholderImage
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return c.baseURL + "/uploads/" + strings.TrimPrefix(image, "/")
}

// Ping vérifie que le service distant répond (appelé au démarrage).
func (c *Client) Ping(ctx context.Context) error {
	var resp struct {
		Success bool `json:"success"`
	}
	return c.do(ctx, http.MethodGet, "/api/watches", "", nil, &resp)
}

// do exécute une requête JSON et décode la réponse dans out (si non nil).
// Mapping des échecs : transport → ErrUpstreamDown, 401 → ErrUnauthorized,
// autre statut d'erreur → APIError avec le message métier conservé.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sérialisation requête: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token, out)
}

// doMultipart envoie un formulaire multipart (upload d'image admin).
func (c *Client) doMultipart(ctx context.Context, method, path, token string, fields map[string]string, image *Upload, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", image.FileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, token, out)
}

func (c *Client) send(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamDown, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamDown, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("réponse distante illisible: %w", err)
		}
	}
	return nil
}

// extractMessage récupère le message d'erreur métier, quel que soit le champ
// utilisé par le service distant.
func extractMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}

// Upload décrit un fichier image à transmettre au service distant.
type Upload struct {
	FileName string
	Content  io.Reader
}
