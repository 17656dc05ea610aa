package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/store"
)

// ImageUploader pushes an image to the media CDN and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

// AdminHandlers covers the operator surface: login, order listing and
// gallery maintenance. There is a single admin identity configured by
// environment, not a user table.
type AdminHandlers struct {
	store        store.Store
	jwtService   *auth.JWTService
	uploader     ImageUploader
	adminEmail   string
	passwordHash string
}

func NewAdminHandlers(st store.Store, jwtService *auth.JWTService, uploader ImageUploader, adminEmail, passwordHash string) *AdminHandlers {
	return &AdminHandlers{
		store:        st,
		jwtService:   jwtService,
		uploader:     uploader,
		adminEmail:   adminEmail,
		passwordHash: passwordHash,
	}
}

func (h *AdminHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email != h.adminEmail || !auth.CheckPassword(req.Password, h.passwordHash) {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, expiresAt, err := h.jwtService.Generate(req.Email, auth.RoleAdmin)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  expiresAt,
	})
	respondJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

func (h *AdminHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.Orders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []store.OrderRecord{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// UploadGalleryImage accepts a multipart "image" part for
// /admin/products/{id}/gallery, pushes it to the CDN and records the URL.
func (h *AdminHandlers) UploadGalleryImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		http.Error(w, "image uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	productID, err := galleryProductID(r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), file)
	if err != nil {
		http.Error(w, "upload failed", http.StatusBadGateway)
		return
	}

	if err := h.store.AddGalleryImage(r.Context(), productID, url); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"image_url": url})
}

// galleryProductID parses /admin/products/{id}/gallery.
func galleryProductID(path string) (int64, error) {
	trimmed := strings.TrimPrefix(path, "/admin/products/")
	trimmed = strings.TrimSuffix(trimmed, "/gallery")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, errInvalidProductPath
	}
	return id, nil
}
