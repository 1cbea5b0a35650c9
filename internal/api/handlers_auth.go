package api

import (
	"net/http"

	"tienda-api/internal/auth"
	"tienda-api/internal/service"

	"github.com/gin-gonic/gin"
)

// register handles POST /api/auth/register
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// login handles POST /api/auth/login
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getProfile handles GET /api/users/me
func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), CurrentPrincipal(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateProfile handles PUT /api/users/me
func (h *Handler) updateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), CurrentPrincipal(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	// the client replaces its stored token, so profile edits survive a reload
	token, err := h.issuer.Generate(auth.Principal{ID: user.ID, Email: user.Email, Rol: user.Rol})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuario": user, "token": token})
}

// changePassword handles PUT /api/users/me/password
func (h *Handler) changePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), CurrentPrincipal(c).ID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada"})
}

// uploadAvatar handles POST /api/users/me/avatar
func (h *Handler) uploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No se recibió ninguna imagen"})
		return
	}

	principal := CurrentPrincipal(c)
	url, err := h.uploads.SaveAvatar(c, file, principal.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "La imagen no es válida (máximo 2 MB, formato JPG/PNG/WebP)"})
		return
	}

	if err := h.users.UpdateAvatar(c.Request.Context(), principal.ID, url); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url_img": url})
}

// deleteAvatar handles DELETE /api/users/me/avatar
func (h *Handler) deleteAvatar(c *gin.Context) {
	principal := CurrentPrincipal(c)

	user, err := h.users.GetProfile(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user.URLImg != nil && *user.URLImg != "" {
		h.uploads.Remove(*user.URLImg)
	}

	if err := h.users.UpdateAvatar(c.Request.Context(), principal.ID, ""); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar eliminado correctamente"})
}

// touchLastSession handles POST /api/users/me/last-session
func (h *Handler) touchLastSession(c *gin.Context) {
	principal := CurrentPrincipal(c)

	if err := h.users.TouchLastSession(c.Request.Context(), principal.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sesión actualizada"})
}
