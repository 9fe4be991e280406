package handlers

import (
	"net/http"

	"github.com/Dosada05/club-tournaments/services"
)

type UserHandler struct {
	authService services.AuthService
}

func NewUserHandler(as services.AuthService) *UserHandler {
	return &UserHandler{authService: as}
}

// GetMe godoc
// @Summary Profile of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "", user)
}
