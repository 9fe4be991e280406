package handlers

import (
	"net/http"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/services"
)

type ClubHandler struct {
	clubService services.ClubService
}

func NewClubHandler(cs services.ClubService) *ClubHandler {
	return &ClubHandler{clubService: cs}
}

func (h *ClubHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateClubInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	club, err := h.clubService.CreateClub(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Club created", club)
}

// SetMembership handles PUT /clubs/{clubID}/memberships/{userID}.
func (h *ClubHandler) SetMembership(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var body struct {
		Role models.MembershipRole `json:"role"`
	}
	if err := readJSON(w, r, &body); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	m, err := h.clubService.SetMembership(r.Context(), currentUserID, services.SetMembershipInput{
		ClubID: clubID,
		UserID: userID,
		Role:   body.Role,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "", m)
}
