package handlers

import (
	"net/http"

	"github.com/Dosada05/club-tournaments/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// CreateTeam godoc
// @Summary Form a doubles team
// @Tags teams
// @Accept json
// @Produce json
// @Param body body services.CreateTeamInput true "Players"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope "Caller is not one of the players"
// @Failure 404 {object} envelope "Player profile not found"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Team created", team)
}

func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "", team)
}
