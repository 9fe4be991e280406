package handlers

import (
	"net/http"

	"github.com/Dosada05/club-tournaments/services"
)

type ParticipantHandler struct {
	registrationService services.RegistrationService
}

func NewParticipantHandler(rs services.RegistrationService) *ParticipantHandler {
	return &ParticipantHandler{
		registrationService: rs,
	}
}

// RegisterIndividual godoc
// @Summary Register for a tournament
// @Tags participants
// @Description Registers the caller, with an optional partner for doubles events.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.RegistrationInput false "Optional partner"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope "Registering someone else"
// @Failure 404 {object} envelope "Tournament, profile or partner not found"
// @Failure 409 {object} envelope "Closed, full or already registered"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/registrations [post]
func (h *ParticipantHandler) RegisterIndividual(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegistrationInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	input.TournamentID = tournamentID
	if input.UserID == "" {
		input.UserID = currentUserID
	}

	participant, err := h.registrationService.RegisterForTournament(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Successfully registered for tournament", participant)
}

// RegisterTeam godoc
// @Summary Register a doubles team for a tournament
// @Tags participants
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.TeamRegistrationInput true "Team"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope "Caller is not a team member"
// @Failure 404 {object} envelope
// @Failure 409 {object} envelope
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/team-registrations [post]
func (h *ParticipantHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeamRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID
	if input.RegisteredBy == "" {
		input.RegisteredBy = currentUserID
	}

	participant, err := h.registrationService.RegisterTeamForTournament(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Team successfully registered for tournament", participant)
}
