package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/services"
)

const maxLogoUploadBytes = 5 << 20

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// CreateHandler godoc
// @Summary Create a tournament in a club
// @Tags tournaments
// @Description Only club admins may create tournaments. The tournament starts in draft.
// @Accept json
// @Produce json
// @Param body body services.CreateTournamentInput true "Tournament"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Tournament created successfully", tournament)
}

// GetByIDHandler returns the tournament with its participants and recent
// activity.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.tournamentService.GetTournamentDetails(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "", details)
}

// ListHandler handles GET /tournaments?club_id=&status=&limit=&offset=
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var input services.ListTournamentsInput
	query := r.URL.Query()

	if clubID := query.Get("club_id"); clubID != "" {
		input.ClubID = &clubID
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := models.TournamentStatus(statusStr)
		if !status.Valid() {
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
		input.Status = &status
	}

	var err error
	if input.Limit, err = queryInt(r, "limit", 20, 1); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Offset, err = queryInt(r, "offset", 0, 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	successResponse(w, r, http.StatusOK, "", tournaments)
}

func (h *TournamentHandler) ListParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.tournamentService.ListParticipants(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	successResponse(w, r, http.StatusOK, "", participants)
}

func (h *TournamentHandler) ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 50, 1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	activities, err := h.tournamentService.ListActivities(r.Context(), id, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	successResponse(w, r, http.StatusOK, "", activities)
}

// UpdateStatusHandler godoc
// @Summary Move a tournament through its lifecycle
// @Tags tournaments
// @Description Allowed for the tournament creator and club admins.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body object true "{\"status\": \"registration\", \"reason\": \"optional\"}"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope
// @Failure 404 {object} envelope
// @Failure 409 {object} envelope "Transition not allowed"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/status [patch]
func (h *TournamentHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var body struct {
		Status models.TournamentStatus `json:"status"`
		Reason string                  `json:"reason,omitempty"`
	}
	if err := readJSON(w, r, &body); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournamentStatus(r.Context(), currentUserID, services.UpdateStatusInput{
		TournamentID: id,
		Status:       body.Status,
		Reason:       body.Reason,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, fmt.Sprintf("Tournament status updated to %s", tournament.Status), tournament)
}

// UploadLogoHandler handles PUT /tournaments/{tournamentID}/logo with a
// multipart "logo" file.
func (h *TournamentHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoUploadBytes)
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get logo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for logo"))
		return
	}

	tournament, err := h.tournamentService.UploadTournamentLogo(r.Context(), currentUserID, id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "Logo updated", tournament)
}
