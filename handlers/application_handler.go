package handlers

import (
	"net/http"

	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/services"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
}

func NewApplicationHandler(as services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: as}
}

func (h *ApplicationHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.applicationService.CreateEvent(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Event created", event)
}

func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var input services.CreateApplicationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	app, err := h.applicationService.CreateApplication(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Application submitted", app)
}

func (h *ApplicationHandler) ListEventApplications(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	apps, err := h.applicationService.ListEventApplications(r.Context(), currentUserID, eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	successResponse(w, r, http.StatusOK, "", apps)
}

// Approve godoc
// @Summary Approve an event application
// @Tags applications
// @Description Host only. Opens a chat room with the applicant, approves a pending partner application and rejects the remaining pending applications once the event is full.
// @Accept json
// @Produce json
// @Param applicationID path string true "Application ID"
// @Param body body services.ApproveApplicationInput false "Optional consistency checks"
// @Success 200 {object} envelope
// @Failure 403 {object} envelope "Caller is not the event host"
// @Failure 404 {object} envelope "Application or event not found"
// @Failure 409 {object} envelope "Application is not pending"
// @Failure 500 {object} envelope "Application data is invalid"
// @Security BearerAuth
// @Router /applications/{applicationID}/approve [post]
func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	currentUserID, ok := currentUser(w, r)
	if !ok {
		return
	}
	applicationID, err := getIDFromURL(r, "applicationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ApproveApplicationInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	input.ApplicationID = applicationID

	result, err := h.applicationService.ApproveApplication(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "Application approved", result)
}
