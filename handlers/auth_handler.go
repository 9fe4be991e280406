package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/club-tournaments/middleware"
	"github.com/Dosada05/club-tournaments/models"
	"github.com/Dosada05/club-tournaments/services"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
	now         func() time.Time
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		now:         time.Now,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register godoc
// @Summary Register a player account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account details"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 409 {object} envelope "Email already taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	successResponse(w, r, http.StatusCreated, "Account created", authResponse{Token: token, User: user})
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} envelope
// @Failure 401 {object} envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	successResponse(w, r, http.StatusOK, "", authResponse{Token: token, User: user})
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		middleware.JWTClaimUserID: user.ID,
		middleware.JWTClaimName:   user.DisplayName,
		"exp":                     now.Add(tokenTTL).Unix(),
		"iat":                     now.Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
