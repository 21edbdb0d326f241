package handler

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Staff login
// @Description Exchanges email and password for a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "log in")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Me godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.SessionUserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get session")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ListUsers godoc
// @Summary List staff accounts
// @Tags Users
// @Produce json
// @Success 200 {object} domain.UserListResponse
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list users")
		return
	}
	respondJSON(w, http.StatusOK, domain.UserListResponse{Users: users})
}

// CreateUser godoc
// @Summary Create staff account
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.UserRequest true "Account data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [post]
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.CreateUser(r.Context(), req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		respondServiceError(w, h.logger, err, "create user")
		return
	}
	respondCreated(w, r, user.ID, user)
}
