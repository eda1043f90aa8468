package handler

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/response"
	"studio-booking/pkg/validator"
)

type AuthHandler struct {
	authUsecase  usecase.AdminAuthUsecase
	validator    *validator.CustomValidator
	secureCookie bool
}

func NewAuthHandler(authUsecase usecase.AdminAuthUsecase, validator *validator.CustomValidator, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		validator:    validator,
		secureCookie: secureCookie,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Sets the admin-auth session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/auth [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid username or password")
		case usecase.ErrAdminNotConfigured:
			response.InternalServerError(w, "Admin credentials not configured")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.authUsecase.SessionMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, http.StatusOK, "Login successful", result.Session)
}

// Logout handles admin logout
// @Summary Admin logout
// @Tags Auth
// @Security CookieAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username, _ := middleware.GetAdminFromContext(r.Context())
	tokenID, _ := middleware.GetTokenIDFromContext(r.Context())

	if err := h.authUsecase.Logout(r.Context(), username, tokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// Session handles checking the current session
// @Summary Current admin session
// @Tags Auth
// @Security CookieAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	username, _ := middleware.GetAdminFromContext(r.Context())
	response.Success(w, http.StatusOK, "Session is active", map[string]interface{}{
		"authenticated": true,
		"username":      username,
	})
}
