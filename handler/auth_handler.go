package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"med-transcribe-api/common"
	"med-transcribe-api/model"
	"med-transcribe-api/service"
	"net/http"
	"strconv"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func clientInfo(r *http.Request) service.ClientInfo {
	return service.ClientInfo{
		IP:        ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account after validating the password complexity policy
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterRequest  true  "Registration payload"
// @Success      201      {object}  model.User
// @Failure      400      {object}  common.AppError
// @Router       /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.service.Register(r.Context(), req, clientInfo(r))
	if err != nil {
		var weakErr *service.WeakPasswordError
		switch {
		case errors.As(err, &weakErr):
			return common.NewAppError(http.StatusBadRequest, weakErr.Reason, nil)
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "An error occurred during registration", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Login and get tokens
// @Description  Authenticates an identity and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Login payload"
// @Success      200      {object}  model.TokenResponse
// @Failure      401      {object}  common.AppError
// @Failure      429      {object}  common.AppError
// @Router       /api/token [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password, clientInfo(r))
	if err != nil {
		var lockedErr *service.AccountLockedError
		switch {
		case errors.As(err, &lockedErr):
			w.Header().Set("Retry-After", strconv.Itoa(lockedErr.RetrySeconds))
			message := fmt.Sprintf("Account is temporarily locked due to too many failed attempts. Try again in %d seconds.", lockedErr.RetrySeconds)
			return common.NewAppError(http.StatusTooManyRequests, message, nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "An error occurred during login", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokens)
	return nil
}

// Refresh godoc
// @Summary      Refresh the access token
// @Description  Exchanges a valid refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.RefreshRequest  true  "Refresh payload"
// @Success      200      {object}  model.TokenResponse
// @Failure      401      {object}  common.AppError
// @Router       /api/refresh-token [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken, clientInfo(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpiredToken):
			return common.NewAppError(http.StatusUnauthorized, "Refresh token has expired", nil)
		case errors.Is(err, service.ErrInvalidToken):
			return common.NewAppError(http.StatusUnauthorized, "Invalid refresh token", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "An error occurred during token refresh", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokens)
	return nil
}

// Me godoc
// @Summary      Get the current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	username, ok := r.Context().Value(UsernameKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	user, err := h.service.GetProfile(r.Context(), username, clientInfo(r))
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not load profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}

// ChangePassword godoc
// @Summary      Change the current user's password
// @Description  Requires the current password; the new one must satisfy the complexity policy
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  model.ChangePasswordRequest  true  "Password change payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /api/users/me/password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	username, ok := r.Context().Value(UsernameKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	var req model.ChangePasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	err := h.service.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword, clientInfo(r))
	if err != nil {
		var weakErr *service.WeakPasswordError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return common.NewAppError(http.StatusUnauthorized, "Current password is incorrect", nil)
		case errors.As(err, &weakErr):
			return common.NewAppError(http.StatusBadRequest, weakErr.Reason, nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "An error occurred during password change", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password changed successfully"})
	return nil
}
