package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/api/dto"
	"github.com/pratik-mahalle/cisaudit/internal/api/middleware"
	"github.com/pratik-mahalle/cisaudit/internal/auth"
	"github.com/pratik-mahalle/cisaudit/internal/config"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/errors"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/utils"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/validator"
)

const refreshTokenCookie = "refreshToken"

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// Login handles user login
// @Summary User login
// @Description Authenticate with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	authenticatedUser, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"username": req.Username,
		}).Warn("Authentication failed")
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Unauthorized("Invalid credentials"))
		}
		return
	}

	response, err := h.issueTokens(w, authenticatedUser)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"user_id":  authenticatedUser.ID,
		"username": authenticatedUser.Username,
	}).Info("User logged in successfully")

	utils.WriteSuccess(w, http.StatusOK, response)
}

// Register handles user registration
// @Summary User registration
// @Description Register a new auditor account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "User successfully registered"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 409 {object} utils.ErrorResponse "Username already taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	newUser, err := h.userService.Register(r.Context(), user.Registration{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		DisplayName:     req.DisplayName,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create user")
		return
	}

	response, err := h.issueTokens(w, newUser)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, response)
}

// Logout handles user logout
// @Summary User logout
// @Description Clear the authentication cookies
// @Tags Auth
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, middleware.AccessTokenCookie, "", -1)
	h.setCookie(w, refreshTokenCookie, "", -1)

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the current user's information
// @Summary Get current user
// @Description Get the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.UserDTO "User information"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to get user")
		writeServiceError(w, err, "Failed to get user")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToUserDTO(u))
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse "New tokens generated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	claims, err := auth.ParseTyped(req.RefreshToken, h.config.Auth.JWTSecret, auth.TokenRefresh)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to get user")
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	response, err := h.issueTokens(w, u)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, response)
}

// issueTokens mints a token pair for u and sets it as cookies
func (h *AuthHandler) issueTokens(w http.ResponseWriter, u *user.User) (*dto.AuthResponse, error) {
	tokens, err := auth.MintTokens(
		u.ID,
		u.Username,
		h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		return nil, err
	}

	h.setCookie(w, middleware.AccessTokenCookie, tokens.AccessToken, maxAge(h.config.Auth.AccessTokenExpiry))
	h.setCookie(w, refreshTokenCookie, tokens.RefreshToken, maxAge(h.config.Auth.RefreshTokenExpiry))

	return &dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.ToUserDTO(u),
	}, nil
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, age int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   h.config.Server.Environment == "production",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   age,
	})
}

func maxAge(d time.Duration) int {
	return int(d.Seconds())
}
