package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/shoplite-api/internal/transport/http/middleware"
	"github.com/arklim/shoplite-api/internal/usecase"
)

// AuthHandler serves registration, verification, and login endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler builds an auth handler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest defines the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// VerifyRequest defines the payload for email verification.
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ResendRequest defines the payload for verification code resend.
type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest defines the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse pairs an account view with its session token.
type SessionResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates a pending account and emails a verification code. No session token is issued.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "Registration payload"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "email already registered"},
			{Err: usecase.ErrMailDelivery, Status: http.StatusInternalServerError, Message: "failed to send verification email"},
			validationCase(),
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	view := newUserView(user)
	respondMessage(c, http.StatusCreated,
		"Registration successful. Check your email for the verification code.",
		gin.H{"user": view},
	)
}

// Verify godoc
// @Summary Verify an email address
// @Description Consumes a verification code, activates the account, and issues a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body VerifyRequest true "Verification payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	user, token, err := h.auth.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrAlreadyVerified, Status: http.StatusBadRequest, Message: "email already verified"},
			{Err: usecase.ErrCodeExpired, Status: http.StatusBadRequest, Message: "verification code expired"},
			{Err: usecase.ErrCodeInvalid, Status: http.StatusBadRequest, Message: "invalid verification code"},
		}, http.StatusInternalServerError, "verification failed")
		return
	}

	respondMessage(c, http.StatusOK, "Email verified successfully.", SessionResponse{
		User:  newUserView(user),
		Token: token,
	})
}

// Resend godoc
// @Summary Resend the verification code
// @Description Regenerates the verification code for a pending account and emails it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body ResendRequest true "Resend payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/auth/resend-code [post]
func (h *AuthHandler) Resend(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	if err := h.auth.ResendCode(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrAlreadyVerified, Status: http.StatusBadRequest, Message: "email already verified"},
			{Err: usecase.ErrMailDelivery, Status: http.StatusInternalServerError, Message: "failed to send verification email"},
		}, http.StatusInternalServerError, "resend failed")
		return
	}

	respondMessage(c, http.StatusOK, "Verification code sent. Check your email.", nil)
}

// Login godoc
// @Summary Log in
// @Description Checks credentials and issues a session token for verified accounts.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Login payload"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
			{Err: usecase.ErrNotVerified, Status: http.StatusForbidden, Message: "email not verified"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	respondData(c, http.StatusOK, SessionResponse{
		User:  newUserView(user),
		Token: token,
	})
}

// Me godoc
// @Summary Current account
// @Description Returns the account behind the presented session token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized, "authentication required"))
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": newUserView(user)})
}
