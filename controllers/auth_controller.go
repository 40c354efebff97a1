package controllers

import (
	"bookstore/models"
	"bookstore/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register godoc
// @Summary Register new user
// @Description Register a new customer account. A guest cart identified by guest_id or the X-Guest-ID header is merged into the new account.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Param X-Guest-ID header string false "Guest cart id"
// @Success 201 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.GuestID == "" {
		req.GuestID = c.GetString("guest_id")
	}

	session, err := ctrl.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 201, "Registration successful", session)
}

// Login godoc
// @Summary User login
// @Description Login with email and password. Any guest cart is merged into the account cart.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Param X-Guest-ID header string false "Guest cart id"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.GuestID == "" {
		req.GuestID = c.GetString("guest_id")
	}

	session, err := ctrl.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Login successful", session)
}

// GetProfile godoc
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.UserWithProfile}
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.auth.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Profile retrieved", user)
}

// UpdateProfile godoc
// @Summary Update my profile
// @Description Only the fields sent are changed
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Response{data=models.UserWithProfile}
// @Failure 400 {object} models.ErrorResponse
// @Router /profile [patch]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctrl.auth.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Profile updated", user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /profile/password [put]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := ctrl.auth.ChangePassword(c.Request.Context(), currentUserID(c), req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Password updated", nil)
}

// ChangeEmail godoc
// @Summary Change email
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangeEmailRequest true "New email and current password"
// @Success 200 {object} models.Response{data=models.UserWithProfile}
// @Failure 409 {object} models.ErrorResponse
// @Router /profile/email [put]
func (ctrl *AuthController) ChangeEmail(c *gin.Context) {
	var req models.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctrl.auth.ChangeEmail(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, 200, "Email updated", user)
}
