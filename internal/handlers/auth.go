package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required" example:"Ann"`
	Email    string `json:"email" binding:"required,email" example:"ann@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ann@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// AuthResponse is returned by sign-up and login.
type AuthResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, logKey string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.badRequest(c, logKey, err)
		return false
	}
	return true
}

// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      SignUpRequest  true  "New account"
// @Success      201   {object}  AuthResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "auth_sign_up_bad_body"); !ok {
		return
	}

	u, token, err := h.services.SignUp(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		h.fail(c, err, "auth_sign_up_failed", "email", input.Email)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{ID: u.ID, Name: u.Name, Email: u.Email, Token: token})
}

// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "auth_login_bad_body"); !ok {
		return
	}

	u, token, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.fail(c, err, "auth_login_failed", "email", input.Email)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{ID: u.ID, Name: u.Name, Email: u.Email, Token: token})
}

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgNoToken})
		return
	}
	c.JSON(http.StatusOK, UserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}
