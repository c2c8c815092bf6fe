package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/floresya/backend/internal/application/identity"
	"github.com/floresya/backend/internal/infrastructure/auth"
)

// AuthHandler handles authentication API endpoints
type AuthHandler struct {
	BaseHandler
	userService *identityapp.UserService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService *identityapp.UserService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPairResponse carries a refreshed token pair
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register handles POST /auth/register. Self-registration always
// creates a regular user account; admins are created by other admins.
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Role = ""

	resp, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh handles POST /auth/refresh. The email and role embedded in
// the new tokens come from the current user record, not the old token,
// so role changes take effect on the next refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil || !user.IsActive {
		h.Unauthorized(c, "Account is not available")
		return
	}

	access, refresh, expiresIn, err := h.jwtService.RefreshTokenPair(req.RefreshToken, user.Email, user.Role)
	if err != nil {
		h.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	h.Success(c, TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	})
}
