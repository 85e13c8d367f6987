package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/middleware"
	"ngplus/api/internal/security"
	"ngplus/api/internal/web"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing access token."))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), actor.ID); err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// Refresh exchanges a valid refresh token for a new pair. The token rides the
// Authorization header; its jti must match the user's stored rotation anchor.
func (h HandlerSet) Refresh(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		web.Error(c, apperr.Unauthorized("Missing refresh token."))
		return
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	claims, err := security.ParseToken(tokenStr, h.cfg.Security.JWTRefreshSecret)
	if err != nil {
		web.Error(c, apperr.Forbidden("Access denied."))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), claims.UserID, tokenStr)
	if err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent."})
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	claims, ok := middleware.ResetClaims(c)
	if !ok {
		web.Error(c, apperr.Unauthorized("Missing reset token."))
		return
	}

	var req resetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		web.Error(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), claims.UserID, req.NewPassword); err != nil {
		web.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
