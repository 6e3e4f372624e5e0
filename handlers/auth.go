package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/auth"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/identity"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// Register creates a pending member. The account stays inactive until a
// payment is confirmed or an activation PIN was supplied.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone" binding:"required"`
		Password  string `json:"password" binding:"required,min=6"`
		SponsorID string `json:"sponsor_id" binding:"required"`
		UplineID  string `json:"upline_id" binding:"required"`
		Pin       string `json:"pin"`
		Location  string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), identity.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		SponsorMemberID: req.SponsorID,
		UplineMemberID:  req.UplineID,
		Pin:             req.Pin,
		Location:        req.Location,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful, complete payment to activate your account",
		"user":    user,
	})
}

// Login authenticates by email + password, then TOTP if the account has it
// enabled.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Code     string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.FindByEmail(c.Request.Context(), req.Email)
	if err != nil || !models.CheckPasswordHash(req.Password, user.PasswordHash) {
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			h.respondErr(c, err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if user.Status == models.StatusSuspended {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is suspended"})
		return
	}

	secret, enabled, err := h.st.TwoFA(c.Request.Context(), user.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		h.respondErr(c, err)
		return
	}
	if enabled {
		if req.Code == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":        "two-factor code required",
				"requires_2fa": true,
			})
			return
		}
		if !totp.Validate(req.Code, secret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid two-factor code"})
			return
		}
	}

	tokens, err := auth.GenerateTokenPair(h.cfg, user)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	h.log.Info("member logged in", zap.String("member_id", user.MemberID))
	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh exchanges a refresh token for a new pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := auth.ValidateRefreshToken(h.cfg, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	user, err := h.identity.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if user.Status == models.StatusSuspended {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is suspended"})
		return
	}

	tokens, err := auth.GenerateTokenPair(h.cfg, user)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}
