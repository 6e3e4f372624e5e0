package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// TwoFASetup generates a TOTP secret for the caller and returns it with a
// QR code for the authenticator app. The secret stays disabled until
// verified.
func (h *Handler) TwoFASetup(c *gin.Context) {
	userID := c.GetString("userID")
	email := c.GetString("userEmail")

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Bright Orion",
		AccountName: email,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}

	if err := h.st.SaveTwoFASecret(c.Request.Context(), userID, key.Secret()); err != nil {
		h.respondErr(c, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":  key.Secret(),
		"qr_code": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify checks the first code against the stored secret and enables
// two-factor on success.
func (h *Handler) TwoFAVerify(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	secret, _, err := h.st.TwoFA(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "two-factor setup not started"})
			return
		}
		h.respondErr(c, err)
		return
	}

	if !totp.Validate(req.Code, secret) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid two-factor code"})
		return
	}

	if err := h.st.EnableTwoFA(c.Request.Context(), userID); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "two-factor authentication enabled"})
}
