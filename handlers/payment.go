package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InitializePayment opens a pending payment for the caller's package and
// returns the gateway reference.
func (h *Handler) InitializePayment(c *gin.Context) {
	p, err := h.intake.Initialize(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference": p.Reference,
		"amount":    p.Amount,
		"currency":  p.Currency,
	})
}

// VerifyPayment confirms a reference with the gateway and settles
// activation, commissions and placement in one transaction.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.intake.Confirm(c.Request.Context(), req.Reference)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "payment confirmed",
		"payment":     result.Payment,
		"user":        result.User,
		"commissions": result.Commissions,
	})
}

// PaymentHistory lists the caller's payments.
func (h *Handler) PaymentHistory(c *gin.Context) {
	payments, err := h.intake.History(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
