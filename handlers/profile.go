package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// Profile returns the caller's own record.
func (h *Handler) Profile(c *gin.Context) {
	u, err := h.identity.FindByID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// MyCommissions lists the caller's ledger entries with per-status sums.
func (h *Handler) MyCommissions(c *gin.Context) {
	userID := c.GetString("userID")
	commissions, err := h.ledger.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	var pending, approved, paid float64
	for _, cm := range commissions {
		switch cm.Status {
		case models.CommissionPending:
			pending += cm.Amount
		case models.CommissionApproved:
			approved += cm.Amount
		case models.CommissionPaid:
			paid += cm.Amount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"commissions": commissions,
		"summary": gin.H{
			"pending":  pending,
			"approved": approved,
			"paid":     paid,
		},
	})
}

// MyStats is the member dashboard: balance, earnings, referrals.
func (h *Handler) MyStats(c *gin.Context) {
	u, err := h.identity.FindByID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"member_id":         u.MemberID,
		"status":            u.Status,
		"total_earnings":    u.TotalEarnings,
		"available_balance": u.AvailableBalance,
		"total_referrals":   u.TotalReferrals,
	})
}
