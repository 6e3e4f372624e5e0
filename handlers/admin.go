package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// AdminUsers lists all members.
func (h *Handler) AdminUsers(c *gin.Context) {
	users, err := h.identity.List(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// AdminSuspendUser suspends a member account.
func (h *Handler) AdminSuspendUser(c *gin.Context) {
	u, err := h.identity.Suspend(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// AdminCommissions lists the full ledger.
func (h *Handler) AdminCommissions(c *gin.Context) {
	commissions, err := h.ledger.All(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": commissions, "count": len(commissions)})
}

// AdminApproveCommission moves a commission pending → approved.
func (h *Handler) AdminApproveCommission(c *gin.Context) {
	cm, err := h.ledger.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": cm})
}

// AdminPayCommission moves a commission approved → paid and credits the
// member's balance.
func (h *Handler) AdminPayCommission(c *gin.Context) {
	cm, err := h.ledger.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commission": cm})
}

// AdminStats aggregates ledger totals per status.
func (h *Handler) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := gin.H{}
	for _, status := range []string{"", models.CommissionPending, models.CommissionApproved, models.CommissionPaid} {
		t, err := h.ledger.Totals(ctx, status)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		key := status
		if key == "" {
			key = "all"
		}
		stats[key] = t
	}

	users, err := h.identity.List(ctx)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	var active int
	for _, u := range users {
		if u.Status == models.StatusActive {
			active++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"commissions":    stats,
		"total_members":  len(users),
		"active_members": active,
	})
}

// AdminIssuePins mints a batch of activation PINs.
func (h *Handler) AdminIssuePins(c *gin.Context) {
	var req struct {
		Count int `json:"count" binding:"required,min=1,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issued, err := h.pins.IssueBatch(c.Request.Context(), req.Count, c.GetString("memberID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pins": issued, "count": len(issued)})
}

// AdminListPins lists every PIN with usage state.
func (h *Handler) AdminListPins(c *gin.Context) {
	list, err := h.pins.List(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pins": list, "count": len(list)})
}
