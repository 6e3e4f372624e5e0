package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/identity"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// LookupReferrer resolves a member ID to a displayable name so the signup
// form can confirm the sponsor before submitting. Only active members
// qualify.
func (h *Handler) LookupReferrer(c *gin.Context) {
	memberID := strings.ToUpper(strings.TrimSpace(c.Query("member_id")))
	if !identity.ValidMemberID(memberID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID format"})
		return
	}

	u, err := h.identity.FindByMemberID(c.Request.Context(), memberID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if u.Status != models.StatusActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "member is not active"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member_id": u.MemberID,
		"name":      u.FirstName + " " + u.LastName,
		"location":  u.Location,
	})
}
