package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/stockist"
)

// StockistApply files a stockist application for the caller.
func (h *Handler) StockistApply(c *gin.Context) {
	var req struct {
		BusinessName    string `json:"business_name" binding:"required"`
		BusinessAddress string `json:"business_address" binding:"required"`
		BusinessPhone   string `json:"business_phone" binding:"required"`
		BusinessEmail   string `json:"business_email"`
		BankName        string `json:"bank_name"`
		AccountNumber   string `json:"account_number"`
		AccountName     string `json:"account_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.stockists.Apply(c.Request.Context(), c.GetString("userID"), stockist.ApplyInput{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessPhone:   req.BusinessPhone,
		BusinessEmail:   req.BusinessEmail,
		BankName:        req.BankName,
		AccountNumber:   req.AccountNumber,
		AccountName:     req.AccountName,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stockist": st})
}

// StockistMe returns the caller's stockist record.
func (h *Handler) StockistMe(c *gin.Context) {
	st, err := h.stockists.ByUserID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stockist": st})
}

// StockistPostTransaction records a purchase, sale or return against the
// caller's stockist account.
func (h *Handler) StockistPostTransaction(c *gin.Context) {
	var req struct {
		Type      string  `json:"type" binding:"required"`
		Quantity  int     `json:"quantity" binding:"required,min=1"`
		UnitPrice float64 `json:"unit_price"`
		Notes     string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.stockists.ByUserID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	tx, err := h.stockists.PostTransaction(c.Request.Context(), st.ID, stockist.TransactionInput{
		Type:      req.Type,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// StockistTransactions lists the caller's stock movements.
func (h *Handler) StockistTransactions(c *gin.Context) {
	st, err := h.stockists.ByUserID(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	list, err := h.stockists.Transactions(c.Request.Context(), st.ID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "count": len(list)})
}

// AdminStockists lists all stockists.
func (h *Handler) AdminStockists(c *gin.Context) {
	list, err := h.stockists.List(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stockists": list, "count": len(list)})
}

// AdminApproveStockist approves a pending application.
func (h *Handler) AdminApproveStockist(c *gin.Context) {
	st, err := h.stockists.Approve(c.Request.Context(), c.Param("id"), c.GetString("memberID"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stockist": st})
}
