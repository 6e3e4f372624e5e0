package models

import "time"

const (
	StockistPending   = "pending"
	StockistApproved  = "approved"
	StockistSuspended = "suspended"

	StockTxPurchase = "purchase"
	StockTxSale     = "sale"
	StockTxReturn   = "return"
)

type Stockist struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	BusinessName    string     `json:"business_name" db:"business_name"`
	BusinessAddress string     `json:"business_address" db:"business_address"`
	BusinessPhone   string     `json:"business_phone" db:"business_phone"`
	BusinessEmail   string     `json:"business_email" db:"business_email"`
	BankName        string     `json:"bank_name" db:"bank_name"`
	AccountNumber   string     `json:"account_number" db:"account_number"`
	AccountName     string     `json:"account_name" db:"account_name"`
	Status          string     `json:"status" db:"status"`
	ApprovedBy      string     `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	TotalSales      float64    `json:"total_sales" db:"total_sales"`
	TotalCommission float64    `json:"total_commission" db:"total_commission"`
	AvailableStock  int        `json:"available_stock" db:"available_stock"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

type StockTransaction struct {
	ID          string    `json:"id" db:"id"`
	StockistID  string    `json:"stockist_id" db:"stockist_id"`
	Type        string    `json:"type" db:"type"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Commission  float64   `json:"commission" db:"commission"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
