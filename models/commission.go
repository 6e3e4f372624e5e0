package models

import "time"

const (
	CommissionPending  = "pending"
	CommissionApproved = "approved"
	CommissionPaid     = "paid"

	CommissionTypeReferral = "referral"
	CommissionTypeMatrix   = "matrix"
)

// Commission is one ledger entry: UserID earns from FromUserID's activation,
// Level hops up the sponsor chain, keyed by the originating payment reference.
type Commission struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	FromUserID       string     `json:"from_user_id" db:"from_user_id"`
	Level            int        `json:"level" db:"level"`
	Amount           float64    `json:"amount" db:"amount"`
	Type             string     `json:"type" db:"type"`
	Status           string     `json:"status" db:"status"`
	PaymentReference string     `json:"payment_reference" db:"payment_reference"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty" db:"approved_at"`
}

type CommissionTotals struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}
