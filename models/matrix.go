package models

import "time"

// MatrixPosition records where an activated member landed in the placement
// tree. Positions are bookkeeping only: payouts run off the sponsor chain.
type MatrixPosition struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	UplineMemberID string    `json:"upline_id,omitempty" db:"upline_id"`
	Level          int       `json:"level" db:"level"`
	Position       int       `json:"position" db:"position"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
