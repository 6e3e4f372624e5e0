package models

import "time"

type ActivationPin struct {
	ID             string     `json:"id" db:"id"`
	Pin            string     `json:"pin" db:"pin"`
	IsUsed         bool       `json:"is_used" db:"is_used"`
	UsedByMemberID string     `json:"used_by,omitempty" db:"used_by"`
	CreatedBy      string     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UsedAt         *time.Time `json:"used_at,omitempty" db:"used_at"`
}
