package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"

	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleStockist = "stockist"
)

type User struct {
	ID               string    `json:"id" db:"id"`
	MemberID         string    `json:"member_id" db:"member_id"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	SponsorMemberID  string    `json:"sponsor_id,omitempty" db:"sponsor_id"`
	UplineMemberID   string    `json:"upline_id,omitempty" db:"upline_id"`
	Location         string    `json:"location,omitempty" db:"location"`
	Status           string    `json:"status" db:"status"`
	Role             string    `json:"role" db:"role"`
	PackageType      string    `json:"package_type" db:"package_type"`
	TotalEarnings    float64   `json:"total_earnings" db:"total_earnings"`
	AvailableBalance float64   `json:"available_balance" db:"available_balance"`
	TotalReferrals   int       `json:"total_referrals" db:"total_referrals"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
