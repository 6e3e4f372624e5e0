package database

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/pins"
)

// AdminMemberID is the root of the referral tree.
const AdminMemberID = "BO000001"

// Seed creates the admin account and an initial PIN batch on an empty
// database. It is safe to call on every startup.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		hash, err := models.HashPassword(cfg.AdminPassword)
		if err != nil {
			return err
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO users (member_id, first_name, last_name, email, phone, password_hash, status, role)
			VALUES ($1, 'Admin', 'User', $2, $3, $4, 'active', 'admin')
		`, AdminMemberID, cfg.AdminEmail, cfg.AdminPhone, hash)
		if err != nil {
			return err
		}
		log.Printf("✅ Admin user created: %s (%s)", cfg.AdminEmail, AdminMemberID)
	}

	var pinCount int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM activation_pins`).Scan(&pinCount); err != nil {
		return err
	}
	if pinCount == 0 {
		for i := 0; i < cfg.InitialPins; i++ {
			_, err := pool.Exec(ctx,
				`INSERT INTO activation_pins (pin, created_by) VALUES ($1, $2)`,
				pins.NewPinCode(), AdminMemberID)
			if err != nil {
				return err
			}
		}
		log.Printf("✅ Generated %d activation PINs", cfg.InitialPins)
	}

	return nil
}
