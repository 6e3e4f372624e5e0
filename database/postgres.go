package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
)

// Connect opens the pool and verifies the database is reachable. Callers
// must treat an error here as fatal: the process must not serve without a
// working store.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("✅ Connected to PostgreSQL")
	return pool, nil
}

// InitSchema creates all tables. Uniqueness rules live here as constraints:
// a racy check-then-insert elsewhere degrades to a 23505, never a duplicate.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return err
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			member_id VARCHAR(20) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(30) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			sponsor_id VARCHAR(20),
			upline_id VARCHAR(20),
			location VARCHAR(255) DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			package_type VARCHAR(50) NOT NULL DEFAULT 'starter',
			total_earnings NUMERIC(12,2) NOT NULL DEFAULT 0,
			available_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			total_referrals INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_sponsor_id ON users(sponsor_id);`,

		`CREATE TABLE IF NOT EXISTS activation_pins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			pin VARCHAR(20) UNIQUE NOT NULL,
			is_used BOOLEAN NOT NULL DEFAULT FALSE,
			used_by VARCHAR(20),
			created_by VARCHAR(20),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			used_at TIMESTAMPTZ
		);`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			reference VARCHAR(100) UNIQUE NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			currency VARCHAR(3) NOT NULL DEFAULT 'NGN',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_method VARCHAR(50) NOT NULL DEFAULT 'paystack',
			transaction_id VARCHAR(100) DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		`CREATE TABLE IF NOT EXISTS commissions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			from_user_id UUID NOT NULL REFERENCES users(id),
			level INTEGER NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'referral',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_reference VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			approved_at TIMESTAMPTZ,
			UNIQUE(user_id, from_user_id, level, payment_reference)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_commissions_user_id ON commissions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_commissions_status ON commissions(status);`,

		`CREATE TABLE IF NOT EXISTS matrix_positions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID UNIQUE NOT NULL REFERENCES users(id),
			upline_id VARCHAR(20),
			level INTEGER NOT NULL,
			position INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		`CREATE TABLE IF NOT EXISTS stockists (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID UNIQUE NOT NULL REFERENCES users(id),
			business_name VARCHAR(255) NOT NULL,
			business_address VARCHAR(255) NOT NULL,
			business_phone VARCHAR(30) NOT NULL,
			business_email VARCHAR(255) NOT NULL,
			bank_name VARCHAR(100) NOT NULL,
			account_number VARCHAR(30) NOT NULL,
			account_name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			approved_by UUID,
			approved_at TIMESTAMPTZ,
			total_sales NUMERIC(12,2) NOT NULL DEFAULT 0,
			total_commission NUMERIC(12,2) NOT NULL DEFAULT 0,
			available_stock INTEGER NOT NULL DEFAULT 0 CHECK (available_stock >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		`CREATE TABLE IF NOT EXISTS stockist_transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			stockist_id UUID NOT NULL REFERENCES stockists(id),
			type VARCHAR(20) NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			commission NUMERIC(12,2) NOT NULL DEFAULT 0,
			notes TEXT DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		`CREATE TABLE IF NOT EXISTS twofa (
			user_id UUID PRIMARY KEY REFERENCES users(id),
			secret VARCHAR(64) NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema init: %w", err)
		}
	}

	log.Println("✅ Database schema ready")
	return nil
}
