package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements Store over a pgxpool.Pool. A transaction-bound copy
// (db = pgx.Tx) is handed to WithTx callbacks.
type Postgres struct {
	pool    *pgxpool.Pool
	db      dbtx
	timeout time.Duration
	inTx    bool
}

var _ Store = (*Postgres)(nil)

func New(pool *pgxpool.Pool, timeout time.Duration) *Postgres {
	return &Postgres{pool: pool, db: pool, timeout: timeout}
}

// deadline bounds a single store call. Inside a transaction the tx context
// already carries the bound.
func (p *Postgres) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.inTx {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Postgres) WithTx(ctx context.Context, fn func(Store) error) error {
	if p.inTx {
		return fn(p)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Postgres{pool: p.pool, db: tx, timeout: p.timeout, inTx: true}); err != nil {
		return err
	}
	return mapErr(tx.Commit(ctx))
}

// mapErr turns storage errors into the stable domain taxonomy. Nothing
// above the store sees a raw pgx error.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrBusy
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return models.ErrConflict
		case "40001", "40P01", "55P03":
			return models.ErrBusy
		case "23503", "23514":
			return models.ErrIntegrity
		}
	}
	return fmt.Errorf("store: %w", err)
}

// ---- users ----

const userColumns = `id, member_id, first_name, last_name, email, phone, password_hash,
	COALESCE(sponsor_id,''), COALESCE(upline_id,''), COALESCE(location,''),
	status, role, package_type, total_earnings, available_balance, total_referrals,
	created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.MemberID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.SponsorMemberID, &u.UplineMemberID, &u.Location,
		&u.Status, &u.Role, &u.PackageType, &u.TotalEarnings, &u.AvailableBalance,
		&u.TotalReferrals, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	row := p.db.QueryRow(ctx, `
		INSERT INTO users (member_id, first_name, last_name, email, phone, password_hash,
			sponsor_id, upline_id, location, status, role, package_type)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7,''), NULLIF($8,''), $9, $10, $11, $12)
		RETURNING `+userColumns,
		u.MemberID, u.FirstName, u.LastName, strings.ToLower(u.Email), u.Phone,
		u.PasswordHash, u.SponsorMemberID, u.UplineMemberID, u.Location,
		u.Status, u.Role, u.PackageType)
	return scanUser(row)
}

func (p *Postgres) UserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanUser(p.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email))
}

func (p *Postgres) UserByMemberID(ctx context.Context, memberID string) (*models.User, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanUser(p.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE member_id = UPPER($1)`, memberID))
}

func (p *Postgres) Users(ctx context.Context) ([]models.User, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	rows, err := p.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, mapErr(rows.Err())
}

func (p *Postgres) UpdateUserStatus(ctx context.Context, id, status string) (*models.User, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanUser(p.db.QueryRow(ctx, `
		UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+userColumns, id, status))
}

func (p *Postgres) IncrementReferrals(ctx context.Context, memberID string) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE users SET total_referrals = total_referrals + 1, updated_at = NOW()
		WHERE member_id = $1`, memberID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (p *Postgres) CreditUserBalance(ctx context.Context, userID string, amount float64) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE users SET total_earnings = total_earnings + $2,
			available_balance = available_balance + $2, updated_at = NOW()
		WHERE id = $1`, userID, amount)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ---- activation pins ----

const pinColumns = `id, pin, is_used, COALESCE(used_by,''), COALESCE(created_by,''), created_at, used_at`

func scanPin(row pgx.Row) (*models.ActivationPin, error) {
	var pin models.ActivationPin
	err := row.Scan(&pin.ID, &pin.Pin, &pin.IsUsed, &pin.UsedByMemberID,
		&pin.CreatedBy, &pin.CreatedAt, &pin.UsedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &pin, nil
}

func (p *Postgres) CreatePin(ctx context.Context, pin, createdBy string) (*models.ActivationPin, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanPin(p.db.QueryRow(ctx, `
		INSERT INTO activation_pins (pin, created_by) VALUES ($1, NULLIF($2,''))
		RETURNING `+pinColumns, pin, createdBy))
}

func (p *Postgres) Pins(ctx context.Context) ([]models.ActivationPin, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	rows, err := p.db.Query(ctx, `SELECT `+pinColumns+` FROM activation_pins ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.ActivationPin
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pin)
	}
	return out, mapErr(rows.Err())
}

// ConsumePin marks a PIN used with a single conditional UPDATE: under
// concurrent callers exactly one wins, the rest get ErrPinNotFound.
func (p *Postgres) ConsumePin(ctx context.Context, pin, byMemberID string) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE activation_pins SET is_used = TRUE, used_by = $2, used_at = NOW()
		WHERE pin = $1 AND is_used = FALSE`, pin, byMemberID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPinNotFound
	}
	return nil
}

// ---- payments ----

const paymentColumns = `id, user_id, reference, amount, currency, status, payment_method,
	COALESCE(transaction_id,''), created_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var pay models.Payment
	err := row.Scan(&pay.ID, &pay.UserID, &pay.Reference, &pay.Amount, &pay.Currency,
		&pay.Status, &pay.PaymentMethod, &pay.TransactionID, &pay.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &pay, nil
}

func (p *Postgres) CreatePayment(ctx context.Context, pay *models.Payment) (*models.Payment, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanPayment(p.db.QueryRow(ctx, `
		INSERT INTO payments (user_id, reference, amount, currency, status, payment_method, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+paymentColumns,
		pay.UserID, pay.Reference, pay.Amount, pay.Currency, pay.Status,
		pay.PaymentMethod, pay.TransactionID))
}

func (p *Postgres) PaymentByReference(ctx context.Context, reference string) (*models.Payment, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanPayment(p.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE reference = $1`, reference))
}

func (p *Postgres) UpdatePaymentStatus(ctx context.Context, reference, status, transactionID string) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE payments SET status = $2, transaction_id = COALESCE(NULLIF($3,''), transaction_id)
		WHERE reference = $1`, reference, status, transactionID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (p *Postgres) PaymentsForUser(ctx context.Context, userID string) ([]models.Payment, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	rows, err := p.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pay)
	}
	return out, mapErr(rows.Err())
}

// ---- commissions ----

const commissionColumns = `id, user_id, from_user_id, level, amount, type, status,
	payment_reference, created_at, approved_at`

func scanCommission(row pgx.Row) (*models.Commission, error) {
	var c models.Commission
	err := row.Scan(&c.ID, &c.UserID, &c.FromUserID, &c.Level, &c.Amount, &c.Type,
		&c.Status, &c.PaymentReference, &c.CreatedAt, &c.ApprovedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (p *Postgres) CreateCommission(ctx context.Context, c *models.Commission) (*models.Commission, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanCommission(p.db.QueryRow(ctx, `
		INSERT INTO commissions (user_id, from_user_id, level, amount, type, status, payment_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+commissionColumns,
		c.UserID, c.FromUserID, c.Level, c.Amount, c.Type, c.Status, c.PaymentReference))
}

func (p *Postgres) commissionQuery(ctx context.Context, query string, args ...any) ([]models.Commission, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, mapErr(rows.Err())
}

func (p *Postgres) CommissionsByReference(ctx context.Context, reference string) ([]models.Commission, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return p.commissionQuery(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE payment_reference = $1 ORDER BY level`, reference)
}

func (p *Postgres) CommissionsForUser(ctx context.Context, userID string) ([]models.Commission, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return p.commissionQuery(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (p *Postgres) Commissions(ctx context.Context) ([]models.Commission, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return p.commissionQuery(ctx,
		`SELECT `+commissionColumns+` FROM commissions ORDER BY created_at DESC`)
}

// TransitionCommission moves a commission from one status to the next with
// a conditional UPDATE. A row in any other status yields
// ErrInvalidTransition, a missing row ErrNotFound.
func (p *Postgres) TransitionCommission(ctx context.Context, id, from, to string) (*models.Commission, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	c, err := scanCommission(p.db.QueryRow(ctx, `
		UPDATE commissions SET status = $3,
			approved_at = CASE WHEN $3 = 'approved' THEN NOW() ELSE approved_at END
		WHERE id = $1 AND status = $2
		RETURNING `+commissionColumns, id, from, to))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	var status string
	scanErr := p.db.QueryRow(ctx, `SELECT status FROM commissions WHERE id = $1`, id).Scan(&status)
	if scanErr != nil {
		return nil, mapErr(scanErr)
	}
	return nil, fmt.Errorf("%w: commission is %s, expected %s", models.ErrInvalidTransition, status, from)
}

// CommissionTotals is a single query so count and sum come from one
// snapshot. Empty status means all rows.
func (p *Postgres) CommissionTotals(ctx context.Context, status string) (models.CommissionTotals, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	var t models.CommissionTotals
	err := p.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM commissions
		WHERE ($1 = '' OR status = $1)`, status).Scan(&t.Count, &t.TotalAmount)
	if err != nil {
		return models.CommissionTotals{}, mapErr(err)
	}
	return t, nil
}

// ---- matrix positions ----

func (p *Postgres) CreateMatrixPosition(ctx context.Context, mp *models.MatrixPosition) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	_, err := p.db.Exec(ctx, `
		INSERT INTO matrix_positions (user_id, upline_id, level, position)
		VALUES ($1, NULLIF($2,''), $3, $4)`,
		mp.UserID, mp.UplineMemberID, mp.Level, mp.Position)
	return mapErr(err)
}

func (p *Postgres) MatrixPositionByUser(ctx context.Context, userID string) (*models.MatrixPosition, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	var mp models.MatrixPosition
	err := p.db.QueryRow(ctx, `
		SELECT id, user_id, COALESCE(upline_id,''), level, position, created_at
		FROM matrix_positions WHERE user_id = $1`, userID).
		Scan(&mp.ID, &mp.UserID, &mp.UplineMemberID, &mp.Level, &mp.Position, &mp.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &mp, nil
}

func (p *Postgres) MatrixChildCount(ctx context.Context, uplineMemberID string) (int, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	var count int
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM matrix_positions WHERE upline_id = $1`, uplineMemberID).Scan(&count)
	if err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}

// ---- stockists ----

const stockistColumns = `id, user_id, business_name, business_address, business_phone,
	business_email, bank_name, account_number, account_name, status,
	COALESCE(approved_by::text,''), approved_at, total_sales, total_commission,
	available_stock, created_at, updated_at`

func scanStockist(row pgx.Row) (*models.Stockist, error) {
	var s models.Stockist
	err := row.Scan(&s.ID, &s.UserID, &s.BusinessName, &s.BusinessAddress, &s.BusinessPhone,
		&s.BusinessEmail, &s.BankName, &s.AccountNumber, &s.AccountName, &s.Status,
		&s.ApprovedBy, &s.ApprovedAt, &s.TotalSales, &s.TotalCommission,
		&s.AvailableStock, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (p *Postgres) CreateStockist(ctx context.Context, s *models.Stockist) (*models.Stockist, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanStockist(p.db.QueryRow(ctx, `
		INSERT INTO stockists (user_id, business_name, business_address, business_phone,
			business_email, bank_name, account_number, account_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+stockistColumns,
		s.UserID, s.BusinessName, s.BusinessAddress, s.BusinessPhone, s.BusinessEmail,
		s.BankName, s.AccountNumber, s.AccountName, s.Status))
}

func (p *Postgres) StockistByID(ctx context.Context, id string) (*models.Stockist, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanStockist(p.db.QueryRow(ctx,
		`SELECT `+stockistColumns+` FROM stockists WHERE id = $1`, id))
}

func (p *Postgres) StockistByUserID(ctx context.Context, userID string) (*models.Stockist, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	return scanStockist(p.db.QueryRow(ctx,
		`SELECT `+stockistColumns+` FROM stockists WHERE user_id = $1`, userID))
}

func (p *Postgres) Stockists(ctx context.Context) ([]models.Stockist, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	rows, err := p.db.Query(ctx, `SELECT `+stockistColumns+` FROM stockists ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.Stockist
	for rows.Next() {
		s, err := scanStockist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, mapErr(rows.Err())
}

func (p *Postgres) ApproveStockist(ctx context.Context, id, approvedBy string) (*models.Stockist, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	s, err := scanStockist(p.db.QueryRow(ctx, `
		UPDATE stockists SET status = 'approved', approved_by = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+stockistColumns, id, approvedBy))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	var status string
	scanErr := p.db.QueryRow(ctx, `SELECT status FROM stockists WHERE id = $1`, id).Scan(&status)
	if scanErr != nil {
		return nil, mapErr(scanErr)
	}
	return nil, fmt.Errorf("%w: stockist is %s, expected pending", models.ErrInvalidTransition, status)
}

func (p *Postgres) CreateStockTransaction(ctx context.Context, t *models.StockTransaction) (*models.StockTransaction, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	var out models.StockTransaction
	err := p.db.QueryRow(ctx, `
		INSERT INTO stockist_transactions (stockist_id, type, quantity, unit_price, total_amount, commission, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, stockist_id, type, quantity, unit_price, total_amount, commission, COALESCE(notes,''), created_at`,
		t.StockistID, t.Type, t.Quantity, t.UnitPrice, t.TotalAmount, t.Commission, t.Notes).
		Scan(&out.ID, &out.StockistID, &out.Type, &out.Quantity, &out.UnitPrice,
			&out.TotalAmount, &out.Commission, &out.Notes, &out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// AdjustStockistInventory applies stock/sales/commission deltas. The WHERE
// clause refuses any adjustment that would drive stock negative; the CHECK
// constraint backs it up.
func (p *Postgres) AdjustStockistInventory(ctx context.Context, id string, stockDelta int, salesDelta, commissionDelta float64) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	tag, err := p.db.Exec(ctx, `
		UPDATE stockists SET available_stock = available_stock + $2,
			total_sales = total_sales + $3, total_commission = total_commission + $4,
			updated_at = NOW()
		WHERE id = $1 AND available_stock + $2 >= 0`,
		id, stockDelta, salesDelta, commissionDelta)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if scanErr := p.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM stockists WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
			return mapErr(scanErr)
		}
		if !exists {
			return models.ErrNotFound
		}
		return fmt.Errorf("%w: stock would go negative", models.ErrIntegrity)
	}
	return nil
}

func (p *Postgres) StockTransactions(ctx context.Context, stockistID string) ([]models.StockTransaction, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	rows, err := p.db.Query(ctx, `
		SELECT id, stockist_id, type, quantity, unit_price, total_amount, commission, COALESCE(notes,''), created_at
		FROM stockist_transactions WHERE stockist_id = $1 ORDER BY created_at DESC`, stockistID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []models.StockTransaction
	for rows.Next() {
		var t models.StockTransaction
		if err := rows.Scan(&t.ID, &t.StockistID, &t.Type, &t.Quantity, &t.UnitPrice,
			&t.TotalAmount, &t.Commission, &t.Notes, &t.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, t)
	}
	return out, mapErr(rows.Err())
}

// ---- twofa ----

func (p *Postgres) SaveTwoFASecret(ctx context.Context, userID, secret string) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	_, err := p.db.Exec(ctx, `
		INSERT INTO twofa (user_id, secret, enabled) VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO UPDATE SET secret = $2, enabled = FALSE, updated_at = NOW()`,
		userID, secret)
	return mapErr(err)
}

func (p *Postgres) TwoFA(ctx context.Context, userID string) (string, bool, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	var secret string
	var enabled bool
	err := p.db.QueryRow(ctx,
		`SELECT secret, enabled FROM twofa WHERE user_id = $1`, userID).Scan(&secret, &enabled)
	if err != nil {
		return "", false, mapErr(err)
	}
	return secret, enabled, nil
}

func (p *Postgres) EnableTwoFA(ctx context.Context, userID string) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	tag, err := p.db.Exec(ctx,
		`UPDATE twofa SET enabled = TRUE, updated_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
