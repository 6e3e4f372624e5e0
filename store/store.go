package store

import (
	"context"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// Store is the one persistence abstraction for the platform. Postgres is
// the only production implementation; everything that mutates state related
// to money or membership runs inside WithTx.
type Store interface {
	// WithTx runs fn against a transaction-bound store at serializable
	// isolation. fn's store must not be retained after fn returns.
	WithTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByMemberID(ctx context.Context, memberID string) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	UpdateUserStatus(ctx context.Context, id, status string) (*models.User, error)
	IncrementReferrals(ctx context.Context, memberID string) error
	CreditUserBalance(ctx context.Context, userID string, amount float64) error

	CreatePin(ctx context.Context, pin, createdBy string) (*models.ActivationPin, error)
	Pins(ctx context.Context) ([]models.ActivationPin, error)
	ConsumePin(ctx context.Context, pin, byMemberID string) error

	CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error)
	PaymentByReference(ctx context.Context, reference string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, reference, status, transactionID string) error
	PaymentsForUser(ctx context.Context, userID string) ([]models.Payment, error)

	CreateCommission(ctx context.Context, c *models.Commission) (*models.Commission, error)
	CommissionsByReference(ctx context.Context, reference string) ([]models.Commission, error)
	CommissionsForUser(ctx context.Context, userID string) ([]models.Commission, error)
	Commissions(ctx context.Context) ([]models.Commission, error)
	TransitionCommission(ctx context.Context, id, from, to string) (*models.Commission, error)
	CommissionTotals(ctx context.Context, status string) (models.CommissionTotals, error)

	CreateMatrixPosition(ctx context.Context, mp *models.MatrixPosition) error
	MatrixPositionByUser(ctx context.Context, userID string) (*models.MatrixPosition, error)
	MatrixChildCount(ctx context.Context, uplineMemberID string) (int, error)

	CreateStockist(ctx context.Context, s *models.Stockist) (*models.Stockist, error)
	StockistByID(ctx context.Context, id string) (*models.Stockist, error)
	StockistByUserID(ctx context.Context, userID string) (*models.Stockist, error)
	Stockists(ctx context.Context) ([]models.Stockist, error)
	ApproveStockist(ctx context.Context, id, approvedBy string) (*models.Stockist, error)
	CreateStockTransaction(ctx context.Context, t *models.StockTransaction) (*models.StockTransaction, error)
	AdjustStockistInventory(ctx context.Context, id string, stockDelta int, salesDelta, commissionDelta float64) error
	StockTransactions(ctx context.Context, stockistID string) ([]models.StockTransaction, error)

	SaveTwoFASecret(ctx context.Context, userID, secret string) error
	TwoFA(ctx context.Context, userID string) (secret string, enabled bool, err error)
	EnableTwoFA(ctx context.Context, userID string) error
}
