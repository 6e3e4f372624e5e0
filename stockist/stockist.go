package stockist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

// saleCommissionRate is the stockist's cut of a sale's total.
const saleCommissionRate = 0.10

// Service manages stockist applications and their stock ledger. Inventory
// can never go negative: a sale that would overdraw stock fails and the
// whole transaction rolls back.
type Service struct {
	st  store.Store
	log *zap.Logger
}

func NewService(st store.Store, log *zap.Logger) *Service {
	return &Service{st: st, log: log}
}

type ApplyInput struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string
	BankName        string
	AccountNumber   string
	AccountName     string
}

func (in *ApplyInput) validate() error {
	switch {
	case strings.TrimSpace(in.BusinessName) == "":
		return models.Invalid("business_name", "required")
	case strings.TrimSpace(in.BusinessAddress) == "":
		return models.Invalid("business_address", "required")
	case strings.TrimSpace(in.BusinessPhone) == "":
		return models.Invalid("business_phone", "required")
	}
	return nil
}

// Apply files a pending stockist application for an active member. One
// application per user; a second attempt returns ErrConflict.
func (s *Service) Apply(ctx context.Context, userID string, in ApplyInput) (*models.Stockist, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	u, err := s.st.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: account must be active to apply", models.ErrInvalidTransition)
	}

	st, err := s.st.CreateStockist(ctx, &models.Stockist{
		UserID:          u.ID,
		BusinessName:    strings.TrimSpace(in.BusinessName),
		BusinessAddress: strings.TrimSpace(in.BusinessAddress),
		BusinessPhone:   strings.TrimSpace(in.BusinessPhone),
		BusinessEmail:   strings.TrimSpace(in.BusinessEmail),
		BankName:        strings.TrimSpace(in.BankName),
		AccountNumber:   strings.TrimSpace(in.AccountNumber),
		AccountName:     strings.TrimSpace(in.AccountName),
		Status:          models.StockistPending,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stockist application filed",
		zap.String("member_id", u.MemberID),
		zap.String("business", st.BusinessName))
	return st, nil
}

// Approve moves a pending application to approved and records who signed
// off. Approving twice returns ErrInvalidTransition.
func (s *Service) Approve(ctx context.Context, id, approvedBy string) (*models.Stockist, error) {
	return s.st.ApproveStockist(ctx, id, approvedBy)
}

type TransactionInput struct {
	Type      string
	Quantity  int
	UnitPrice float64
	Notes     string
}

func (in *TransactionInput) validate() error {
	switch in.Type {
	case models.StockTxPurchase, models.StockTxSale, models.StockTxReturn:
	default:
		return models.Invalid("type", "must be purchase, sale or return")
	}
	if in.Quantity < 1 {
		return models.Invalid("quantity", "must be positive")
	}
	if in.UnitPrice < 0 {
		return models.Invalid("unit_price", "must not be negative")
	}
	return nil
}

// PostTransaction records a stock movement and its inventory effect in one
// transaction. Purchases and returns add stock; sales subtract it, book the
// total against total_sales and earn the stockist a commission.
func (s *Service) PostTransaction(ctx context.Context, stockistID string, in TransactionInput) (*models.StockTransaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	total := float64(in.Quantity) * in.UnitPrice

	var posted *models.StockTransaction
	err := s.st.WithTx(ctx, func(tx store.Store) error {
		st, err := tx.StockistByID(ctx, stockistID)
		if err != nil {
			return err
		}
		if st.Status != models.StockistApproved {
			return fmt.Errorf("%w: stockist is not approved", models.ErrInvalidTransition)
		}

		stockDelta := in.Quantity
		salesDelta := 0.0
		commission := 0.0
		if in.Type == models.StockTxSale {
			stockDelta = -in.Quantity
			salesDelta = total
			commission = total * saleCommissionRate
		}

		if err := tx.AdjustStockistInventory(ctx, st.ID, stockDelta, salesDelta, commission); err != nil {
			return err
		}

		posted, err = tx.CreateStockTransaction(ctx, &models.StockTransaction{
			StockistID:  st.ID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TotalAmount: total,
			Commission:  commission,
			Notes:       strings.TrimSpace(in.Notes),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock transaction posted",
		zap.String("stockist_id", stockistID),
		zap.String("type", posted.Type),
		zap.Int("quantity", posted.Quantity),
		zap.Float64("total", posted.TotalAmount))
	return posted, nil
}

func (s *Service) Transactions(ctx context.Context, stockistID string) ([]models.StockTransaction, error) {
	return s.st.StockTransactions(ctx, stockistID)
}

func (s *Service) List(ctx context.Context) ([]models.Stockist, error) {
	return s.st.Stockists(ctx)
}

func (s *Service) ByUserID(ctx context.Context, userID string) (*models.Stockist, error) {
	return s.st.StockistByUserID(ctx, userID)
}

func (s *Service) ByID(ctx context.Context, id string) (*models.Stockist, error) {
	return s.st.StockistByID(ctx, id)
}
