package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/monitoring"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/referral"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

// Service is the commission ledger: posting on activation, the approval
// lifecycle and aggregate totals.
type Service struct {
	st  store.Store
	cfg *config.Config
	log *zap.Logger
}

func NewService(st store.Store, cfg *config.Config, log *zap.Logger) *Service {
	return &Service{st: st, cfg: cfg, log: log}
}

// PostForActivation writes one pending commission per sponsor-chain
// ancestor of the activated user, amount = rate(level) × package price.
// It runs against the caller's transaction-bound store, so a failed insert
// rolls the whole posting back. Re-posting the same payment reference
// returns the existing rows untouched.
func (s *Service) PostForActivation(ctx context.Context, tx store.Store, activated *models.User, reference string) ([]models.Commission, error) {
	existing, err := tx.CommissionsByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	chain, err := referral.AncestorChain(ctx, tx, s.log, activated.MemberID, s.cfg.MaxLevel())
	if err != nil {
		return nil, err
	}

	posted := make([]models.Commission, 0, len(chain))
	for _, ancestor := range chain {
		amount := s.cfg.Rate(ancestor.Level) * s.cfg.PackagePrice
		if amount <= 0 {
			continue
		}
		c, err := tx.CreateCommission(ctx, &models.Commission{
			UserID:           ancestor.UserID,
			FromUserID:       activated.ID,
			Level:            ancestor.Level,
			Amount:           amount,
			Type:             models.CommissionTypeReferral,
			Status:           models.CommissionPending,
			PaymentReference: reference,
		})
		if err != nil {
			return nil, err
		}
		posted = append(posted, *c)
	}

	monitoring.CommissionsPostedTotal.Add(float64(len(posted)))
	s.log.Info("commissions posted",
		zap.String("from_member", activated.MemberID),
		zap.String("reference", reference),
		zap.Int("levels", len(posted)))
	return posted, nil
}

// Approve moves pending → approved and stamps approvedAt.
func (s *Service) Approve(ctx context.Context, id string) (*models.Commission, error) {
	return s.st.TransitionCommission(ctx, id, models.CommissionPending, models.CommissionApproved)
}

// MarkPaid moves approved → paid and credits the beneficiary's balance in
// the same transaction.
func (s *Service) MarkPaid(ctx context.Context, id string) (*models.Commission, error) {
	var paid *models.Commission
	err := s.st.WithTx(ctx, func(tx store.Store) error {
		c, err := tx.TransitionCommission(ctx, id, models.CommissionApproved, models.CommissionPaid)
		if err != nil {
			return err
		}
		if err := tx.CreditUserBalance(ctx, c.UserID, c.Amount); err != nil {
			return err
		}
		paid = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// Totals returns count and sum for a status ("" = all) from one snapshot.
func (s *Service) Totals(ctx context.Context, status string) (models.CommissionTotals, error) {
	switch status {
	case "", models.CommissionPending, models.CommissionApproved, models.CommissionPaid:
	default:
		return models.CommissionTotals{}, models.Invalid("status", "unknown commission status")
	}
	return s.st.CommissionTotals(ctx, status)
}

func (s *Service) ForUser(ctx context.Context, userID string) ([]models.Commission, error) {
	return s.st.CommissionsForUser(ctx, userID)
}

func (s *Service) All(ctx context.Context) ([]models.Commission, error) {
	return s.st.Commissions(ctx)
}
