package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/identity"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/ledger"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/monitoring"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

// matrixWidth is how many direct placements an upline slot holds before
// overflow spills to the next level.
const matrixWidth = 5

// Intake owns the payment lifecycle: initialize a pending record, then
// confirm it against the gateway. Confirmation is the single entry point
// into activation, commission posting and matrix placement, all of which
// commit or roll back together.
type Intake struct {
	st      store.Store
	cfg     *config.Config
	gateway Verifier
	payouts *ledger.Service
	log     *zap.Logger
}

func NewIntake(st store.Store, cfg *config.Config, gateway Verifier, payouts *ledger.Service, log *zap.Logger) *Intake {
	return &Intake{st: st, cfg: cfg, gateway: gateway, payouts: payouts, log: log}
}

// NewReference generates a payment reference: "BO-PAY-" + uuid.
func NewReference() string {
	return "BO-PAY-" + uuid.NewString()
}

// Initialize records a pending payment for the user's package and returns
// the reference the client hands to the gateway checkout.
func (in *Intake) Initialize(ctx context.Context, userID string) (*models.Payment, error) {
	u, err := in.st.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Status == models.StatusActive {
		return nil, fmt.Errorf("%w: account is already active", models.ErrConflict)
	}

	p, err := in.st.CreatePayment(ctx, &models.Payment{
		UserID:        u.ID,
		Reference:     NewReference(),
		Amount:        in.cfg.PackagePrice,
		Currency:      "NGN",
		Status:        models.PaymentPending,
		PaymentMethod: "paystack",
	})
	if err != nil {
		return nil, err
	}

	in.log.Info("payment initialized",
		zap.String("member_id", u.MemberID),
		zap.String("reference", p.Reference),
		zap.Float64("amount", p.Amount))
	return p, nil
}

// ConfirmResult is what a successful (or already-settled) confirmation
// yields.
type ConfirmResult struct {
	Payment     *models.Payment     `json:"payment"`
	User        *models.User        `json:"user"`
	Commissions []models.Commission `json:"commissions,omitempty"`
}

// Confirm verifies the reference with the gateway and, on success, settles
// everything in one transaction: payment completed, member activated,
// commissions posted up the sponsor chain, matrix position recorded and
// the sponsor's referral count bumped. Confirming an already-completed
// reference is a no-op returning current state.
func (in *Intake) Confirm(ctx context.Context, reference string) (*ConfirmResult, error) {
	reference = strings.TrimSpace(reference)

	p, err := in.st.PaymentByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnknownReference
		}
		return nil, err
	}

	if p.Status == models.PaymentCompleted {
		u, err := in.st.UserByID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		return &ConfirmResult{Payment: p, User: u}, nil
	}

	verified, err := in.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !verified.Success {
		if err := in.st.UpdatePaymentStatus(ctx, reference, models.PaymentFailed, verified.TransactionID); err != nil {
			return nil, err
		}
		return nil, models.Invalid("reference", "payment was not successful")
	}
	if verified.Amount < p.Amount {
		return nil, models.Invalid("amount",
			fmt.Sprintf("paid %.2f, package costs %.2f", verified.Amount, p.Amount))
	}

	var result ConfirmResult
	err = in.st.WithTx(ctx, func(tx store.Store) error {
		if err := tx.UpdatePaymentStatus(ctx, reference, models.PaymentCompleted, verified.TransactionID); err != nil {
			return err
		}

		wasPending := false
		if u, err := tx.UserByID(ctx, p.UserID); err != nil {
			return err
		} else if u.Status == models.StatusPending {
			wasPending = true
		}

		activated, err := identity.Activate(ctx, tx, p.UserID)
		if err != nil {
			return err
		}

		posted, err := in.payouts.PostForActivation(ctx, tx, activated, reference)
		if err != nil {
			return err
		}

		if wasPending {
			if err := in.place(ctx, tx, activated); err != nil {
				return err
			}
			if activated.SponsorMemberID != "" {
				if err := tx.IncrementReferrals(ctx, activated.SponsorMemberID); err != nil {
					return err
				}
			}
		}

		updated, err := tx.PaymentByReference(ctx, reference)
		if err != nil {
			return err
		}
		result = ConfirmResult{Payment: updated, User: activated, Commissions: posted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ActivationsTotal.Inc()
	in.log.Info("payment confirmed, member activated",
		zap.String("member_id", result.User.MemberID),
		zap.String("reference", reference),
		zap.Int("commissions", len(result.Commissions)))
	return &result, nil
}

// place records the member's slot under their upline. Position is the next
// free index; level is one below the upline's own placement.
func (in *Intake) place(ctx context.Context, tx store.Store, u *models.User) error {
	if _, err := tx.MatrixPositionByUser(ctx, u.ID); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	level := 1
	if upline, err := tx.UserByMemberID(ctx, u.UplineMemberID); err == nil {
		if mp, err := tx.MatrixPositionByUser(ctx, upline.ID); err == nil {
			level = mp.Level + 1
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	children, err := tx.MatrixChildCount(ctx, u.UplineMemberID)
	if err != nil {
		return err
	}
	if children >= matrixWidth {
		in.log.Warn("matrix slot overflow, recording spill position",
			zap.String("member_id", u.MemberID),
			zap.String("upline_id", u.UplineMemberID))
	}

	return tx.CreateMatrixPosition(ctx, &models.MatrixPosition{
		UserID:         u.ID,
		UplineMemberID: u.UplineMemberID,
		Level:          level,
		Position:       children + 1,
	})
}

// History lists a user's payments, newest first.
func (in *Intake) History(ctx context.Context, userID string) ([]models.Payment, error) {
	return in.st.PaymentsForUser(ctx, userID)
}
