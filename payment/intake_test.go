package payment

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/ledger"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store/storetest"
)

type fakeGateway struct {
	success bool
	amount  float64
	err     error
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*VerifiedPayment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &VerifiedPayment{
		Reference:     reference,
		Success:       f.success,
		Amount:        f.amount,
		Currency:      "NGN",
		TransactionID: "tx-1",
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		PackagePrice:    36000,
		CommissionRates: []float64{0.10, 0.05},
	}
}

type fixture struct {
	st      *storetest.Mem
	intake  *Intake
	gateway *fakeGateway
	sponsor *models.User
	member  *models.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := storetest.New()
	cfg := testConfig()
	log := zap.NewNop()

	sponsor, err := st.CreateUser(ctx, &models.User{
		MemberID: "BO000001",
		Email:    "root@example.com",
		Status:   models.StatusActive,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	member, err := st.CreateUser(ctx, &models.User{
		MemberID:        "BO100002",
		Email:           "member@example.com",
		SponsorMemberID: sponsor.MemberID,
		UplineMemberID:  sponsor.MemberID,
		Status:          models.StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{success: true, amount: cfg.PackagePrice}
	intake := NewIntake(st, cfg, gw, ledger.NewService(st, cfg, log), log)
	return &fixture{st: st, intake: intake, gateway: gw, sponsor: sponsor, member: member}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending payment", func(t *testing.T) {
		f := setup(t)
		p, err := f.intake.Initialize(ctx, f.member.ID)
		if err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		if p.Status != models.PaymentPending {
			t.Errorf("status = %q, want pending", p.Status)
		}
		if p.Amount != 36000 || p.Currency != "NGN" {
			t.Errorf("amount = %v %s, want 36000 NGN", p.Amount, p.Currency)
		}
		if p.Reference == "" {
			t.Error("empty reference")
		}
	})

	t.Run("rejects active accounts", func(t *testing.T) {
		f := setup(t)
		if _, err := f.intake.Initialize(ctx, f.sponsor.ID); !errors.Is(err, models.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("settles activation, commissions, placement and referral count", func(t *testing.T) {
		f := setup(t)
		p, err := f.intake.Initialize(ctx, f.member.ID)
		if err != nil {
			t.Fatal(err)
		}

		result, err := f.intake.Confirm(ctx, p.Reference)
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if result.User.Status != models.StatusActive {
			t.Errorf("user status = %q, want active", result.User.Status)
		}
		if result.Payment.Status != models.PaymentCompleted {
			t.Errorf("payment status = %q, want completed", result.Payment.Status)
		}
		if len(result.Commissions) != 1 {
			t.Fatalf("commissions = %d, want 1 (single ancestor)", len(result.Commissions))
		}
		if result.Commissions[0].UserID != f.sponsor.ID || result.Commissions[0].Amount != 3600 {
			t.Errorf("commission = %+v, want 3600 to sponsor", result.Commissions[0])
		}

		mp, err := f.st.MatrixPositionByUser(ctx, f.member.ID)
		if err != nil {
			t.Fatalf("matrix position: %v", err)
		}
		if mp.UplineMemberID != f.sponsor.MemberID || mp.Position != 1 {
			t.Errorf("placement = %+v", mp)
		}

		sponsor, err := f.st.UserByID(ctx, f.sponsor.ID)
		if err != nil {
			t.Fatal(err)
		}
		if sponsor.TotalReferrals != 1 {
			t.Errorf("sponsor referrals = %d, want 1", sponsor.TotalReferrals)
		}
	})

	t.Run("duplicate confirmation is a no-op", func(t *testing.T) {
		f := setup(t)
		p, err := f.intake.Initialize(ctx, f.member.ID)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.intake.Confirm(ctx, p.Reference); err != nil {
			t.Fatal(err)
		}

		result, err := f.intake.Confirm(ctx, p.Reference)
		if err != nil {
			t.Fatalf("second Confirm: %v", err)
		}
		if result.Payment.Status != models.PaymentCompleted {
			t.Errorf("payment status = %q", result.Payment.Status)
		}

		all, err := f.st.Commissions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 1 {
			t.Fatalf("ledger holds %d rows after duplicate confirm, want 1", len(all))
		}
		sponsor, _ := f.st.UserByID(ctx, f.sponsor.ID)
		if sponsor.TotalReferrals != 1 {
			t.Errorf("sponsor referrals = %d, want 1", sponsor.TotalReferrals)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := setup(t)
		if _, err := f.intake.Confirm(ctx, "BO-PAY-nope"); !errors.Is(err, models.ErrUnknownReference) {
			t.Fatalf("err = %v, want ErrUnknownReference", err)
		}
	})

	t.Run("underpayment is rejected", func(t *testing.T) {
		f := setup(t)
		p, err := f.intake.Initialize(ctx, f.member.ID)
		if err != nil {
			t.Fatal(err)
		}
		f.gateway.amount = 1000

		if _, err := f.intake.Confirm(ctx, p.Reference); !models.IsValidation(err) {
			t.Fatalf("err = %v, want validation error", err)
		}

		u, _ := f.st.UserByID(ctx, f.member.ID)
		if u.Status != models.StatusPending {
			t.Errorf("user status = %q, want still pending", u.Status)
		}
	})

	t.Run("gateway failure marks payment failed", func(t *testing.T) {
		f := setup(t)
		p, err := f.intake.Initialize(ctx, f.member.ID)
		if err != nil {
			t.Fatal(err)
		}
		f.gateway.success = false

		if _, err := f.intake.Confirm(ctx, p.Reference); !models.IsValidation(err) {
			t.Fatalf("err = %v, want validation error", err)
		}
		got, _ := f.st.PaymentByReference(ctx, p.Reference)
		if got.Status != models.PaymentFailed {
			t.Errorf("payment status = %q, want failed", got.Status)
		}
	})

	t.Run("commission failure rolls back activation", func(t *testing.T) {
		f := setup(t)
		p, err := f.intake.Initialize(ctx, f.member.ID)
		if err != nil {
			t.Fatal(err)
		}
		f.st.FailCreateCommission = 1

		if _, err := f.intake.Confirm(ctx, p.Reference); err == nil {
			t.Fatal("expected Confirm to fail")
		}

		u, _ := f.st.UserByID(ctx, f.member.ID)
		if u.Status != models.StatusPending {
			t.Errorf("user status = %q, want pending after rollback", u.Status)
		}
		got, _ := f.st.PaymentByReference(ctx, p.Reference)
		if got.Status != models.PaymentPending {
			t.Errorf("payment status = %q, want pending after rollback", got.Status)
		}
	})
}
