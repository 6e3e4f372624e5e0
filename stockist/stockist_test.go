package stockist

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store/storetest"
)

func validApply() ApplyInput {
	return ApplyInput{
		BusinessName:    "Orion Depot",
		BusinessAddress: "12 Market Rd, Lagos",
		BusinessPhone:   "+2348022222222",
	}
}

func setup(t *testing.T) (*storetest.Mem, *Service, *models.User) {
	t.Helper()
	st := storetest.New()
	u, err := st.CreateUser(context.Background(), &models.User{
		MemberID: "BO100001",
		Email:    "stockist@example.com",
		Status:   models.StatusActive,
	})
	if err != nil {
		t.Fatal(err)
	}
	return st, NewService(st, zap.NewNop()), u
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("files a pending application", func(t *testing.T) {
		_, svc, u := setup(t)
		st, err := svc.Apply(ctx, u.ID, validApply())
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if st.Status != models.StockistPending {
			t.Errorf("status = %q, want pending", st.Status)
		}
	})

	t.Run("one application per user", func(t *testing.T) {
		_, svc, u := setup(t)
		if _, err := svc.Apply(ctx, u.ID, validApply()); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Apply(ctx, u.ID, validApply()); !errors.Is(err, models.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("requires an active account", func(t *testing.T) {
		mem, svc, _ := setup(t)
		pending, err := mem.CreateUser(ctx, &models.User{
			MemberID: "BO100002", Email: "p@example.com", Status: models.StatusPending,
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Apply(ctx, pending.ID, validApply()); !errors.Is(err, models.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestPostTransaction(t *testing.T) {
	ctx := context.Background()

	approved := func(t *testing.T) (*storetest.Mem, *Service, *models.Stockist) {
		mem, svc, u := setup(t)
		st, err := svc.Apply(ctx, u.ID, validApply())
		if err != nil {
			t.Fatal(err)
		}
		st, err = svc.Approve(ctx, st.ID, "BO000001")
		if err != nil {
			t.Fatal(err)
		}
		return mem, svc, st
	}

	t.Run("rejects unapproved stockists", func(t *testing.T) {
		_, svc, u := setup(t)
		st, err := svc.Apply(ctx, u.ID, validApply())
		if err != nil {
			t.Fatal(err)
		}
		_, err = svc.PostTransaction(ctx, st.ID, TransactionInput{
			Type: models.StockTxPurchase, Quantity: 10, UnitPrice: 500,
		})
		if !errors.Is(err, models.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("purchase adds stock", func(t *testing.T) {
		mem, svc, st := approved(t)
		tx, err := svc.PostTransaction(ctx, st.ID, TransactionInput{
			Type: models.StockTxPurchase, Quantity: 10, UnitPrice: 500,
		})
		if err != nil {
			t.Fatalf("PostTransaction: %v", err)
		}
		if tx.TotalAmount != 5000 || tx.Commission != 0 {
			t.Errorf("tx = %+v, want total 5000 commission 0", tx)
		}
		got, _ := mem.StockistByID(ctx, st.ID)
		if got.AvailableStock != 10 {
			t.Errorf("stock = %d, want 10", got.AvailableStock)
		}
	})

	t.Run("sale subtracts stock and earns commission", func(t *testing.T) {
		mem, svc, st := approved(t)
		if _, err := svc.PostTransaction(ctx, st.ID, TransactionInput{
			Type: models.StockTxPurchase, Quantity: 10, UnitPrice: 500,
		}); err != nil {
			t.Fatal(err)
		}

		tx, err := svc.PostTransaction(ctx, st.ID, TransactionInput{
			Type: models.StockTxSale, Quantity: 4, UnitPrice: 800,
		})
		if err != nil {
			t.Fatalf("sale: %v", err)
		}
		if tx.TotalAmount != 3200 || tx.Commission != 320 {
			t.Errorf("tx = %+v, want total 3200 commission 320", tx)
		}

		got, _ := mem.StockistByID(ctx, st.ID)
		if got.AvailableStock != 6 {
			t.Errorf("stock = %d, want 6", got.AvailableStock)
		}
		if got.TotalSales != 3200 || got.TotalCommission != 320 {
			t.Errorf("totals = %v / %v, want 3200 / 320", got.TotalSales, got.TotalCommission)
		}
	})

	t.Run("overselling rolls back everything", func(t *testing.T) {
		mem, svc, st := approved(t)
		if _, err := svc.PostTransaction(ctx, st.ID, TransactionInput{
			Type: models.StockTxPurchase, Quantity: 5, UnitPrice: 500,
		}); err != nil {
			t.Fatal(err)
		}

		_, err := svc.PostTransaction(ctx, st.ID, TransactionInput{
			Type: models.StockTxSale, Quantity: 50, UnitPrice: 800,
		})
		if !errors.Is(err, models.ErrIntegrity) {
			t.Fatalf("err = %v, want ErrIntegrity", err)
		}

		got, _ := mem.StockistByID(ctx, st.ID)
		if got.AvailableStock != 5 || got.TotalSales != 0 || got.TotalCommission != 0 {
			t.Errorf("stockist mutated after failed sale: %+v", got)
		}
		txs, _ := svc.Transactions(ctx, st.ID)
		if len(txs) != 1 {
			t.Errorf("transactions = %d, want 1 (just the purchase)", len(txs))
		}
	})

	t.Run("validates input", func(t *testing.T) {
		_, svc, st := approved(t)
		cases := []TransactionInput{
			{Type: "gift", Quantity: 1, UnitPrice: 1},
			{Type: models.StockTxSale, Quantity: 0, UnitPrice: 1},
			{Type: models.StockTxSale, Quantity: 1, UnitPrice: -1},
		}
		for _, in := range cases {
			if _, err := svc.PostTransaction(ctx, st.ID, in); !models.IsValidation(err) {
				t.Errorf("input %+v: err = %v, want validation error", in, err)
			}
		}
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approving twice fails", func(t *testing.T) {
		_, svc, u := setup(t)
		st, err := svc.Apply(ctx, u.ID, validApply())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Approve(ctx, st.ID, "BO000001"); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Approve(ctx, st.ID, "BO000001"); !errors.Is(err, models.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}
