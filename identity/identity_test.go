package identity

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store/storetest"
)

func seedActive(t *testing.T, st *storetest.Mem, memberID string) *models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), &models.User{
		MemberID:  memberID,
		FirstName: "Seed",
		LastName:  memberID,
		Email:     memberID + "@example.com",
		Status:    models.StatusActive,
		Role:      models.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", memberID, err)
	}
	return u
}

func validInput(sponsorID string) RegisterInput {
	return RegisterInput{
		FirstName:       "Ada",
		LastName:        "Obi",
		Email:           "ada@example.com",
		Phone:           "+2348011111111",
		Password:        "secret1",
		SponsorMemberID: sponsorID,
		UplineMemberID:  sponsorID,
	}
}

func TestNewMemberID(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := NewMemberID()
		if !ValidMemberID(id) {
			t.Fatalf("generated ID %q does not match the canonical shape", id)
		}
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("creates pending member", func(t *testing.T) {
		st := storetest.New()
		sponsor := seedActive(t, st, "BO100001")
		svc := NewService(st, log)

		u, err := svc.Register(ctx, validInput(sponsor.MemberID))
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if u.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", u.Status)
		}
		if !ValidMemberID(u.MemberID) {
			t.Errorf("member ID %q invalid", u.MemberID)
		}
		if u.SponsorMemberID != sponsor.MemberID {
			t.Errorf("sponsor = %q, want %q", u.SponsorMemberID, sponsor.MemberID)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		st := storetest.New()
		sponsor := seedActive(t, st, "BO100001")
		svc := NewService(st, log)

		if _, err := svc.Register(ctx, validInput(sponsor.MemberID)); err != nil {
			t.Fatalf("first Register: %v", err)
		}
		_, err := svc.Register(ctx, validInput(sponsor.MemberID))
		if !errors.Is(err, models.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("rejects inactive sponsor", func(t *testing.T) {
		st := storetest.New()
		pending, err := st.CreateUser(ctx, &models.User{
			MemberID: "BO100009",
			Email:    "pending@example.com",
			Status:   models.StatusPending,
		})
		if err != nil {
			t.Fatal(err)
		}
		svc := NewService(st, log)

		_, err = svc.Register(ctx, validInput(pending.MemberID))
		if !errors.Is(err, models.ErrInvalidSponsor) {
			t.Fatalf("err = %v, want ErrInvalidSponsor", err)
		}
	})

	t.Run("rejects unknown sponsor", func(t *testing.T) {
		st := storetest.New()
		svc := NewService(st, log)

		_, err := svc.Register(ctx, validInput("BO999999"))
		if !errors.Is(err, models.ErrInvalidSponsor) {
			t.Fatalf("err = %v, want ErrInvalidSponsor", err)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		st := storetest.New()
		seedActive(t, st, "BO100001")
		svc := NewService(st, log)

		in := validInput("BO100001")
		in.Email = "not-an-email"
		_, err := svc.Register(ctx, in)
		if !models.IsValidation(err) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("consumes pin atomically", func(t *testing.T) {
		st := storetest.New()
		sponsor := seedActive(t, st, "BO100001")
		if _, err := st.CreatePin(ctx, "BOAAAA111122", sponsor.MemberID); err != nil {
			t.Fatal(err)
		}
		svc := NewService(st, log)

		in := validInput(sponsor.MemberID)
		in.Pin = "BOAAAA111122"
		u, err := svc.Register(ctx, in)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}

		pins, err := st.Pins(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(pins) != 1 || !pins[0].IsUsed || pins[0].UsedByMemberID != u.MemberID {
			t.Fatalf("pin state = %+v, want used by %s", pins[0], u.MemberID)
		}
	})

	t.Run("retries a colliding member ID", func(t *testing.T) {
		st := storetest.New()
		sponsor := seedActive(t, st, "BO100001")
		svc := NewService(st, log)

		calls := 0
		svc.genID = func() string {
			calls++
			if calls == 1 {
				return sponsor.MemberID // already taken
			}
			return "BO777777"
		}

		u, err := svc.Register(ctx, validInput(sponsor.MemberID))
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if u.MemberID != "BO777777" {
			t.Errorf("member ID = %q, want the retried candidate", u.MemberID)
		}
		if calls != 2 {
			t.Errorf("generator called %d times, want 2", calls)
		}
	})

	t.Run("gives up after exhausting candidates", func(t *testing.T) {
		st := storetest.New()
		sponsor := seedActive(t, st, "BO100001")
		svc := NewService(st, log)

		calls := 0
		svc.genID = func() string {
			calls++
			return sponsor.MemberID
		}

		_, err := svc.Register(ctx, validInput(sponsor.MemberID))
		if !errors.Is(err, models.ErrBusy) {
			t.Fatalf("err = %v, want ErrBusy", err)
		}
		if calls != memberIDAttempts {
			t.Errorf("generator called %d times, want %d", calls, memberIDAttempts)
		}
	})

	t.Run("used pin rejects registration entirely", func(t *testing.T) {
		st := storetest.New()
		sponsor := seedActive(t, st, "BO100001")
		if _, err := st.CreatePin(ctx, "BOBBBB111122", sponsor.MemberID); err != nil {
			t.Fatal(err)
		}
		if err := st.ConsumePin(ctx, "BOBBBB111122", sponsor.MemberID); err != nil {
			t.Fatal(err)
		}
		svc := NewService(st, log)

		in := validInput(sponsor.MemberID)
		in.Pin = "BOBBBB111122"
		_, err := svc.Register(ctx, in)
		if !errors.Is(err, models.ErrPinNotFound) {
			t.Fatalf("err = %v, want ErrPinNotFound", err)
		}

		if _, err := st.UserByEmail(ctx, in.Email); !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("user was created despite failed pin consume")
		}
	})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("pending becomes active", func(t *testing.T) {
		st := storetest.New()
		u, _ := st.CreateUser(ctx, &models.User{
			MemberID: "BO100002", Email: "a@example.com", Status: models.StatusPending,
		})
		svc := NewService(st, log)

		got, err := svc.Activate(ctx, u.ID)
		if err != nil {
			t.Fatalf("Activate: %v", err)
		}
		if got.Status != models.StatusActive {
			t.Errorf("status = %q, want active", got.Status)
		}
	})

	t.Run("activating twice is a no-op", func(t *testing.T) {
		st := storetest.New()
		u, _ := st.CreateUser(ctx, &models.User{
			MemberID: "BO100003", Email: "b@example.com", Status: models.StatusActive,
		})
		svc := NewService(st, log)

		got, err := svc.Activate(ctx, u.ID)
		if err != nil {
			t.Fatalf("Activate: %v", err)
		}
		if got.Status != models.StatusActive {
			t.Errorf("status = %q, want active", got.Status)
		}
	})

	t.Run("suspended stays suspended", func(t *testing.T) {
		st := storetest.New()
		u, _ := st.CreateUser(ctx, &models.User{
			MemberID: "BO100004", Email: "c@example.com", Status: models.StatusSuspended,
		})
		svc := NewService(st, log)

		_, err := svc.Activate(ctx, u.ID)
		if !errors.Is(err, models.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}
