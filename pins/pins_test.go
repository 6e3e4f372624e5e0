package pins

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store/storetest"
)

func TestNewPinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := NewPinCode()
		if !strings.HasPrefix(code, "BO") || len(code) != 12 {
			t.Fatalf("code %q has wrong shape", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestIssueBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("issues the requested count", func(t *testing.T) {
		svc := NewService(storetest.New())
		out, err := svc.IssueBatch(ctx, 25, "BO000001")
		if err != nil {
			t.Fatalf("IssueBatch: %v", err)
		}
		if len(out) != 25 {
			t.Fatalf("issued %d, want 25", len(out))
		}
		for _, p := range out {
			if p.IsUsed {
				t.Errorf("pin %s issued already used", p.Pin)
			}
			if p.CreatedBy != "BO000001" {
				t.Errorf("pin %s createdBy = %q", p.Pin, p.CreatedBy)
			}
		}
	})

	t.Run("rejects out-of-range counts", func(t *testing.T) {
		svc := NewService(storetest.New())
		for _, n := range []int{0, -1, 1001} {
			if _, err := svc.IssueBatch(ctx, n, "BO000001"); !models.IsValidation(err) {
				t.Errorf("IssueBatch(%d) err = %v, want validation error", n, err)
			}
		}
	})
}

func TestConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes input", func(t *testing.T) {
		st := storetest.New()
		svc := NewService(st)
		if _, err := st.CreatePin(ctx, "BOCAFE000011", "BO000001"); err != nil {
			t.Fatal(err)
		}

		if err := svc.Consume(ctx, "  bocafe000011 ", "BO123456"); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	})

	t.Run("second consume fails", func(t *testing.T) {
		st := storetest.New()
		svc := NewService(st)
		if _, err := st.CreatePin(ctx, "BOCAFE000022", "BO000001"); err != nil {
			t.Fatal(err)
		}

		if err := svc.Consume(ctx, "BOCAFE000022", "BO111111"); err != nil {
			t.Fatalf("first Consume: %v", err)
		}
		if err := svc.Consume(ctx, "BOCAFE000022", "BO222222"); !errors.Is(err, models.ErrPinNotFound) {
			t.Fatalf("second Consume err = %v, want ErrPinNotFound", err)
		}
	})

	t.Run("exactly one concurrent winner", func(t *testing.T) {
		st := storetest.New()
		svc := NewService(st)
		if _, err := st.CreatePin(ctx, "BOCAFE000033", "BO000001"); err != nil {
			t.Fatal(err)
		}

		const workers = 32
		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- svc.Consume(ctx, "BOCAFE000033", "BO555555")
			}()
		}
		wg.Wait()
		close(results)

		winners := 0
		for err := range results {
			if err == nil {
				winners++
			} else if !errors.Is(err, models.ErrPinNotFound) {
				t.Errorf("unexpected error: %v", err)
			}
		}
		if winners != 1 {
			t.Fatalf("winners = %d, want exactly 1", winners)
		}
	})
}
