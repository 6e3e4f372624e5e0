package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/identity"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/ledger"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/payment"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/pins"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/stockist"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store/storetest"
)

func testRouter(t *testing.T) (*gin.Engine, *storetest.Mem, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := storetest.New()
	cfg := &config.Config{
		PackagePrice:     36000,
		CommissionRates:  []float64{0.10, 0.05},
		JWTSecret:        "test-access",
		JWTRefreshSecret: "test-refresh",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	log := zap.NewNop()

	sponsor, err := st.CreateUser(context.Background(), &models.User{
		MemberID: "BO000001",
		Email:    "root@example.com",
		Status:   models.StatusActive,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}

	identitySvc := identity.NewService(st, log)
	ledgerSvc := ledger.NewService(st, cfg, log)
	intake := payment.NewIntake(st, cfg, payment.NewPaystackClient(cfg), ledgerSvc, log)
	h := New(cfg, st, identitySvc, pins.NewService(st), ledgerSvc, intake, stockist.NewService(st, log), log)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	return r, st, sponsor
}

func postJSON(t *testing.T, r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	ctx := context.Background()

	registerBody := func(pin string) map[string]any {
		return map[string]any{
			"first_name": "Ada",
			"last_name":  "Obi",
			"email":      "ada@example.com",
			"phone":      "+2348011111111",
			"password":   "secret1",
			"sponsor_id": "BO000001",
			"upline_id":  "BO000001",
			"pin":        pin,
		}
	}

	t.Run("pin registration stays pending until payment", func(t *testing.T) {
		r, st, sponsor := testRouter(t)
		if _, err := st.CreatePin(ctx, "BOCAFE000044", sponsor.MemberID); err != nil {
			t.Fatal(err)
		}

		w := postJSON(t, r, "/api/auth/register", registerBody("BOCAFE000044"))
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		u, err := st.UserByEmail(ctx, "ada@example.com")
		if err != nil {
			t.Fatal(err)
		}
		if u.Status != models.StatusPending {
			t.Errorf("status = %q, want pending: activation is payment's job", u.Status)
		}

		all, err := st.Commissions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 0 {
			t.Errorf("ledger holds %d rows before any payment, want 0", len(all))
		}

		got, err := st.UserByID(ctx, sponsor.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.TotalReferrals != 0 {
			t.Errorf("sponsor referrals = %d before activation, want 0", got.TotalReferrals)
		}

		pinList, err := st.Pins(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(pinList) != 1 || !pinList[0].IsUsed {
			t.Errorf("pin state = %+v, want consumed at registration", pinList)
		}
	})

	t.Run("registration without pin stays pending too", func(t *testing.T) {
		r, st, _ := testRouter(t)

		w := postJSON(t, r, "/api/auth/register", registerBody(""))
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		u, err := st.UserByEmail(ctx, "ada@example.com")
		if err != nil {
			t.Fatal(err)
		}
		if u.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", u.Status)
		}
	})

	t.Run("used pin rejects the registration", func(t *testing.T) {
		r, st, sponsor := testRouter(t)
		if _, err := st.CreatePin(ctx, "BOCAFE000055", sponsor.MemberID); err != nil {
			t.Fatal(err)
		}
		if err := st.ConsumePin(ctx, "BOCAFE000055", sponsor.MemberID); err != nil {
			t.Fatal(err)
		}

		w := postJSON(t, r, "/api/auth/register", registerBody("BOCAFE000055"))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
