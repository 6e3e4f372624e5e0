// Package storetest provides an in-memory store.Store double for package
// tests. It is not a persistence backend: Postgres is the only production
// implementation.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

type twoFARecord struct {
	secret  string
	enabled bool
}

type state struct {
	users       map[string]*models.User          // by id
	pins        map[string]*models.ActivationPin // by pin code
	payments    map[string]*models.Payment       // by reference
	commissions []*models.Commission
	matrix      map[string]*models.MatrixPosition // by user id
	stockists   map[string]*models.Stockist       // by id
	stockTxs    []*models.StockTransaction
	twoFA       map[string]*twoFARecord // by user id
}

func newState() *state {
	return &state{
		users:     make(map[string]*models.User),
		pins:      make(map[string]*models.ActivationPin),
		payments:  make(map[string]*models.Payment),
		matrix:    make(map[string]*models.MatrixPosition),
		stockists: make(map[string]*models.Stockist),
		twoFA:     make(map[string]*twoFARecord),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.pins {
		p := *v
		c.pins[k] = &p
	}
	for k, v := range s.payments {
		p := *v
		c.payments[k] = &p
	}
	for _, v := range s.commissions {
		cm := *v
		c.commissions = append(c.commissions, &cm)
	}
	for k, v := range s.matrix {
		m := *v
		c.matrix[k] = &m
	}
	for k, v := range s.stockists {
		st := *v
		c.stockists[k] = &st
	}
	for _, v := range s.stockTxs {
		t := *v
		c.stockTxs = append(c.stockTxs, &t)
	}
	for k, v := range s.twoFA {
		r := *v
		c.twoFA[k] = &r
	}
	return c
}

// Mem is a mutex-guarded in-memory Store. WithTx runs the callback against
// a cloned state and swaps it in on success, so a failing callback leaves
// state untouched, matching the transactional contract.
type Mem struct {
	mu   sync.Mutex
	st   *state
	inTx bool

	// FailCreateCommission, when > 0, makes the Nth CreateCommission call
	// fail. Used to exercise rollback paths.
	FailCreateCommission int
	commissionCalls      int
}

var _ store.Store = (*Mem)(nil)

func New() *Mem {
	return &Mem{st: newState()}
}

func (m *Mem) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Mem) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	txState := m.st.clone()
	tx := &Mem{st: txState, inTx: true,
		FailCreateCommission: m.FailCreateCommission,
		commissionCalls:      m.commissionCalls}
	if err := fn(tx); err != nil {
		m.commissionCalls = tx.commissionCalls
		return err
	}
	m.st = txState
	m.commissionCalls = tx.commissionCalls
	return nil
}

// ---- users ----

func (m *Mem) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	defer m.lock()()

	email := strings.ToLower(u.Email)
	for _, existing := range m.st.users {
		if existing.Email == email {
			return nil, models.ErrConflict
		}
		if existing.MemberID == u.MemberID {
			return nil, models.ErrConflict
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.Email = email
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.st.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *Mem) UserByID(ctx context.Context, id string) (*models.User, error) {
	defer m.lock()()
	if u, ok := m.st.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, models.ErrNotFound
}

func (m *Mem) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer m.lock()()
	email = strings.ToLower(email)
	for _, u := range m.st.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *Mem) UserByMemberID(ctx context.Context, memberID string) (*models.User, error) {
	defer m.lock()()
	memberID = strings.ToUpper(memberID)
	for _, u := range m.st.users {
		if u.MemberID == memberID {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *Mem) Users(ctx context.Context) ([]models.User, error) {
	defer m.lock()()
	out := make([]models.User, 0, len(m.st.users))
	for _, u := range m.st.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *Mem) UpdateUserStatus(ctx context.Context, id, status string) (*models.User, error) {
	defer m.lock()()
	u, ok := m.st.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (m *Mem) IncrementReferrals(ctx context.Context, memberID string) error {
	defer m.lock()()
	for _, u := range m.st.users {
		if u.MemberID == memberID {
			u.TotalReferrals++
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *Mem) CreditUserBalance(ctx context.Context, userID string, amount float64) error {
	defer m.lock()()
	u, ok := m.st.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.TotalEarnings += amount
	u.AvailableBalance += amount
	return nil
}

// ---- pins ----

func (m *Mem) CreatePin(ctx context.Context, pin, createdBy string) (*models.ActivationPin, error) {
	defer m.lock()()
	if _, exists := m.st.pins[pin]; exists {
		return nil, models.ErrConflict
	}
	p := &models.ActivationPin{
		ID:        uuid.NewString(),
		Pin:       pin,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	m.st.pins[pin] = p
	out := *p
	return &out, nil
}

func (m *Mem) Pins(ctx context.Context) ([]models.ActivationPin, error) {
	defer m.lock()()
	out := make([]models.ActivationPin, 0, len(m.st.pins))
	for _, p := range m.st.pins {
		out = append(out, *p)
	}
	return out, nil
}

func (m *Mem) ConsumePin(ctx context.Context, pin, byMemberID string) error {
	defer m.lock()()
	p, ok := m.st.pins[pin]
	if !ok || p.IsUsed {
		return models.ErrPinNotFound
	}
	now := time.Now()
	p.IsUsed = true
	p.UsedByMemberID = byMemberID
	p.UsedAt = &now
	return nil
}

// ---- payments ----

func (m *Mem) CreatePayment(ctx context.Context, pay *models.Payment) (*models.Payment, error) {
	defer m.lock()()
	if _, exists := m.st.payments[pay.Reference]; exists {
		return nil, models.ErrConflict
	}
	cp := *pay
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	m.st.payments[cp.Reference] = &cp
	out := cp
	return &out, nil
}

func (m *Mem) PaymentByReference(ctx context.Context, reference string) (*models.Payment, error) {
	defer m.lock()()
	if p, ok := m.st.payments[reference]; ok {
		out := *p
		return &out, nil
	}
	return nil, models.ErrNotFound
}

func (m *Mem) UpdatePaymentStatus(ctx context.Context, reference, status, transactionID string) error {
	defer m.lock()()
	p, ok := m.st.payments[reference]
	if !ok {
		return models.ErrNotFound
	}
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	return nil
}

func (m *Mem) PaymentsForUser(ctx context.Context, userID string) ([]models.Payment, error) {
	defer m.lock()()
	var out []models.Payment
	for _, p := range m.st.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ---- commissions ----

func (m *Mem) CreateCommission(ctx context.Context, c *models.Commission) (*models.Commission, error) {
	defer m.lock()()

	m.commissionCalls++
	if m.FailCreateCommission > 0 && m.commissionCalls == m.FailCreateCommission {
		return nil, models.ErrBusy
	}

	for _, existing := range m.st.commissions {
		if existing.UserID == c.UserID && existing.FromUserID == c.FromUserID &&
			existing.Level == c.Level && existing.PaymentReference == c.PaymentReference {
			return nil, models.ErrConflict
		}
	}
	cp := *c
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	m.st.commissions = append(m.st.commissions, &cp)
	out := cp
	return &out, nil
}

func (m *Mem) CommissionsByReference(ctx context.Context, reference string) ([]models.Commission, error) {
	defer m.lock()()
	var out []models.Commission
	for _, c := range m.st.commissions {
		if c.PaymentReference == reference {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *Mem) CommissionsForUser(ctx context.Context, userID string) ([]models.Commission, error) {
	defer m.lock()()
	var out []models.Commission
	for _, c := range m.st.commissions {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *Mem) Commissions(ctx context.Context) ([]models.Commission, error) {
	defer m.lock()()
	out := make([]models.Commission, 0, len(m.st.commissions))
	for _, c := range m.st.commissions {
		out = append(out, *c)
	}
	return out, nil
}

func (m *Mem) TransitionCommission(ctx context.Context, id, from, to string) (*models.Commission, error) {
	defer m.lock()()
	for _, c := range m.st.commissions {
		if c.ID != id {
			continue
		}
		if c.Status != from {
			return nil, fmt.Errorf("%w: commission is %s, expected %s",
				models.ErrInvalidTransition, c.Status, from)
		}
		c.Status = to
		if to == models.CommissionApproved {
			now := time.Now()
			c.ApprovedAt = &now
		}
		out := *c
		return &out, nil
	}
	return nil, models.ErrNotFound
}

func (m *Mem) CommissionTotals(ctx context.Context, status string) (models.CommissionTotals, error) {
	defer m.lock()()
	var t models.CommissionTotals
	for _, c := range m.st.commissions {
		if status == "" || c.Status == status {
			t.Count++
			t.TotalAmount += c.Amount
		}
	}
	return t, nil
}

// ---- matrix ----

func (m *Mem) CreateMatrixPosition(ctx context.Context, mp *models.MatrixPosition) error {
	defer m.lock()()
	if _, exists := m.st.matrix[mp.UserID]; exists {
		return models.ErrConflict
	}
	cp := *mp
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	m.st.matrix[cp.UserID] = &cp
	return nil
}

func (m *Mem) MatrixPositionByUser(ctx context.Context, userID string) (*models.MatrixPosition, error) {
	defer m.lock()()
	if mp, ok := m.st.matrix[userID]; ok {
		out := *mp
		return &out, nil
	}
	return nil, models.ErrNotFound
}

func (m *Mem) MatrixChildCount(ctx context.Context, uplineMemberID string) (int, error) {
	defer m.lock()()
	count := 0
	for _, mp := range m.st.matrix {
		if mp.UplineMemberID == uplineMemberID {
			count++
		}
	}
	return count, nil
}

// ---- stockists ----

func (m *Mem) CreateStockist(ctx context.Context, s *models.Stockist) (*models.Stockist, error) {
	defer m.lock()()
	for _, existing := range m.st.stockists {
		if existing.UserID == s.UserID {
			return nil, models.ErrConflict
		}
	}
	cp := *s
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.st.stockists[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *Mem) StockistByID(ctx context.Context, id string) (*models.Stockist, error) {
	defer m.lock()()
	if s, ok := m.st.stockists[id]; ok {
		out := *s
		return &out, nil
	}
	return nil, models.ErrNotFound
}

func (m *Mem) StockistByUserID(ctx context.Context, userID string) (*models.Stockist, error) {
	defer m.lock()()
	for _, s := range m.st.stockists {
		if s.UserID == userID {
			out := *s
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *Mem) Stockists(ctx context.Context) ([]models.Stockist, error) {
	defer m.lock()()
	out := make([]models.Stockist, 0, len(m.st.stockists))
	for _, s := range m.st.stockists {
		out = append(out, *s)
	}
	return out, nil
}

func (m *Mem) ApproveStockist(ctx context.Context, id, approvedBy string) (*models.Stockist, error) {
	defer m.lock()()
	s, ok := m.st.stockists[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if s.Status != models.StockistPending {
		return nil, fmt.Errorf("%w: stockist is %s, expected pending",
			models.ErrInvalidTransition, s.Status)
	}
	now := time.Now()
	s.Status = models.StockistApproved
	s.ApprovedBy = approvedBy
	s.ApprovedAt = &now
	out := *s
	return &out, nil
}

func (m *Mem) CreateStockTransaction(ctx context.Context, t *models.StockTransaction) (*models.StockTransaction, error) {
	defer m.lock()()
	cp := *t
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	m.st.stockTxs = append(m.st.stockTxs, &cp)
	out := cp
	return &out, nil
}

func (m *Mem) AdjustStockistInventory(ctx context.Context, id string, stockDelta int, salesDelta, commissionDelta float64) error {
	defer m.lock()()
	s, ok := m.st.stockists[id]
	if !ok {
		return models.ErrNotFound
	}
	if s.AvailableStock+stockDelta < 0 {
		return fmt.Errorf("%w: stock would go negative", models.ErrIntegrity)
	}
	s.AvailableStock += stockDelta
	s.TotalSales += salesDelta
	s.TotalCommission += commissionDelta
	s.UpdatedAt = time.Now()
	return nil
}

func (m *Mem) StockTransactions(ctx context.Context, stockistID string) ([]models.StockTransaction, error) {
	defer m.lock()()
	var out []models.StockTransaction
	for _, t := range m.st.stockTxs {
		if t.StockistID == stockistID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// ---- twofa ----

func (m *Mem) SaveTwoFASecret(ctx context.Context, userID, secret string) error {
	defer m.lock()()
	m.st.twoFA[userID] = &twoFARecord{secret: secret}
	return nil
}

func (m *Mem) TwoFA(ctx context.Context, userID string) (string, bool, error) {
	defer m.lock()()
	if r, ok := m.st.twoFA[userID]; ok {
		return r.secret, r.enabled, nil
	}
	return "", false, models.ErrNotFound
}

func (m *Mem) EnableTwoFA(ctx context.Context, userID string) error {
	defer m.lock()()
	r, ok := m.st.twoFA[userID]
	if !ok {
		return models.ErrNotFound
	}
	r.enabled = true
	return nil
}
