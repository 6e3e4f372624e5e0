package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

const memberIDAttempts = 5

var (
	memberIDPattern = regexp.MustCompile(`^BO\d{6}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Service owns user records: registration, activation, lookups.
type Service struct {
	st    store.Store
	log   *zap.Logger
	genID func() string
}

func NewService(st store.Store, log *zap.Logger) *Service {
	return &Service{st: st, log: log, genID: NewMemberID}
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	SponsorMemberID string
	UplineMemberID  string
	Pin             string
	Location        string
}

// NewMemberID generates a candidate member ID: "BO" + 6 random digits.
func NewMemberID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return fmt.Sprintf("BO%06d", n.Int64()+100000)
}

// ValidMemberID reports whether s has the canonical member ID shape.
func ValidMemberID(s string) bool {
	return memberIDPattern.MatchString(s)
}

func (in *RegisterInput) validate() error {
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return models.Invalid("first_name", "required")
	case strings.TrimSpace(in.LastName) == "":
		return models.Invalid("last_name", "required")
	case !emailPattern.MatchString(in.Email):
		return models.Invalid("email", "invalid email address")
	case strings.TrimSpace(in.Phone) == "":
		return models.Invalid("phone", "required")
	case len(in.Password) < 6:
		return models.Invalid("password", "must be at least 6 characters")
	case in.SponsorMemberID == "":
		return models.Invalid("sponsor_id", "required")
	case in.UplineMemberID == "":
		return models.Invalid("upline_id", "required")
	}
	return nil
}

// Register creates a pending user. Sponsor and upline must resolve to
// active members; the optional PIN is consumed atomically with the insert.
// Uniqueness of email and member ID is ultimately enforced by the store's
// constraints, so a lost race surfaces as ErrConflict, never a duplicate.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	sponsorID := strings.ToUpper(strings.TrimSpace(in.SponsorMemberID))
	uplineID := strings.ToUpper(strings.TrimSpace(in.UplineMemberID))

	sponsor, err := s.st.UserByMemberID(ctx, sponsorID)
	if err != nil || sponsor.Status != models.StatusActive {
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, models.ErrInvalidSponsor
	}
	if _, err := s.lookupActive(ctx, uplineID, models.ErrInvalidUpline); err != nil {
		return nil, err
	}

	if _, err := s.st.UserByEmail(ctx, in.Email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var created *models.User
	err = s.st.WithTx(ctx, func(tx store.Store) error {
		memberID, err := s.freeMemberID(ctx, tx)
		if err != nil {
			return err
		}

		if in.Pin != "" {
			if err := tx.ConsumePin(ctx, strings.ToUpper(strings.TrimSpace(in.Pin)), memberID); err != nil {
				return err
			}
		}

		created, err = tx.CreateUser(ctx, &models.User{
			MemberID:        memberID,
			FirstName:       strings.TrimSpace(in.FirstName),
			LastName:        strings.TrimSpace(in.LastName),
			Email:           in.Email,
			Phone:           strings.TrimSpace(in.Phone),
			PasswordHash:    hash,
			SponsorMemberID: sponsorID,
			UplineMemberID:  uplineID,
			Location:        strings.TrimSpace(in.Location),
			Status:          models.StatusPending,
			Role:            models.RoleUser,
			PackageType:     "starter",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("member registered",
		zap.String("member_id", created.MemberID),
		zap.String("sponsor_id", sponsorID))
	return created, nil
}

// freeMemberID draws candidate IDs until one is unclaimed. Collisions are
// exceptionally rare; after memberIDAttempts we give up rather than spin.
func (s *Service) freeMemberID(ctx context.Context, st store.Store) (string, error) {
	for i := 0; i < memberIDAttempts; i++ {
		candidate := s.genID()
		_, err := st.UserByMemberID(ctx, candidate)
		if errors.Is(err, models.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: could not allocate a member ID", models.ErrBusy)
}

func (s *Service) lookupActive(ctx context.Context, memberID string, failure error) (*models.User, error) {
	u, err := s.st.UserByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, failure
		}
		return nil, err
	}
	if u.Status != models.StatusActive {
		return nil, failure
	}
	return u, nil
}

// Activate moves a user from pending to active. Activating an already
// active user is a no-op returning current state, so duplicate payment
// confirmations are harmless. Suspended users stay suspended.
func Activate(ctx context.Context, st store.Store, userID string) (*models.User, error) {
	u, err := st.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch u.Status {
	case models.StatusActive:
		return u, nil
	case models.StatusSuspended:
		return nil, fmt.Errorf("%w: user is suspended", models.ErrInvalidTransition)
	}
	return st.UpdateUserStatus(ctx, userID, models.StatusActive)
}

func (s *Service) Activate(ctx context.Context, userID string) (*models.User, error) {
	return Activate(ctx, s.st, userID)
}

// Suspend is the admin-side status transition.
func (s *Service) Suspend(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.st.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Status == models.StatusSuspended {
		return u, nil
	}
	return s.st.UpdateUserStatus(ctx, userID, models.StatusSuspended)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.st.UserByEmail(ctx, email)
}

func (s *Service) FindByMemberID(ctx context.Context, memberID string) (*models.User, error) {
	return s.st.UserByMemberID(ctx, memberID)
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.st.UserByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.st.Users(ctx)
}
