package pins

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/monitoring"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

const maxBatchSize = 1000

// Service is the activation PIN registry.
type Service struct {
	st store.Store
}

func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// NewPinCode generates an opaque PIN code: "BO" + 10 hex chars.
func NewPinCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BO" + raw[:10]
}

func (s *Service) IssueBatch(ctx context.Context, n int, createdBy string) ([]models.ActivationPin, error) {
	if n < 1 || n > maxBatchSize {
		return nil, models.Invalid("count", "must be between 1 and 1000")
	}

	out := make([]models.ActivationPin, 0, n)
	for i := 0; i < n; i++ {
		pin, err := s.st.CreatePin(ctx, NewPinCode(), createdBy)
		if err != nil {
			// Code collision is astronomically unlikely but retriable.
			if errors.Is(err, models.ErrConflict) {
				i--
				continue
			}
			return nil, err
		}
		out = append(out, *pin)
	}
	return out, nil
}

// Consume marks the PIN used by the given member. Exactly one caller wins
// under concurrency; losers get ErrPinNotFound.
func (s *Service) Consume(ctx context.Context, pin, byMemberID string) error {
	if err := s.st.ConsumePin(ctx, strings.ToUpper(strings.TrimSpace(pin)), byMemberID); err != nil {
		return err
	}
	monitoring.PinsConsumedTotal.Inc()
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.ActivationPin, error) {
	return s.st.Pins(ctx)
}
