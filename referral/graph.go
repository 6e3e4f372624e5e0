package referral

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
)

// DefaultMaxDepth is how far up the sponsor chain commissions reach.
const DefaultMaxDepth = 5

// Store is the slice of the store the graph walk needs.
type Store interface {
	UserByMemberID(ctx context.Context, memberID string) (*models.User, error)
}

// Ancestor is one hop up the sponsor chain. Level 1 is the direct sponsor.
type Ancestor struct {
	UserID   string
	MemberID string
	Level    int
}

// AncestorChain walks sponsor edges upward from memberID, truncating at
// maxDepth or the tree root. A cycle or a dangling sponsor reference stops
// the walk with a warning instead of failing the caller: the chain built
// so far is still valid.
func AncestorChain(ctx context.Context, st Store, log *zap.Logger, memberID string, maxDepth int) ([]Ancestor, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	start, err := st.UserByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{start.MemberID: true}
	chain := make([]Ancestor, 0, maxDepth)
	next := start.SponsorMemberID

	for level := 1; level <= maxDepth && next != ""; level++ {
		if seen[next] {
			log.Warn("referral cycle detected, truncating chain",
				zap.String("member_id", memberID),
				zap.String("cycle_at", next),
				zap.Int("level", level))
			break
		}
		seen[next] = true

		sponsor, err := st.UserByMemberID(ctx, next)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				log.Warn("sponsor chain references missing member",
					zap.String("member_id", memberID),
					zap.String("missing", next),
					zap.Int("level", level))
				break
			}
			return nil, err
		}

		chain = append(chain, Ancestor{
			UserID:   sponsor.ID,
			MemberID: sponsor.MemberID,
			Level:    level,
		})
		next = sponsor.SponsorMemberID
	}

	return chain, nil
}
