package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Silvertoken1/BRIGHT-ORION-0.2/config"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/identity"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/ledger"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/models"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/payment"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/pins"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/stockist"
	"github.com/Silvertoken1/BRIGHT-ORION-0.2/store"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	cfg       *config.Config
	st        store.Store
	identity  *identity.Service
	pins      *pins.Service
	ledger    *ledger.Service
	intake    *payment.Intake
	stockists *stockist.Service
	log       *zap.Logger
}

func New(cfg *config.Config, st store.Store, id *identity.Service, pn *pins.Service,
	ld *ledger.Service, in *payment.Intake, sk *stockist.Service, log *zap.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		st:        st,
		identity:  id,
		pins:      pn,
		ledger:    ld,
		intake:    in,
		stockists: sk,
		log:       log,
	}
}

// respondErr maps domain errors onto HTTP statuses. Everything unmapped is
// a 500 with the detail kept out of the response body.
func (h *Handler) respondErr(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err),
		errors.Is(err, models.ErrInvalidSponsor),
		errors.Is(err, models.ErrInvalidUpline),
		errors.Is(err, models.ErrPinNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrUnknownReference):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrIntegrity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, retry"})
	default:
		h.log.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bright-orion"})
}
