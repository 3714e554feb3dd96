package swap

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/avakit/swapcore/core/telemetry"
	"github.com/avakit/swapcore/core/transport"
	"github.com/avakit/swapcore/metrics"
)

// Service acquires prices and executable quotes from the liquidity
// aggregator. It holds no cross-call state; concurrent use is safe.
type Service struct {
	transport transport.Client
	logger    *zap.Logger
	metrics   *metrics.Metrics
	telemetry *telemetry.Reporter
	validate  *validator.Validate
}

// NewService wires the quote acquisition layer. metrics and reporter may be
// nil for library consumers that do not instrument.
func NewService(t transport.Client, logger *zap.Logger, m *metrics.Metrics, reporter *telemetry.Reporter) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		transport: t,
		logger:    logger,
		metrics:   m,
		telemetry: reporter,
		validate:  validator.New(),
	}
}

// decodeResponse guards the strict decode: the aggregator's answers are
// polymorphic (oneOf), so we take raw bytes from the transport and decode
// here, naming the operation in any failure.
func decodeResponse(raw []byte, operation string, out interface{}) error {
	if len(raw) == 0 {
		return &InvalidResponseError{Operation: operation}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidResponseError{Operation: operation, Err: err}
	}
	return nil
}
