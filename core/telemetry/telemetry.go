// Package telemetry ships best-effort error reports to the platform. A
// failed or disabled report never surfaces to the caller; the original
// error always wins.
package telemetry

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/avakit/swapcore/core/transport"
	"github.com/avakit/swapcore/version"
)

// Reporter is enabled explicitly through configuration at process start.
// There is no ambient toggle read at call time.
type Reporter struct {
	enabled   bool
	transport transport.Client
	logger    *zap.Logger
}

func NewReporter(enabled bool, t transport.Client, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{enabled: enabled, transport: t, logger: logger}
}

// ReportError submits an error event. Nil-safe; swallows its own failures.
func (r *Reporter) ReportError(ctx context.Context, operation string, err error) {
	if r == nil || !r.enabled || err == nil {
		return
	}

	body := map[string]string{
		"operation": operation,
		"message":   err.Error(),
		"version":   version.Get(),
	}

	if _, reportErr := r.transport.Do(ctx, http.MethodPost, "/v2/telemetry/errors", "", body); reportErr != nil {
		r.logger.Debug("telemetry report failed",
			zap.String("operation", operation),
			zap.Error(reportErr))
	}
}
