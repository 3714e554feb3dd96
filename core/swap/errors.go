package swap

import (
	"errors"
	"fmt"
)

// ErrLiquidityUnavailable is raised by GetPrice when the aggregator reports
// no route for the pair. CreateQuote does NOT return this error; it reports
// the same condition as a tagged SwapUnavailable value. The asymmetry is
// deliberate and mirrors what existing callers expect from each path.
var ErrLiquidityUnavailable = errors.New("swap unavailable: insufficient liquidity")

// ErrWaitTimeout is returned when a submitted user operation does not reach
// a terminal status before the wait deadline. Distinct from remote failures:
// the operation may still land on-chain.
var ErrWaitTimeout = errors.New("user operation timed out")

var (
	errMissingToAmount    = errors.New("missing toAmount")
	errMissingTransaction = errors.New("missing transaction")
)

// InvalidResponseError reports an empty or non-JSON body from the swap
// backend. The operation name identifies which endpoint misbehaved.
type InvalidResponseError struct {
	Operation string
	Err       error
}

func (e *InvalidResponseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("empty response from %s", e.Operation)
	}
	return fmt.Sprintf("invalid JSON response from %s: %v", e.Operation, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
