package swap

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/avakit/swapcore/core/useroperation"
)

var terminalStatuses = []string{useroperation.StatusComplete, useroperation.StatusFailed}

// WaitOptions bound the poll loop. Zero values take the defaults.
type WaitOptions struct {
	Timeout  time.Duration // default 20s
	Interval time.Duration // default 200ms
}

const (
	defaultWaitTimeout  = 20 * time.Second
	defaultWaitInterval = 200 * time.Millisecond
)

// WaitForUserOperation polls a submitted user operation until it reaches a
// terminal status ("complete" or "failed"), the timeout passes, or ctx is
// cancelled. The loop always fetches at least once before sleeping, and a
// cancelled context aborts mid-sleep rather than leaking the poll.
//
// ErrWaitTimeout means the deadline passed with the operation still
// pending; it may yet land on-chain.
func WaitForUserOperation(
	ctx context.Context,
	getter OperationGetter,
	smartAccount common.Address,
	userOpHash string,
	options WaitOptions,
) (*useroperation.UserOperation, error) {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	interval := options.Interval
	if interval <= 0 {
		interval = defaultWaitInterval
	}

	deadline := time.Now().Add(timeout)

	op, err := getter.Get(ctx, smartAccount, userOpHash)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !lo.Contains(terminalStatuses, op.Status) {
		if time.Now().After(deadline) {
			return nil, ErrWaitTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		op, err = getter.Get(ctx, smartAccount, userOpHash)
		if err != nil {
			return nil, err
		}
	}

	return op, nil
}

// WaitForUserOperation is the instrumented variant: timeouts are counted
// before being returned unchanged.
func (s *Service) WaitForUserOperation(
	ctx context.Context,
	getter OperationGetter,
	smartAccount common.Address,
	userOpHash string,
	options WaitOptions,
) (*useroperation.UserOperation, error) {
	op, err := WaitForUserOperation(ctx, getter, smartAccount, userOpHash, options)
	if errors.Is(err, ErrWaitTimeout) {
		s.metrics.IncWaitTimeouts()
	}
	return op, err
}

