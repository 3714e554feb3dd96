package swap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avakit/swapcore/core/useroperation"
)

type fakeOperationGetter struct {
	statuses []string
	err      error
	gets     int
}

func (f *fakeOperationGetter) Get(ctx context.Context, smartAccount common.Address, userOpHash string) (*useroperation.UserOperation, error) {
	if f.err != nil {
		return nil, f.err
	}
	i := f.gets
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.gets++
	return &useroperation.UserOperation{UserOpHash: userOpHash, Status: f.statuses[i]}, nil
}

func TestWaitReturnsImmediatelyOnTerminalStatus(t *testing.T) {
	for _, status := range []string{useroperation.StatusComplete, useroperation.StatusFailed} {
		getter := &fakeOperationGetter{statuses: []string{status}}

		op, err := WaitForUserOperation(context.Background(), getter, common.HexToAddress(walletAddress), "0xophash", WaitOptions{})
		require.NoError(t, err)
		assert.Equal(t, status, op.Status)
		assert.Equal(t, 1, getter.gets, "terminal status needs no second poll")
	}
}

func TestWaitPollsUntilComplete(t *testing.T) {
	getter := &fakeOperationGetter{statuses: []string{
		useroperation.StatusBroadcast,
		useroperation.StatusBroadcast,
		useroperation.StatusComplete,
	}}

	op, err := WaitForUserOperation(context.Background(), getter, common.HexToAddress(walletAddress), "0xophash", WaitOptions{
		Timeout:  2 * time.Second,
		Interval: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, useroperation.StatusComplete, op.Status)
	assert.Equal(t, 3, getter.gets)
}

func TestWaitTimesOut(t *testing.T) {
	getter := &fakeOperationGetter{statuses: []string{useroperation.StatusBroadcast}}

	_, err := WaitForUserOperation(context.Background(), getter, common.HexToAddress(walletAddress), "0xophash", WaitOptions{
		Timeout:  10 * time.Millisecond,
		Interval: time.Millisecond,
	})

	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.GreaterOrEqual(t, getter.gets, 1)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	getter := &fakeOperationGetter{statuses: []string{useroperation.StatusBroadcast}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitForUserOperation(ctx, getter, common.HexToAddress(walletAddress), "0xophash", WaitOptions{
		Timeout:  time.Minute,
		Interval: time.Minute,
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, getter.gets, "cancellation aborts before the next poll")
}

func TestWaitPropagatesGetterError(t *testing.T) {
	boom := errors.New("upstream 503")
	getter := &fakeOperationGetter{err: boom}

	_, err := WaitForUserOperation(context.Background(), getter, common.HexToAddress(walletAddress), "0xophash", WaitOptions{})
	assert.ErrorIs(t, err, boom)
}
