// Package signer talks to the remote per-address signing service. Keys never
// leave that service; this process only ever sees addresses and signatures.
package signer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/avakit/swapcore/core/transport"
)

// RemoteSigningError wraps a failure from the signing service. The engine
// never retries these; retry safety belongs to the caller's idempotency key.
type RemoteSigningError struct {
	Err error
}

func (e *RemoteSigningError) Error() string {
	return fmt.Sprintf("remote signing failed: %v", e.Err)
}

func (e *RemoteSigningError) Unwrap() error { return e.Err }

// SubmissionError wraps a failure from the transaction submission service.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// RemoteSigner signs payloads and submits transactions through the platform
// API on behalf of a managed address.
type RemoteSigner struct {
	transport transport.Client
}

func NewRemoteSigner(t transport.Client) *RemoteSigner {
	return &RemoteSigner{transport: t}
}

// SignTypedData asks the signing service for an EIP-712 signature over typed
// for the given managed address. Returns the 65-byte signature as 0x-hex.
func (s *RemoteSigner) SignTypedData(ctx context.Context, address common.Address, typed apitypes.TypedData, idempotencyKey string) (string, error) {
	path := fmt.Sprintf("/v2/evm/accounts/%s/sign/typed-data", address.Hex())

	raw, err := s.transport.Do(ctx, http.MethodPost, path, idempotencyKey, typed)
	if err != nil {
		return "", &RemoteSigningError{Err: err}
	}

	var resp struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &RemoteSigningError{Err: fmt.Errorf("malformed sign response: %w", err)}
	}
	if resp.Signature == "" {
		return "", &RemoteSigningError{Err: fmt.Errorf("sign response carried no signature")}
	}

	return resp.Signature, nil
}

// SignHash asks the signing service for a raw hash signature. Used for user
// operation hashes, which the bundler verifies against the owner key.
func (s *RemoteSigner) SignHash(ctx context.Context, address common.Address, hash string, idempotencyKey string) (string, error) {
	path := fmt.Sprintf("/v2/evm/accounts/%s/sign", address.Hex())

	raw, err := s.transport.Do(ctx, http.MethodPost, path, idempotencyKey, map[string]string{"hash": hash})
	if err != nil {
		return "", &RemoteSigningError{Err: err}
	}

	var resp struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &RemoteSigningError{Err: fmt.Errorf("malformed sign response: %w", err)}
	}

	return resp.Signature, nil
}

// SendTransaction serializes tx unsigned and hands it to the platform, which
// signs with the managed key and broadcasts. Returns the transaction hash.
func (s *RemoteSigner) SendTransaction(ctx context.Context, address common.Address, tx *types.Transaction, network string, idempotencyKey string) (string, error) {
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("cannot serialize transaction: %w", err)}
	}

	path := fmt.Sprintf("/v2/evm/accounts/%s/send/transaction", address.Hex())
	body := map[string]string{
		"transaction": hexutil.Encode(serialized),
		"network":     network,
	}

	raw, err := s.transport.Do(ctx, http.MethodPost, path, idempotencyKey, body)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	var resp struct {
		TransactionHash string `json:"transactionHash"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("malformed send response: %w", err)}
	}

	return resp.TransactionHash, nil
}
