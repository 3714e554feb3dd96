// Package useroperation submits batched calls for a smart account as a
// single user operation and reads back its status. The bundler interaction
// itself lives behind the platform API; this client only prepares, signs and
// sends.
package useroperation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/avakit/swapcore/core/signer"
	"github.com/avakit/swapcore/core/transport"
)

const (
	StatusBroadcast = "broadcast"
	StatusComplete  = "complete"
	StatusFailed    = "failed"
)

// Call is one encoded call inside a user operation batch.
type Call struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// UserOperation is the platform's view of a submitted batch.
type UserOperation struct {
	UserOpHash      string `json:"userOpHash"`
	Status          string `json:"status"`
	Network         string `json:"network,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Calls           []Call `json:"calls,omitempty"`
}

// HashSigner signs a 32-byte hash for a managed address.
type HashSigner interface {
	SignHash(ctx context.Context, address common.Address, hash string, idempotencyKey string) (string, error)
}

type Client struct {
	transport transport.Client
	signer    HashSigner
}

func NewClient(t transport.Client, s HashSigner) *Client {
	return &Client{transport: t, signer: s}
}

// Send runs the prepare/sign/send sequence: the platform assembles the user
// operation and returns its hash, the owner signs that hash, and the signed
// operation goes to the bundler. When paymasterURL is set the operation is
// gas sponsored.
func (c *Client) Send(
	ctx context.Context,
	smartAccount common.Address,
	owner common.Address,
	network string,
	calls []Call,
	paymasterURL string,
	idempotencyKey string,
) (*UserOperation, error) {
	if len(calls) == 0 {
		return nil, fmt.Errorf("calls list cannot be empty")
	}

	prepareBody := map[string]interface{}{
		"network": network,
		"calls":   calls,
	}
	if paymasterURL != "" {
		prepareBody["paymasterUrl"] = paymasterURL
	}

	basePath := fmt.Sprintf("/v2/evm/smart-accounts/%s/user-operations", smartAccount.Hex())

	raw, err := c.transport.Do(ctx, http.MethodPost, basePath, idempotencyKey, prepareBody)
	if err != nil {
		return nil, &signer.SubmissionError{Err: fmt.Errorf("prepare user operation: %w", err)}
	}

	var prepared UserOperation
	if err := json.Unmarshal(raw, &prepared); err != nil {
		return nil, &signer.SubmissionError{Err: fmt.Errorf("malformed prepare response: %w", err)}
	}
	if prepared.UserOpHash == "" {
		return nil, &signer.SubmissionError{Err: fmt.Errorf("prepare response carried no userOpHash")}
	}

	signature, err := c.signer.SignHash(ctx, owner, prepared.UserOpHash, idempotencyKey)
	if err != nil {
		return nil, err
	}

	sendPath := fmt.Sprintf("%s/%s/send", basePath, prepared.UserOpHash)
	raw, err = c.transport.Do(ctx, http.MethodPost, sendPath, "", map[string]string{"signature": signature})
	if err != nil {
		return nil, &signer.SubmissionError{Err: fmt.Errorf("send user operation: %w", err)}
	}

	var sent UserOperation
	if err := json.Unmarshal(raw, &sent); err != nil {
		return nil, &signer.SubmissionError{Err: fmt.Errorf("malformed send response: %w", err)}
	}
	if sent.UserOpHash == "" {
		sent.UserOpHash = prepared.UserOpHash
	}

	return &sent, nil
}

// Get fetches the current state of a user operation.
func (c *Client) Get(ctx context.Context, smartAccount common.Address, userOpHash string) (*UserOperation, error) {
	path := fmt.Sprintf("/v2/evm/smart-accounts/%s/user-operations/%s", smartAccount.Hex(), userOpHash)

	raw, err := c.transport.Do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var op UserOperation
	if err := json.Unmarshal(raw, &op); err != nil {
		return nil, fmt.Errorf("malformed user operation response: %w", err)
	}

	return &op, nil
}
