// Package swap is the quoting and execution engine: it obtains prices and
// binding quotes from the remote liquidity aggregator, authorizes Permit2
// transfers, and submits the swap either as a plain EIP-1559 transaction
// (externally-owned account) or as a batched user operation (smart account).
package swap

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/avakit/swapcore/core/useroperation"
	"github.com/avakit/swapcore/model"
)

// DefaultSlippageBps is applied when the caller does not pick a slippage
// tolerance. 100 bps = 1%.
const DefaultSlippageBps = 100

const quoteIDLength = 16

// Networks the aggregator quotes on, with their chain ids.
var networkChainIDs = map[string]int64{
	"ethereum": 1,
	"base":     8453,
}

func supportedNetworks() []string {
	return []string{"base", "ethereum"}
}

// ChainID maps a network name to its chain id. Zero when unknown.
func ChainID(network string) int64 {
	return networkChainIDs[strings.ToLower(network)]
}

// PriceEstimate is a non-binding price preview. It carries no calldata and
// can never be executed.
type PriceEstimate struct {
	QuoteID    string
	FromToken  string
	ToToken    string
	FromAmount string
	ToAmount   string
	PriceRatio string
	ExpiresAt  time.Time
}

// Permit2Data is the transfer-permit payload the taker must sign before the
// router may move the input token.
type Permit2Data struct {
	EIP712 apitypes.TypedData
	Hash   string
}

// SwapQuote is a binding, executable swap. It is immutable after creation
// and consumed at most once by an execution strategy.
type SwapQuote struct {
	QuoteID    string
	FromToken  string
	ToToken    string
	FromAmount string
	ToAmount   string
	// MinToAmount is the slippage floor; always <= ToAmount.
	MinToAmount string
	Network     string

	// Transaction fields supplied by the aggregator. Gas and fee values are
	// consumed as-is; this engine never estimates.
	To                   string
	Data                 string
	Value                string
	GasLimit             uint64
	GasPrice             string
	MaxFeePerGas         string
	MaxPriorityFeePerGas string

	// RequiresSignature is true iff the aggregator attached a Permit2 struct.
	RequiresSignature bool
	Permit2           *Permit2Data
}

// ExecutionContext carries the identifying parameters the quote creator
// supplied, enabling the quote to be executed later without restating them.
// Write-once at construction.
type ExecutionContext struct {
	Taker         common.Address
	SignerAddress common.Address
	SmartAccount  *model.SmartAccount
	PaymasterURL  string
}

// ExecutableQuote pairs an immutable quote with its optional execution
// context. Context is nil when the creator supplied no identifying params.
type ExecutableQuote struct {
	Quote   SwapQuote
	Context *ExecutionContext
}

// SwapUnavailable is the tagged no-liquidity outcome of CreateQuote.
type SwapUnavailable struct {
	LiquidityAvailable bool
}

// CreateQuoteResult is a tagged union: exactly one of Quote or Unavailable
// is non-nil.
type CreateQuoteResult struct {
	Quote       *ExecutableQuote
	Unavailable *SwapUnavailable
}

// ExecutionResult is the terminal value of a submitted swap. The EOA
// strategy fills TransactionHash; the smart account strategy fills the
// user operation fields.
type ExecutionResult struct {
	TransactionHash string

	UserOpHash          string
	SmartAccountAddress string
	Status              string
}

// InlineSwapParams describe a swap whose quote has not been created yet. An
// execution strategy creates it first with a stage-derived idempotency key.
type InlineSwapParams struct {
	FromToken   string `validate:"required,eth_addr"`
	ToToken     string `validate:"required,eth_addr"`
	FromAmount  string `validate:"required,number"`
	Network     string `validate:"required,oneof=base ethereum"`
	Taker       string `validate:"omitempty,eth_addr"`
	SlippageBps *int
}

// SwapOptions is the discriminated quote-or-inline input of both execution
// strategies. Exactly one of Quote or Inline must be set; the union is
// resolved once at the API boundary.
type SwapOptions struct {
	Quote  *ExecutableQuote
	Inline *InlineSwapParams

	// IdempotencyKey is the caller's base key. Per-stage keys ("quote",
	// "permit2") are derived from it so a retried call repeats the exact
	// same remote side effects.
	IdempotencyKey string
}

func (o *SwapOptions) validate() error {
	if o.Quote == nil && o.Inline == nil {
		return model.NewValidationError("either a swap quote or inline swap parameters are required")
	}
	if o.Quote != nil && o.Inline != nil {
		return model.NewValidationError("swap quote and inline swap parameters are mutually exclusive")
	}
	return nil
}

// ExecutionStrategy submits a resolved swap on-chain. Implementations are
// selected by the caller's declared account kind, never by introspection.
type ExecutionStrategy interface {
	Execute(ctx context.Context, options SwapOptions) (*ExecutionResult, error)
}

// TransactionSigner is the collaborator surface the EOA strategy needs: a
// plain typed-data signature plus sign-and-send submission.
type TransactionSigner interface {
	SignTypedData(ctx context.Context, address common.Address, typed apitypes.TypedData, idempotencyKey string) (string, error)
	SendTransaction(ctx context.Context, address common.Address, tx *types.Transaction, network string, idempotencyKey string) (string, error)
}

// OperationSender submits a batched call set for a smart account.
type OperationSender interface {
	Send(ctx context.Context, smartAccount common.Address, owner common.Address, network string, calls []useroperation.Call, paymasterURL string, idempotencyKey string) (*useroperation.UserOperation, error)
}

// OperationGetter reads back the state of a submitted user operation.
type OperationGetter interface {
	Get(ctx context.Context, smartAccount common.Address, userOpHash string) (*useroperation.UserOperation, error)
}

// quoteID fingerprints a swap's defining parameters: sha256 over the
// components joined with ":", truncated to 16 hex characters. Used for
// correlation and logging, never authorization.
func quoteID(components ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(components, ":")))
	return hex.EncodeToString(sum[:])[:quoteIDLength]
}
