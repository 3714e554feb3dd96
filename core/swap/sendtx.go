package swap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/avakit/swapcore/model"
	"github.com/avakit/swapcore/pkg/idempotency"
)

// EOAStrategy executes swaps from a plain externally-owned account. The
// Permit2 struct is signed as-is: EOA signatures are checked by ECDSA
// recovery on-chain, so no replay-safe wrapping applies.
type EOAStrategy struct {
	quotes  *Service
	signer  TransactionSigner
	account model.Account
	logger  *zap.Logger
}

func NewEOAStrategy(quotes *Service, signer TransactionSigner, account model.Account, logger *zap.Logger) *EOAStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EOAStrategy{quotes: quotes, signer: signer, account: account, logger: logger}
}

func (s *EOAStrategy) Execute(ctx context.Context, options SwapOptions) (*ExecutionResult, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}

	executable := options.Quote
	if options.Inline != nil {
		if options.Inline.Taker == "" {
			return nil, model.NewValidationError("taker is required for an inline swap")
		}

		var err error
		executable, err = s.createInlineQuote(ctx, options)
		if err != nil {
			return nil, err
		}
	}

	quote := executable.Quote

	permit2Signature := ""
	if quote.RequiresSignature && quote.Permit2 != nil {
		permit2Key := ""
		if options.IdempotencyKey != "" {
			permit2Key = idempotency.Derive(options.IdempotencyKey, "permit2")
		}

		var err error
		permit2Signature, err = s.signer.SignTypedData(ctx, s.account.Address, quote.Permit2.EIP712, permit2Key)
		if err != nil {
			s.quotes.telemetry.ReportError(ctx, "send_swap_transaction", err)
			return nil, err
		}
	}

	calldata := SpliceSignature(quote.Data, permit2Signature)

	tx, err := buildSwapTransaction(&quote, calldata)
	if err != nil {
		return nil, err
	}

	txHash, err := s.signer.SendTransaction(ctx, s.account.Address, tx, quote.Network, options.IdempotencyKey)
	if err != nil {
		s.quotes.telemetry.ReportError(ctx, "send_swap_transaction", err)
		return nil, err
	}

	s.quotes.metrics.IncSwapsSubmitted("eoa")
	s.logger.Info("swap transaction submitted",
		zap.String("quote_id", quote.QuoteID),
		zap.String("tx_hash", txHash))

	return &ExecutionResult{TransactionHash: txHash}, nil
}

func (s *EOAStrategy) createInlineQuote(ctx context.Context, options SwapOptions) (*ExecutableQuote, error) {
	quoteKey := ""
	if options.IdempotencyKey != "" {
		quoteKey = idempotency.Derive(options.IdempotencyKey, "quote")
	}

	result, err := s.quotes.CreateQuote(ctx, QuoteRequest{
		FromToken:      options.Inline.FromToken,
		ToToken:        options.Inline.ToToken,
		FromAmount:     options.Inline.FromAmount,
		Network:        options.Inline.Network,
		Taker:          options.Inline.Taker,
		SlippageBps:    options.Inline.SlippageBps,
		IdempotencyKey: quoteKey,
	})
	if err != nil {
		return nil, err
	}
	if result.Unavailable != nil {
		return nil, ErrLiquidityUnavailable
	}

	return result.Quote, nil
}

// buildSwapTransaction turns a quote plus final calldata into an unsigned
// EIP-1559 request. Gas and fee fields come from the quote untouched; the
// submission service fills the nonce from chain state.
func buildSwapTransaction(quote *SwapQuote, calldataHex string) (*types.Transaction, error) {
	to := common.HexToAddress(quote.To)

	value, err := parseAmount(quote.Value)
	if err != nil {
		return nil, &InvalidResponseError{Operation: "create swap API", Err: fmt.Errorf("bad transaction value %q", quote.Value)}
	}

	inner := &types.DynamicFeeTx{
		ChainID: big.NewInt(ChainID(quote.Network)),
		To:      &to,
		Value:   value,
		Gas:     quote.GasLimit,
		Data:    common.FromHex(calldataHex),
		V:       new(big.Int),
		R:       new(big.Int),
		S:       new(big.Int),
	}

	if quote.MaxFeePerGas != "" {
		if inner.GasFeeCap, err = parseAmount(quote.MaxFeePerGas); err != nil {
			return nil, &InvalidResponseError{Operation: "create swap API", Err: fmt.Errorf("bad maxFeePerGas %q", quote.MaxFeePerGas)}
		}
	}
	if quote.MaxPriorityFeePerGas != "" {
		if inner.GasTipCap, err = parseAmount(quote.MaxPriorityFeePerGas); err != nil {
			return nil, &InvalidResponseError{Operation: "create swap API", Err: fmt.Errorf("bad maxPriorityFeePerGas %q", quote.MaxPriorityFeePerGas)}
		}
	}

	return types.NewTx(inner), nil
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a base-10 integer: %q", s)
	}
	return v, nil
}
