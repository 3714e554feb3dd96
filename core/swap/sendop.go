package swap

import (
	"context"

	"go.uber.org/zap"

	"github.com/avakit/swapcore/core/chainio/walletsig"
	"github.com/avakit/swapcore/core/useroperation"
	"github.com/avakit/swapcore/model"
	"github.com/avakit/swapcore/pkg/idempotency"
)

// SmartAccountStrategy executes swaps through a contract wallet as a single
// batched user operation. The wallet validates signatures via
// isValidSignature, so a required Permit2 signature goes through the full
// replay-safe sign-and-wrap flow with the wallet's first owner.
type SmartAccountStrategy struct {
	quotes  *Service
	signer  walletsig.TypedDataSigner
	ops     OperationSender
	account *model.SmartAccount

	// paymasterURL sponsors gas when the quote context does not carry one.
	paymasterURL string
	logger       *zap.Logger
}

func NewSmartAccountStrategy(
	quotes *Service,
	signer walletsig.TypedDataSigner,
	ops OperationSender,
	account *model.SmartAccount,
	paymasterURL string,
	logger *zap.Logger,
) *SmartAccountStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SmartAccountStrategy{
		quotes:       quotes,
		signer:       signer,
		ops:          ops,
		account:      account,
		paymasterURL: paymasterURL,
		logger:       logger,
	}
}

func (s *SmartAccountStrategy) Execute(ctx context.Context, options SwapOptions) (*ExecutionResult, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}

	owner, err := s.account.OwnerAt(0)
	if err != nil {
		return nil, err
	}

	executable := options.Quote
	if options.Inline != nil {
		executable, err = s.createInlineQuote(ctx, options, owner.Address.Hex())
		if err != nil {
			return nil, err
		}
	}

	quote := executable.Quote

	chainID := ChainID(quote.Network)
	if chainID == 0 {
		return nil, model.NewValidationError("unsupported network: %s", quote.Network)
	}

	calldata := quote.Data
	if quote.RequiresSignature && quote.Permit2 != nil {
		permit2Key := ""
		if options.IdempotencyKey != "" {
			permit2Key = idempotency.Derive(options.IdempotencyKey, "permit2")
		}

		wrapped, err := walletsig.SignAndWrap(ctx, s.signer, s.account, chainID, quote.Permit2.EIP712, 0, permit2Key)
		if err != nil {
			s.quotes.telemetry.ReportError(ctx, "send_swap_operation", err)
			return nil, err
		}

		calldata = SpliceSignature(quote.Data, wrapped)
	}

	paymasterURL := s.paymasterURL
	if executable.Context != nil && executable.Context.PaymasterURL != "" {
		paymasterURL = executable.Context.PaymasterURL
	}

	call := useroperation.Call{
		To:    quote.To,
		Data:  calldata,
		Value: quote.Value,
	}

	op, err := s.ops.Send(ctx, s.account.Address, owner.Address, quote.Network, []useroperation.Call{call}, paymasterURL, options.IdempotencyKey)
	if err != nil {
		s.quotes.telemetry.ReportError(ctx, "send_swap_operation", err)
		return nil, err
	}

	s.quotes.metrics.IncSwapsSubmitted("smart_account")
	s.logger.Info("swap user operation submitted",
		zap.String("quote_id", quote.QuoteID),
		zap.String("user_op_hash", op.UserOpHash),
		zap.String("status", op.Status))

	return &ExecutionResult{
		UserOpHash:          op.UserOpHash,
		SmartAccountAddress: s.account.Address.Hex(),
		Status:              op.Status,
	}, nil
}

func (s *SmartAccountStrategy) createInlineQuote(ctx context.Context, options SwapOptions, signerAddress string) (*ExecutableQuote, error) {
	quoteKey := ""
	if options.IdempotencyKey != "" {
		quoteKey = idempotency.Derive(options.IdempotencyKey, "quote")
	}

	taker := options.Inline.Taker
	if taker == "" {
		// the wallet itself takes the swap unless the caller says otherwise
		taker = s.account.Address.Hex()
	}

	result, err := s.quotes.CreateQuote(ctx, QuoteRequest{
		FromToken:      options.Inline.FromToken,
		ToToken:        options.Inline.ToToken,
		FromAmount:     options.Inline.FromAmount,
		Network:        options.Inline.Network,
		Taker:          taker,
		SlippageBps:    options.Inline.SlippageBps,
		SignerAddress:  signerAddress,
		SmartAccount:   s.account,
		PaymasterURL:   s.paymasterURL,
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
