package swap

import (
	"context"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"

	"github.com/avakit/swapcore/model"
	"github.com/avakit/swapcore/pkg/bps"
)

// QuoteRequest asks for a binding, executable swap quote.
type QuoteRequest struct {
	FromToken  string `validate:"required,eth_addr"`
	ToToken    string `validate:"required,eth_addr"`
	FromAmount string `validate:"required,number"`
	Network    string `validate:"required,oneof=base ethereum"`
	Taker      string `validate:"required,eth_addr"`

	// SlippageBps defaults to DefaultSlippageBps when nil. Range [0,10000].
	SlippageBps *int

	// Identifying parameters. When supplied the resulting quote carries an
	// ExecutionContext so it can be executed later without restating them.
	SignerAddress string `validate:"omitempty,eth_addr"`
	SmartAccount  *model.SmartAccount
	PaymasterURL  string `validate:"omitempty,url"`

	IdempotencyKey string `validate:"-"`
}

type quoteTransaction struct {
	To                   string `json:"to"`
	Data                 string `json:"data"`
	Value                string `json:"value"`
	Gas                  string `json:"gas"`
	GasPrice             string `json:"gasPrice"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
}

type quotePermit2 struct {
	EIP712 apitypes.TypedData `json:"eip712"`
	Hash   string             `json:"hash"`
}

type quoteResponse struct {
	LiquidityAvailable bool              `json:"liquidityAvailable"`
	FromToken          string            `json:"fromToken"`
	ToToken            string            `json:"toToken"`
	FromAmount         string            `json:"fromAmount"`
	ToAmount           string            `json:"toAmount"`
	MinToAmount        string            `json:"minToAmount"`
	Transaction        *quoteTransaction `json:"transaction"`
	Permit2            *quotePermit2     `json:"permit2"`
}

// CreateQuote obtains an executable quote from the aggregator. No liquidity
// is NOT an error here: the result carries a tagged SwapUnavailable value
// instead, so callers can distinguish "no route" from real failures without
// unwrapping error chains.
func (s *Service) CreateQuote(ctx context.Context, req QuoteRequest) (*CreateQuoteResult, error) {
	if req.Taker == "" {
		return nil, model.NewValidationError("taker is required to create a swap quote")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, model.NewValidationError("invalid quote request: %v", err)
	}

	slippageBps := DefaultSlippageBps
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}
	if err := bps.Validate(slippageBps); err != nil {
		return nil, model.NewValidationError("%v", err)
	}

	body := map[string]interface{}{
		"network":     req.Network,
		"fromToken":   req.FromToken,
		"toToken":     req.ToToken,
		"fromAmount":  req.FromAmount,
		"taker":       req.Taker,
		"slippageBps": slippageBps,
	}
	if req.SignerAddress != "" {
		body["signerAddress"] = req.SignerAddress
	}

	raw, err := s.transport.Do(ctx, http.MethodPost, "/v2/evm/swaps", req.IdempotencyKey, body)
	if err != nil {
		s.telemetry.ReportError(ctx, "create_swap_quote", err)
		return nil, err
	}

	var resp quoteResponse
	if err := decodeResponse(raw, "create swap API", &resp); err != nil {
		s.telemetry.ReportError(ctx, "create_swap_quote", err)
		return nil, err
	}

	if !resp.LiquidityAvailable {
		s.metrics.IncLiquidityMiss("quote")
		s.logger.Debug("no liquidity for pair",
			zap.String("from_token", req.FromToken),
			zap.String("to_token", req.ToToken),
			zap.String("network", req.Network))
		return &CreateQuoteResult{Unavailable: &SwapUnavailable{LiquidityAvailable: false}}, nil
	}

	if resp.Transaction == nil {
		return nil, &InvalidResponseError{Operation: "create swap API", Err: errMissingTransaction}
	}

	// the aggregator normally supplies the slippage floor; derive it from
	// the quoted amount when it is absent
	minToAmount := resp.MinToAmount
	if minToAmount == "" {
		if to, ok := new(big.Int).SetString(resp.ToAmount, 10); ok {
			if floor, err := bps.MinAmountAfterSlippage(to, slippageBps); err == nil {
				minToAmount = floor.String()
			}
		}
	}

	quote := SwapQuote{
		QuoteID:              quoteID(req.FromToken, req.ToToken, req.FromAmount, resp.ToAmount, req.Network),
		FromToken:            req.FromToken,
		ToToken:              req.ToToken,
		FromAmount:           req.FromAmount,
		ToAmount:             resp.ToAmount,
		MinToAmount:          minToAmount,
		Network:              req.Network,
		To:                   resp.Transaction.To,
		Data:                 resp.Transaction.Data,
		Value:                valueOrZero(resp.Transaction.Value),
		GasPrice:             resp.Transaction.GasPrice,
		MaxFeePerGas:         resp.Transaction.MaxFeePerGas,
		MaxPriorityFeePerGas: resp.Transaction.MaxPriorityFeePerGas,
	}

	if resp.Transaction.Gas != "" {
		gas, err := strconv.ParseUint(resp.Transaction.Gas, 10, 64)
		if err != nil {
			return nil, &InvalidResponseError{Operation: "create swap API", Err: err}
		}
		quote.GasLimit = gas
	}

	if resp.Permit2 != nil && len(resp.Permit2.EIP712.Types) > 0 {
		quote.RequiresSignature = true
		quote.Permit2 = &Permit2Data{
			EIP712: resp.Permit2.EIP712,
			Hash:   resp.Permit2.Hash,
		}
	}

	s.metrics.IncQuotesCreated()
	s.logger.Info("swap quote created",
		zap.String("quote_id", quote.QuoteID),
		zap.String("network", quote.Network),
		zap.Bool("requires_signature", quote.RequiresSignature))

	execCtx := &ExecutionContext{
		Taker:        common.HexToAddress(req.Taker),
		SmartAccount: req.SmartAccount,
		PaymasterURL: req.PaymasterURL,
	}
	if req.SignerAddress != "" {
		execCtx.SignerAddress = common.HexToAddress(req.SignerAddress)
	}

	return &CreateQuoteResult{
		Quote: &ExecutableQuote{Quote: quote, Context: execCtx},
	}, nil
}

func valueOrZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
