package swap

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avakit/swapcore/model"
)

const priceExpiry = 5 * time.Minute

// PriceRequest asks for a non-binding price preview.
type PriceRequest struct {
	FromToken      string `validate:"required,eth_addr"`
	ToToken        string `validate:"required,eth_addr"`
	FromAmount     string `validate:"required,number"`
	Network        string `validate:"required,oneof=base ethereum"`
	Taker          string `validate:"required,eth_addr"`
	IdempotencyKey string `validate:"-"`
}

type priceResponse struct {
	LiquidityAvailable bool   `json:"liquidityAvailable"`
	ToAmount           string `json:"toAmount"`
	FromAmount         string `json:"fromAmount"`
	FromToken          string `json:"fromToken"`
	ToToken            string `json:"toToken"`
}

// GetPrice fetches a price estimate. No liquidity is an error on this path,
// unlike CreateQuote; display callers want a single failure channel.
func (s *Service) GetPrice(ctx context.Context, req PriceRequest) (*PriceEstimate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, model.NewValidationError("invalid price request: %v", err)
	}

	query := url.Values{}
	query.Set("network", req.Network)
	query.Set("fromToken", req.FromToken)
	query.Set("toToken", req.ToToken)
	query.Set("fromAmount", req.FromAmount)
	query.Set("taker", req.Taker)

	s.metrics.IncPricesRequested()

	raw, err := s.transport.Do(ctx, http.MethodGet, "/v2/evm/swaps/price?"+query.Encode(), req.IdempotencyKey, nil)
	if err != nil {
		s.telemetry.ReportError(ctx, "get_swap_price", err)
		return nil, err
	}

	var resp priceResponse
	if err := decodeResponse(raw, "swap price API", &resp); err != nil {
		s.telemetry.ReportError(ctx, "get_swap_price", err)
		return nil, err
	}

	if !resp.LiquidityAvailable {
		s.metrics.IncLiquidityMiss("price")
		return nil, ErrLiquidityUnavailable
	}

	if resp.ToAmount == "" {
		return nil, &InvalidResponseError{Operation: "swap price API", Err: errMissingToAmount}
	}

	s.logger.Debug("price estimate received",
		zap.String("from_token", req.FromToken),
		zap.String("to_token", req.ToToken),
		zap.String("to_amount", resp.ToAmount))

	return &PriceEstimate{
		QuoteID:    quoteID(req.FromToken, req.ToToken, req.FromAmount, resp.ToAmount),
		FromToken:  req.FromToken,
		ToToken:    req.ToToken,
		FromAmount: req.FromAmount,
		ToAmount:   resp.ToAmount,
		PriceRatio: priceRatio(resp.ToAmount, req.FromAmount),
		ExpiresAt:  time.Now().UTC().Add(priceExpiry),
	}, nil
}

// priceRatio is toAmount / fromAmount as an exact decimal string, "0" when
// the denominator is zero or either side fails to parse.
func priceRatio(toAmount string, fromAmount string) string {
	from, err := decimal.NewFromString(fromAmount)
	if err != nil || from.IsZero() {
		return "0"
	}
	to, err := decimal.NewFromString(toAmount)
	if err != nil {
		return "0"
	}
	return to.DivRound(from, 18).String()
}
