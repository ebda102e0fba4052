package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
)

// Enricher recomputes each holding's value and gain against a fresh quote.
type Enricher struct {
	quotes QuoteProvider
	log    *logrus.Logger
}

func NewEnricher(quotes QuoteProvider, log *logrus.Logger) *Enricher {
	return &Enricher{quotes: quotes, log: log}
}

// Enrich fetches a quote per holding, serially in holding order, and returns
// the refreshed records. A holding is dropped, never zero-filled, when it is
// malformed or when no price can be obtained at all; a failed quote falls back
// to the cached price when one exists. Currency figures are rounded to two
// decimal places.
func (e *Enricher) Enrich(ctx context.Context, holdings []models.Holding) []models.Holding {
	res := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Ticker == "" || h.Quantity < 0 || h.BuyPrice < 0 {
			e.log.Warnf("skipping malformed holding id=%d ticker=%q quantity=%v buy_price=%v", h.ID, h.Ticker, h.Quantity, h.BuyPrice)
			continue
		}

		var price float64
		quote, err := e.quotes.GetQuote(ctx, h.Ticker)
		switch {
		case err == nil && quote.Price > 0:
			price = quote.Price
			h.ChangePercent = quote.ChangePercent
		case h.CurrentPrice > 0:
			e.log.Warnf("quote for %s unavailable, using cached price: %v", h.Ticker, err)
			price = h.CurrentPrice
		default:
			e.log.Warnf("skipping %s: no quote and no cached price: %v", h.Ticker, err)
			continue
		}

		h.CurrentPrice = price
		h.Value = round2(price * h.Quantity)
		h.Gain = round2((price - h.BuyPrice) * h.Quantity)
		res = append(res, h)
	}
	return res
}
