package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/database"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/service"
)

// Store is the holding-store contract the HTTP surface depends on; the
// single implementation is database.Repo.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash, firstName, lastName string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (database.UserRow, error)
	TouchLogin(ctx context.Context, userID int64) error
	CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	GetSession(ctx context.Context, token string) (database.SessionRow, error)
	ExtendSession(ctx context.Context, token string, ttl time.Duration) error
	DeleteSession(ctx context.Context, token string) error
	ListHoldings(ctx context.Context, userID int64) ([]database.HoldingRow, error)
	AddHolding(ctx context.Context, userID int64, ticker string, quantity, buyPrice decimal.Decimal) (database.HoldingRow, error)
	UpdateHolding(ctx context.Context, userID, id int64, quantity, buyPrice *decimal.Decimal) (database.HoldingRow, error)
	DeleteHolding(ctx context.Context, userID, id int64) (string, error)
	UpdateHoldingQuote(ctx context.Context, id int64, price, value, gain decimal.Decimal, changePercent, companyName string) error
	SaveSnapshot(ctx context.Context, userID int64, date time.Time, summary []byte) error
	ListSnapshots(ctx context.Context, userID int64) ([]database.SnapshotRow, error)
}

type Handler struct {
	store    Store
	quotes   service.QuoteProvider
	enricher *service.Enricher
	agg      *service.Aggregator
	log      *logrus.Logger
}

func NewHandler(store Store, quotes service.QuoteProvider, enricher *service.Enricher, agg *service.Aggregator, log *logrus.Logger) *Handler {
	return &Handler{store: store, quotes: quotes, enricher: enricher, agg: agg, log: log}
}

// flexNumber accepts a JSON number or a numeric string.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexNumber(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable amount.
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid number %q", s)
		}
		*f = flexNumber(v)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into number", string(data))
}

type addInvestmentRequest struct {
	Ticker   string      `json:"ticker"`
	Quantity *flexNumber `json:"quantity"`
	BuyPrice *flexNumber `json:"buy_price"`
}

type updateInvestmentRequest struct {
	Quantity *flexNumber `json:"quantity"`
	BuyPrice *flexNumber `json:"buy_price"`
}

// ListPortfolio returns the user's holdings enriched with fresh quotes plus
// portfolio totals recomputed from the enriched records.
func (h *Handler) ListPortfolio(c *gin.Context) {
	uid := userID(c)
	rows, err := h.store.ListHoldings(c.Request.Context(), uid)
	if err != nil {
		h.log.Errorf("list holdings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "query failed"})
		return
	}

	enriched := h.enrichAndCache(c.Request.Context(), rows)

	var totalValue, totalInvestment, totalGainLoss float64
	for _, e := range enriched {
		totalValue += e.Value
		totalInvestment += e.BuyPrice * e.Quantity
		totalGainLoss += e.Gain
	}
	c.JSON(http.StatusOK, gin.H{
		"holdings":         enriched,
		"total_value":      round2(totalValue),
		"total_investment": round2(totalInvestment),
		"total_gain_loss":  round2(totalGainLoss),
	})
}

// enrichAndCache converts rows to models, enriches them and writes the
// refreshed quote fields back as the holding cache. Write-back failures are
// logged, never surfaced.
func (h *Handler) enrichAndCache(ctx context.Context, rows []database.HoldingRow) []models.Holding {
	holdings := make([]models.Holding, 0, len(rows))
	for _, row := range rows {
		holdings = append(holdings, row.Model())
	}
	enriched := h.enricher.Enrich(ctx, holdings)
	for _, e := range enriched {
		err := h.store.UpdateHoldingQuote(ctx, e.ID,
			decimal.NewFromFloat(e.CurrentPrice),
			decimal.NewFromFloat(e.Value),
			decimal.NewFromFloat(e.Gain),
			e.ChangePercent, e.CompanyName)
		if err != nil {
			h.log.Warnf("quote write-back for holding %d failed: %v", e.ID, err)
		}
	}
	return enriched
}

// AddInvestment records a new lot. A re-buy of an existing ticker appends a
// new lot; cost bases are never averaged.
func (h *Handler) AddInvestment(c *gin.Context) {
	var req addInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid add-investment body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Parameters are not entered correctly, please try again."})
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ticker value"})
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantity value"})
		return
	}
	if req.BuyPrice == nil || *req.BuyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid buy_price value"})
		return
	}

	row, err := h.store.AddHolding(c.Request.Context(), userID(c), ticker,
		decimal.NewFromFloat(float64(*req.Quantity)),
		decimal.NewFromFloat(float64(*req.BuyPrice)))
	if err != nil {
		h.log.Errorf("add holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s added.", ticker), "holding": row.Model()})
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid investment id"})
		return
	}
	var req updateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid update-investment body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Parameters are not entered correctly, please try again."})
		return
	}
	if req.Quantity == nil && req.BuyPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantity value"})
		return
	}
	if req.BuyPrice != nil && *req.BuyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid buy_price value"})
		return
	}

	var qty, price *decimal.Decimal
	if req.Quantity != nil {
		d := decimal.NewFromFloat(float64(*req.Quantity))
		qty = &d
	}
	if req.BuyPrice != nil {
		d := decimal.NewFromFloat(float64(*req.BuyPrice))
		price = &d
	}

	row, err := h.store.UpdateHolding(c.Request.Context(), userID(c), id, qty, price)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Investment with ID %d not found", id)})
		return
	}
	if err != nil {
		h.log.Errorf("update holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Investment updated.", "holding": row.Model()})
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid investment id"})
		return
	}
	ticker, err := h.store.DeleteHolding(c.Request.Context(), userID(c), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Investment with ID %d not found", id)})
		return
	}
	if err != nil {
		h.log.Errorf("delete holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error occurred"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s removed.", ticker)})
}

// GetTicker returns a real-time quote for one symbol. Here a quote failure is
// the whole request failing, unlike enrichment where it only skips a holding.
func (h *Handler) GetTicker(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	quote, err := h.quotes.GetQuote(c.Request.Context(), ticker)
	if err != nil {
		h.log.Warnf("quote for %s failed: %v", ticker, err)
		var apiErr *service.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No data found for ticker."})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch stock data."})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) GetMarketTrends(c *gin.Context) {
	gainers, err := h.quotes.TopGainers(c.Request.Context())
	if err != nil {
		h.log.Warnf("market trends failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch market data."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_gainers": gainers})
}

// GetAnalytics computes the analytics summary for the user's portfolio and
// persists it as today's snapshot. Snapshot write-back is best effort: the
// summary is returned even when the save fails.
func (h *Handler) GetAnalytics(c *gin.Context) {
	uid := userID(c)
	rows, err := h.store.ListHoldings(c.Request.Context(), uid)
	if err != nil {
		h.log.Errorf("list holdings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "query failed"})
		return
	}

	enriched := h.enrichAndCache(c.Request.Context(), rows)
	summary := h.agg.BuildSummary(enriched)

	if b, err := json.Marshal(summary); err == nil {
		if err := h.store.SaveSnapshot(c.Request.Context(), uid, time.Now().UTC(), b); err != nil {
			h.log.Errorf("snapshot write-back failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetAnalyticsHistory(c *gin.Context) {
	rows, err := h.store.ListSnapshots(c.Request.Context(), userID(c))
	if err != nil {
		h.log.Errorf("list snapshots failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "query failed"})
		return
	}
	res := make([]models.AnalyticsSnapshot, 0, len(rows))
	for _, row := range rows {
		var sum models.AnalyticsSummary
		if err := json.Unmarshal(row.Summary, &sum); err != nil {
			h.log.Warnf("decode snapshot %s failed: %v", row.SnapshotDate.Format("2006-01-02"), err)
			continue
		}
		res = append(res, models.AnalyticsSnapshot{Date: row.SnapshotDate.Format("2006-01-02"), Summary: sum})
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": res})
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
