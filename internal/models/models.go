package models

import "time"

// Holding is one recorded stock lot in a user's portfolio. The quote-derived
// fields (current_price, value, gain, change_percent, company_name) are a
// cache of the last enrichment run and are recomputed whenever fresh quotes
// are available.
type Holding struct {
	ID            int64     `json:"id"`
	Ticker        string    `json:"ticker"`
	Quantity      float64   `json:"quantity"`
	BuyPrice      float64   `json:"buy_price"`
	CurrentPrice  float64   `json:"current_price"`
	Value         float64   `json:"value"`
	Gain          float64   `json:"gain"`
	ChangePercent string    `json:"change_percent"`
	CompanyName   string    `json:"company_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Quote is a point-in-time price snapshot for one ticker. ChangePercent is
// kept as delivered by the provider (e.g. "-1.25%"); consumers that need a
// number parse it leniently.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Open             float64 `json:"open"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	Price            float64 `json:"price"`
	Volume           int64   `json:"volume"`
	LatestTradingDay string  `json:"latest_trading_day"`
	PreviousClose    float64 `json:"previous_close"`
	Change           float64 `json:"change"`
	ChangePercent    string  `json:"change_percent"`
}

// MarketMover is one entry of the market-trends feed.
type MarketMover struct {
	Ticker           string  `json:"ticker"`
	Price            float64 `json:"price"`
	ChangeAmount     float64 `json:"change_amount"`
	ChangePercentage string  `json:"change_percentage"`
	Volume           int64   `json:"volume"`
}

// StockPerformance is the per-holding row of the analytics breakdown.
// Weight is the holding's share of total portfolio value in percent.
type StockPerformance struct {
	Ticker        string  `json:"ticker"`
	GainLoss      float64 `json:"gain_loss"`
	ChangePercent float64 `json:"change_percent"`
	Value         float64 `json:"value"`
	Weight        float64 `json:"weight"`
}

type PortfolioOverview struct {
	TotalStocks          int     `json:"total_stocks"`
	TotalValue           float64 `json:"total_value"`
	TotalInvestment      float64 `json:"total_investment"`
	TotalGainLoss        float64 `json:"total_gain_loss"`
	TotalGainLossPercent float64 `json:"total_gain_loss_percent"`
	AvgPositionSize      float64 `json:"avg_position_size"`
}

type PerformanceMetrics struct {
	WinningStocks  int               `json:"winning_stocks"`
	LosingStocks   int               `json:"losing_stocks"`
	WinRate        float64           `json:"win_rate"`
	BestPerformer  *StockPerformance `json:"best_performer"`
	WorstPerformer *StockPerformance `json:"worst_performer"`
}

type RiskMetrics struct {
	LargestPositionWeight float64 `json:"largest_position_weight"`
	ConcentrationRisk     string  `json:"concentration_risk"`
}

// AnalyticsSummary is the full analytics view of one portfolio. An empty
// portfolio yields the sentinel form: Error set, all totals zero.
type AnalyticsSummary struct {
	Timestamp          string             `json:"timestamp"`
	Error              string             `json:"error,omitempty"`
	PortfolioOverview  PortfolioOverview  `json:"portfolio_overview"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
	TopHoldings        []StockPerformance `json:"top_holdings"`
	StockBreakdown     []StockPerformance `json:"stock_breakdown"`
	RiskMetrics        RiskMetrics        `json:"risk_metrics"`
}

// AnalyticsSnapshot is one persisted daily summary.
type AnalyticsSnapshot struct {
	Date    string           `json:"date"`
	Summary AnalyticsSummary `json:"summary"`
}
