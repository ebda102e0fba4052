package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
)

const emptyPortfolioError = "No portfolio data available"

// Aggregator reduces an enriched portfolio to an analytics summary.
type Aggregator struct {
	log *logrus.Logger
}

func NewAggregator(log *logrus.Logger) *Aggregator {
	return &Aggregator{log: log}
}

// BuildSummary runs the two-pass aggregation over enriched holdings.
//
// Pass one accumulates totals at full precision, counts winners (gain > 0)
// and losers (gain < 0, zero gain in neither bucket) and tracks best/worst
// performer by change percent with strict comparisons, so on an exact tie
// the earliest-seen holding is retained. Pass two assigns portfolio weights
// once total value is known. Rounding to two decimal places happens only
// when the summary is assembled.
//
// Empty input yields the sentinel summary: Error set, every total zero.
func (a *Aggregator) BuildSummary(holdings []models.Holding) models.AnalyticsSummary {
	now := time.Now().UTC().Format(time.RFC3339)
	if len(holdings) == 0 {
		return models.AnalyticsSummary{
			Timestamp:      now,
			Error:          emptyPortfolioError,
			TopHoldings:    []models.StockPerformance{},
			StockBreakdown: []models.StockPerformance{},
			RiskMetrics:    models.RiskMetrics{ConcentrationRisk: "Low"},
		}
	}

	var totalValue, totalInvestment, totalGainLoss float64
	var winning, losing int
	var best, worst *models.StockPerformance
	breakdown := make([]models.StockPerformance, 0, len(holdings))

	for _, h := range holdings {
		if !finite(h.Quantity) || !finite(h.BuyPrice) || !finite(h.Value) || !finite(h.Gain) {
			a.log.Warnf("excluding holding %s from analytics: non-finite figures", h.Ticker)
			continue
		}

		totalValue += h.Value
		totalInvestment += h.BuyPrice * h.Quantity
		totalGainLoss += h.Gain

		if h.Gain > 0 {
			winning++
		} else if h.Gain < 0 {
			losing++
		}

		perf := models.StockPerformance{
			Ticker:        h.Ticker,
			GainLoss:      h.Gain,
			ChangePercent: parseChangePercent(h.ChangePercent),
			Value:         h.Value,
		}
		if best == nil || perf.ChangePercent > best.ChangePercent {
			cp := perf
			best = &cp
		}
		if worst == nil || perf.ChangePercent < worst.ChangePercent {
			cp := perf
			worst = &cp
		}
		breakdown = append(breakdown, perf)
	}

	count := len(breakdown)
	if count == 0 {
		return models.AnalyticsSummary{
			Timestamp:      now,
			Error:          emptyPortfolioError,
			TopHoldings:    []models.StockPerformance{},
			StockBreakdown: []models.StockPerformance{},
			RiskMetrics:    models.RiskMetrics{ConcentrationRisk: "Low"},
		}
	}

	for i := range breakdown {
		if totalValue > 0 {
			breakdown[i].Weight = breakdown[i].Value / totalValue * 100
		}
	}

	// Risk classification uses the unrounded weights; the High check must
	// run before the Medium check.
	var largestWeight float64
	risk := "Low"
	for _, s := range breakdown {
		if s.Weight > largestWeight {
			largestWeight = s.Weight
		}
	}
	for _, s := range breakdown {
		if s.Weight > 20 {
			risk = "High"
			break
		}
	}
	if risk == "Low" {
		for _, s := range breakdown {
			if s.Weight > 10 {
				risk = "Medium"
				break
			}
		}
	}

	top := make([]models.StockPerformance, len(breakdown))
	copy(top, breakdown)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Value > top[j].Value })
	if len(top) > 5 {
		top = top[:5]
	}

	var totalGainLossPercent float64
	if totalInvestment > 0 {
		totalGainLossPercent = totalGainLoss / totalInvestment * 100
	}
	avgPositionSize := totalValue / float64(count)
	winRate := float64(winning) / float64(count) * 100

	for i := range breakdown {
		breakdown[i].Weight = round2(breakdown[i].Weight)
	}
	for i := range top {
		top[i].Weight = round2(top[i].Weight)
	}

	return models.AnalyticsSummary{
		Timestamp: now,
		PortfolioOverview: models.PortfolioOverview{
			TotalStocks:          count,
			TotalValue:           round2(totalValue),
			TotalInvestment:      round2(totalInvestment),
			TotalGainLoss:        round2(totalGainLoss),
			TotalGainLossPercent: round2(totalGainLossPercent),
			AvgPositionSize:      round2(avgPositionSize),
		},
		PerformanceMetrics: models.PerformanceMetrics{
			WinningStocks:  winning,
			LosingStocks:   losing,
			WinRate:        round2(winRate),
			BestPerformer:  best,
			WorstPerformer: worst,
		},
		TopHoldings:    top,
		StockBreakdown: breakdown,
		RiskMetrics: models.RiskMetrics{
			LargestPositionWeight: round2(largestWeight),
			ConcentrationRisk:     risk,
		},
	}
}

// parseChangePercent reads a change percent that may carry a trailing "%".
// Unparseable input coerces to 0 rather than erroring.
func parseChangePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
