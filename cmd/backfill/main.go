package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/database"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/service"
)

// Recomputes yesterday's analytics snapshot for one user from the cached
// holding values, without hitting the quote provider.
func main() {
	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}
	if len(os.Args) < 2 {
		log.Fatal("usage: backfill <username>")
	}
	username := os.Args[1]

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	logger := logrus.New()
	repo := database.New(db, logger)
	agg := service.NewAggregator(logger)

	ctx := context.Background()
	user, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		log.Fatalf("user %s not found: %v", username, err)
	}

	rows, err := repo.ListHoldings(ctx, user.UserID)
	if err != nil {
		log.Fatalf("list holdings failed: %v", err)
	}
	holdings := make([]models.Holding, 0, len(rows))
	for _, row := range rows {
		holdings = append(holdings, row.Model())
	}

	summary := agg.BuildSummary(holdings)
	b, err := json.Marshal(summary)
	if err != nil {
		log.Fatalf("encode summary failed: %v", err)
	}

	targetDay := time.Now().UTC().AddDate(0, 0, -1)
	if err := repo.SaveSnapshot(ctx, user.UserID, targetDay, b); err != nil {
		log.Fatalf("save snapshot failed: %v", err)
	}

	fmt.Printf("Backfilled snapshot for %s on %s (total value %.2f)\n",
		username, targetDay.Format("2006-01-02"), summary.PortfolioOverview.TotalValue)
}
