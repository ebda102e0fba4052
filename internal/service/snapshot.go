package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/database"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
)

// SnapshotStore is the slice of the holding store the scheduler needs.
type SnapshotStore interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
	ListHoldings(ctx context.Context, userID int64) ([]database.HoldingRow, error)
	SaveSnapshot(ctx context.Context, userID int64, date time.Time, summary []byte) error
}

// Snapshotter persists a daily analytics summary per user.
type Snapshotter struct {
	store    SnapshotStore
	enricher *Enricher
	agg      *Aggregator
	log      *logrus.Logger
	cron     *cron.Cron
}

func NewSnapshotter(store SnapshotStore, enricher *Enricher, agg *Aggregator, log *logrus.Logger) *Snapshotter {
	return &Snapshotter{store: store, enricher: enricher, agg: agg, log: log}
}

// Start schedules RunOnce on the given cron spec.
func (s *Snapshotter) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

func (s *Snapshotter) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce recomputes and upserts today's snapshot for every user. Per-user
// failures are logged and skipped; one bad portfolio never stops the sweep.
func (s *Snapshotter) RunOnce(ctx context.Context) {
	users, err := s.store.ListUserIDs(ctx)
	if err != nil {
		s.log.Errorf("snapshot sweep: list users failed: %v", err)
		return
	}
	for _, userID := range users {
		if err := s.snapshotUser(ctx, userID); err != nil {
			s.log.Warnf("snapshot for user %d failed: %v", userID, err)
		}
	}
}

func (s *Snapshotter) snapshotUser(ctx context.Context, userID int64) error {
	rows, err := s.store.ListHoldings(ctx, userID)
	if err != nil {
		return err
	}
	holdings := make([]models.Holding, 0, len(rows))
	for _, row := range rows {
		holdings = append(holdings, row.Model())
	}

	summary := s.agg.BuildSummary(s.enricher.Enrich(ctx, holdings))
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.store.SaveSnapshot(ctx, userID, time.Now().UTC(), b)
}
