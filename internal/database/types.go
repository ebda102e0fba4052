package database

import (
	"database/sql"
	"time"

	sqlxtypes "github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
)

type UserRow struct {
	UserID       int64        `db:"user_id"`
	Username     string       `db:"username"`
	PasswordHash string       `db:"password_hash"`
	FirstName    string       `db:"first_name"`
	LastName     string       `db:"last_name"`
	LastLogin    sql.NullTime `db:"last_login"`
	CreatedAt    time.Time    `db:"created_at"`
}

type SessionRow struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// HoldingRow is the persisted form of a holding. Monetary columns are
// Postgres numeric and scanned as decimals; Model converts to the float
// representation the API and analytics work with.
type HoldingRow struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	Ticker        string          `db:"ticker"`
	Quantity      decimal.Decimal `db:"quantity"`
	BuyPrice      decimal.Decimal `db:"buy_price"`
	CurrentPrice  decimal.Decimal `db:"current_price"`
	Value         decimal.Decimal `db:"value"`
	Gain          decimal.Decimal `db:"gain"`
	ChangePercent string          `db:"change_percent"`
	CompanyName   string          `db:"company_name"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (h HoldingRow) Model() models.Holding {
	return models.Holding{
		ID:            h.ID,
		Ticker:        h.Ticker,
		Quantity:      h.Quantity.InexactFloat64(),
		BuyPrice:      h.BuyPrice.InexactFloat64(),
		CurrentPrice:  h.CurrentPrice.InexactFloat64(),
		Value:         h.Value.InexactFloat64(),
		Gain:          h.Gain.InexactFloat64(),
		ChangePercent: h.ChangePercent,
		CompanyName:   h.CompanyName,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

type SnapshotRow struct {
	UserID       int64              `db:"user_id"`
	SnapshotDate time.Time          `db:"snapshot_date"`
	Summary      sqlxtypes.JSONText `db:"summary"`
	CreatedAt    time.Time          `db:"created_at"`
}
