package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when the requested user, session or holding
	// does not exist (or does not belong to the given user).
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned by CreateUser on a duplicate username.
	ErrUsernameTaken = errors.New("username already exists")
)

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func (r *Repo) CreateUser(ctx context.Context, username, passwordHash, firstName, lastName string) (int64, error) {
	var userID int64
	q := `INSERT INTO users (username, password_hash, first_name, last_name) VALUES ($1, $2, $3, $4) RETURNING user_id`
	if err := r.db.QueryRowContext(ctx, q, username, passwordHash, firstName, lastName).Scan(&userID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return userID, nil
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (UserRow, error) {
	var u UserRow
	err := r.db.GetContext(ctx, &u, `SELECT user_id, username, password_hash, first_name, last_name, last_login, created_at FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRow{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) TouchLogin(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = now() WHERE user_id = $1`, userID)
	return err
}

func (r *Repo) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	expires := time.Now().UTC().Add(ttl)
	if _, err := r.db.ExecContext(ctx, `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`, token, userID, expires); err != nil {
		return "", err
	}
	return token, nil
}

// GetSession resolves a session token. Expired sessions read as ErrNotFound
// and are removed.
func (r *Repo) GetSession(ctx context.Context, token string) (SessionRow, error) {
	if _, err := uuid.Parse(token); err != nil {
		return SessionRow{}, ErrNotFound
	}
	var s SessionRow
	err := r.db.GetContext(ctx, &s, `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRow{}, ErrNotFound
	}
	if err != nil {
		return SessionRow{}, err
	}
	if !s.ExpiresAt.After(time.Now().UTC()) {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
			r.log.Warnf("delete expired session failed: %v", err)
		}
		return SessionRow{}, ErrNotFound
	}
	return s, nil
}

// ExtendSession pushes an active session's expiry forward, so sessions stay
// alive for ttl past their last authenticated request.
func (r *Repo) ExtendSession(ctx context.Context, token string, ttl time.Duration) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET expires_at = $2 WHERE token = $1`, token, time.Now().UTC().Add(ttl))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteSession(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *Repo) ListHoldings(ctx context.Context, userID int64) ([]HoldingRow, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT id, user_id, ticker, quantity, buy_price, current_price, value, gain, change_percent, company_name, created_at, updated_at FROM holdings WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []HoldingRow{}
	for rows.Next() {
		var h HoldingRow
		if err := rows.StructScan(&h); err != nil {
			r.log.Warnf("scan holding failed: %v", err)
			continue
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

// AddHolding records a new lot. Re-buys of an existing ticker always append a
// new row; cost bases are never merged or averaged.
func (r *Repo) AddHolding(ctx context.Context, userID int64, ticker string, quantity, buyPrice decimal.Decimal) (HoldingRow, error) {
	var h HoldingRow
	q := `INSERT INTO holdings (user_id, ticker, quantity, buy_price) VALUES ($1, $2, $3::numeric, $4::numeric)
	      RETURNING id, user_id, ticker, quantity, buy_price, current_price, value, gain, change_percent, company_name, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, q, userID, ticker, quantity.String(), buyPrice.String()).StructScan(&h); err != nil {
		return HoldingRow{}, err
	}
	return h, nil
}

func (r *Repo) UpdateHolding(ctx context.Context, userID, id int64, quantity, buyPrice *decimal.Decimal) (HoldingRow, error) {
	var qv, bv interface{}
	if quantity != nil {
		qv = quantity.String()
	}
	if buyPrice != nil {
		bv = buyPrice.String()
	}
	var h HoldingRow
	q := `UPDATE holdings SET quantity = COALESCE($3::numeric, quantity), buy_price = COALESCE($4::numeric, buy_price), updated_at = now()
	      WHERE user_id = $1 AND id = $2
	      RETURNING id, user_id, ticker, quantity, buy_price, current_price, value, gain, change_percent, company_name, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, userID, id, qv, bv).StructScan(&h)
	if errors.Is(err, sql.ErrNoRows) {
		return HoldingRow{}, ErrNotFound
	}
	if err != nil {
		return HoldingRow{}, err
	}
	return h, nil
}

// DeleteHolding removes one lot and returns its ticker.
func (r *Repo) DeleteHolding(ctx context.Context, userID, id int64) (string, error) {
	var ticker string
	err := r.db.QueryRowContext(ctx, `DELETE FROM holdings WHERE user_id = $1 AND id = $2 RETURNING ticker`, userID, id).Scan(&ticker)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return ticker, err
}

// UpdateHoldingQuote writes back the enrichment cache for one holding.
func (r *Repo) UpdateHoldingQuote(ctx context.Context, id int64, price, value, gain decimal.Decimal, changePercent, companyName string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE holdings SET current_price = $2::numeric, value = $3::numeric, gain = $4::numeric, change_percent = $5, company_name = $6, updated_at = now() WHERE id = $1`,
		id, price.String(), value.String(), gain.String(), changePercent, companyName)
	return err
}

func (r *Repo) SaveSnapshot(ctx context.Context, userID int64, date time.Time, summary []byte) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO analytics_snapshots (user_id, snapshot_date, summary) VALUES ($1, $2, $3)
	    ON CONFLICT (user_id, snapshot_date) DO UPDATE SET summary = EXCLUDED.summary`,
		userID, date.UTC().Format("2006-01-02"), summary)
	return err
}

func (r *Repo) ListSnapshots(ctx context.Context, userID int64) ([]SnapshotRow, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT user_id, snapshot_date, summary, created_at FROM analytics_snapshots WHERE user_id = $1 ORDER BY snapshot_date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []SnapshotRow{}
	for rows.Next() {
		var s SnapshotRow
		if err := rows.StructScan(&s); err != nil {
			r.log.Warnf("scan snapshot failed: %v", err)
			continue
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *Repo) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT user_id FROM users ORDER BY user_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			r.log.Warnf("scan user id failed: %v", err)
			continue
		}
		res = append(res, id)
	}
	return res, rows.Err()
}
